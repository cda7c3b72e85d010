package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/ledger"
)

type receivablesLoadedMsg struct {
	rows []ledger.ReceivablesRow
	err  error
}

type receivablesModel struct {
	all      []ledger.ReceivablesRow
	rows     []ledger.ReceivablesRow
	openOnly bool
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
	now      func() time.Time
}

func (m *receivablesModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		rows, err := c.Receivables(context.Background())
		return receivablesLoadedMsg{rows: rows, err: err}
	}
}

func (m receivablesModel) update(msg tea.Msg) (receivablesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case receivablesLoadedMsg:
		m.loading = false
		m.all = msg.rows
		m.err = msg.err
		m.filter()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = moveCursor(m.cursor, len(m.rows), true)
		case key.Matches(msg, keys.Down):
			m.cursor = moveCursor(m.cursor, len(m.rows), false)
		case key.Matches(msg, keys.OpenOnly):
			m.openOnly = !m.openOnly
			m.filter()
		}
	}
	return m, nil
}

// filter hides paid invoices and undelivered deals when openOnly is set.
func (m *receivablesModel) filter() {
	if !m.openOnly {
		m.rows = m.all
	} else {
		var open []ledger.ReceivablesRow
		for _, r := range m.all {
			if r.DeliveryID != "" && r.Status != ledger.StatusPaid {
				open = append(open, r)
			}
		}
		m.rows = open
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

// selected returns the delivery under the cursor, if it has one.
func (m *receivablesModel) selected() (ledger.ReceivablesRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].DeliveryID == "" {
		return ledger.ReceivablesRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *receivablesModel) overdue(r ledger.ReceivablesRow) bool {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	return r.DueDate != nil && r.OutstandingBalance > ledger.SettlementTolerance && now().After(*r.DueDate)
}

func (m *receivablesModel) view() string {
	if m.loading {
		return "Loading receivables..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	title := "Receivables"
	if m.openOnly {
		title += " (open invoices)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("Nothing to show."))
		return b.String()
	}

	header := fmt.Sprintf("  %-12s %-18s %-10s %10s %10s %-14s %14s %14s %-10s %s",
		"DEAL", "CUSTOMER", "DELIVERED", "QTY", "STOCK", "INVOICE", "INVOICED", "OUTSTANDING", "DUE", "STATUS")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := window(m.cursor, len(m.rows), m.height)
	for i := start; i < end; i++ {
		r := m.rows[i]
		delivered, due := "-", "-"
		if r.DeliveryDate != nil {
			delivered = r.DeliveryDate.Format(ledger.DateLayout)
		}
		if r.DueDate != nil {
			due = r.DueDate.Format(ledger.DateLayout)
		}
		line := fmt.Sprintf("  %-12s %-18s %-10s %10s %10s %-14s %14s %14s %-10s %s",
			truncate(r.DealID, 12), truncate(r.CustomerName, 18), delivered,
			r.DeliveredQuantity.StringFixed(2), r.OutstandingStock.StringFixed(2),
			truncate(r.InvoiceNumber, 14), amount(r.InvoiceAmount), amount(r.OutstandingBalance), due, r.Status)
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		case m.overdue(r):
			b.WriteString(overdueStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	var outstanding ledger.Money
	for _, r := range m.rows {
		outstanding += r.OutstandingBalance
	}
	b.WriteString(fmt.Sprintf("\n  %d rows, %s outstanding", len(m.rows), outstanding))

	return b.String()
}
