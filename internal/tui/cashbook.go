package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/ledger"
)

type cashBookLoadedMsg struct {
	entries []ledger.CashBookEntry
	err     error
}

type cashBookModel struct {
	entries []ledger.CashBookEntry
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *cashBookModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		entries, err := c.CashBook(context.Background(), 0)
		return cashBookLoadedMsg{entries: entries, err: err}
	}
}

func (m cashBookModel) update(msg tea.Msg) (cashBookModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cashBookLoadedMsg:
		m.loading = false
		m.entries = msg.entries
		m.err = msg.err
		if m.cursor >= len(m.entries) {
			m.cursor = max(len(m.entries)-1, 0)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = moveCursor(m.cursor, len(m.entries), true)
		case key.Matches(msg, keys.Down):
			m.cursor = moveCursor(m.cursor, len(m.entries), false)
		}
	}
	return m, nil
}

// totals sums each cash book column over the loaded entries.
func (m *cashBookModel) totals() (cashIn, cashOut, bankIn, bankOut ledger.Money) {
	for _, e := range m.entries {
		cashIn += e.CashIn
		cashOut += e.CashOut
		bankIn += e.BankIn
		bankOut += e.BankOut
	}
	return
}

func (m *cashBookModel) view() string {
	if m.loading {
		return "Loading cash book..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Cash Book"))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("No postings yet. Record a customer payment or loan repayment."))
		return b.String()
	}

	header := fmt.Sprintf("  %-10s %-44s %-15s %12s %12s %12s %12s",
		"DATE", "DESCRIPTION", "CATEGORY", "CASH IN", "CASH OUT", "BANK IN", "BANK OUT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := window(m.cursor, len(m.entries), m.height)
	for i := start; i < end; i++ {
		e := m.entries[i]
		prefix := fmt.Sprintf("  %-10s %-44s %-15s ", e.Date.Format(ledger.DateLayout), truncate(e.Description, 44), e.Category)
		if i == m.cursor {
			prefix = selectedStyle.Render("> " + prefix[2:])
		}
		b.WriteString(prefix)
		b.WriteString(inflowStyle.Render(fmt.Sprintf("%12s", amount(e.CashIn))))
		b.WriteString(" ")
		b.WriteString(outflowStyle.Render(fmt.Sprintf("%12s", amount(e.CashOut))))
		b.WriteString(" ")
		b.WriteString(inflowStyle.Render(fmt.Sprintf("%12s", amount(e.BankIn))))
		b.WriteString(" ")
		b.WriteString(outflowStyle.Render(fmt.Sprintf("%12s", amount(e.BankOut))))
		b.WriteString("\n")
	}

	cashIn, cashOut, bankIn, bankOut := m.totals()
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %d postings  cash %s in / %s out  bank %s in / %s out",
		len(m.entries), cashIn, cashOut, bankIn, bankOut)))

	return b.String()
}
