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

type loansLoadedMsg struct {
	loans []ledger.LoanView
	err   error
}

type financingModel struct {
	loans    []ledger.LoanView
	openOnly bool
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *financingModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	openOnly := m.openOnly
	return func() tea.Msg {
		var (
			loans []ledger.LoanView
			err   error
		)
		if openOnly {
			loans, err = c.OpenLoans(context.Background())
		} else {
			loans, err = c.FinancingRegister(context.Background())
		}
		return loansLoadedMsg{loans: loans, err: err}
	}
}

func (m financingModel) update(msg tea.Msg, c *client.Client) (financingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loansLoadedMsg:
		m.loading = false
		m.loans = msg.loans
		m.err = msg.err
		if m.cursor >= len(m.loans) {
			m.cursor = max(len(m.loans)-1, 0)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = moveCursor(m.cursor, len(m.loans), true)
		case key.Matches(msg, keys.Down):
			m.cursor = moveCursor(m.cursor, len(m.loans), false)
		case key.Matches(msg, keys.OpenOnly):
			m.openOnly = !m.openOnly
			return m, m.init(c)
		}
	}
	return m, nil
}

func (m *financingModel) selected() (ledger.LoanView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.loans) {
		return ledger.LoanView{}, false
	}
	return m.loans[m.cursor], true
}

func (m *financingModel) view() string {
	if m.loading {
		return "Loading financing register..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	title := "Financing Register"
	if m.openOnly {
		title += " (open loans)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(m.loans) == 0 {
		b.WriteString(dimStyle.Render("No loans."))
		return b.String()
	}

	header := fmt.Sprintf("  %-12s %-16s %-18s %14s %-10s %-10s %14s %14s %7s %s",
		"DEAL", "FINANCIER", "CUSTOMER", "PRINCIPAL", "DISBURSED", "MATURITY", "REPAYABLE", "OUTSTANDING", "OVERDUE", "STATUS")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := window(m.cursor, len(m.loans), m.height)
	for i := start; i < end; i++ {
		l := m.loans[i]
		line := fmt.Sprintf("  %-12s %-16s %-18s %14s %-10s %-10s %14s %14s %7d %s",
			truncate(l.DealID, 12), truncate(l.FinancierName, 16), truncate(l.CustomerName, 18),
			l.Principal, l.DisbursementDate.Format(ledger.DateLayout), l.MaturityDate.Format(ledger.DateLayout),
			l.RepaymentAmount, amount(l.OutstandingBalance), l.DaysOverdue, l.Status)
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		case l.DaysOverdue > 0:
			b.WriteString(overdueStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d loans", len(m.loans)))

	return b.String()
}
