package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/ledger"
)

type reportsLoadedMsg struct {
	summary *ledger.ReportsSummary
	err     error
}

type reportsModel struct {
	summary *ledger.ReportsSummary
	loading bool
	err     error
	width   int
	height  int
}

func (m *reportsModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		s, err := c.ReportsSummary(context.Background())
		return reportsLoadedMsg{summary: s, err: err}
	}
}

func (m reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.err = msg.err
	}
	return m, nil
}

func (m *reportsModel) view() string {
	if m.loading {
		return "Loading reports..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.summary == nil {
		return dimStyle.Render("No data available.")
	}
	s := m.summary

	section := func(title string, rows ...[2]string) string {
		var b strings.Builder
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		for i, r := range rows {
			b.WriteString(fmt.Sprintf("%s %16s", labelStyle.Width(24).Render(r[0]), r[1]))
			if i < len(rows)-1 {
				b.WriteString("\n")
			}
		}
		return boxStyle.Render(b.String())
	}

	pl := section("Profit & Loss",
		[2]string{"Revenue", s.PL.TotalRevenue.String()},
		[2]string{"Cost of goods sold", s.PL.TotalCOGS.String()},
		[2]string{"Gross profit", s.PL.GrossProfit.String()},
		[2]string{"Margin", s.PL.MarginPercentage.StringFixed(2) + "%"},
	)
	inventory := section("Inventory",
		[2]string{"Contracted (t)", s.Inventory.TotalContracted.StringFixed(2)},
		[2]string{"Delivered (t)", s.Inventory.TotalDelivered.StringFixed(2)},
		[2]string{"Outstanding (t)", s.Inventory.TotalOutstanding.StringFixed(2)},
		[2]string{"Stock at cost", s.Inventory.StockValueAtCost.String()},
	)
	receivables := section("Receivables",
		[2]string{"Invoiced", s.Receivables.TotalInvoiced.String()},
		[2]string{"Received", s.Receivables.TotalReceived.String()},
		[2]string{"Outstanding", s.Receivables.OutstandingBalance.String()},
		[2]string{"Overdue", s.Receivables.OverdueAmount.String()},
	)
	debt := section("Debt",
		[2]string{"Borrowed", s.Debt.TotalBorrowed.String()},
		[2]string{"Repaid", s.Debt.TotalRepaid.String()},
		[2]string{"Outstanding principal", s.Debt.OutstandingPrincipal.String()},
	)

	asOf := subtitleStyle.Render("As of " + s.AsOf.Format(ledger.DateLayout))
	if m.width > 0 && m.width < 100 {
		return lipgloss.JoinVertical(lipgloss.Left, asOf, pl, inventory, receivables, debt)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		asOf,
		lipgloss.JoinHorizontal(lipgloss.Top, pl, " ", inventory),
		lipgloss.JoinHorizontal(lipgloss.Top, receivables, " ", debt),
	)
}
