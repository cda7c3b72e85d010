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

type dealsLoadedMsg struct {
	deals []ledger.DealView
	err   error
}

// dealDeleteConfirmedMsg is sent when the user confirms deletion in the TUI.
type dealDeleteConfirmedMsg struct {
	id string
}

// dealDeletedMsg is sent after the server processes the delete.
type dealDeletedMsg struct {
	id  string
	err error
}

type dealListModel struct {
	deals          []ledger.DealView
	cursor         int
	loading        bool
	err            error
	width          int
	height         int
	confirmDelete  bool
	deleteTargetID string
}

func (m *dealListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		deals, err := c.ListDeals(context.Background())
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

func (m dealListModel) update(msg tea.Msg) (dealListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dealsLoadedMsg:
		m.loading = false
		m.deals = msg.deals
		m.err = msg.err
		if m.cursor >= len(m.deals) {
			m.cursor = max(len(m.deals)-1, 0)
		}

	case dealDeletedMsg:
		m.confirmDelete = false
		m.deleteTargetID = ""
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.KeyMsg:
		if m.confirmDelete {
			switch msg.String() {
			case "y", "Y":
				id := m.deleteTargetID
				m.confirmDelete = false
				return m, func() tea.Msg {
					return dealDeleteConfirmedMsg{id: id}
				}
			default:
				m.confirmDelete = false
				m.deleteTargetID = ""
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = moveCursor(m.cursor, len(m.deals), true)
		case key.Matches(msg, keys.Down):
			m.cursor = moveCursor(m.cursor, len(m.deals), false)
		case key.Matches(msg, keys.Delete):
			if id := m.selectedID(); id != "" {
				m.confirmDelete = true
				m.deleteTargetID = id
				m.err = nil
			}
		}
	}
	return m, nil
}

func (m *dealListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.deals) {
		return m.deals[m.cursor].ID
	}
	return ""
}

func (m *dealListModel) view() string {
	if m.loading {
		return "Loading deals..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.deals) == 0 {
		return dimStyle.Render("No deals found. Create one with 'tradebook deal create'.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Deals"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-10s %-9s %-14s %-18s %10s %14s %14s", "ID", "DATE", "STATUS", "COMMODITY", "CUSTOMER", "QTY", "SALES", "MARGIN")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := window(m.cursor, len(m.deals), m.height)
	for i := start; i < end; i++ {
		d := m.deals[i]
		line := fmt.Sprintf("  %-12s %-10s %-9s %-14s %-18s %10s %14s %14s",
			truncate(d.ID, 12), d.Date.Format(ledger.DateLayout), d.Status,
			truncate(d.CommodityName, 14), truncate(d.CustomerName, 18),
			d.Quantity.StringFixed(2), d.ExpectedSalesValue, d.ExpectedGrossMargin)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.confirmDelete {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Delete deal %q with its delivery, payments and loan? (y/n)", m.deleteTargetID)))
	} else {
		b.WriteString(fmt.Sprintf("\n  %d deals", len(m.deals)))
	}

	return b.String()
}
