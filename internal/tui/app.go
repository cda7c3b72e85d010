package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/tradebook/internal/client"
)

type mode int

const (
	modeDeals mode = iota
	modeDealDetail
	modeReceivables
	modeFinancing
	modeCashBook
	modeReports
	modeMoneyForm
)

var tabModes = []mode{modeDeals, modeReceivables, modeFinancing, modeCashBook, modeReports}

func tabLabel(m mode) string {
	switch m {
	case modeDeals:
		return "Deals"
	case modeReceivables:
		return "Receivables"
	case modeFinancing:
		return "Financing"
	case modeCashBook:
		return "Cash Book"
	case modeReports:
		return "Reports"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string
	now           func() time.Time

	dealList    dealListModel
	dealDetail  dealDetailModel
	receivables receivablesModel
	financing   financingModel
	cashBook    cashBookModel
	reports     reportsModel
	form        moneyFormModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client:   c,
		mode:     modeDeals,
		tabIndex: 0,
		now:      time.Now,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.dealList.init(a.client),
		a.receivables.init(a.client),
		a.financing.init(a.client),
		a.cashBook.init(a.client),
		a.reports.init(a.client),
	)
}

// refreshAll reloads every view. Any write can move receivables, financing,
// the cash book and the reports at once.
func (a *App) refreshAll() tea.Cmd {
	return a.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dealList.width, a.dealList.height = msg.Width, msg.Height-6
		a.receivables.width, a.receivables.height = msg.Width, msg.Height-6
		a.financing.width, a.financing.height = msg.Width, msg.Height-6
		a.cashBook.width, a.cashBook.height = msg.Width, msg.Height-6
		a.reports.width, a.reports.height = msg.Width, msg.Height-6
		a.dealDetail.width = msg.Width
		a.form.width = msg.Width
		return a, nil
	}

	// Loads are fired for every tab at once, so route them regardless of
	// the active mode.
	switch typedMsg := msg.(type) {
	case dealsLoadedMsg:
		var cmd tea.Cmd
		a.dealList, cmd = a.dealList.update(msg)
		return a, cmd
	case dealDetailLoadedMsg:
		var cmd tea.Cmd
		a.dealDetail, cmd = a.dealDetail.update(msg)
		return a, cmd
	case receivablesLoadedMsg:
		var cmd tea.Cmd
		a.receivables, cmd = a.receivables.update(msg)
		return a, cmd
	case loansLoadedMsg:
		var cmd tea.Cmd
		a.financing, cmd = a.financing.update(msg, a.client)
		return a, cmd
	case cashBookLoadedMsg:
		var cmd tea.Cmd
		a.cashBook, cmd = a.cashBook.update(msg)
		return a, cmd
	case reportsLoadedMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd
	case dealDeleteConfirmedMsg:
		id := typedMsg.id
		return a, func() tea.Msg {
			err := a.client.DeleteDeal(context.Background(), id)
			return dealDeletedMsg{id: id, err: err}
		}
	case dealDeletedMsg:
		if typedMsg.err != nil {
			a.dealList, _ = a.dealList.update(msg)
			return a, nil
		}
		a.statusMsg = "Deal " + typedMsg.id + " deleted"
		return a, a.refreshAll()
	}

	if a.mode == modeMoneyForm {
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg, a.client)
		if a.form.done {
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = a.form.statusMsg
			return a, a.refreshAll()
		}
		if a.form.cancelled {
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = "Cancelled"
		}
		return a, cmd
	}

	// The delete prompt takes every key until answered.
	if a.mode == modeDeals && a.dealList.confirmDelete {
		var cmd tea.Cmd
		a.dealList, cmd = a.dealList.update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			if a.mode == modeDealDetail {
				a.mode = modeDeals
			}
			return a, nil

		case key.Matches(msg, keys.Refresh):
			a.statusMsg = ""
			return a, a.refreshAll()

		case key.Matches(msg, keys.Enter):
			if a.mode == modeDeals {
				if id := a.dealList.selectedID(); id != "" {
					a.mode = modeDealDetail
					return a, a.dealDetail.init(a.client, id)
				}
			}
			return a, nil

		case key.Matches(msg, keys.Record):
			switch a.mode {
			case modeReceivables:
				if row, ok := a.receivables.selected(); ok {
					a.form = newMoneyForm(formPayment, row.DeliveryID,
						"Invoice "+row.InvoiceNumber+" to "+row.CustomerName, row.OutstandingBalance, a.now())
					a.mode = modeMoneyForm
				} else {
					a.statusMsg = "Select a delivered invoice first"
				}
				return a, nil
			case modeFinancing:
				if loan, ok := a.financing.selected(); ok {
					a.form = newMoneyForm(formRepayment, loan.ID,
						"Loan for deal "+loan.DealID+" from "+loan.FinancierName, loan.OutstandingBalance, a.now())
					a.mode = modeMoneyForm
				}
				return a, nil
			}
		}
	}

	// Delegate update to active sub-model
	var cmd tea.Cmd
	switch a.mode {
	case modeDeals:
		a.dealList, cmd = a.dealList.update(msg)
	case modeDealDetail:
		a.dealDetail, cmd = a.dealDetail.update(msg)
	case modeReceivables:
		a.receivables, cmd = a.receivables.update(msg)
	case modeFinancing:
		a.financing, cmd = a.financing.update(msg, a.client)
	case modeCashBook:
		a.cashBook, cmd = a.cashBook.update(msg)
	case modeReports:
		a.reports, cmd = a.reports.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeDeals:
		return a.dealList.init(a.client)
	case modeReceivables:
		return a.receivables.init(a.client)
	case modeFinancing:
		return a.financing.init(a.client)
	case modeCashBook:
		return a.cashBook.init(a.client)
	case modeReports:
		return a.reports.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex && a.mode != modeMoneyForm {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeDeals:
		content = a.dealList.view()
	case modeDealDetail:
		content = a.dealDetail.view()
	case modeReceivables:
		content = a.receivables.view()
	case modeFinancing:
		content = a.financing.view()
	case modeCashBook:
		content = a.cashBook.view()
	case modeReports:
		content = a.reports.view()
	case modeMoneyForm:
		content = a.form.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  enter:open deal  esc:back  d:delete deal  p:record payment  o:open only  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
