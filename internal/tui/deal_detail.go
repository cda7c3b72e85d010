package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/ledger"
)

type dealDetailLoadedMsg struct {
	deal *ledger.DealView
	err  error
}

type dealDetailModel struct {
	deal    *ledger.DealView
	loading bool
	err     error
	width   int
}

func (m *dealDetailModel) init(c *client.Client, id string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		deal, err := c.GetDeal(context.Background(), id)
		return dealDetailLoadedMsg{deal: deal, err: err}
	}
}

func (m dealDetailModel) update(msg tea.Msg) (dealDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dealDetailLoadedMsg:
		m.loading = false
		m.deal = msg.deal
		m.err = msg.err
	}
	return m, nil
}

func (m *dealDetailModel) view() string {
	if m.loading {
		return "Loading deal..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.deal == nil {
		return ""
	}
	d := m.deal

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Deal: %s", d.ID)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), value))
	}
	row("Date:", d.Date.Format(ledger.DateLayout))
	row("Status:", string(d.Status))
	row("Commodity:", strings.TrimSpace(d.CommodityName+" "+d.CommodityGrade))
	row("Supplier:", d.SupplierName)
	row("Customer:", d.CustomerName)
	if d.FinancierName != "" {
		row("Financier:", d.FinancierName)
	}
	row("Quantity:", d.Quantity.String()+" t")
	row("Cost value:", fmt.Sprintf("%s (%s/t)", d.CostValue, d.SupplierPricePerTon))
	row("Sales value:", fmt.Sprintf("%s (%s/t)", d.ExpectedSalesValue, d.OfftakePricePerTon))
	row("Gross margin:", fmt.Sprintf("%s (%s%%)", d.ExpectedGrossMargin, d.ExpectedMarginPercentage.StringFixed(2)))
	if d.DealOwner != "" {
		row("Owner:", d.DealOwner)
	}
	if d.Comments != "" {
		row("Comments:", d.Comments)
	}

	if del := d.Delivery; del != nil {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"Delivery %s\n%s  %s t\nInvoice %s  %s  [%s]",
			del.ID, del.Date.Format(ledger.DateLayout), del.Quantity,
			del.InvoiceNumber, del.InvoiceAmount, del.Status)))
		b.WriteString("\n")
	} else {
		b.WriteString("\n" + dimStyle.Render("Pending delivery") + "\n")
	}

	if l := d.Loan; l != nil {
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"Loan %s\nPrincipal %s disbursed %s\nRepay %s by %s  [%s]",
			l.ID, l.Principal, l.DisbursementDate.Format(ledger.DateLayout),
			l.RepaymentAmount, l.MaturityDate.Format(ledger.DateLayout), l.Status)))
		b.WriteString("\n")
	}

	return b.String()
}
