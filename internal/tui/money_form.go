package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/ledger"
)

type formKind int

const (
	formPayment formKind = iota
	formRepayment
)

var paymentMethods = []ledger.PaymentMethod{ledger.MethodCash, ledger.MethodNostro, ledger.MethodNostroBank}

type moneyRecordedMsg struct {
	kind formKind
	err  error
}

// moneyFormModel records a customer payment against a delivery or a
// repayment against a loan. Both post to the cash book.
type moneyFormModel struct {
	kind     formKind
	targetID string
	subject  string
	suggest  ledger.Money

	date   textinput.Model
	amount textinput.Model
	source textinput.Model
	method int
	focus  int

	submitting bool
	err        error
	done       bool
	cancelled  bool
	statusMsg  string
	width      int
}

func newMoneyForm(kind formKind, targetID, subject string, suggest ledger.Money, today time.Time) moneyFormModel {
	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM-DD"
	dateInput.CharLimit = 10
	dateInput.SetValue(today.Format(ledger.DateLayout))
	dateInput.Focus()

	amountInput := textinput.New()
	amountInput.Placeholder = "e.g. 12500.00"
	amountInput.CharLimit = 20
	if suggest > 0 {
		amountInput.SetValue(suggest.String())
	}

	sourceInput := textinput.New()
	sourceInput.Placeholder = "optional"
	sourceInput.CharLimit = 60

	return moneyFormModel{
		kind:     kind,
		targetID: targetID,
		subject:  subject,
		suggest:  suggest,
		date:     dateInput,
		amount:   amountInput,
		source:   sourceInput,
	}
}

// fields are date, method, amount and, for repayments, source of funding.
func (m moneyFormModel) fieldCount() int {
	if m.kind == formRepayment {
		return 4
	}
	return 3
}

func (m moneyFormModel) update(msg tea.Msg, c *client.Client) (moneyFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case moneyRecordedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.done = true
		if m.kind == formPayment {
			m.statusMsg = "Payment recorded against " + m.subject
		} else {
			m.statusMsg = "Repayment recorded against " + m.subject
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Escape):
			m.cancelled = true
			return m, nil
		case key.Matches(msg, keys.Tab), msg.String() == "down":
			m.setFocus((m.focus + 1) % m.fieldCount())
			return m, nil
		case key.Matches(msg, keys.ShiftTab), msg.String() == "up":
			m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount())
			return m, nil
		case key.Matches(msg, keys.Enter):
			if m.focus < m.fieldCount()-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submit(c)
		}
		if m.focus == 1 {
			switch msg.String() {
			case "left", "h":
				m.method = (m.method - 1 + len(paymentMethods)) % len(paymentMethods)
			case "right", "l", " ":
				m.method = (m.method + 1) % len(paymentMethods)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.date, cmd = m.date.Update(msg)
	case 2:
		m.amount, cmd = m.amount.Update(msg)
	case 3:
		m.source, cmd = m.source.Update(msg)
	}
	return m, cmd
}

func (m *moneyFormModel) setFocus(i int) {
	m.focus = i
	m.date.Blur()
	m.amount.Blur()
	m.source.Blur()
	switch i {
	case 0:
		m.date.Focus()
	case 2:
		m.amount.Focus()
	case 3:
		m.source.Focus()
	}
}

func (m moneyFormModel) submit(c *client.Client) (moneyFormModel, tea.Cmd) {
	amt, err := ledger.ParseMoney(m.amount.Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	if _, err := ledger.ParseDate(m.date.Value()); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.submitting = true

	kind, target := m.kind, m.targetID
	date, method := m.date.Value(), string(paymentMethods[m.method])
	source := strings.TrimSpace(m.source.Value())
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if kind == formPayment {
			_, err = c.RecordPayment(ctx, api.PaymentRequest{
				DeliveryID:    target,
				PaymentFields: api.PaymentFields{Date: date, Method: method, Amount: int64(amt)},
			})
		} else {
			_, err = c.RecordRepayment(ctx, api.RepaymentRequest{
				LoanID: target,
				RepaymentFields: api.RepaymentFields{
					Date: date, Method: method, Amount: int64(amt), SourceOfFunding: source,
				},
			})
		}
		return moneyRecordedMsg{kind: kind, err: err}
	}
}

func (m moneyFormModel) view() string {
	var b strings.Builder

	title := "Record Customer Payment"
	if m.kind == formRepayment {
		title = "Record Loan Repayment"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.subject))
	b.WriteString("\n\n")

	label := func(i int, s string) string {
		if i == m.focus {
			return selectedStyle.Render("> " + s)
		}
		return "  " + s
	}

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label(0, "Date")), m.date.View()))

	var methods []string
	for i, pm := range paymentMethods {
		if i == m.method {
			methods = append(methods, activeTabStyle.Render(string(pm)))
		} else {
			methods = append(methods, inactiveTabStyle.Render(string(pm)))
		}
	}
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label(1, "Method")), strings.Join(methods, " ")))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label(2, "Amount")), m.amount.View()))
	if m.kind == formRepayment {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label(3, "Source")), m.source.View()))
	}

	if m.suggest > 0 {
		b.WriteString("\n" + dimStyle.Render("Outstanding: "+m.suggest.String()) + "\n")
	}

	switch {
	case m.submitting:
		b.WriteString("\nPosting...")
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()))
	default:
		b.WriteString("\n" + dimStyle.Render("tab:next field  left/right:method  enter:confirm  esc:cancel"))
	}

	return b.String()
}
