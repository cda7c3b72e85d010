package store

import (
	"context"

	"github.com/simonvc/tradebook/internal/ledger"
)

const paymentColumns = `p.id, p.delivery_id, p.date, p.method, p.amount, p.created_at`

func (q *Queries) InsertPayment(ctx context.Context, p *ledger.CustomerPayment) error {
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO customer_payments (id, delivery_id, date, method, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.DeliveryID, formatDate(p.Date), string(p.Method), int64(p.Amount), formatTimestamp(p.CreatedAt),
	)
	return classify("insert customer payment", err)
}

func (q *Queries) UpdatePayment(ctx context.Context, p *ledger.CustomerPayment) error {
	ok, err := q.exec(ctx, "update customer payment",
		`UPDATE customer_payments SET date = ?, method = ?, amount = ? WHERE id = ?`,
		formatDate(p.Date), string(p.Method), int64(p.Amount), p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "customer payment", ID: p.ID}
	}
	return nil
}

func (q *Queries) DeletePayment(ctx context.Context, id string) error {
	ok, err := q.exec(ctx, "delete customer payment", `DELETE FROM customer_payments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "customer payment", ID: id}
	}
	return nil
}

func (q *Queries) DeletePaymentsByDelivery(ctx context.Context, deliveryID string) error {
	_, err := q.exec(ctx, "delete customer payments",
		`DELETE FROM customer_payments WHERE delivery_id = ?`, deliveryID)
	return err
}

func (q *Queries) GetPayment(ctx context.Context, id string) (*ledger.CustomerPayment, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM customer_payments p WHERE p.id = ?`, id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, notFound(err, "customer payment", id)
	}
	return p, nil
}

// SumPayments totals every payment against a delivery. Inside a write
// transaction the total includes the transaction's own inserts.
func (q *Queries) SumPayments(ctx context.Context, deliveryID string) (ledger.Money, error) {
	return q.sumAmounts(ctx, "sum customer payments",
		`SELECT COALESCE(SUM(amount), 0) FROM customer_payments WHERE delivery_id = ?`, deliveryID)
}

func (q *Queries) ListPayments(ctx context.Context) ([]ledger.CustomerPayment, error) {
	var out []ledger.CustomerPayment
	err := q.each(ctx, "list customer payments",
		`SELECT `+paymentColumns+` FROM customer_payments p ORDER BY p.date, p.created_at`,
		func(r scanner) error {
			p, err := scanPayment(r)
			if err != nil {
				return err
			}
			out = append(out, *p)
			return nil
		})
	return out, err
}

// ListPaymentViews returns payments newest first with invoice and customer
// resolved.
func (q *Queries) ListPaymentViews(ctx context.Context) ([]ledger.PaymentView, error) {
	out := []ledger.PaymentView{}
	err := q.each(ctx, "list customer payments",
		`SELECT `+paymentColumns+`, d.deal_id, d.invoice_number, k.name
		FROM customer_payments p
		JOIN deliveries d ON d.id = p.delivery_id
		JOIN deals ON deals.id = d.deal_id
		JOIN customers k ON k.id = deals.customer_id
		ORDER BY p.date DESC, p.created_at DESC`,
		func(r scanner) error {
			var v ledger.PaymentView
			p, err := scanPaymentWith(r, &v.DealID, &v.InvoiceNumber, &v.CustomerName)
			if err != nil {
				return err
			}
			v.CustomerPayment = *p
			out = append(out, v)
			return nil
		})
	return out, err
}

func scanPayment(r scanner) (*ledger.CustomerPayment, error) {
	return scanPaymentWith(r)
}

func scanPaymentWith(r scanner, extra ...any) (*ledger.CustomerPayment, error) {
	var p ledger.CustomerPayment
	var date, createdAt string
	var amount int64
	dest := []any{&p.ID, &p.DeliveryID, &date, &p.Method, &amount, &createdAt}
	if err := r.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	var err error
	if p.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	p.Amount = ledger.Money(amount)
	p.CreatedAt = parseTimestamp(createdAt)
	return &p, nil
}
