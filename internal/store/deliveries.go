package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/simonvc/tradebook/internal/ledger"
)

const deliveryColumns = `id, deal_id, date, quantity, invoice_number, invoice_amount, status, created_at`

func (q *Queries) InsertDelivery(ctx context.Context, d *ledger.Delivery) error {
	if d.ID == "" {
		d.ID = newID()
	}
	d.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deliveries (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DealID, formatDate(d.Date), d.Quantity.String(), d.InvoiceNumber,
		int64(d.InvoiceAmount), string(d.Status), formatTimestamp(d.CreatedAt),
	)
	if isUniqueViolation(err) {
		return &ledger.AlreadyExistsError{Entity: "delivery", Parent: "deal " + d.DealID}
	}
	return classify("insert delivery", err)
}

// UpdateDelivery rewrites the editable and derived fields of d.
func (q *Queries) UpdateDelivery(ctx context.Context, d *ledger.Delivery) error {
	ok, err := q.exec(ctx, "update delivery",
		`UPDATE deliveries SET date = ?, quantity = ?, invoice_number = ?, invoice_amount = ?, status = ?
		WHERE id = ?`,
		formatDate(d.Date), d.Quantity.String(), d.InvoiceNumber, int64(d.InvoiceAmount),
		string(d.Status), d.ID,
	)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "delivery", ID: d.ID}
	}
	return nil
}

func (q *Queries) SetDeliveryStatus(ctx context.Context, id string, status ledger.PaymentStatus) error {
	ok, err := q.exec(ctx, "set delivery status",
		`UPDATE deliveries SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "delivery", ID: id}
	}
	return nil
}

func (q *Queries) DeleteDelivery(ctx context.Context, id string) error {
	ok, err := q.exec(ctx, "delete delivery", `DELETE FROM deliveries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "delivery", ID: id}
	}
	return nil
}

func (q *Queries) GetDelivery(ctx context.Context, id string) (*ledger.Delivery, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id)
	d, err := scanDelivery(row)
	if err != nil {
		return nil, notFound(err, "delivery", id)
	}
	return d, nil
}

// FindDeliveryByDeal returns the deal's delivery, or nil if none has been
// recorded.
func (q *Queries) FindDeliveryByDeal(ctx context.Context, dealID string) (*ledger.Delivery, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE deal_id = ?`, dealID)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find delivery", err)
	}
	return d, nil
}

func (q *Queries) ListDeliveries(ctx context.Context) ([]ledger.Delivery, error) {
	var out []ledger.Delivery
	err := q.each(ctx, "list deliveries",
		`SELECT `+deliveryColumns+` FROM deliveries ORDER BY date DESC, created_at DESC`,
		func(r scanner) error {
			d, err := scanDelivery(r)
			if err != nil {
				return err
			}
			out = append(out, *d)
			return nil
		})
	return out, err
}

func scanDelivery(r scanner) (*ledger.Delivery, error) {
	var d ledger.Delivery
	var date, qty, createdAt string
	var amount int64
	if err := r.Scan(&d.ID, &d.DealID, &date, &qty, &d.InvoiceNumber, &amount, &d.Status, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if d.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if d.Quantity, err = parseQuantity(qty); err != nil {
		return nil, err
	}
	d.InvoiceAmount = ledger.Money(amount)
	d.CreatedAt = parseTimestamp(createdAt)
	return &d, nil
}
