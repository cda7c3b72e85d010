package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simonvc/tradebook/internal/ledger"
)

const dealColumns = `d.id, d.date, d.status, d.commodity_id, d.commodity_grade, d.supplier_id, d.customer_id,
	d.financier_id, d.quantity, d.supplier_price_per_ton, d.offtake_price_per_ton, d.cost_value,
	d.expected_sales_value, d.expected_gross_margin, d.expected_margin_percentage,
	d.payment_terms_customer, d.payment_terms_financier, d.deal_owner, d.comments, d.created_at`

func (q *Queries) InsertDeal(ctx context.Context, d *ledger.Deal) error {
	d.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deals (id, date, status, commodity_id, commodity_grade, supplier_id, customer_id,
			financier_id, quantity, supplier_price_per_ton, offtake_price_per_ton, cost_value,
			expected_sales_value, expected_gross_margin, expected_margin_percentage,
			payment_terms_customer, payment_terms_financier, deal_owner, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, formatDate(d.Date), string(d.Status), d.CommodityID, d.CommodityGrade, d.SupplierID,
		d.CustomerID, nullString(d.FinancierID), d.Quantity.String(), int64(d.SupplierPricePerTon),
		int64(d.OfftakePricePerTon), int64(d.CostValue), int64(d.ExpectedSalesValue),
		int64(d.ExpectedGrossMargin), d.ExpectedMarginPercentage.String(),
		nullInt(d.PaymentTermsCustomer), nullInt(d.PaymentTermsFinancier), d.DealOwner, d.Comments,
		formatTimestamp(d.CreatedAt),
	)
	if isUniqueViolation(err) {
		return &ledger.DuplicateKeyError{Entity: "deal", Key: d.ID}
	}
	return classify("insert deal", err)
}

func (q *Queries) UpdateDeal(ctx context.Context, d *ledger.Deal) error {
	ok, err := q.exec(ctx, "update deal",
		`UPDATE deals SET date = ?, status = ?, commodity_id = ?, commodity_grade = ?, supplier_id = ?,
			customer_id = ?, financier_id = ?, quantity = ?, supplier_price_per_ton = ?,
			offtake_price_per_ton = ?, cost_value = ?, expected_sales_value = ?,
			expected_gross_margin = ?, expected_margin_percentage = ?, payment_terms_customer = ?,
			payment_terms_financier = ?, deal_owner = ?, comments = ?
		WHERE id = ?`,
		formatDate(d.Date), string(d.Status), d.CommodityID, d.CommodityGrade, d.SupplierID,
		d.CustomerID, nullString(d.FinancierID), d.Quantity.String(), int64(d.SupplierPricePerTon),
		int64(d.OfftakePricePerTon), int64(d.CostValue), int64(d.ExpectedSalesValue),
		int64(d.ExpectedGrossMargin), d.ExpectedMarginPercentage.String(),
		nullInt(d.PaymentTermsCustomer), nullInt(d.PaymentTermsFinancier), d.DealOwner, d.Comments,
		d.ID,
	)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "deal", ID: d.ID}
	}
	return nil
}

func (q *Queries) DeleteDeal(ctx context.Context, id string) error {
	ok, err := q.exec(ctx, "delete deal", `DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "deal", ID: id}
	}
	return nil
}

func (q *Queries) DealExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deals WHERE id = ?`, id).Scan(&n); err != nil {
		return false, classify("check deal", err)
	}
	return n > 0, nil
}

func (q *Queries) GetDeal(ctx context.Context, id string) (*ledger.Deal, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals d WHERE d.id = ?`, id)
	d, err := scanDeal(row)
	if err != nil {
		return nil, notFound(err, "deal", id)
	}
	return d, nil
}

const dealViewQuery = `SELECT ` + dealColumns + `,
	c.name, s.name, k.name, COALESCE(f.name, '')
	FROM deals d
	JOIN commodities c ON c.id = d.commodity_id
	JOIN suppliers s ON s.id = d.supplier_id
	JOIN customers k ON k.id = d.customer_id
	LEFT JOIN financiers f ON f.id = d.financier_id`

// GetDealView returns a deal with master data names, its delivery and loan.
func (q *Queries) GetDealView(ctx context.Context, id string) (*ledger.DealView, error) {
	row := q.db.QueryRowContext(ctx, dealViewQuery+` WHERE d.id = ?`, id)
	v, err := scanDealView(row)
	if err != nil {
		return nil, notFound(err, "deal", id)
	}
	if v.Delivery, err = q.FindDeliveryByDeal(ctx, id); err != nil {
		return nil, err
	}
	if v.Loan, err = q.FindLoanByDeal(ctx, id); err != nil {
		return nil, err
	}
	return v, nil
}

// ListDealViews returns every deal newest first, with names resolved. The
// delivery and loan are left nil.
func (q *Queries) ListDealViews(ctx context.Context) ([]ledger.DealView, error) {
	views := []ledger.DealView{}
	err := q.each(ctx, "list deals", dealViewQuery+` ORDER BY d.date DESC, d.created_at DESC`,
		func(r scanner) error {
			v, err := scanDealView(r)
			if err != nil {
				return err
			}
			views = append(views, *v)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func scanDealView(r scanner) (*ledger.DealView, error) {
	var v ledger.DealView
	extra := []any{&v.CommodityName, &v.SupplierName, &v.CustomerName, &v.FinancierName}
	d, err := scanDealWith(r, extra...)
	if err != nil {
		return nil, err
	}
	v.Deal = *d
	return &v, nil
}

func scanDeal(r scanner) (*ledger.Deal, error) {
	return scanDealWith(r)
}

// scanDealWith scans the deal columns followed by extra destinations.
func scanDealWith(r scanner, extra ...any) (*ledger.Deal, error) {
	var d ledger.Deal
	var date, qty, pct, createdAt string
	var financierID sql.NullString
	var termsCustomer, termsFinancier sql.NullInt64
	var supplierPrice, offtakePrice, cost, sales, margin int64

	dest := []any{
		&d.ID, &date, &d.Status, &d.CommodityID, &d.CommodityGrade, &d.SupplierID, &d.CustomerID,
		&financierID, &qty, &supplierPrice, &offtakePrice, &cost, &sales, &margin, &pct,
		&termsCustomer, &termsFinancier, &d.DealOwner, &d.Comments, &createdAt,
	}
	if err := r.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	var err error
	if d.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if d.Quantity, err = parseQuantity(qty); err != nil {
		return nil, err
	}
	if d.ExpectedMarginPercentage, err = decimal.NewFromString(pct); err != nil {
		return nil, fmt.Errorf("parse margin percentage %q: %w", pct, err)
	}
	d.FinancierID = financierID.String
	d.SupplierPricePerTon = ledger.Money(supplierPrice)
	d.OfftakePricePerTon = ledger.Money(offtakePrice)
	d.CostValue = ledger.Money(cost)
	d.ExpectedSalesValue = ledger.Money(sales)
	d.ExpectedGrossMargin = ledger.Money(margin)
	d.PaymentTermsCustomer = intPtr(termsCustomer)
	d.PaymentTermsFinancier = intPtr(termsFinancier)
	d.CreatedAt = parseTimestamp(createdAt)
	return &d, nil
}
