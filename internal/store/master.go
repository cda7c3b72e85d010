package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/tradebook/internal/ledger"
)

func (q *Queries) InsertCommodity(ctx context.Context, c *ledger.Commodity) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO commodities (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, formatTimestamp(c.CreatedAt))
	if isUniqueViolation(err) {
		return &ledger.DuplicateKeyError{Entity: "commodity", Key: c.ID}
	}
	return classify("insert commodity", err)
}

func (q *Queries) InsertSupplier(ctx context.Context, s *ledger.Supplier) error {
	if s.ID == "" {
		s.ID = newID()
	}
	s.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO suppliers (id, name, contact_details, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.ContactDetails, formatTimestamp(s.CreatedAt))
	if isUniqueViolation(err) {
		return &ledger.DuplicateKeyError{Entity: "supplier", Key: s.ID}
	}
	return classify("insert supplier", err)
}

func (q *Queries) InsertCustomer(ctx context.Context, c *ledger.Customer) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, contact_details, default_terms, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.ContactDetails, nullInt(c.DefaultTerms), formatTimestamp(c.CreatedAt))
	if isUniqueViolation(err) {
		return &ledger.DuplicateKeyError{Entity: "customer", Key: c.ID}
	}
	return classify("insert customer", err)
}

func (q *Queries) InsertFinancier(ctx context.Context, f *ledger.Financier) error {
	if f.ID == "" {
		f.ID = newID()
	}
	f.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO financiers (id, name, funding_terms, created_at) VALUES (?, ?, ?, ?)`,
		f.ID, f.Name, f.FundingTerms, formatTimestamp(f.CreatedAt))
	if isUniqueViolation(err) {
		return &ledger.DuplicateKeyError{Entity: "financier", Key: f.ID}
	}
	return classify("insert financier", err)
}

// MasterExists reports whether id is present in one of the master data
// tables.
func (q *Queries) MasterExists(ctx context.Context, table, id string) (bool, error) {
	switch table {
	case "commodities", "suppliers", "customers", "financiers":
	default:
		return false, fmt.Errorf("unknown master table %q", table)
	}
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, classify("check "+table, err)
	}
	return n > 0, nil
}

func (q *Queries) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	var c ledger.Customer
	var terms sql.NullInt64
	var createdAt string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, contact_details, default_terms, created_at FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.ContactDetails, &terms, &createdAt)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	c.DefaultTerms = intPtr(terms)
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func (q *Queries) GetFinancier(ctx context.Context, id string) (*ledger.Financier, error) {
	var f ledger.Financier
	var createdAt string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, funding_terms, created_at FROM financiers WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.FundingTerms, &createdAt)
	if err != nil {
		return nil, notFound(err, "financier", id)
	}
	f.CreatedAt = parseTimestamp(createdAt)
	return &f, nil
}

// ListMasterData returns every master data list ordered by name.
func (q *Queries) ListMasterData(ctx context.Context) (*ledger.MasterData, error) {
	md := &ledger.MasterData{
		Commodities: []ledger.Commodity{},
		Suppliers:   []ledger.Supplier{},
		Customers:   []ledger.Customer{},
		Financiers:  []ledger.Financier{},
	}

	err := q.each(ctx, "list commodities",
		`SELECT id, name, created_at FROM commodities ORDER BY name, id`,
		func(r scanner) error {
			var c ledger.Commodity
			var createdAt string
			if err := r.Scan(&c.ID, &c.Name, &createdAt); err != nil {
				return err
			}
			c.CreatedAt = parseTimestamp(createdAt)
			md.Commodities = append(md.Commodities, c)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = q.each(ctx, "list suppliers",
		`SELECT id, name, contact_details, created_at FROM suppliers ORDER BY name, id`,
		func(r scanner) error {
			var s ledger.Supplier
			var createdAt string
			if err := r.Scan(&s.ID, &s.Name, &s.ContactDetails, &createdAt); err != nil {
				return err
			}
			s.CreatedAt = parseTimestamp(createdAt)
			md.Suppliers = append(md.Suppliers, s)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = q.each(ctx, "list customers",
		`SELECT id, name, contact_details, default_terms, created_at FROM customers ORDER BY name, id`,
		func(r scanner) error {
			var c ledger.Customer
			var terms sql.NullInt64
			var createdAt string
			if err := r.Scan(&c.ID, &c.Name, &c.ContactDetails, &terms, &createdAt); err != nil {
				return err
			}
			c.DefaultTerms = intPtr(terms)
			c.CreatedAt = parseTimestamp(createdAt)
			md.Customers = append(md.Customers, c)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = q.each(ctx, "list financiers",
		`SELECT id, name, funding_terms, created_at FROM financiers ORDER BY name, id`,
		func(r scanner) error {
			var f ledger.Financier
			var createdAt string
			if err := r.Scan(&f.ID, &f.Name, &f.FundingTerms, &createdAt); err != nil {
				return err
			}
			f.CreatedAt = parseTimestamp(createdAt)
			md.Financiers = append(md.Financiers, f)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return md, nil
}

// each runs query and calls fn for every row.
func (q *Queries) each(ctx context.Context, op, query string, fn func(scanner) error, args ...any) error {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return classify(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return classify(op, err)
		}
	}
	return classify(op, rows.Err())
}
