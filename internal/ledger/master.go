package ledger

import (
	"strings"
	"time"
)

// Master data is created explicitly and never auto-created by a deal.

type Commodity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Supplier struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContactDetails string    `json:"contact_details,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Customer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContactDetails string    `json:"contact_details,omitempty"`
	DefaultTerms   *int      `json:"default_terms,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Financier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FundingTerms string    `json:"funding_terms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MasterData is every reference list used when capturing a deal.
type MasterData struct {
	Commodities []Commodity `json:"commodities"`
	Suppliers   []Supplier  `json:"suppliers"`
	Customers   []Customer  `json:"customers"`
	Financiers  []Financier `json:"financiers"`
}

func (c *Commodity) Validate() error { return requireName(c.Name) }
func (s *Supplier) Validate() error  { return requireName(s.Name) }
func (f *Financier) Validate() error { return requireName(f.Name) }

func (c *Customer) Validate() error {
	if err := requireName(c.Name); err != nil {
		return err
	}
	if c.DefaultTerms != nil && *c.DefaultTerms < 0 {
		return invalid("default_terms", "must not be negative")
	}
	return nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	return nil
}
