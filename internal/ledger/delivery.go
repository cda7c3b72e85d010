package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from the payments recorded against an invoice.
type PaymentStatus string

const (
	StatusUnpaid   PaymentStatus = "Unpaid"
	StatusPartPaid PaymentStatus = "Part Paid"
	StatusPaid     PaymentStatus = "Paid"

	// StatusPendingDelivery only appears on receivables placeholder rows.
	StatusPendingDelivery PaymentStatus = "Pending Delivery"
)

// Delivery is the single invoice raised against a deal.
type Delivery struct {
	ID            string          `json:"id"`
	DealID        string          `json:"deal_id"`
	Date          time.Time       `json:"date"`
	Quantity      decimal.Decimal `json:"quantity"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceAmount Money           `json:"invoice_amount"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DeliveryInput is used both to record a delivery and to edit one. DealID
// is ignored on edit.
type DeliveryInput struct {
	DealID        string
	Date          time.Time
	Quantity      decimal.Decimal
	InvoiceNumber string
}

func (in *DeliveryInput) Validate() error {
	if in.Date.IsZero() {
		return invalid("date", "is required")
	}
	if !in.Quantity.IsPositive() {
		return invalid("quantity", "must be positive")
	}
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	if in.InvoiceNumber == "" {
		return invalid("invoice_number", "is required")
	}
	return nil
}

// ValidateInvoice rejects a quantity whose invoice at the offtake price does
// not fit in Money.
func ValidateInvoice(qty decimal.Decimal, offtakePricePerTon Money) error {
	if _, ok := offtakePricePerTon.MulQuantityChecked(qty); !ok {
		return invalid("quantity", "is too large to invoice at the offtake price")
	}
	return nil
}

// InvoiceAmount prices a delivered quantity at the deal's offtake price.
func InvoiceAmount(qty decimal.Decimal, offtakePricePerTon Money) Money {
	return offtakePricePerTon.MulQuantity(qty)
}

// Reprice recomputes the invoice amount and status of d against the deal's
// offtake price and the sum of payments received.
func (d *Delivery) Reprice(offtakePricePerTon, totalPaid Money) {
	d.InvoiceAmount = InvoiceAmount(d.Quantity, offtakePricePerTon)
	d.Status = DeliveryStatus(totalPaid, d.InvoiceAmount)
}
