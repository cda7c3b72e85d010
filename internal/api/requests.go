// Package api holds the JSON request and response bodies exchanged between
// the HTTP server and its clients. Money is always carried in minor units
// and dates as YYYY-MM-DD strings.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simonvc/tradebook/internal/ledger"
)

type DealRequest struct {
	ID                    string          `json:"id" validate:"required,max=64"`
	Date                  string          `json:"date" validate:"required,datetime=2006-01-02"`
	Status                string          `json:"status,omitempty" validate:"omitempty,oneof=Open Closed Cancelled"`
	CommodityID           string          `json:"commodity_id" validate:"required"`
	CommodityGrade        string          `json:"commodity_grade,omitempty"`
	SupplierID            string          `json:"supplier_id" validate:"required"`
	CustomerID            string          `json:"customer_id" validate:"required"`
	FinancierID           string          `json:"financier_id,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	SupplierPricePerTon   int64           `json:"supplier_price_per_ton" validate:"gte=0"`
	OfftakePricePerTon    int64           `json:"offtake_price_per_ton" validate:"gte=0"`
	PaymentTermsCustomer  *int            `json:"payment_terms_customer,omitempty" validate:"omitempty,gte=0"`
	PaymentTermsFinancier *int            `json:"payment_terms_financier,omitempty" validate:"omitempty,gte=0"`
	DealOwner             string          `json:"deal_owner,omitempty"`
	Comments              string          `json:"comments,omitempty"`
	DisbursementDate      string          `json:"disbursement_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MaturityValue         *int64          `json:"maturity_value,omitempty" validate:"omitempty,gte=0"`
}

func (r DealRequest) Input() (ledger.DealInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return ledger.DealInput{}, err
	}
	in := ledger.DealInput{
		ID:                    r.ID,
		Date:                  date,
		Status:                ledger.DealStatus(r.Status),
		CommodityID:           r.CommodityID,
		CommodityGrade:        r.CommodityGrade,
		SupplierID:            r.SupplierID,
		CustomerID:            r.CustomerID,
		FinancierID:           r.FinancierID,
		Quantity:              r.Quantity,
		SupplierPricePerTon:   ledger.Money(r.SupplierPricePerTon),
		OfftakePricePerTon:    ledger.Money(r.OfftakePricePerTon),
		PaymentTermsCustomer:  r.PaymentTermsCustomer,
		PaymentTermsFinancier: r.PaymentTermsFinancier,
		DealOwner:             r.DealOwner,
		Comments:              r.Comments,
	}
	if r.DisbursementDate != "" {
		d, err := parseDate("disbursement_date", r.DisbursementDate)
		if err != nil {
			return ledger.DealInput{}, err
		}
		in.DisbursementDate = &d
	}
	if r.MaturityValue != nil {
		m := ledger.Money(*r.MaturityValue)
		in.MaturityValue = &m
	}
	return in, nil
}

// DeliveryFields are the editable fields of a delivery.
type DeliveryFields struct {
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Quantity      decimal.Decimal `json:"quantity"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
}

type DeliveryRequest struct {
	DealID string `json:"deal_id" validate:"required"`
	DeliveryFields
}

func (f DeliveryFields) Input(dealID string) (ledger.DeliveryInput, error) {
	date, err := parseDate("date", f.Date)
	if err != nil {
		return ledger.DeliveryInput{}, err
	}
	return ledger.DeliveryInput{
		DealID:        dealID,
		Date:          date,
		Quantity:      f.Quantity,
		InvoiceNumber: f.InvoiceNumber,
	}, nil
}

// PaymentFields are the editable fields of a customer payment.
type PaymentFields struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Method string `json:"method" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

type PaymentRequest struct {
	DeliveryID string `json:"delivery_id" validate:"required"`
	PaymentFields
}

func (f PaymentFields) Input(deliveryID string) (ledger.PaymentInput, error) {
	date, err := parseDate("date", f.Date)
	if err != nil {
		return ledger.PaymentInput{}, err
	}
	return ledger.PaymentInput{
		DeliveryID: deliveryID,
		Date:       date,
		Method:     ledger.PaymentMethod(f.Method),
		Amount:     ledger.Money(f.Amount),
	}, nil
}

// RepaymentFields are the editable fields of a repayment.
type RepaymentFields struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Method          string `json:"method" validate:"required"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	SourceOfFunding string `json:"source_of_funding,omitempty"`
}

type RepaymentRequest struct {
	LoanID string `json:"loan_id" validate:"required"`
	RepaymentFields
}

func (f RepaymentFields) Input(loanID string) (ledger.RepaymentInput, error) {
	date, err := parseDate("date", f.Date)
	if err != nil {
		return ledger.RepaymentInput{}, err
	}
	return ledger.RepaymentInput{
		LoanID:          loanID,
		Date:            date,
		Method:          ledger.PaymentMethod(f.Method),
		Amount:          ledger.Money(f.Amount),
		SourceOfFunding: f.SourceOfFunding,
	}, nil
}

type LoanUpdateRequest struct {
	DisbursementDate string `json:"disbursement_date" validate:"required,datetime=2006-01-02"`
	PaymentTerms     int    `json:"payment_terms" validate:"gte=0"`
	Principal        int64  `json:"principal" validate:"gte=0"`
	RepaymentAmount  int64  `json:"repayment_amount" validate:"gte=0"`
}

func (r LoanUpdateRequest) Update() (ledger.LoanUpdate, error) {
	date, err := parseDate("disbursement_date", r.DisbursementDate)
	if err != nil {
		return ledger.LoanUpdate{}, err
	}
	return ledger.LoanUpdate{
		DisbursementDate: date,
		PaymentTerms:     r.PaymentTerms,
		Principal:        ledger.Money(r.Principal),
		RepaymentAmount:  ledger.Money(r.RepaymentAmount),
	}, nil
}

// MasterRequest creates any of the four master data records. Fields that do
// not apply to the record kind are ignored.
type MasterRequest struct {
	ID             string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name           string `json:"name" validate:"required,max=200"`
	ContactDetails string `json:"contact_details,omitempty"`
	DefaultTerms   *int   `json:"default_terms,omitempty" validate:"omitempty,gte=0"`
	FundingTerms   string `json:"funding_terms,omitempty"`
}

type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  ledger.ErrorKind `json:"kind"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// FormatDate renders t the way request bodies expect it.
func FormatDate(t time.Time) string {
	return t.Format(ledger.DateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	d, err := ledger.ParseDate(s)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return d, nil
}
