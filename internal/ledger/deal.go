package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DealStatus string

const (
	DealOpen      DealStatus = "Open"
	DealClosed    DealStatus = "Closed"
	DealCancelled DealStatus = "Cancelled"
)

func (s DealStatus) Valid() bool {
	switch s {
	case DealOpen, DealClosed, DealCancelled:
		return true
	}
	return false
}

// Deal is a back-to-back commodity trade: bought from a supplier, sold to a
// customer, optionally financed. The economics fields are cached from
// quantity and prices and are rewritten on every edit.
type Deal struct {
	ID                    string          `json:"id"`
	Date                  time.Time       `json:"date"`
	Status                DealStatus      `json:"status"`
	CommodityID           string          `json:"commodity_id"`
	CommodityGrade        string          `json:"commodity_grade,omitempty"`
	SupplierID            string          `json:"supplier_id"`
	CustomerID            string          `json:"customer_id"`
	FinancierID           string          `json:"financier_id,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	SupplierPricePerTon   Money           `json:"supplier_price_per_ton"`
	OfftakePricePerTon    Money           `json:"offtake_price_per_ton"`
	PaymentTermsCustomer  *int            `json:"payment_terms_customer,omitempty"`
	PaymentTermsFinancier *int            `json:"payment_terms_financier,omitempty"`
	DealOwner             string          `json:"deal_owner,omitempty"`
	Comments              string          `json:"comments,omitempty"`
	DealEconomics
	CreatedAt time.Time `json:"created_at"`
}

// DealEconomics are the expected figures of a deal at contract prices.
type DealEconomics struct {
	CostValue                Money           `json:"cost_value"`
	ExpectedSalesValue       Money           `json:"expected_sales_value"`
	ExpectedGrossMargin      Money           `json:"expected_gross_margin"`
	ExpectedMarginPercentage decimal.Decimal `json:"expected_margin_percentage"`
}

// ComputeEconomics prices qty at both legs of the trade.
func ComputeEconomics(qty decimal.Decimal, supplierPrice, offtakePrice Money) DealEconomics {
	cost := supplierPrice.MulQuantity(qty)
	sales := offtakePrice.MulQuantity(qty)
	margin := sales - cost
	return DealEconomics{
		CostValue:                cost,
		ExpectedSalesValue:       sales,
		ExpectedGrossMargin:      margin,
		ExpectedMarginPercentage: Percentage(margin, sales),
	}
}

// DealInput carries the user-entered fields of a deal. On create a loan is
// opened when a financier, disbursement date and financier terms are all
// present; MaturityValue overrides the default repayment amount.
type DealInput struct {
	ID                    string
	Date                  time.Time
	Status                DealStatus
	CommodityID           string
	CommodityGrade        string
	SupplierID            string
	CustomerID            string
	FinancierID           string
	Quantity              decimal.Decimal
	SupplierPricePerTon   Money
	OfftakePricePerTon    Money
	PaymentTermsCustomer  *int
	PaymentTermsFinancier *int
	DealOwner             string
	Comments              string
	DisbursementDate      *time.Time
	MaturityValue         *Money
}

func (in *DealInput) Validate() error {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return invalid("id", "is required")
	}
	if in.Date.IsZero() {
		return invalid("date", "is required")
	}
	if in.Status == "" {
		in.Status = DealOpen
	}
	if !in.Status.Valid() {
		return invalid("status", "must be Open, Closed or Cancelled")
	}
	if in.CommodityID == "" {
		return invalid("commodity_id", "is required")
	}
	if in.SupplierID == "" {
		return invalid("supplier_id", "is required")
	}
	if in.CustomerID == "" {
		return invalid("customer_id", "is required")
	}
	if in.Quantity.IsNegative() {
		return invalid("quantity", "must not be negative")
	}
	if in.SupplierPricePerTon < 0 {
		return invalid("supplier_price_per_ton", "must not be negative")
	}
	if in.OfftakePricePerTon < 0 {
		return invalid("offtake_price_per_ton", "must not be negative")
	}
	if in.PaymentTermsCustomer != nil && *in.PaymentTermsCustomer < 0 {
		return invalid("payment_terms_customer", "must not be negative")
	}
	if in.PaymentTermsFinancier != nil && *in.PaymentTermsFinancier < 0 {
		return invalid("payment_terms_financier", "must not be negative")
	}
	if in.DisbursementDate != nil && Day(*in.DisbursementDate).Before(Day(in.Date)) {
		return invalid("disbursement_date", "must not be before the deal date")
	}
	if in.MaturityValue != nil && *in.MaturityValue < 0 {
		return invalid("maturity_value", "must not be negative")
	}
	if _, ok := in.SupplierPricePerTon.MulQuantityChecked(in.Quantity); !ok {
		return invalid("quantity", "is too large to price at the supplier price")
	}
	return ValidateInvoice(in.Quantity, in.OfftakePricePerTon)
}

// WantsLoan reports whether creating this deal also opens a loan.
func (in *DealInput) WantsLoan() bool {
	return in.FinancierID != "" &&
		in.DisbursementDate != nil &&
		in.PaymentTermsFinancier != nil && *in.PaymentTermsFinancier > 0
}

// NewDeal builds a deal with its economics computed.
func NewDeal(in DealInput) *Deal {
	d := &Deal{ID: in.ID}
	d.Apply(in)
	return d
}

// Apply overwrites the editable fields of d from in and recomputes the
// economics. The id is never changed.
func (d *Deal) Apply(in DealInput) {
	d.Date = Day(in.Date)
	d.Status = in.Status
	d.CommodityID = in.CommodityID
	d.CommodityGrade = in.CommodityGrade
	d.SupplierID = in.SupplierID
	d.CustomerID = in.CustomerID
	d.FinancierID = in.FinancierID
	d.Quantity = in.Quantity
	d.SupplierPricePerTon = in.SupplierPricePerTon
	d.OfftakePricePerTon = in.OfftakePricePerTon
	d.PaymentTermsCustomer = in.PaymentTermsCustomer
	d.PaymentTermsFinancier = in.PaymentTermsFinancier
	d.DealOwner = in.DealOwner
	d.Comments = in.Comments
	d.DealEconomics = ComputeEconomics(in.Quantity, in.SupplierPricePerTon, in.OfftakePricePerTon)
}

// DealView is a deal with its references resolved for display.
type DealView struct {
	Deal
	CommodityName string    `json:"commodity_name"`
	SupplierName  string    `json:"supplier_name"`
	CustomerName  string    `json:"customer_name"`
	FinancierName string    `json:"financier_name,omitempty"`
	Delivery      *Delivery `json:"delivery,omitempty"`
	Loan          *Loan     `json:"loan,omitempty"`
}
