package client

import (
	"context"
	"net/url"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/ledger"
)

func (c *Client) CreateDeal(ctx context.Context, req api.DealRequest) (*ledger.DealView, error) {
	var result ledger.DealView
	if err := c.post(ctx, "/api/v1/deals", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListDeals(ctx context.Context) ([]ledger.DealView, error) {
	var result []ledger.DealView
	if err := c.get(ctx, "/api/v1/deals", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetDeal(ctx context.Context, id string) (*ledger.DealView, error) {
	var result ledger.DealView
	if err := c.get(ctx, "/api/v1/deals/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateDeal(ctx context.Context, id string, req api.DealRequest) (*ledger.DealView, error) {
	var result ledger.DealView
	if err := c.put(ctx, "/api/v1/deals/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/deals/"+url.PathEscape(id))
}

func (c *Client) RecordDelivery(ctx context.Context, req api.DeliveryRequest) (*ledger.Delivery, error) {
	var result ledger.Delivery
	if err := c.post(ctx, "/api/v1/deliveries", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateDelivery(ctx context.Context, id string, req api.DeliveryFields) (*ledger.Delivery, error) {
	var result ledger.Delivery
	if err := c.put(ctx, "/api/v1/deliveries/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteDelivery(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/deliveries/"+url.PathEscape(id))
}

func (c *Client) Receivables(ctx context.Context) ([]ledger.ReceivablesRow, error) {
	var result []ledger.ReceivablesRow
	if err := c.get(ctx, "/api/v1/receivables", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) OpenInvoices(ctx context.Context) ([]ledger.OpenInvoice, error) {
	var result []ledger.OpenInvoice
	if err := c.get(ctx, "/api/v1/invoices/open", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) RecordPayment(ctx context.Context, req api.PaymentRequest) (*ledger.CustomerPayment, error) {
	var result ledger.CustomerPayment
	if err := c.post(ctx, "/api/v1/customer-payments", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListPayments(ctx context.Context) ([]ledger.PaymentView, error) {
	var result []ledger.PaymentView
	if err := c.get(ctx, "/api/v1/customer-payments", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdatePayment(ctx context.Context, id string, req api.PaymentFields) (*ledger.CustomerPayment, error) {
	var result ledger.CustomerPayment
	if err := c.put(ctx, "/api/v1/customer-payments/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/customer-payments/"+url.PathEscape(id))
}

func (c *Client) FinancingRegister(ctx context.Context) ([]ledger.LoanView, error) {
	var result []ledger.LoanView
	if err := c.get(ctx, "/api/v1/loans", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) OpenLoans(ctx context.Context) ([]ledger.LoanView, error) {
	var result []ledger.LoanView
	if err := c.get(ctx, "/api/v1/loans/open", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateLoan(ctx context.Context, id string, req api.LoanUpdateRequest) (*ledger.Loan, error) {
	var result ledger.Loan
	if err := c.put(ctx, "/api/v1/loans/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteLoan(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/loans/"+url.PathEscape(id))
}

func (c *Client) RecordRepayment(ctx context.Context, req api.RepaymentRequest) (*ledger.Repayment, error) {
	var result ledger.Repayment
	if err := c.post(ctx, "/api/v1/repayments", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListRepayments(ctx context.Context) ([]ledger.RepaymentView, error) {
	var result []ledger.RepaymentView
	if err := c.get(ctx, "/api/v1/repayments", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateRepayment(ctx context.Context, id string, req api.RepaymentFields) (*ledger.Repayment, error) {
	var result ledger.Repayment
	if err := c.put(ctx, "/api/v1/repayments/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteRepayment(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/repayments/"+url.PathEscape(id))
}

// CashBook returns up to limit postings, newest first. Zero uses the
// server's default.
func (c *Client) CashBook(ctx context.Context, limit int) ([]ledger.CashBookEntry, error) {
	var result []ledger.CashBookEntry
	if err := c.get(ctx, "/api/v1/cash-book"+limitQuery(limit), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ReportsSummary(ctx context.Context) (*ledger.ReportsSummary, error) {
	var result ledger.ReportsSummary
	if err := c.get(ctx, "/api/v1/reports/summary", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) MasterData(ctx context.Context) (*ledger.MasterData, error) {
	var result ledger.MasterData
	if err := c.get(ctx, "/api/v1/master-data", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateMaster creates a record of kind, which is one of commodities,
// suppliers, customers or financiers. The created record is decoded into
// result.
func (c *Client) CreateMaster(ctx context.Context, kind string, req api.MasterRequest, result any) error {
	return c.post(ctx, "/api/v1/"+url.PathEscape(kind), req, result)
}
