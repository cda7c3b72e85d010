package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

// RecordCustomerPayment stores a receipt, recomputes the invoice status from
// the payment sum read inside the same transaction, and appends the inward
// cash book posting.
func (c *Coordinator) RecordCustomerPayment(ctx context.Context, in ledger.PaymentInput) (*ledger.CustomerPayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var (
		payment *ledger.CustomerPayment
		posting ledger.CashBookEntry
		status  ledger.PaymentStatus
	)
	err := c.write(ctx, "record_customer_payment", ledger.PaymentViews, func(q *store.Queries) error {
		delivery, err := q.GetDelivery(ctx, in.DeliveryID)
		if err != nil {
			return err
		}
		deal, err := q.GetDeal(ctx, delivery.DealID)
		if err != nil {
			return err
		}
		customer, err := q.GetCustomer(ctx, deal.CustomerID)
		if err != nil {
			return err
		}

		payment = &ledger.CustomerPayment{
			DeliveryID: delivery.ID,
			Date:       ledger.Day(in.Date),
			Method:     in.Method,
			Amount:     in.Amount,
		}
		if err := q.InsertPayment(ctx, payment); err != nil {
			return err
		}

		paid, err := q.SumPayments(ctx, delivery.ID)
		if err != nil {
			return err
		}
		status = ledger.DeliveryStatus(paid, delivery.InvoiceAmount)
		if err := q.SetDeliveryStatus(ctx, delivery.ID, status); err != nil {
			return err
		}

		posting = ledger.ReceiptPosting(*payment, customer.Name, delivery.InvoiceNumber, deal.ID)
		return q.InsertCashBookEntry(ctx, &posting)
	})
	if err != nil {
		return nil, err
	}

	c.metrics.Posted(posting)
	c.logger.Info("customer payment recorded",
		zap.String("op", "record_customer_payment"),
		zap.String("deal_id", posting.DealID),
		zap.Stringer("amount", payment.Amount),
		zap.String("status", string(status)),
	)
	return payment, nil
}

// UpdateCustomerPayment edits a payment and recomputes its invoice status.
// The posting made when the payment was recorded is left as it was.
func (c *Coordinator) UpdateCustomerPayment(ctx context.Context, id string, in ledger.PaymentInput) (*ledger.CustomerPayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var payment *ledger.CustomerPayment
	err := c.write(ctx, "update_customer_payment", ledger.PaymentEditViews, func(q *store.Queries) error {
		var err error
		payment, err = q.GetPayment(ctx, id)
		if err != nil {
			return err
		}
		payment.Date = ledger.Day(in.Date)
		payment.Method = in.Method
		payment.Amount = in.Amount
		if err := q.UpdatePayment(ctx, payment); err != nil {
			return err
		}
		return refreshDeliveryStatus(ctx, q, payment.DeliveryID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("customer payment updated",
		zap.String("op", "update_customer_payment"),
		zap.String("payment_id", id),
		zap.Stringer("amount", payment.Amount),
	)
	return payment, nil
}

// DeleteCustomerPayment removes a payment and recomputes its invoice status.
func (c *Coordinator) DeleteCustomerPayment(ctx context.Context, id string) error {
	err := c.write(ctx, "delete_customer_payment", ledger.PaymentEditViews, func(q *store.Queries) error {
		payment, err := q.GetPayment(ctx, id)
		if err != nil {
			return err
		}
		if err := q.DeletePayment(ctx, id); err != nil {
			return err
		}
		return refreshDeliveryStatus(ctx, q, payment.DeliveryID)
	})
	if err != nil {
		return err
	}

	c.logger.Info("customer payment deleted", zap.String("op", "delete_customer_payment"), zap.String("payment_id", id))
	return nil
}

// ListCustomerPayments returns every payment, newest first.
func (c *Coordinator) ListCustomerPayments(ctx context.Context) ([]ledger.PaymentView, error) {
	var payments []ledger.PaymentView
	err := c.read(ctx, "list_customer_payments", func(q *store.Queries) error {
		var err error
		payments, err = q.ListPaymentViews(ctx)
		return err
	})
	return payments, err
}

func refreshDeliveryStatus(ctx context.Context, q *store.Queries, deliveryID string) error {
	delivery, err := q.GetDelivery(ctx, deliveryID)
	if err != nil {
		return err
	}
	paid, err := q.SumPayments(ctx, deliveryID)
	if err != nil {
		return err
	}
	return q.SetDeliveryStatus(ctx, deliveryID, ledger.DeliveryStatus(paid, delivery.InvoiceAmount))
}
