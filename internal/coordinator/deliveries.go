package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

// RecordDelivery raises the single invoice of a deal, priced at the deal's
// offtake price.
func (c *Coordinator) RecordDelivery(ctx context.Context, in ledger.DeliveryInput) (*ledger.Delivery, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var delivery *ledger.Delivery
	err := c.write(ctx, "record_delivery", ledger.DeliveryViews, func(q *store.Queries) error {
		deal, err := q.GetDeal(ctx, in.DealID)
		if err != nil {
			return err
		}
		existing, err := q.FindDeliveryByDeal(ctx, deal.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &ledger.AlreadyExistsError{Entity: "delivery", Parent: deal.ID}
		}

		if err := ledger.ValidateInvoice(in.Quantity, deal.OfftakePricePerTon); err != nil {
			return err
		}

		delivery = &ledger.Delivery{
			DealID:        deal.ID,
			Date:          ledger.Day(in.Date),
			Quantity:      in.Quantity,
			InvoiceNumber: in.InvoiceNumber,
		}
		delivery.Reprice(deal.OfftakePricePerTon, 0)
		return q.InsertDelivery(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("delivery recorded",
		zap.String("op", "record_delivery"),
		zap.String("deal_id", delivery.DealID),
		zap.String("invoice_number", delivery.InvoiceNumber),
		zap.Stringer("amount", delivery.InvoiceAmount),
	)
	return delivery, nil
}

// UpdateDelivery edits date, quantity and invoice number, then reprices the
// invoice from the deal's current offtake price.
func (c *Coordinator) UpdateDelivery(ctx context.Context, id string, in ledger.DeliveryInput) (*ledger.Delivery, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var delivery *ledger.Delivery
	err := c.write(ctx, "update_delivery", ledger.DeliveryViews, func(q *store.Queries) error {
		var err error
		delivery, err = q.GetDelivery(ctx, id)
		if err != nil {
			return err
		}
		deal, err := q.GetDeal(ctx, delivery.DealID)
		if err != nil {
			return err
		}
		if err := ledger.ValidateInvoice(in.Quantity, deal.OfftakePricePerTon); err != nil {
			return err
		}
		paid, err := q.SumPayments(ctx, id)
		if err != nil {
			return err
		}

		delivery.Date = ledger.Day(in.Date)
		delivery.Quantity = in.Quantity
		delivery.InvoiceNumber = in.InvoiceNumber
		delivery.Reprice(deal.OfftakePricePerTon, paid)
		return q.UpdateDelivery(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("delivery updated",
		zap.String("op", "update_delivery"),
		zap.String("deal_id", delivery.DealID),
		zap.Stringer("amount", delivery.InvoiceAmount),
	)
	return delivery, nil
}

// DeleteDelivery removes a delivery and its payments.
func (c *Coordinator) DeleteDelivery(ctx context.Context, id string) error {
	err := c.write(ctx, "delete_delivery", ledger.DeliveryViews, func(q *store.Queries) error {
		if _, err := q.GetDelivery(ctx, id); err != nil {
			return err
		}
		if err := q.DeletePaymentsByDelivery(ctx, id); err != nil {
			return err
		}
		return q.DeleteDelivery(ctx, id)
	})
	if err != nil {
		return err
	}

	c.logger.Info("delivery deleted", zap.String("op", "delete_delivery"), zap.String("delivery_id", id))
	return nil
}
