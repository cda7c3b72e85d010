package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

// CreateDeal inserts a deal with its economics and, when the input carries a
// financier with disbursement terms, opens its loan in the same unit.
func (c *Coordinator) CreateDeal(ctx context.Context, in ledger.DealInput) (*ledger.DealView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var view *ledger.DealView
	err := c.write(ctx, "create_deal", ledger.DealViews, func(q *store.Queries) error {
		if err := checkReferences(ctx, q, in); err != nil {
			return err
		}
		exists, err := q.DealExists(ctx, in.ID)
		if err != nil {
			return err
		}
		if exists {
			return &ledger.DuplicateKeyError{Entity: "deal", Key: in.ID}
		}

		deal := ledger.NewDeal(in)
		if err := q.InsertDeal(ctx, deal); err != nil {
			return err
		}
		if in.WantsLoan() {
			loan := ledger.NewLoan(deal, *in.DisbursementDate, *in.PaymentTermsFinancier, in.MaturityValue)
			if err := q.InsertLoan(ctx, loan); err != nil {
				return err
			}
		}

		view, err = q.GetDealView(ctx, deal.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("deal created",
		zap.String("op", "create_deal"),
		zap.String("deal_id", view.ID),
		zap.Stringer("cost_value", view.CostValue),
		zap.Bool("financed", view.Loan != nil),
	)
	return view, nil
}

func (c *Coordinator) GetDeals(ctx context.Context) ([]ledger.DealView, error) {
	var deals []ledger.DealView
	err := c.read(ctx, "get_deals", func(q *store.Queries) error {
		var err error
		deals, err = q.ListDealViews(ctx)
		return err
	})
	return deals, err
}

func (c *Coordinator) GetDeal(ctx context.Context, id string) (*ledger.DealView, error) {
	var view *ledger.DealView
	err := c.read(ctx, "get_deal", func(q *store.Queries) error {
		var err error
		view, err = q.GetDealView(ctx, id)
		return err
	})
	return view, err
}

// UpdateDeal rewrites a deal's fields and economics and reprices its
// delivery against the new offtake price. The loan keeps its own terms.
func (c *Coordinator) UpdateDeal(ctx context.Context, id string, in ledger.DealInput) (*ledger.DealView, error) {
	in.ID = id
	in.DisbursementDate = nil
	in.MaturityValue = nil
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var view *ledger.DealView
	err := c.write(ctx, "update_deal", ledger.DealViews, func(q *store.Queries) error {
		deal, err := q.GetDeal(ctx, id)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, q, in); err != nil {
			return err
		}

		loan, err := q.FindLoanByDeal(ctx, id)
		if err != nil {
			return err
		}
		if loan != nil {
			if in.FinancierID == "" {
				return &ledger.ValidationError{Field: "financier_id", Reason: "is required while the deal has a loan"}
			}
			if loan.DisbursementDate.Before(ledger.Day(in.Date)) {
				return &ledger.ValidationError{Field: "date", Reason: "must not be after the loan disbursement date"}
			}
		}

		deal.Apply(in)
		if err := q.UpdateDeal(ctx, deal); err != nil {
			return err
		}

		delivery, err := q.FindDeliveryByDeal(ctx, id)
		if err != nil {
			return err
		}
		if delivery != nil {
			if err := ledger.ValidateInvoice(delivery.Quantity, deal.OfftakePricePerTon); err != nil {
				return err
			}
			paid, err := q.SumPayments(ctx, delivery.ID)
			if err != nil {
				return err
			}
			delivery.Reprice(deal.OfftakePricePerTon, paid)
			if err := q.UpdateDelivery(ctx, delivery); err != nil {
				return err
			}
		}

		view, err = q.GetDealView(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("deal updated", zap.String("op", "update_deal"), zap.String("deal_id", id))
	return view, nil
}

// DeleteDeal removes a deal and everything hanging off it, deepest
// dependents first. Cash book postings stay.
func (c *Coordinator) DeleteDeal(ctx context.Context, id string) error {
	err := c.write(ctx, "delete_deal", ledger.DealDeleteViews, func(q *store.Queries) error {
		if _, err := q.GetDeal(ctx, id); err != nil {
			return err
		}

		delivery, err := q.FindDeliveryByDeal(ctx, id)
		if err != nil {
			return err
		}
		if delivery != nil {
			if err := q.DeletePaymentsByDelivery(ctx, delivery.ID); err != nil {
				return err
			}
			if err := q.DeleteDelivery(ctx, delivery.ID); err != nil {
				return err
			}
		}

		loan, err := q.FindLoanByDeal(ctx, id)
		if err != nil {
			return err
		}
		if loan != nil {
			if err := q.DeleteRepaymentsByLoan(ctx, loan.ID); err != nil {
				return err
			}
			if err := q.DeleteLoan(ctx, loan.ID); err != nil {
				return err
			}
		}

		return q.DeleteDeal(ctx, id)
	})
	if err != nil {
		return err
	}

	c.logger.Info("deal deleted", zap.String("op", "delete_deal"), zap.String("deal_id", id))
	return nil
}

func checkReferences(ctx context.Context, q *store.Queries, in ledger.DealInput) error {
	refs := []struct {
		table, entity, id string
	}{
		{"commodities", "commodity", in.CommodityID},
		{"suppliers", "supplier", in.SupplierID},
		{"customers", "customer", in.CustomerID},
		{"financiers", "financier", in.FinancierID},
	}
	for _, r := range refs {
		if r.id == "" {
			continue
		}
		ok, err := q.MasterExists(ctx, r.table, r.id)
		if err != nil {
			return err
		}
		if !ok {
			return &ledger.NotFoundError{Entity: r.entity, ID: r.id}
		}
	}
	return nil
}
