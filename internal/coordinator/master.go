package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

func (c *Coordinator) CreateCommodity(ctx context.Context, in ledger.Commodity) (*ledger.Commodity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	err := c.write(ctx, "create_commodity", ledger.MasterDataViews, func(q *store.Queries) error {
		return q.InsertCommodity(ctx, &in)
	})
	if err != nil {
		return nil, err
	}
	c.logMaster("commodity", in.ID, in.Name)
	return &in, nil
}

func (c *Coordinator) CreateSupplier(ctx context.Context, in ledger.Supplier) (*ledger.Supplier, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	err := c.write(ctx, "create_supplier", ledger.MasterDataViews, func(q *store.Queries) error {
		return q.InsertSupplier(ctx, &in)
	})
	if err != nil {
		return nil, err
	}
	c.logMaster("supplier", in.ID, in.Name)
	return &in, nil
}

func (c *Coordinator) CreateCustomer(ctx context.Context, in ledger.Customer) (*ledger.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	err := c.write(ctx, "create_customer", ledger.MasterDataViews, func(q *store.Queries) error {
		return q.InsertCustomer(ctx, &in)
	})
	if err != nil {
		return nil, err
	}
	c.logMaster("customer", in.ID, in.Name)
	return &in, nil
}

func (c *Coordinator) CreateFinancier(ctx context.Context, in ledger.Financier) (*ledger.Financier, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	err := c.write(ctx, "create_financier", ledger.MasterDataViews, func(q *store.Queries) error {
		return q.InsertFinancier(ctx, &in)
	})
	if err != nil {
		return nil, err
	}
	c.logMaster("financier", in.ID, in.Name)
	return &in, nil
}

func (c *Coordinator) ListMasterData(ctx context.Context) (*ledger.MasterData, error) {
	var md *ledger.MasterData
	err := c.read(ctx, "list_master_data", func(q *store.Queries) error {
		var err error
		md, err = q.ListMasterData(ctx)
		return err
	})
	return md, err
}

func (c *Coordinator) logMaster(entity, id, name string) {
	c.logger.Info(entity+" created",
		zap.String("op", "create_"+entity),
		zap.String("id", id),
		zap.String("name", name),
	)
}
