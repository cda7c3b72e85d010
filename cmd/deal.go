package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/ledger"
)

var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Manage deals",
}

// dealFlags are shared by deal create and deal update.
type dealFlags struct {
	date           string
	status         string
	commodity      string
	grade          string
	supplier       string
	customer       string
	financier      string
	quantity       string
	supplierPrice  string
	offtakePrice   string
	customerTerms  int
	financierTerms int
	owner          string
	comments       string
	disbursement   string
	maturityValue  string
}

func (f *dealFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "Deal date (YYYY-MM-DD)")
	fl.StringVar(&f.status, "status", "", "Open, Closed or Cancelled (default Open)")
	fl.StringVar(&f.commodity, "commodity", "", "Commodity ID")
	fl.StringVar(&f.grade, "grade", "", "Commodity grade")
	fl.StringVar(&f.supplier, "supplier", "", "Supplier ID")
	fl.StringVar(&f.customer, "customer", "", "Customer ID")
	fl.StringVar(&f.financier, "financier", "", "Financier ID")
	fl.StringVar(&f.quantity, "qty", "0", "Quantity in tons")
	fl.StringVar(&f.supplierPrice, "supplier-price", "0", "Supplier price per ton")
	fl.StringVar(&f.offtakePrice, "offtake-price", "0", "Offtake price per ton")
	fl.IntVar(&f.customerTerms, "customer-terms", 0, "Customer payment terms in days")
	fl.IntVar(&f.financierTerms, "financier-terms", 0, "Financier payment terms in days")
	fl.StringVar(&f.owner, "owner", "", "Deal owner")
	fl.StringVar(&f.comments, "comments", "", "Comments")
	fl.StringVar(&f.disbursement, "disbursement-date", "", "Loan disbursement date (YYYY-MM-DD)")
	fl.StringVar(&f.maturityValue, "maturity-value", "", "Amount repayable at maturity (default principal)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("commodity")
	cmd.MarkFlagRequired("supplier")
	cmd.MarkFlagRequired("customer")
}

func (f *dealFlags) request(cmd *cobra.Command, id string) (api.DealRequest, error) {
	qty, err := quantityFlag("qty", f.quantity)
	if err != nil {
		return api.DealRequest{}, err
	}
	supplierPrice, err := moneyFlag("supplier-price", f.supplierPrice)
	if err != nil {
		return api.DealRequest{}, err
	}
	offtakePrice, err := moneyFlag("offtake-price", f.offtakePrice)
	if err != nil {
		return api.DealRequest{}, err
	}
	req := api.DealRequest{
		ID:                    id,
		Date:                  f.date,
		Status:                f.status,
		CommodityID:           f.commodity,
		CommodityGrade:        f.grade,
		SupplierID:            f.supplier,
		CustomerID:            f.customer,
		FinancierID:           f.financier,
		Quantity:              qty,
		SupplierPricePerTon:   supplierPrice,
		OfftakePricePerTon:    offtakePrice,
		PaymentTermsCustomer:  optionalInt(cmd, "customer-terms", f.customerTerms),
		PaymentTermsFinancier: optionalInt(cmd, "financier-terms", f.financierTerms),
		DealOwner:             f.owner,
		Comments:              f.comments,
		DisbursementDate:      f.disbursement,
	}
	if f.maturityValue != "" {
		mv, err := moneyFlag("maturity-value", f.maturityValue)
		if err != nil {
			return api.DealRequest{}, err
		}
		req.MaturityValue = &mv
	}
	return req, nil
}

var dealCreate dealFlags

var dealCreateCmd = &cobra.Command{
	Use:   "create [id]",
	Short: "Create a deal, opening its loan when financed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := dealCreate.request(cmd, args[0])
		if err != nil {
			return err
		}
		deal, err := newClient().CreateDeal(context.Background(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Deal created: %s %s %s t, margin %s (%s%%)\n",
			deal.ID, deal.CommodityName, deal.Quantity, deal.ExpectedGrossMargin, deal.ExpectedMarginPercentage)
		if deal.Loan != nil {
			fmt.Printf("Loan opened:  %s from %s, repay %s by %s\n",
				deal.Loan.ID, deal.FinancierName, deal.Loan.RepaymentAmount, day(deal.Loan.MaturityDate))
		}
		return nil
	},
}

var dealUpdate dealFlags

var dealUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a deal's fields and reprice its invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := dealUpdate.request(cmd, args[0])
		if err != nil {
			return err
		}
		deal, err := newClient().UpdateDeal(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		fmt.Printf("Deal updated: %s [%s] sales value %s\n", deal.ID, deal.Status, deal.ExpectedSalesValue)
		return nil
	},
}

var dealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deals",
	RunE: func(cmd *cobra.Command, args []string) error {
		deals, err := newClient().ListDeals(context.Background())
		if err != nil {
			return err
		}
		if len(deals) == 0 {
			fmt.Println("No deals found.")
			return nil
		}

		fmt.Printf("%-12s %-10s %-9s %-14s %-18s %10s %14s %14s\n",
			"ID", "DATE", "STATUS", "COMMODITY", "CUSTOMER", "QTY", "SALES", "MARGIN")
		fmt.Printf("%-12s %-10s %-9s %-14s %-18s %10s %14s %14s\n",
			"--", "----", "------", "---------", "--------", "---", "-----", "------")
		for _, d := range deals {
			fmt.Printf("%-12s %-10s %-9s %-14s %-18s %10s %14s %14s\n",
				truncate(d.ID, 12), day(d.Date), d.Status, truncate(d.CommodityName, 14),
				truncate(d.CustomerName, 18), d.Quantity.StringFixed(2),
				d.ExpectedSalesValue, d.ExpectedGrossMargin)
		}
		return nil
	},
}

var dealShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a deal with its delivery and loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newClient().GetDeal(context.Background(), args[0])
		if err != nil {
			return err
		}
		printDeal(d)
		return nil
	},
}

func printDeal(d *ledger.DealView) {
	fmt.Printf("ID:          %s\n", d.ID)
	fmt.Printf("Date:        %s\n", day(d.Date))
	fmt.Printf("Status:      %s\n", d.Status)
	fmt.Printf("Commodity:   %s %s\n", d.CommodityName, d.CommodityGrade)
	fmt.Printf("Supplier:    %s\n", d.SupplierName)
	fmt.Printf("Customer:    %s\n", d.CustomerName)
	if d.FinancierName != "" {
		fmt.Printf("Financier:   %s\n", d.FinancierName)
	}
	fmt.Printf("Quantity:    %s t\n", d.Quantity)
	fmt.Printf("Cost:        %s (%s/t)\n", d.CostValue, d.SupplierPricePerTon)
	fmt.Printf("Sales:       %s (%s/t)\n", d.ExpectedSalesValue, d.OfftakePricePerTon)
	fmt.Printf("Margin:      %s (%s%%)\n", d.ExpectedGrossMargin, d.ExpectedMarginPercentage)
	if d.DealOwner != "" {
		fmt.Printf("Owner:       %s\n", d.DealOwner)
	}
	if d.Comments != "" {
		fmt.Printf("Comments:    %s\n", d.Comments)
	}
	if del := d.Delivery; del != nil {
		fmt.Printf("\nDelivery %s on %s: %s t, invoice %s for %s [%s]\n",
			del.ID, day(del.Date), del.Quantity, del.InvoiceNumber, del.InvoiceAmount, del.Status)
	}
	if l := d.Loan; l != nil {
		fmt.Printf("\nLoan %s: %s disbursed %s, repay %s by %s [%s]\n",
			l.ID, l.Principal, day(l.DisbursementDate), l.RepaymentAmount, day(l.MaturityDate), l.Status)
	}
}

var dealDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a deal with its delivery, payments, loan and repayments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteDeal(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deal %s deleted. Cash book postings are kept.\n", args[0])
		return nil
	},
}

func init() {
	dealCreate.register(dealCreateCmd)
	dealUpdate.register(dealUpdateCmd)

	dealCmd.AddCommand(dealCreateCmd, dealListCmd, dealShowCmd, dealUpdateCmd, dealDeleteCmd)
	rootCmd.AddCommand(dealCmd)
}
