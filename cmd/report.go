package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var receivablesOpen bool

var receivablesCmd = &cobra.Command{
	Use:     "receivables",
	Aliases: []string{"ar"},
	Short:   "Show the receivables reconciliation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		if receivablesOpen {
			invoices, err := c.OpenInvoices(context.Background())
			if err != nil {
				return err
			}
			if len(invoices) == 0 {
				fmt.Println("No open invoices.")
				return nil
			}
			fmt.Printf("%-14s %-12s %-18s %-10s %14s %14s %14s %-9s\n",
				"INVOICE", "DEAL", "CUSTOMER", "DATE", "INVOICED", "RECEIVED", "OUTSTANDING", "STATUS")
			for _, inv := range invoices {
				fmt.Printf("%-14s %-12s %-18s %-10s %14s %14s %14s %-9s\n",
					truncate(inv.InvoiceNumber, 14), truncate(inv.DealID, 12), truncate(inv.CustomerName, 18),
					day(inv.Date), inv.InvoiceAmount, inv.AmountReceived, inv.OutstandingBalance, inv.Status)
			}
			return nil
		}

		rows, err := c.Receivables(context.Background())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No deals found.")
			return nil
		}
		fmt.Printf("%-12s %-18s %-10s %10s %10s %-14s %14s %14s %-10s %-16s\n",
			"DEAL", "CUSTOMER", "DELIVERED", "QTY", "STOCK", "INVOICE", "INVOICED", "OUTSTANDING", "DUE", "STATUS")
		for _, r := range rows {
			delivered, due := "-", "-"
			if r.DeliveryDate != nil {
				delivered = day(*r.DeliveryDate)
			}
			if r.DueDate != nil {
				due = day(*r.DueDate)
			}
			fmt.Printf("%-12s %-18s %-10s %10s %10s %-14s %14s %14s %-10s %-16s\n",
				truncate(r.DealID, 12), truncate(r.CustomerName, 18), delivered,
				r.DeliveredQuantity.StringFixed(2), r.OutstandingStock.StringFixed(2),
				truncate(r.InvoiceNumber, 14), money(r.InvoiceAmount), money(r.OutstandingBalance), due, r.Status)
		}
		return nil
	},
}

var cashBookLimit int

var cashBookCmd = &cobra.Command{
	Use:     "cashbook",
	Aliases: []string{"cash"},
	Short:   "Show cash book postings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newClient().CashBook(context.Background(), cashBookLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No cash book postings.")
			return nil
		}

		fmt.Printf("%-10s %-40s %-15s %12s %12s %12s %12s\n",
			"DATE", "DESCRIPTION", "CATEGORY", "CASH IN", "CASH OUT", "BANK IN", "BANK OUT")
		fmt.Printf("%-10s %-40s %-15s %12s %12s %12s %12s\n",
			"----", "-----------", "--------", "-------", "--------", "-------", "--------")
		for _, e := range entries {
			fmt.Printf("%-10s %-40s %-15s %12s %12s %12s %12s\n",
				day(e.Date), truncate(e.Description, 40), e.Category,
				money(e.CashIn), money(e.CashOut), money(e.BankIn), money(e.BankOut))
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the P&L, inventory, receivables and debt summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().ReportsSummary(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Reports as of %s\n\n", day(s.AsOf))
		fmt.Println("Profit & Loss")
		fmt.Printf("  Revenue:              %16s\n", s.PL.TotalRevenue)
		fmt.Printf("  Cost of goods sold:   %16s\n", s.PL.TotalCOGS)
		fmt.Printf("  Gross profit:         %16s\n", s.PL.GrossProfit)
		fmt.Printf("  Margin:               %15s%%\n", s.PL.MarginPercentage.StringFixed(2))
		fmt.Println()
		fmt.Println("Inventory")
		fmt.Printf("  Contracted (t):       %16s\n", s.Inventory.TotalContracted.StringFixed(2))
		fmt.Printf("  Delivered (t):        %16s\n", s.Inventory.TotalDelivered.StringFixed(2))
		fmt.Printf("  Outstanding (t):      %16s\n", s.Inventory.TotalOutstanding.StringFixed(2))
		fmt.Printf("  Stock at cost:        %16s\n", s.Inventory.StockValueAtCost)
		fmt.Println()
		fmt.Println("Receivables")
		fmt.Printf("  Invoiced:             %16s\n", s.Receivables.TotalInvoiced)
		fmt.Printf("  Received:             %16s\n", s.Receivables.TotalReceived)
		fmt.Printf("  Outstanding:          %16s\n", s.Receivables.OutstandingBalance)
		fmt.Printf("  Overdue:              %16s\n", s.Receivables.OverdueAmount)
		fmt.Println()
		fmt.Println("Debt")
		fmt.Printf("  Borrowed:             %16s\n", s.Debt.TotalBorrowed)
		fmt.Printf("  Repaid:               %16s\n", s.Debt.TotalRepaid)
		fmt.Printf("  Outstanding:          %16s\n", s.Debt.OutstandingPrincipal)
		return nil
	},
}

func init() {
	receivablesCmd.Flags().BoolVar(&receivablesOpen, "open", false, "Only invoices not yet paid")
	cashBookCmd.Flags().IntVar(&cashBookLimit, "limit", 0, "Maximum postings to show (default server limit)")

	rootCmd.AddCommand(receivablesCmd, cashBookCmd, reportCmd)
}
