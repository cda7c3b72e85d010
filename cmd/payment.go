package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
)

var paymentCmd = &cobra.Command{
	Use:     "payment",
	Aliases: []string{"pay"},
	Short:   "Record customer payments against invoices",
}

var (
	paymentDate   string
	paymentMethod string
	paymentAmount string
)

func paymentFields() (api.PaymentFields, error) {
	amount, err := moneyFlag("amount", paymentAmount)
	if err != nil {
		return api.PaymentFields{}, err
	}
	return api.PaymentFields{Date: paymentDate, Method: paymentMethod, Amount: amount}, nil
}

var paymentRecordCmd = &cobra.Command{
	Use:   "record [delivery-id]",
	Short: "Record a customer payment and post it to the cash book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := paymentFields()
		if err != nil {
			return err
		}
		p, err := newClient().RecordPayment(context.Background(), api.PaymentRequest{
			DeliveryID:    args[0],
			PaymentFields: fields,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Payment recorded: %s, %s by %s on %s\n", p.ID, p.Amount, p.Method, day(p.Date))
		return nil
	},
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customer payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		payments, err := newClient().ListPayments(context.Background())
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			fmt.Println("No payments found.")
			return nil
		}

		fmt.Printf("%-36s %-10s %-12s %-14s %-18s %-13s %14s\n",
			"ID", "DATE", "DEAL", "INVOICE", "CUSTOMER", "METHOD", "AMOUNT")
		fmt.Printf("%-36s %-10s %-12s %-14s %-18s %-13s %14s\n",
			"--", "----", "----", "-------", "--------", "------", "------")
		for _, p := range payments {
			fmt.Printf("%-36s %-10s %-12s %-14s %-18s %-13s %14s\n",
				p.ID, day(p.Date), truncate(p.DealID, 12), truncate(p.InvoiceNumber, 14),
				truncate(p.CustomerName, 18), p.Method, p.Amount)
		}
		return nil
	},
}

var paymentUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a customer payment",
	Long:  "Edit a customer payment. The invoice status is recomputed; the cash book posting made when the payment was recorded is not changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := paymentFields()
		if err != nil {
			return err
		}
		p, err := newClient().UpdatePayment(context.Background(), args[0], fields)
		if err != nil {
			return err
		}
		fmt.Printf("Payment updated: %s, %s by %s on %s\n", p.ID, p.Amount, p.Method, day(p.Date))
		return nil
	},
}

var paymentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a customer payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeletePayment(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Payment %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{paymentRecordCmd, paymentUpdateCmd} {
		c.Flags().StringVar(&paymentDate, "date", "", "Payment date (YYYY-MM-DD)")
		c.Flags().StringVar(&paymentMethod, "method", "", "CASH, NOSTRO or \"NOSTRO / BANK\"")
		c.Flags().StringVar(&paymentAmount, "amount", "", "Amount received")
		c.MarkFlagRequired("date")
		c.MarkFlagRequired("method")
		c.MarkFlagRequired("amount")
	}

	paymentCmd.AddCommand(paymentRecordCmd, paymentListCmd, paymentUpdateCmd, paymentDeleteCmd)
	rootCmd.AddCommand(paymentCmd)
}
