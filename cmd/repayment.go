package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
)

var repaymentCmd = &cobra.Command{
	Use:   "repayment",
	Short: "Record repayments of financier loans",
}

var (
	repaymentDate   string
	repaymentMethod string
	repaymentAmount string
	repaymentSource string
)

func repaymentFields() (api.RepaymentFields, error) {
	amount, err := moneyFlag("amount", repaymentAmount)
	if err != nil {
		return api.RepaymentFields{}, err
	}
	return api.RepaymentFields{
		Date:            repaymentDate,
		Method:          repaymentMethod,
		Amount:          amount,
		SourceOfFunding: repaymentSource,
	}, nil
}

var repaymentRecordCmd = &cobra.Command{
	Use:   "record [loan-id]",
	Short: "Record a loan repayment and post it to the cash book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := repaymentFields()
		if err != nil {
			return err
		}
		r, err := newClient().RecordRepayment(context.Background(), api.RepaymentRequest{
			LoanID:          args[0],
			RepaymentFields: fields,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Repayment recorded: %s, %s by %s on %s\n", r.ID, r.Amount, r.Method, day(r.Date))
		return nil
	},
}

var repaymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loan repayments",
	RunE: func(cmd *cobra.Command, args []string) error {
		repayments, err := newClient().ListRepayments(context.Background())
		if err != nil {
			return err
		}
		if len(repayments) == 0 {
			fmt.Println("No repayments found.")
			return nil
		}

		fmt.Printf("%-36s %-10s %-12s %-16s %-13s %14s  %s\n",
			"ID", "DATE", "DEAL", "FINANCIER", "METHOD", "AMOUNT", "SOURCE")
		fmt.Printf("%-36s %-10s %-12s %-16s %-13s %14s  %s\n",
			"--", "----", "----", "---------", "------", "------", "------")
		for _, r := range repayments {
			fmt.Printf("%-36s %-10s %-12s %-16s %-13s %14s  %s\n",
				r.ID, day(r.Date), truncate(r.DealID, 12), truncate(r.FinancierName, 16),
				r.Method, r.Amount, r.SourceOfFunding)
		}
		return nil
	},
}

var repaymentUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a loan repayment",
	Long:  "Edit a loan repayment. The loan status is recomputed; the cash book posting made when the repayment was recorded is not changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := repaymentFields()
		if err != nil {
			return err
		}
		r, err := newClient().UpdateRepayment(context.Background(), args[0], fields)
		if err != nil {
			return err
		}
		fmt.Printf("Repayment updated: %s, %s by %s on %s\n", r.ID, r.Amount, r.Method, day(r.Date))
		return nil
	},
}

var repaymentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a loan repayment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteRepayment(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Repayment %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{repaymentRecordCmd, repaymentUpdateCmd} {
		c.Flags().StringVar(&repaymentDate, "date", "", "Repayment date (YYYY-MM-DD)")
		c.Flags().StringVar(&repaymentMethod, "method", "", "CASH, NOSTRO or \"NOSTRO / BANK\"")
		c.Flags().StringVar(&repaymentAmount, "amount", "", "Amount repaid")
		c.Flags().StringVar(&repaymentSource, "source", "", "Source of funding")
		c.MarkFlagRequired("date")
		c.MarkFlagRequired("method")
		c.MarkFlagRequired("amount")
	}

	repaymentCmd.AddCommand(repaymentRecordCmd, repaymentListCmd, repaymentUpdateCmd, repaymentDeleteCmd)
	rootCmd.AddCommand(repaymentCmd)
}
