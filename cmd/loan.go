package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/ledger"
)

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Inspect and edit financier loans",
}

var loanListOpen bool

var loanListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the financing register",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()

		var (
			loans []ledger.LoanView
			err   error
		)
		if loanListOpen {
			loans, err = c.OpenLoans(context.Background())
		} else {
			loans, err = c.FinancingRegister(context.Background())
		}
		if err != nil {
			return err
		}
		if len(loans) == 0 {
			fmt.Println("No loans found.")
			return nil
		}

		fmt.Printf("%-36s %-12s %-16s %14s %-10s %14s %14s %7s %-6s\n",
			"ID", "DEAL", "FINANCIER", "PRINCIPAL", "MATURITY", "REPAYABLE", "OUTSTANDING", "OVERDUE", "STATUS")
		fmt.Printf("%-36s %-12s %-16s %14s %-10s %14s %14s %7s %-6s\n",
			"--", "----", "---------", "---------", "--------", "---------", "-----------", "-------", "------")
		for _, l := range loans {
			fmt.Printf("%-36s %-12s %-16s %14s %-10s %14s %14s %7d %-6s\n",
				l.ID, truncate(l.DealID, 12), truncate(l.FinancierName, 16), l.Principal,
				day(l.MaturityDate), l.RepaymentAmount, l.OutstandingBalance, l.DaysOverdue, l.Status)
		}
		return nil
	},
}

var (
	loanDisbursement string
	loanTerms        int
	loanPrincipal    string
	loanRepayable    string
)

var loanUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a loan and recompute its maturity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := moneyFlag("principal", loanPrincipal)
		if err != nil {
			return err
		}
		repayable, err := moneyFlag("repayment-amount", loanRepayable)
		if err != nil {
			return err
		}
		l, err := newClient().UpdateLoan(context.Background(), args[0], api.LoanUpdateRequest{
			DisbursementDate: loanDisbursement,
			PaymentTerms:     loanTerms,
			Principal:        principal,
			RepaymentAmount:  repayable,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Loan updated: %s, repay %s by %s [%s]\n", l.ID, l.RepaymentAmount, day(l.MaturityDate), l.Status)
		return nil
	},
}

var loanDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a loan and its repayments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteLoan(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Loan %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	loanListCmd.Flags().BoolVar(&loanListOpen, "open", false, "Only loans with a balance outstanding")

	loanUpdateCmd.Flags().StringVar(&loanDisbursement, "disbursement-date", "", "Disbursement date (YYYY-MM-DD)")
	loanUpdateCmd.Flags().IntVar(&loanTerms, "terms", 0, "Payment terms in days")
	loanUpdateCmd.Flags().StringVar(&loanPrincipal, "principal", "", "Principal")
	loanUpdateCmd.Flags().StringVar(&loanRepayable, "repayment-amount", "", "Amount repayable at maturity")
	loanUpdateCmd.MarkFlagRequired("disbursement-date")
	loanUpdateCmd.MarkFlagRequired("terms")
	loanUpdateCmd.MarkFlagRequired("principal")
	loanUpdateCmd.MarkFlagRequired("repayment-amount")

	loanCmd.AddCommand(loanListCmd, loanUpdateCmd, loanDeleteCmd)
	rootCmd.AddCommand(loanCmd)
}
