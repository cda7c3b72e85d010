package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
)

var masterCmd = &cobra.Command{
	Use:   "master",
	Short: "Manage commodities, suppliers, customers and financiers",
}

// masterKinds maps the singular names used on the command line to API paths.
var masterKinds = map[string]string{
	"commodity": "commodities",
	"supplier":  "suppliers",
	"customer":  "customers",
	"financier": "financiers",
}

var (
	masterID      string
	masterName    string
	masterContact string
	masterTerms   int
	masterFunding string
)

var masterAddCmd = &cobra.Command{
	Use:       "add [commodity|supplier|customer|financier]",
	Short:     "Add a master data record",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"commodity", "supplier", "customer", "financier"},
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.MasterRequest{
			ID:             masterID,
			Name:           masterName,
			ContactDetails: masterContact,
			DefaultTerms:   optionalInt(cmd, "terms", masterTerms),
			FundingTerms:   masterFunding,
		}
		var created struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := newClient().CreateMaster(context.Background(), masterKinds[args[0]], req, &created); err != nil {
			return err
		}
		fmt.Printf("%s created: %s (%s)\n", args[0], created.ID, created.Name)
		return nil
	},
}

var masterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all master data",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := newClient().MasterData(context.Background())
		if err != nil {
			return err
		}

		fmt.Println("Commodities")
		for _, c := range md.Commodities {
			fmt.Printf("  %-36s %s\n", c.ID, c.Name)
		}
		fmt.Println("Suppliers")
		for _, s := range md.Suppliers {
			fmt.Printf("  %-36s %-30s %s\n", s.ID, truncate(s.Name, 30), s.ContactDetails)
		}
		fmt.Println("Customers")
		for _, c := range md.Customers {
			terms := "-"
			if c.DefaultTerms != nil {
				terms = strconv.Itoa(*c.DefaultTerms) + "d"
			}
			fmt.Printf("  %-36s %-30s %5s %s\n", c.ID, truncate(c.Name, 30), terms, c.ContactDetails)
		}
		fmt.Println("Financiers")
		for _, f := range md.Financiers {
			fmt.Printf("  %-36s %-30s %s\n", f.ID, truncate(f.Name, 30), f.FundingTerms)
		}
		return nil
	},
}

func init() {
	masterAddCmd.Flags().StringVar(&masterID, "id", "", "Record ID (generated when empty)")
	masterAddCmd.Flags().StringVar(&masterName, "name", "", "Name")
	masterAddCmd.Flags().StringVar(&masterContact, "contact", "", "Contact details (suppliers and customers)")
	masterAddCmd.Flags().IntVar(&masterTerms, "terms", 0, "Default payment terms in days (customers)")
	masterAddCmd.Flags().StringVar(&masterFunding, "funding-terms", "", "Funding terms (financiers)")
	masterAddCmd.MarkFlagRequired("name")

	masterCmd.AddCommand(masterAddCmd, masterListCmd)
	rootCmd.AddCommand(masterCmd)
}
