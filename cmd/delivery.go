package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/api"
)

var deliveryCmd = &cobra.Command{
	Use:   "delivery",
	Short: "Record and edit deliveries",
}

var (
	deliveryDate     string
	deliveryQuantity string
	deliveryInvoice  string
)

func deliveryFields() (api.DeliveryFields, error) {
	qty, err := quantityFlag("qty", deliveryQuantity)
	if err != nil {
		return api.DeliveryFields{}, err
	}
	return api.DeliveryFields{Date: deliveryDate, Quantity: qty, InvoiceNumber: deliveryInvoice}, nil
}

var deliveryRecordCmd = &cobra.Command{
	Use:   "record [deal-id]",
	Short: "Record the delivery of a deal and raise its invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := deliveryFields()
		if err != nil {
			return err
		}
		d, err := newClient().RecordDelivery(context.Background(), api.DeliveryRequest{
			DealID:         args[0],
			DeliveryFields: fields,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Delivery recorded: %s, invoice %s for %s [%s]\n", d.ID, d.InvoiceNumber, d.InvoiceAmount, d.Status)
		return nil
	},
}

var deliveryUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a delivery and reprice its invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := deliveryFields()
		if err != nil {
			return err
		}
		d, err := newClient().UpdateDelivery(context.Background(), args[0], fields)
		if err != nil {
			return err
		}
		fmt.Printf("Delivery updated: %s, invoice %s for %s [%s]\n", d.ID, d.InvoiceNumber, d.InvoiceAmount, d.Status)
		return nil
	},
}

var deliveryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a delivery and its customer payments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteDelivery(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Delivery %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{deliveryRecordCmd, deliveryUpdateCmd} {
		c.Flags().StringVar(&deliveryDate, "date", "", "Delivery date (YYYY-MM-DD)")
		c.Flags().StringVar(&deliveryQuantity, "qty", "0", "Delivered quantity in tons")
		c.Flags().StringVar(&deliveryInvoice, "invoice", "", "Invoice number")
		c.MarkFlagRequired("date")
		c.MarkFlagRequired("invoice")
	}

	deliveryCmd.AddCommand(deliveryRecordCmd, deliveryUpdateCmd, deliveryDeleteCmd)
	rootCmd.AddCommand(deliveryCmd)
}
