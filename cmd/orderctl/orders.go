package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"orderkit/pkg/customer"
	"orderkit/pkg/order"
	"orderkit/pkg/record"
)

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Create orders and show their delivery time",
	}

	var (
		id, customerID, address, tier string
		products                      []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create one order and print it as JSON",
		Example: `  orderctl orders create --customer-id 1 --address "Main St" --tier premium --product p1 --product p2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := customer.ParseTier(tier)
			if err != nil {
				return err
			}
			cust, err := customer.New(customerID, address, t)
			if err != nil {
				return err
			}
			o, err := order.Create(order.RawData{ID: id, Customer: cust, ProductIDs: products})
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(o)
		},
	}
	create.Flags().StringVar(&id, "id", "", "order id (optional)")
	create.Flags().StringVar(&customerID, "customer-id", "", "customer identifier")
	create.Flags().StringVar(&address, "address", "", "customer address")
	create.Flags().StringVar(&tier, "tier", string(customer.TierStandard), "subscription tier: standard or premium")
	create.Flags().StringSliceVar(&products, "product", nil, "product id, repeatable")
	_ = create.MarkFlagRequired("customer-id")

	var importProducts []string
	importCmd := &cobra.Command{
		Use:   "import [customers.csv]",
		Short: "Create one order per customer row of a CSV file",
		Long: `Reads a customer file with id, address and subscription columns and
prints one order per row. Rows that do not describe a valid customer are
reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := record.ReadFile(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			skipped := 0
			for i, r := range recs {
				cust, err := customer.FromRecord(r)
				if err != nil {
					c.log.Warn(cmd.Context(), "skipping row", "row", i+2, "error", err)
					skipped++
					continue
				}
				o, err := order.Create(order.RawData{ID: uuid.NewString(), Customer: cust, ProductIDs: importProducts})
				if err != nil {
					return err
				}
				if err := enc.Encode(o); err != nil {
					return fmt.Errorf("encode order: %w", err)
				}
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d rows skipped\n", skipped, len(recs))
			}
			return nil
		},
	}
	importCmd.Flags().StringSliceVar(&importProducts, "product", nil, "product id for every order, repeatable")

	cmd.AddCommand(create, importCmd)
	return cmd
}
