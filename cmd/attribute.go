package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/attribution-service/internal/attribution"
)

var (
	attributeOrderID string
	attributeStore   string
)

var attributeCmd = &cobra.Command{
	Use:   "attribute",
	Short: "Attribute a single order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		att, closeStore, err := initAttributor(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		out, err := att.Process(ctx, attribution.Trigger{
			OrderID: attributeOrderID,
			Store:   attributeStore,
		})
		if err != nil {
			return err
		}

		pretty, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

func init() {
	attributeCmd.Flags().StringVar(&attributeOrderID, "order-id", "", "order ID to attribute")
	attributeCmd.Flags().StringVar(&attributeStore, "store", "", "store name the order came from")
	attributeCmd.MarkFlagRequired("order-id") //nolint:errcheck
	attributeCmd.MarkFlagRequired("store")    //nolint:errcheck
	rootCmd.AddCommand(attributeCmd)
}
