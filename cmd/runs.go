package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/store"
)

var (
	runsStatus string
	runsStore  string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded attribution runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("run store is disabled (store.driver is none)")
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Store:  runsStore,
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		pretty, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status (success, ignored, failed)")
	runsCmd.Flags().StringVar(&runsStore, "store", "", "filter by store name")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "max rows to return")
	rootCmd.AddCommand(runsCmd)
}
