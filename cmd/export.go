package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/internal/store"
)

var (
	exportOut    string
	exportStatus string
	exportStore  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to an XLSX workbook",
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
			Status: model.RunStatus(exportStatus),
			Store:  exportStore,
		})
		if err != nil {
			return err
		}

		wb := xlsx.NewFile()
		sheet, err := wb.AddSheet("Runs")
		if err != nil {
			return eris.Wrap(err, "export: add sheet")
		}

		header := sheet.AddRow()
		for _, col := range []string{
			"ID", "Order ID", "Store", "Status", "Sales Rep",
			"Manual Verification", "Review Reason", "Created At",
		} {
			header.AddCell().SetString(col)
		}

		for _, run := range runs {
			row := sheet.AddRow()
			row.AddCell().SetString(run.ID)
			row.AddCell().SetString(run.OrderID)
			row.AddCell().SetString(run.Store)
			row.AddCell().SetString(string(run.Status))
			row.AddCell().SetString(run.SalesRep)
			row.AddCell().SetBool(run.ManualVerification)
			row.AddCell().SetString(run.ReviewReason)
			row.AddCell().SetString(run.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		if err := wb.Save(exportOut); err != nil {
			return eris.Wrapf(err, "export: save %s", exportOut)
		}

		zap.L().Info("exported runs", zap.Int("rows", len(runs)), zap.String("file", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "runs.xlsx", "output workbook path")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "filter by status")
	exportCmd.Flags().StringVar(&exportStore, "store", "", "filter by store name")
	rootCmd.AddCommand(exportCmd)
}
