package main

import (
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/attribution-service/internal/attribution"
	"github.com/sells-group/attribution-service/internal/orderfile"
)

var (
	batchFile        string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Attribute every order listed in a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		triggers, err := orderfile.Read(batchFile)
		if err != nil {
			return err
		}
		if len(triggers) == 0 {
			zap.L().Warn("no orders found in file", zap.String("file", batchFile))
			return nil
		}

		att, closeStore, err := initAttributor(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		limit := batchConcurrency
		if limit <= 0 {
			limit = cfg.Batch.MaxConcurrent
		}

		var attributed, ignored, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, trig := range triggers {
			trig := trig
			g.Go(func() error {
				out, err := att.Process(gctx, trig)
				if err != nil {
					// A bad row must not abort the rest of the batch.
					failed.Add(1)
					zap.L().Error("attribution failed",
						zap.String("order_id", trig.OrderID),
						zap.String("store", trig.Store),
						zap.Error(err))
					return nil
				}
				switch out.Status {
				case attribution.StatusIgnored:
					ignored.Add(1)
				default:
					attributed.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("orders", len(triggers)),
			zap.Int64("attributed", attributed.Load()),
			zap.Int64("ignored", ignored.Load()),
			zap.Int64("failed", failed.Load()))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "CSV or XLSX file of orders (order_id, store)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent attributions (default from config)")
	batchCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(batchCmd)
}
