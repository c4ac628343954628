package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/spf13/cobra"
)

func newStatsCommand(logger *log.Logger) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print waitlist statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := config.NewDatabase(logger, config.NewDBConfigFromEnv())
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db, logger)

			wc := config.NewWaitlistConfig()
			service, err := waitlist.NewWaitlistServiceFactory(waitlist.Options{
				DB:                db,
				Logger:            logger,
				ProductName:       wc.ProductName,
				EarlyAdopterLimit: wc.EarlyAdopterLimit,
				ReceiptSecret:     wc.ReceiptSecret,
				ReceiptTTL:        wc.ReceiptTTL,
			}).CreateService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return printStats(ctx, cmd, service)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "time allowed for the queries")

	return cmd
}

func printStats(ctx context.Context, cmd *cobra.Command, service waitlist.WaitlistService) error {
	stats, err := service.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
