package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-HallBookingService/internal/scheduler"
)

func newSweepCmd(configPath *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Purge expired unlinked slot claims once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInfra(*configPath, false)
			if err != nil {
				return err
			}
			defer in.Close()

			ledger := reservation.NewRepository(in.db, in.txManager, in.cfg.Reservation.ClaimTTL(), nil)

			sweeper, err := scheduler.NewClaimSweeper(ledger, in.cfg.Reservation.SweepInterval(), in.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := sweeper.Stop(); err != nil {
					in.log.Error("Failed to stop sweeper: %v", err)
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			purged, err := sweeper.RunOnce(ctx)
			if err != nil {
				return err
			}
			in.log.Info("Sweep complete: %d expired entries purged", purged)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum time for the purge")
	return cmd
}
