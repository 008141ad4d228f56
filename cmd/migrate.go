package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInfra(*configPath, false)
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runMigrations(ctx, in)
		},
	}
}

func runMigrations(ctx context.Context, in *infra) error {
	applied, err := migrations.Up(ctx, in.db, in.txManager, in.log)
	if err != nil {
		in.log.Error("Migrations failed after %d applied: %v", len(applied), err)
		return err
	}
	in.log.Info("Migrations complete: %d applied", len(applied))
	return nil
}
