package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/lab_booking/cmd/labbooking/commands"
	"github.com/Freeeeeet/lab_booking/internal/app"
	"github.com/Freeeeeet/lab_booking/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &commands.AppContext{
		Cfg:    cfg,
		Logger: logger,
		Ctx:    ctx,
	}

	rootCmd := &cobra.Command{
		Use:           "labbooking",
		Short:         "Campus lab equipment reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		commands.ServeCmd(appCtx),
		commands.MigrateCmd(appCtx),
		commands.WorkLogCmd(appCtx),
		commands.UserCmd(appCtx),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
