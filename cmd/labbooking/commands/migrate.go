package commands

import (
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/app"
	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command with up, down and version subcommands
func MigrateCmd(appCtx *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubcommand(appCtx, "up", "Apply all pending migrations", func(m *app.Migrator) error {
			return m.Run(appCtx.Ctx)
		}),
		migrateSubcommand(appCtx, "down", "Roll back the latest migration", func(m *app.Migrator) error {
			return m.Down(appCtx.Ctx)
		}),
		migrateSubcommand(appCtx, "version", "Print the current schema version", func(m *app.Migrator) error {
			version, err := m.Version(appCtx.Ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Schema version: %d\n", version)
			return nil
		}),
	)
	return cmd
}

func migrateSubcommand(appCtx *AppContext, use, short string, run func(m *app.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.NewPool(appCtx.Ctx, appCtx.Cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, appCtx.Logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			return run(migrator)
		},
	}
}
