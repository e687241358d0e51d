package commands

import (
	"github.com/Freeeeeet/lab_booking/internal/app"
	"github.com/spf13/cobra"
)

// ServeCmd creates the serve command
func ServeCmd(appCtx *AppContext) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the operator bot and background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(appCtx.Ctx, appCtx.Cfg, appCtx.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := a.Migrate(appCtx.Ctx); err != nil {
					return err
				}
			}
			return a.Serve(appCtx.Ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving")
	return cmd
}
