package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/app"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/Freeeeeet/lab_booking/internal/timetable"
	"github.com/spf13/cobra"
)

// WorkLogCmd creates the worklog command
func WorkLogCmd(appCtx *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worklog",
		Short: "Operator work-log reports",
	}
	cmd.AddCommand(workLogSummaryCmd(appCtx), workLogCompleteCmd(appCtx), workLogWeekImageCmd(appCtx))
	return cmd
}

func workLogSummaryCmd(appCtx *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <username>",
		Short: "Show worked minutes for the current week, month and all time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.NewPool(appCtx.Ctx, appCtx.Cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := repository.NewUserRepository(pool).GetByUsername(appCtx.Ctx, args[0])
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %q not found", args[0])
			}

			normalizer := service.NewNormalizer(appCtx.Cfg.CampusUTCOffsetMinutes)
			workLogs := service.NewWorkLogService(repository.NewWorkLogRepository(pool), normalizer, service.SystemClock{}, appCtx.Logger)

			summary, err := workLogs.Summary(appCtx.Ctx, user.ID)
			if err != nil {
				return err
			}

			fmt.Printf("\nOperator: @%s (%s)\n\n", user.Username, user.Role)
			fmt.Printf("Week  %s:  %s\n", normalizer.FormatRange(summary.Week), timetable.FormatMinutes(summary.WeekMinutes))
			fmt.Printf("Month %s:  %s\n", normalizer.FormatRange(summary.Month), timetable.FormatMinutes(summary.MonthMinutes))
			fmt.Printf("Total:  %s\n\n", timetable.FormatMinutes(summary.TotalMinutes))
			return nil
		},
	}
}

func workLogCompleteCmd(appCtx *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Mark elapsed scheduled work logs as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.NewPool(appCtx.Ctx, appCtx.Cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			normalizer := service.NewNormalizer(appCtx.Cfg.CampusUTCOffsetMinutes)
			workLogs := service.NewWorkLogService(repository.NewWorkLogRepository(pool), normalizer, service.SystemClock{}, appCtx.Logger)

			n, err := workLogs.CompleteElapsed(appCtx.Ctx)
			if err != nil {
				return err
			}
			fmt.Printf("✓ %d work log(s) completed\n", n)
			return nil
		},
	}
}

func workLogWeekImageCmd(appCtx *AppContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "week-image <username>",
		Short: "Render the operator's current week as a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.NewPool(appCtx.Ctx, appCtx.Cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := repository.NewUserRepository(pool).GetByUsername(appCtx.Ctx, args[0])
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %q not found", args[0])
			}

			normalizer := service.NewNormalizer(appCtx.Cfg.CampusUTCOffsetMinutes)
			workLogs := service.NewWorkLogService(repository.NewWorkLogRepository(pool), normalizer, service.SystemClock{}, appCtx.Logger)

			logs, week, err := workLogs.Week(appCtx.Ctx, user.ID)
			if err != nil {
				return err
			}

			image, err := timetable.Render(timetable.Week{
				Range:        week,
				Location:     normalizer.Location(),
				Entries:      timetable.LabelEntries(appCtx.Ctx, logs, repository.NewEquipmentRepository(pool), appCtx.Logger),
				TotalMinutes: service.SumWorked(logs, model.CountedWorkLogStatuses),
				Now:          time.Now(),
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, image, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			fmt.Printf("✓ %d work log(s) rendered to %s\n", len(logs), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "week.png", "output file")
	return cmd
}
