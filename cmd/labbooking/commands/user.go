package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/api"
	"github.com/Freeeeeet/lab_booking/internal/app"
	"github.com/Freeeeeet/lab_booking/internal/repository"
	"github.com/spf13/cobra"
)

// UserCmd creates the user command
func UserCmd(appCtx *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User administration",
	}
	cmd.AddCommand(linkTelegramCmd(appCtx), issueTokenCmd(appCtx))
	return cmd
}

func linkTelegramCmd(appCtx *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link-telegram <username> <chat_id>",
		Short: "Link a user's Telegram id (their private chat with the bot) for notifications and the operator bot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("chat_id must be a number: %w", err)
			}
			// У групп и каналов отрицательные ID, привязывается только личный чат пользователя
			if chatID <= 0 {
				return fmt.Errorf("chat_id must be the user's own Telegram id, got %d", chatID)
			}

			pool, err := app.NewPool(appCtx.Ctx, appCtx.Cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			linked, err := repository.NewUserRepository(pool).LinkTelegramChat(appCtx.Ctx, args[0], chatID)
			if err != nil {
				return err
			}
			if !linked {
				return fmt.Errorf("user %q not found", args[0])
			}

			fmt.Printf("✓ Chat %d linked to @%s\n", chatID, args[0])
			return nil
		},
	}
}

func issueTokenCmd(appCtx *AppContext) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Issue an API access token for a user",
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

			token, exp, err := api.IssueToken(appCtx.Cfg.JWTSecret, user.ID, user.Role, ttl)
			if err != nil {
				return err
			}

			fmt.Printf("Token for @%s (%s), expires %s:\n%s\n", user.Username, user.Role, exp.Format(time.RFC3339), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
