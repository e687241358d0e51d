package commands

import (
	"context"
	"io"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAppContext() *AppContext {
	return &AppContext{
		Cfg:    &config.Config{DBDSN: "postgres://localhost/none", JWTSecret: "0123456789abcdef"},
		Logger: zap.NewNop(),
		Ctx:    context.Background(),
	}
}

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	return cmd.Execute()
}

func TestCommandTree(t *testing.T) {
	appCtx := testAppContext()

	assert.ElementsMatch(t, []string{"up", "down", "version"}, subcommandNames(MigrateCmd(appCtx)))
	assert.ElementsMatch(t, []string{"summary", "complete", "week-image"}, subcommandNames(WorkLogCmd(appCtx)))
	assert.ElementsMatch(t, []string{"link-telegram", "token"}, subcommandNames(UserCmd(appCtx)))

	serve := ServeCmd(appCtx)
	require.NotNil(t, serve.Flags().Lookup("migrate"))
	assert.Equal(t, "false", serve.Flags().Lookup("migrate").DefValue)
}

func TestLinkTelegram_RejectsNonNumericChatID(t *testing.T) {
	err := execute(UserCmd(testAppContext()), "link-telegram", "alice", "not-a-number")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id must be a number")
}

func TestLinkTelegram_RejectsGroupChatID(t *testing.T) {
	for _, id := range []string{"-1001234567890", "0"} {
		err := execute(UserCmd(testAppContext()), "link-telegram", "alice", "--", id)

		require.Error(t, err, id)
		assert.Contains(t, err.Error(), "user's own Telegram id", id)
	}
}

func TestArgsValidation(t *testing.T) {
	appCtx := testAppContext()

	assert.Error(t, execute(UserCmd(appCtx), "token"))
	assert.Error(t, execute(WorkLogCmd(appCtx), "summary"))
	assert.Error(t, execute(MigrateCmd(appCtx), "up", "extra"))
}

func TestTokenTTLDefault(t *testing.T) {
	user := UserCmd(testAppContext())
	token, _, err := user.Find([]string{"token"})
	require.NoError(t, err)

	flag := token.Flags().Lookup("ttl")
	require.NotNil(t, flag)
	assert.Equal(t, "24h0m0s", flag.DefValue)
}
