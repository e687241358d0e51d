package callbacks

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/controller/bottest"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/controller/state"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	operatorChat = int64(100)
	userChat     = int64(200)
	unknownChat  = int64(300)
	// групповой чат, по ошибке привязанный к оператору
	groupChat = int64(-1001234567890)
)

type env struct {
	sender       *bottest.Sender
	reservations *bottest.Reservations
	dialogs      *state.Manager
	deps         *callbacktypes.Handler
	operator     *model.User
}

func newEnv() *env {
	operator := &model.User{ID: uuid.New(), Username: "op", Role: model.UserRoleOperator, Status: model.UserStatusActive}
	user := &model.User{ID: uuid.New(), Username: "alice", Role: model.UserRoleUser, Status: model.UserStatusActive}

	e := &env{
		sender:       &bottest.Sender{},
		reservations: &bottest.Reservations{},
		dialogs:      state.NewManager(state.DefaultTTL),
		operator:     operator,
	}
	e.deps = &callbacktypes.Handler{
		Sender:       e.sender,
		Reservations: e.reservations,
		Operators:    bottest.Operators{operatorChat: operator, userChat: user, groupChat: operator},
		Dialogs:      e.dialogs,
		Logger:       zap.NewNop(),
	}
	return e
}

func callback(chatID int64, data string) *models.CallbackQuery {
	return callbackInChat(chatID, chatID, data)
}

func callbackInChat(chatID, userID int64, data string) *models.CallbackQuery {
	return &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: userID},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: chatID}},
		},
	}
}

func TestRoute_Approve(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	Route(context.Background(), callback(operatorChat, callbacktypes.Approve(id)), e.deps)

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "approve", calls[0].Action)
	assert.Equal(t, id, calls[0].ID)
	assert.Equal(t, service.Actor{ID: e.operator.ID, Role: model.UserRoleOperator}, calls[0].Actor)

	answer := e.sender.LastAnswer()
	require.NotNil(t, answer)
	assert.False(t, answer.ShowAlert)
	assert.Equal(t, "✅ Бронирование одобрено.", e.sender.LastText())
}

func TestRoute_ApproveConflictShowsAlert(t *testing.T) {
	e := newEnv()
	e.reservations.Err = &service.Error{Kind: service.KindEquipmentConflict}

	Route(context.Background(), callback(operatorChat, callbacktypes.Approve(uuid.New())), e.deps)

	answer := e.sender.LastAnswer()
	require.NotNil(t, answer)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, "❌ Оборудование уже занято на это время", answer.Text)
	assert.Empty(t, e.sender.Messages)
}

func TestRoute_RequiresOperator(t *testing.T) {
	tests := []struct {
		name   string
		chatID int64
		want   string
	}{
		{"unlinked chat", unknownChat, "❌ Ваш Telegram не привязан к учётной записи лаборатории. Отправьте /start, чтобы узнать свой ID."},
		{"regular user", userChat, "❌ Доступно только операторам"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()

			Route(context.Background(), callback(tt.chatID, callbacktypes.Approve(uuid.New())), e.deps)

			assert.Empty(t, e.reservations.Snapshot())
			require.NotNil(t, e.sender.LastAnswer())
			assert.Equal(t, tt.want, e.sender.LastAnswer().Text)
		})
	}
}

func TestRoute_RejectStartsDialog(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	Route(context.Background(), callback(operatorChat, callbacktypes.Reject(id)), e.deps)

	assert.Empty(t, e.reservations.Snapshot(), "rejection waits for a reason")
	pending, ok := e.dialogs.PendingRejection(operatorChat)
	require.True(t, ok)
	assert.Equal(t, id, pending)
	assert.Contains(t, e.sender.LastText(), "/skip")
}

func TestRoute_GroupChatChecksTheUserWhoPressed(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	Route(context.Background(), callbackInChat(groupChat, unknownChat, callbacktypes.Approve(id)), e.deps)
	Route(context.Background(), callbackInChat(groupChat, userChat, callbacktypes.Cancel(id)), e.deps)

	assert.Empty(t, e.reservations.Snapshot())
	require.Len(t, e.sender.Answers, 2)
	for _, a := range e.sender.Answers {
		assert.True(t, a.ShowAlert)
	}
	assert.Empty(t, e.sender.Messages)

	Route(context.Background(), callbackInChat(groupChat, operatorChat, callbacktypes.Approve(id)), e.deps)

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, e.operator.ID, calls[0].Actor.ID)
	require.Len(t, e.sender.Messages, 1)
	assert.Equal(t, groupChat, e.sender.Messages[0].ChatID, "reply goes to the chat where the button was pressed")
}

func TestRoute_RejectDialogBelongsToUser(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	Route(context.Background(), callbackInChat(groupChat, operatorChat, callbacktypes.Reject(id)), e.deps)

	pending, ok := e.dialogs.PendingRejection(operatorChat)
	require.True(t, ok)
	assert.Equal(t, id, pending)
	_, ok = e.dialogs.PendingRejection(groupChat)
	assert.False(t, ok)
}

func TestRoute_Cancel(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	Route(context.Background(), callback(operatorChat, callbacktypes.Cancel(id)), e.deps)

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "cancel", calls[0].Action)
	assert.Equal(t, "🚫 Бронирование отменено.", e.sender.LastText())
}

func TestRoute_InvalidData(t *testing.T) {
	e := newEnv()

	Route(context.Background(), callback(operatorChat, "approve:nope"), e.deps)
	Route(context.Background(), callback(operatorChat, "something_else"), e.deps)

	assert.Empty(t, e.reservations.Snapshot())
	require.Len(t, e.sender.Answers, 2)
	for _, a := range e.sender.Answers {
		assert.True(t, a.ShowAlert)
		assert.Equal(t, "❌ Неверные данные", a.Text)
	}
}

func TestRoute_InaccessibleMessageFallsBackToUser(t *testing.T) {
	e := newEnv()
	cb := callback(operatorChat, callbacktypes.Approve(uuid.New()))
	cb.Message = models.MaybeInaccessibleMessage{}

	Route(context.Background(), cb, e.deps)

	require.Len(t, e.reservations.Snapshot(), 1)
}
