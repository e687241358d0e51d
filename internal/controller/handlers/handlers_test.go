package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

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
	unknownChat  = int64(300)
	groupChat    = int64(-1001234567890)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeWorkLogs struct {
	logs    []*model.OperatorWorkLog
	week    model.Interval
	summary service.WorkSummary
}

func (f *fakeWorkLogs) Summary(_ context.Context, operatorID uuid.UUID) (*service.WorkSummary, error) {
	s := f.summary
	s.OperatorID = operatorID
	return &s, nil
}

func (f *fakeWorkLogs) Week(context.Context, uuid.UUID) ([]*model.OperatorWorkLog, model.Interval, error) {
	return f.logs, f.week, nil
}

type fakeEquipment map[uuid.UUID]*model.Equipment

func (f fakeEquipment) GetEquipment(_ context.Context, id uuid.UUID) (*model.Equipment, error) {
	return f[id], nil
}

type env struct {
	h            *Handlers
	sender       *bottest.Sender
	reservations *bottest.Reservations
	dialogs      *state.Manager
	workLogs     *fakeWorkLogs
	operator     *model.User
	microscope   *model.Equipment
	normalizer   *service.Normalizer
}

func newEnv() *env {
	normalizer := service.NewNormalizer(9 * 60)
	now := time.Date(2025, 3, 12, 11, 0, 0, 0, normalizer.Location())

	e := &env{
		sender:       &bottest.Sender{},
		reservations: &bottest.Reservations{},
		dialogs:      state.NewManager(state.DefaultTTL),
		operator:     &model.User{ID: uuid.New(), Username: "op", Role: model.UserRoleOperator, Status: model.UserStatusActive},
		microscope:   &model.Equipment{ID: uuid.New(), Slug: "microscope", Name: "Microscope", IsActive: true},
		normalizer:   normalizer,
	}
	e.workLogs = &fakeWorkLogs{
		week:    normalizer.WeekRange(now),
		summary: service.WorkSummary{WeekMinutes: 90, MonthMinutes: 240, TotalMinutes: 600},
	}

	deps := &callbacktypes.Handler{
		Sender:       e.sender,
		Reservations: e.reservations,
		Operators:    bottest.Operators{operatorChat: e.operator, groupChat: e.operator},
		Dialogs:      e.dialogs,
		Logger:       zap.NewNop(),
	}
	e.h = NewHandlers(deps, e.workLogs, fakeEquipment{e.microscope.ID: e.microscope}, normalizer, fixedClock{now: now})
	return e
}

func message(chatID int64, text string) *models.Update {
	return messageInChat(chatID, chatID, text)
}

func messageInChat(chatID, userID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Chat: models.Chat{ID: chatID},
			From: &models.User{ID: userID},
			Text: text,
		},
	}
}

func TestHandleStart(t *testing.T) {
	e := newEnv()

	e.h.HandleStart(context.Background(), nil, message(unknownChat, "/start"))
	assert.Contains(t, e.sender.LastText(), fmt.Sprintf("Ваш Telegram ID: %d.", unknownChat))

	e.h.HandleStart(context.Background(), nil, message(operatorChat, "/start"))
	assert.Contains(t, e.sender.LastText(), "@op")
	assert.Contains(t, e.sender.LastText(), "OPERATOR")

	e.h.HandleStart(context.Background(), nil, messageInChat(groupChat, unknownChat, "/start"))
	assert.Contains(t, e.sender.LastText(), fmt.Sprintf("Ваш Telegram ID: %d.", unknownChat))
}

func TestHandlePending(t *testing.T) {
	e := newEnv()
	start := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)
	r := &model.Reservation{
		ID:             uuid.New(),
		EquipmentID:    e.microscope.ID,
		StartAt:        start,
		EndAt:          start.Add(90 * time.Minute),
		Status:         model.ReservationStatusPending,
		OperatorStatus: model.OperatorStatusNone,
		Equipment:      e.microscope,
	}
	e.reservations.Pending = []*model.Reservation{r}

	e.h.HandlePending(context.Background(), nil, message(operatorChat, "/pending"))

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, e.operator.ID, calls[0].Actor.ID)

	require.Len(t, e.sender.Messages, 2)
	card := e.sender.Messages[1]
	assert.Contains(t, card.Text, "Microscope")
	assert.Contains(t, card.Text, "12.03.2025 10:00-11:30")
	markup, ok := card.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, callbacktypes.Approve(r.ID), markup.InlineKeyboard[0][0].CallbackData)
}

func TestHandlePending_Empty(t *testing.T) {
	e := newEnv()

	e.h.HandlePending(context.Background(), nil, message(operatorChat, "/pending"))

	assert.Equal(t, "🎉 Нет бронирований, ожидающих вашего решения.", e.sender.LastText())
}

func TestHandlePending_TruncatesLongList(t *testing.T) {
	e := newEnv()
	for i := 0; i < maxPendingShown+3; i++ {
		e.reservations.Pending = append(e.reservations.Pending, &model.Reservation{
			ID:      uuid.New(),
			StartAt: time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2025, 3, 12, 2, 0, 0, 0, time.UTC),
			Status:  model.ReservationStatusPending,
		})
	}

	e.h.HandlePending(context.Background(), nil, message(operatorChat, "/pending"))

	// заголовок, карточки, хвост
	assert.Len(t, e.sender.Messages, 1+maxPendingShown+1)
	assert.Contains(t, e.sender.LastText(), "ещё 3")
}

func TestHandlePending_RequiresLinkedOperator(t *testing.T) {
	e := newEnv()

	e.h.HandlePending(context.Background(), nil, message(unknownChat, "/pending"))

	assert.Empty(t, e.reservations.Snapshot())
	assert.Contains(t, e.sender.LastText(), "не привязан")
}

func TestHandlePending_GroupMemberIsNotTheOperator(t *testing.T) {
	e := newEnv()

	e.h.HandlePending(context.Background(), nil, messageInChat(groupChat, unknownChat, "/pending"))

	assert.Empty(t, e.reservations.Snapshot())
	assert.Contains(t, e.sender.LastText(), "не привязан")
	assert.Equal(t, groupChat, e.sender.Messages[0].ChatID)
}

func TestHandlePending_WithoutSender(t *testing.T) {
	e := newEnv()
	update := message(groupChat, "/pending")
	update.Message.From = nil

	e.h.HandlePending(context.Background(), nil, update)

	assert.Empty(t, e.reservations.Snapshot())
	assert.Contains(t, e.sender.LastText(), "не привязан")
}

func TestRejectionDialog(t *testing.T) {
	e := newEnv()
	id := uuid.New()
	e.dialogs.StartRejection(operatorChat, id)

	e.h.HandleTextMessage(context.Background(), nil, message(operatorChat, "Calibration day"))

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "reject", calls[0].Action)
	assert.Equal(t, id, calls[0].ID)
	assert.Equal(t, "Calibration day", calls[0].Reason)
	assert.Equal(t, "🚫 Бронирование отклонено.", e.sender.LastText())

	_, ok := e.dialogs.PendingRejection(operatorChat)
	assert.False(t, ok)
}

func TestRejectionDialog_GroupChat(t *testing.T) {
	e := newEnv()
	id := uuid.New()
	e.dialogs.StartRejection(operatorChat, id)

	// другой участник группы не может подставить свою причину
	e.h.HandleTextMessage(context.Background(), nil, messageInChat(groupChat, unknownChat, "spam"))
	e.h.HandleSkip(context.Background(), nil, messageInChat(groupChat, unknownChat, "/skip"))
	e.h.HandleCancel(context.Background(), nil, messageInChat(groupChat, unknownChat, "/cancel"))

	assert.Empty(t, e.reservations.Snapshot())
	pending, ok := e.dialogs.PendingRejection(operatorChat)
	require.True(t, ok)
	assert.Equal(t, id, pending)

	e.h.HandleTextMessage(context.Background(), nil, messageInChat(groupChat, operatorChat, "Calibration day"))

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, e.operator.ID, calls[0].Actor.ID)
	assert.Equal(t, "Calibration day", calls[0].Reason)
	assert.Equal(t, groupChat, e.sender.Messages[len(e.sender.Messages)-1].ChatID)
}

func TestRejectionDialog_TooLongReasonKeepsDialog(t *testing.T) {
	e := newEnv()
	id := uuid.New()
	e.dialogs.StartRejection(operatorChat, id)
	e.reservations.Err = &service.Error{Kind: service.KindValidation}

	e.h.HandleTextMessage(context.Background(), nil, message(operatorChat, strings.Repeat("x", 501)))

	assert.Contains(t, e.sender.LastText(), "не длиннее 500 символов")
	pending, ok := e.dialogs.PendingRejection(operatorChat)
	require.True(t, ok)
	assert.Equal(t, id, pending)
}

func TestRejectionDialog_DomainErrorClosesDialog(t *testing.T) {
	e := newEnv()
	e.dialogs.StartRejection(operatorChat, uuid.New())
	e.reservations.Err = &service.Error{Kind: service.KindAlreadyApproved}

	e.h.HandleTextMessage(context.Background(), nil, message(operatorChat, "late"))

	assert.Equal(t, "❌ Бронирование уже одобрено", e.sender.LastText())
	_, ok := e.dialogs.PendingRejection(operatorChat)
	assert.False(t, ok)
}

func TestHandleSkip(t *testing.T) {
	e := newEnv()
	id := uuid.New()

	e.h.HandleSkip(context.Background(), nil, message(operatorChat, "/skip"))
	assert.Equal(t, "❌ Нечего пропускать.", e.sender.LastText())

	e.dialogs.StartRejection(operatorChat, id)
	e.h.HandleSkip(context.Background(), nil, message(operatorChat, "/skip"))

	calls := e.reservations.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "", calls[0].Reason)
}

func TestHandleCancel(t *testing.T) {
	e := newEnv()
	e.dialogs.StartRejection(operatorChat, uuid.New())

	e.h.HandleCancel(context.Background(), nil, message(operatorChat, "/cancel"))

	assert.Empty(t, e.reservations.Snapshot())
	_, ok := e.dialogs.PendingRejection(operatorChat)
	assert.False(t, ok)
	assert.Contains(t, e.sender.LastText(), "остаётся на рассмотрении")
}

func TestHandleTextMessage_IgnoresCommandsAndUnknownText(t *testing.T) {
	e := newEnv()

	e.h.HandleTextMessage(context.Background(), nil, message(operatorChat, "/unknown"))
	assert.Empty(t, e.sender.Messages)

	e.h.HandleTextMessage(context.Background(), nil, message(operatorChat, "hello"))
	assert.Contains(t, e.sender.LastText(), "/help")
	assert.Empty(t, e.reservations.Snapshot())
}

func TestHandleWeek(t *testing.T) {
	e := newEnv()
	start := e.workLogs.week.Start.Add(33 * time.Hour)
	e.workLogs.logs = []*model.OperatorWorkLog{{
		ID:            uuid.New(),
		ReservationID: uuid.New(),
		OperatorID:    e.operator.ID,
		EquipmentID:   e.microscope.ID,
		StartAt:       start,
		EndAt:         start.Add(90 * time.Minute),
		WorkedMinutes: 90,
		Status:        model.WorkLogStatusScheduled,
	}}

	e.h.HandleWeek(context.Background(), nil, message(operatorChat, "/week"))

	require.Len(t, e.sender.Photos, 1)
	photo := e.sender.Photos[0]
	assert.Contains(t, photo.Caption, "Неделя с 10.03.2025")
	assert.Contains(t, photo.Caption, "За неделю: 1 ч 30 мин")
	assert.Contains(t, photo.Caption, "За месяц: 4 ч")
	assert.Contains(t, photo.Caption, "Всего: 10 ч")
	_, ok := photo.Photo.(*models.InputFileUpload)
	assert.True(t, ok)
}
