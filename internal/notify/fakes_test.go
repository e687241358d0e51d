package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errBoom = errors.New("boom")

type recordingSink struct {
	mu    sync.Mutex
	got   []model.Notification
	err   error
	block chan struct{}
}

func (s *recordingSink) Notify(_ context.Context, n model.Notification) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func (s *recordingSink) received() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.got...)
}

type fakeUsers map[uuid.UUID]*model.User

func (f fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f[id], nil
}

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{}, f.err
}

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return f.err
}

type fakeWriter struct {
	stored []*model.Notification
	err    error
}

func (f *fakeWriter) Create(_ context.Context, n *model.Notification) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.stored = append(f.stored, n)
	return true, nil
}

func notification(kind model.NotificationKind) model.Notification {
	resID := uuid.New()
	actor := uuid.New()
	return model.Notification{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Kind:          kind,
		ActorID:       &actor,
		ReservationID: &resID,
		Title:         "Новый запрос оператора",
		Body:          "@alice просит вас работать на Microscope",
		DedupKey:      string(kind) + ":RESERVATION:" + resID.String(),
		CreatedAt:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}
