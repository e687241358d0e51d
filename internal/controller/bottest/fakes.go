// Package bottest подменные зависимости для тестов обработчиков бота.
package bottest

import (
	"context"
	"sync"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Sender запоминает всё, что бот отправил бы в Telegram
type Sender struct {
	mu       sync.Mutex
	Messages []*bot.SendMessageParams
	Photos   []*bot.SendPhotoParams
	Answers  []*bot.AnswerCallbackQueryParams
	Err      error
}

func (s *Sender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, params)
	return &models.Message{}, s.Err
}

func (s *Sender) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Photos = append(s.Photos, params)
	return &models.Message{}, s.Err
}

func (s *Sender) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Answers = append(s.Answers, params)
	return s.Err == nil, s.Err
}

// LastText текст последнего отправленного сообщения
func (s *Sender) LastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1].Text
}

// LastAnswer последний ответ на callback
func (s *Sender) LastAnswer() *bot.AnswerCallbackQueryParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Answers) == 0 {
		return nil
	}
	return s.Answers[len(s.Answers)-1]
}

// Operators справочник пользователей по chat id
type Operators map[int64]*model.User

func (o Operators) GetByTelegramChatID(_ context.Context, chatID int64) (*model.User, error) {
	return o[chatID], nil
}

// Call один вызов Reservations
type Call struct {
	Action string
	ID     uuid.UUID
	Actor  service.Actor
	Reason string
}

// Reservations записывает вызовы и отвечает заранее заданной ошибкой
type Reservations struct {
	mu      sync.Mutex
	Calls   []Call
	Err     error
	Pending []*model.Reservation
	ByID    map[uuid.UUID]*model.Reservation
}

func (r *Reservations) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, c)
	return r.Err
}

func (r *Reservations) Get(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	if res, ok := r.ByID[id]; ok {
		return res, nil
	}
	return nil, &service.Error{Kind: service.KindNotFound}
}

func (r *Reservations) ListPending(_ context.Context, actor service.Actor) ([]*model.Reservation, error) {
	if err := r.record(Call{Action: "list", Actor: actor}); err != nil {
		return nil, err
	}
	return r.Pending, nil
}

func (r *Reservations) Approve(_ context.Context, id uuid.UUID, actor service.Actor) error {
	return r.record(Call{Action: "approve", ID: id, Actor: actor})
}

func (r *Reservations) Reject(_ context.Context, id uuid.UUID, actor service.Actor, reason string) error {
	return r.record(Call{Action: "reject", ID: id, Actor: actor, Reason: reason})
}

func (r *Reservations) Cancel(_ context.Context, id uuid.UUID, actor service.Actor) error {
	return r.record(Call{Action: "cancel", ID: id, Actor: actor})
}

// Snapshot копия вызовов
func (r *Reservations) Snapshot() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.Calls...)
}
