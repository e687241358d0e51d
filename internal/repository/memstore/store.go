// Package memstore хранилище в памяти с теми же контрактами, что и PostgreSQL-репозитории.
// Транзакции выполняются строго по одной, поэтому они тривиально сериализуемы.
// Используется в тестах и для локального запуска без базы.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
)

type state struct {
	reservations map[uuid.UUID]model.Reservation
	workLogs     map[uuid.UUID]model.OperatorWorkLog // по ReservationID
}

func (s *state) clone() *state {
	c := &state{
		reservations: make(map[uuid.UUID]model.Reservation, len(s.reservations)),
		workLogs:     make(map[uuid.UUID]model.OperatorWorkLog, len(s.workLogs)),
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.workLogs {
		c.workLogs[k] = v
	}
	return c
}

// Store хранилище в памяти
type Store struct {
	mu    sync.Mutex
	data  *state
	users map[uuid.UUID]model.User
	equip map[uuid.UUID]model.Equipment

	notifications []model.Notification
	dedup         map[string]struct{}

	// failures сколько следующих транзакций завершить ошибкой сериализации
	failures int
}

func New() *Store {
	return &Store{
		data: &state{
			reservations: make(map[uuid.UUID]model.Reservation),
			workLogs:     make(map[uuid.UUID]model.OperatorWorkLog),
		},
		users: make(map[uuid.UUID]model.User),
		equip: make(map[uuid.UUID]model.Equipment),
		dedup: make(map[string]struct{}),
	}
}

// PutUser добавляет или заменяет пользователя
func (s *Store) PutUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutEquipment добавляет или заменяет оборудование
func (s *Store) PutEquipment(e model.Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equip[e.ID] = e
}

// FailNextCommits заставляет следующие n транзакций завершиться ошибкой сериализации
func (s *Store) FailNextCommits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetEquipment(_ context.Context, id uuid.UUID) (*model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equip[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Notify сохраняет уведомление; повтор с тем же DedupKey игнорируется
func (s *Store) Notify(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.DedupKey != "" {
		if _, ok := s.dedup[n.DedupKey]; ok {
			return nil
		}
		s.dedup[n.DedupKey] = struct{}{}
	}
	s.notifications = append(s.notifications, n)
	return nil
}

// Notifications копия всех сохранённых уведомлений
func (s *Store) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// ListUnread непрочитанные уведомления пользователя, новые первыми
func (s *Store) ListUnread(_ context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for i := len(s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := s.notifications[i]
		if n.UserID == userID && !n.IsRead {
			out = append(out, &n)
		}
	}
	return out, nil
}

// MarkRead отмечает уведомление прочитанным. Чужие уведомления не затрагиваются.
func (s *Store) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}

// Reservations все бронирования в порядке начала
func (s *Store) Reservations() []*model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Reservation, 0, len(s.data.reservations))
	for _, r := range s.data.reservations {
		r := r
		out = append(out, &r)
	}
	sortReservations(out)
	return out
}

// WorkLog запись журнала для бронирования, nil если её нет
func (s *Store) WorkLog(reservationID uuid.UUID) *model.OperatorWorkLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.data.workLogs[reservationID]
	if !ok {
		return nil
	}
	return &w
}

// Do выполняет fn на копии состояния и публикует её только при успехе
func (s *Store) Do(ctx context.Context, _ service.Isolation, fn func(ctx context.Context, tx service.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{data: s.data.clone(), equip: s.equip}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if s.failures > 0 {
		s.failures--
		return fmt.Errorf("commit: %w", service.ErrSerializationFailure)
	}
	s.data = tx.data
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, nil
	}
	if e, ok := s.equip[r.EquipmentID]; ok {
		r.Equipment = &e
	}
	return &r, nil
}

func (s *Store) ListPending(_ context.Context, operatorID *uuid.UUID) ([]*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Reservation
	for _, r := range s.data.reservations {
		if r.IsCancelled() || r.Status != model.ReservationStatusPending {
			continue
		}
		// названному оператору нужен ответ, пока он не ответил; без оператора ждёт, пока не одобрят
		if r.OperatorID != nil && r.OperatorStatus != model.OperatorStatusRequested {
			continue
		}
		if operatorID != nil && r.OperatorID != nil && *r.OperatorID != *operatorID {
			continue
		}
		r := r
		if e, ok := s.equip[r.EquipmentID]; ok {
			r.Equipment = &e
		}
		out = append(out, &r)
	}
	sortReservations(out)
	return out, nil
}

func (s *Store) SumWorkedMinutes(_ context.Context, operatorID uuid.UUID, window *model.Interval, statuses []model.WorkLogStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, w := range s.data.workLogs {
		if w.OperatorID != operatorID || !hasStatus(statuses, w.Status) {
			continue
		}
		if window != nil && !contains(*window, w.Interval()) {
			continue
		}
		total += w.WorkedMinutes
	}
	return total, nil
}

func (s *Store) ListWorkLogs(_ context.Context, operatorID uuid.UUID, window model.Interval) ([]*model.OperatorWorkLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.OperatorWorkLog
	for _, w := range s.data.workLogs {
		if w.OperatorID == operatorID && window.Overlaps(w.Interval()) {
			w := w
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *Store) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, w := range s.data.workLogs {
		if w.Status == model.WorkLogStatusScheduled && !w.EndAt.After(now) {
			w.Status = model.WorkLogStatusCompleted
			w.UpdatedAt = now
			s.data.workLogs[id] = w
			n++
		}
	}
	return n, nil
}

type memTx struct {
	data  *state
	equip map[uuid.UUID]model.Equipment
}

func (t *memTx) GetReservation(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	r, ok := t.data.reservations[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (t *memTx) FindOverlappingReservation(_ context.Context, f service.ReservationFilter) (*model.Reservation, error) {
	var matches []*model.Reservation
	for _, r := range t.data.reservations {
		if r.IsCancelled() || r.Status != f.Status {
			continue
		}
		if f.ExcludeID != nil && r.ID == *f.ExcludeID {
			continue
		}
		if f.EquipmentID != nil && r.EquipmentID != *f.EquipmentID {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.OperatorID != nil && (r.OperatorID == nil || *r.OperatorID != *f.OperatorID) {
			continue
		}
		if f.OperatorStatus != nil && r.OperatorStatus != *f.OperatorStatus {
			continue
		}
		if !r.Interval().Overlaps(f.Window) {
			continue
		}
		r := r
		matches = append(matches, &r)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sortReservations(matches)
	return matches[0], nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := t.data.reservations[r.ID]; ok {
		return fmt.Errorf("reservation %s already exists", r.ID)
	}
	c := *r
	c.Equipment = nil
	t.data.reservations[r.ID] = c
	return nil
}

func (t *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := t.data.reservations[r.ID]; !ok {
		return fmt.Errorf("reservation %s not found", r.ID)
	}
	c := *r
	c.Equipment = nil
	t.data.reservations[r.ID] = c
	return nil
}

func (t *memTx) FindOverlappingWorkLog(_ context.Context, operatorID uuid.UUID, window model.Interval, excludeReservationID uuid.UUID, statuses []model.WorkLogStatus) (*model.OperatorWorkLog, error) {
	for _, w := range t.data.workLogs {
		if w.OperatorID != operatorID || w.ReservationID == excludeReservationID {
			continue
		}
		if hasStatus(statuses, w.Status) && w.Interval().Overlaps(window) {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (t *memTx) UpsertWorkLog(_ context.Context, w *model.OperatorWorkLog) error {
	c := *w
	if existing, ok := t.data.workLogs[w.ReservationID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	t.data.workLogs[w.ReservationID] = c
	return nil
}

func (t *memTx) SetWorkLogStatusByReservation(_ context.Context, reservationID uuid.UUID, status model.WorkLogStatus) error {
	w, ok := t.data.workLogs[reservationID]
	if !ok {
		return nil
	}
	w.Status = status
	t.data.workLogs[reservationID] = w
	return nil
}

func hasStatus(statuses []model.WorkLogStatus, s model.WorkLogStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// contains окно отчёта включает интервал целиком
func contains(window, i model.Interval) bool {
	return !i.Start.Before(window.Start) && !i.End.After(window.End)
}

func sortReservations(list []*model.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartAt.Equal(list[j].StartAt) {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].StartAt.Before(list[j].StartAt)
	})
}
