package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL сколько живёт незавершённый диалог
const DefaultTTL = 15 * time.Minute

// Manager управляет состояниями диалогов по Telegram ID пользователя.
// В групповом чате у каждого участника свой диалог.
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]Dialog
	ttl     time.Duration
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		dialogs: make(map[int64]Dialog),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetState текущее состояние пользователя. Просроченный диалог считается отсутствующим.
func (sm *Manager) GetState(userID int64) UserState {
	d, ok := sm.get(userID)
	if !ok {
		return StateNone
	}
	return d.State
}

// StartRejection запоминает, что пользователь должен прислать причину отклонения
func (sm *Manager) StartRejection(userID int64, reservationID uuid.UUID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.dialogs[userID] = Dialog{
		State:         StateAwaitingRejectReason,
		ReservationID: reservationID,
		StartedAt:     sm.now(),
	}
}

// PendingRejection бронирование, для которого ждём причину отклонения
func (sm *Manager) PendingRejection(userID int64) (uuid.UUID, bool) {
	d, ok := sm.get(userID)
	if !ok || d.State != StateAwaitingRejectReason {
		return uuid.Nil, false
	}
	return d.ReservationID, true
}

// Clear очищает состояние пользователя
func (sm *Manager) Clear(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.dialogs, userID)
}

func (sm *Manager) get(userID int64) (Dialog, bool) {
	sm.mu.RLock()
	d, ok := sm.dialogs[userID]
	sm.mu.RUnlock()

	if !ok {
		return Dialog{}, false
	}
	if sm.now().Sub(d.StartedAt) > sm.ttl {
		sm.Clear(userID)
		return Dialog{}, false
	}
	return d, true
}
