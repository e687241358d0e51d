package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dispatch отправляет уведомления после фиксации транзакции.
// Ошибки доставки только логируются: результат операции от них не зависит.
func (s *ReservationService) dispatch(ctx context.Context, r *model.Reservation, actorID uuid.UUID, intents []NotificationIntent) {
	if s.notifier == nil || len(intents) == 0 {
		return
	}

	equipment := r.Equipment
	if equipment == nil {
		e, err := s.equipment.GetEquipment(ctx, r.EquipmentID)
		if err != nil {
			s.logger.Warn("Failed to load equipment for notification",
				zap.String("reservation_id", r.ID.String()),
				zap.Error(err),
			)
		}
		equipment = e
	}

	for _, intent := range intents {
		n := s.render(ctx, r, equipment, actorID, intent)
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("Failed to send notification",
				zap.String("kind", string(n.Kind)),
				zap.String("user_id", n.UserID.String()),
				zap.String("dedup_key", n.DedupKey),
				zap.Error(err),
			)
		}
	}
}

func (s *ReservationService) render(ctx context.Context, r *model.Reservation, equipment *model.Equipment, actorID uuid.UUID, intent NotificationIntent) model.Notification {
	equipmentName := "оборудование"
	equipmentSlug := r.EquipmentID.String()
	if equipment != nil {
		equipmentName = equipment.Name
		equipmentSlug = equipment.Slug
	}
	when := s.normalizer.FormatRange(r.Interval())

	reservationID := r.ID
	actor := actorID
	n := model.Notification{
		ID:            uuid.New(),
		UserID:        intent.Recipient,
		Kind:          intent.Kind,
		ActorID:       &actor,
		ReservationID: &reservationID,
		CreatedAt:     s.clock.Now(),
	}

	switch intent.Kind {
	case model.NotificationOperatorRequest:
		requester := "Пользователь"
		if u, err := s.users.GetUser(ctx, r.UserID); err == nil && u != nil {
			requester = "@" + u.Username
		}
		n.Title = "🔔 Новый запрос оператора"
		n.Body = fmt.Sprintf("%s просит вас работать на %s\n%s", requester, equipmentName, when)
		n.LinkURL = fmt.Sprintf("/operator/reservations?highlight=%s", r.ID)
		n.DedupKey = fmt.Sprintf("%s:RESERVATION:%s", intent.Kind, r.ID)

	case model.NotificationOperatorApproved:
		n.Title = "✅ Бронирование одобрено"
		n.Body = fmt.Sprintf("%s\n%s", equipmentName, when)
		n.LinkURL = fmt.Sprintf("/equipment/%s", equipmentSlug)
		n.DedupKey = fmt.Sprintf("%s:RESERVATION:%s", intent.Kind, r.ID)

	case model.NotificationOperatorRejected:
		n.Title = "❌ Бронирование отклонено"
		n.Body = fmt.Sprintf("%s\n%s", equipmentName, when)
		if r.OperatorNote != nil {
			n.Body += "\nПричина: " + *r.OperatorNote
		}
		n.LinkURL = fmt.Sprintf("/equipment/%s", equipmentSlug)
		n.DedupKey = fmt.Sprintf("%s:RESERVATION:%s", intent.Kind, r.ID)

	case model.NotificationReservationCanceled:
		n.Title = "🚫 Бронирование отменено"
		n.Body = fmt.Sprintf("%s\n%s", equipmentName, when)
		if intent.Recipient == r.UserID {
			n.LinkURL = fmt.Sprintf("/equipment/%s", equipmentSlug)
		} else {
			n.LinkURL = "/operator/reservations"
		}
		// одна отмена может уведомить и оператора, и владельца
		n.DedupKey = fmt.Sprintf("%s:RESERVATION:%s:%s", intent.Kind, r.ID, intent.Recipient)
	}
	return n
}
