package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/base"
	"github.com/google/uuid"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(db base.Querier) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(db)}
}

// Create сохраняет уведомление. Повтор с тем же dedup_key молча игнорируется,
// второй результат сообщает, была ли вставлена новая строка.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications (id, user_id, kind, actor_id, reservation_id, title, body, link_url, dedup_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		ON CONFLICT (dedup_key) DO NOTHING
	`

	inserted, err := r.ExecAffected(ctx, query,
		n.ID,
		n.UserID,
		string(n.Kind),
		n.ActorID,
		n.ReservationID,
		n.Title,
		n.Body,
		n.LinkURL,
		n.DedupKey,
		n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	return inserted > 0, nil
}

// ListUnread непрочитанные уведомления пользователя, новые первыми
func (r *NotificationRepository) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, kind, actor_id, reservation_id, title, body, link_url,
		       COALESCE(dedup_key, ''), is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.ActorID, &n.ReservationID,
			&n.Title, &n.Body, &n.LinkURL, &n.DedupKey, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead отмечает уведомление прочитанным
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	if _, err := r.ExecAffected(ctx, query, id, userID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
