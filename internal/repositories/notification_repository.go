package repositories

import (
	"context"

	"github.com/towerline/society-service/internal/models"
)

// NotificationRepository writes the in-app notification rows produced by
// the admin fan-out. Reads and retention deletes of the notifications
// table go through RetentionRepository.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
        VALUES ($1,$2,$3,$4,FALSE,NOW())
    `, n.ID, n.UserID, n.Title, n.Message)
	return err
}
