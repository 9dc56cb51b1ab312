package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edumgmt-api/internal/models"
)

// audienceTables maps notification audiences onto their per-role tables.
var audienceTables = map[models.NotificationAudience]string{
	models.AudienceTeacher:  "teacher_notifications",
	models.AudienceAcademic: "academic_notifications",
}

// NotificationRepository persists per-role notification rows. Writes are
// append-only from the request workflows; reads serve the inbox endpoints.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func tableFor(audience models.NotificationAudience) (string, error) {
	table, ok := audienceTables[audience]
	if !ok {
		return "", fmt.Errorf("unknown notification audience %q", audience)
	}
	return table, nil
}

// Insert appends a notification row for the audience.
func (r *NotificationRepository) Insert(ctx context.Context, audience models.NotificationAudience, n *models.Notification) error {
	table, err := tableFor(audience)
	if err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, recipient_id, message, type, related_id, is_read, created_at)
VALUES (:id, :recipient_id, :message, :type, :related_id, :is_read, :created_at)`, table)
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("insert %s notification: %w", audience, err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, audience models.NotificationAudience, recipientID string) ([]models.Notification, error) {
	table, err := tableFor(audience)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, recipient_id, message, type, related_id, is_read, created_at
FROM %s WHERE recipient_id = $1 ORDER BY created_at DESC`, table)
	var rows []models.Notification
	if err := r.db.SelectContext(ctx, &rows, query, recipientID); err != nil {
		return nil, fmt.Errorf("list %s notifications: %w", audience, err)
	}
	return rows, nil
}

// MarkRead flags a single notification as read, scoped to the recipient.
// Returns rows affected so callers can surface missing ids.
func (r *NotificationRepository) MarkRead(ctx context.Context, audience models.NotificationAudience, id, recipientID string) (int64, error) {
	table, err := tableFor(audience)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, table)
	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark %s notification read: %w", audience, err)
	}
	return res.RowsAffected()
}

// MarkAllRead flags every unread notification for the recipient.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, audience models.NotificationAudience, recipientID string) error {
	table, err := tableFor(audience)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, table)
	if _, err := r.db.ExecContext(ctx, query, recipientID); err != nil {
		return fmt.Errorf("mark all %s notifications read: %w", audience, err)
	}
	return nil
}
