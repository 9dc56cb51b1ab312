package models

import "time"

// NotificationAudience selects which per-role notification table a row lands
// in. The sink is append-only from the request workflows; only the owning
// role's read endpoints ever query it back.
type NotificationAudience string

const (
	AudienceTeacher  NotificationAudience = "TEACHER"
	AudienceAcademic NotificationAudience = "ACADEMIC"
)

// Notification is a single inbox row for a user.
type Notification struct {
	ID          string    `db:"id" json:"id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"message" json:"message"`
	Type        string    `db:"type" json:"type"`
	RelatedID   *string   `db:"related_id" json:"related_id,omitempty"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
