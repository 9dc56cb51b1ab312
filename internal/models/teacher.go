package models

import "time"

// Teacher links a teachers-table record to its owning user identity. Batches
// and substitution requests reference teacher_id while the authenticated
// principal carries the user id, so every teacher-scoped operation starts by
// resolving one from the other.
type Teacher struct {
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
