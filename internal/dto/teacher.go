package dto

import "time"

// TeacherItem is the roster projection joining the owning user record.
type TeacherItem struct {
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherFilter captures filtering criteria for the roster list.
type TeacherFilter struct {
	Search   string
	Page     int
	PageSize int
}
