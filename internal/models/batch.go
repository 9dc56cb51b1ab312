package models

import "time"

// Batch is a scheduled class group with exactly one main teacher and at most
// one assistant tutor.
type Batch struct {
	BatchID        string    `db:"batch_id" json:"batch_id"`
	BatchName      string    `db:"batch_name" json:"batch_name"`
	Status         string    `db:"status" json:"status"`
	StartDate      time.Time `db:"start_date" json:"start_date"`
	EndDate        time.Time `db:"end_date" json:"end_date"`
	TimeFrom       string    `db:"time_from" json:"time_from"`
	TimeTo         string    `db:"time_to" json:"time_to"`
	TeacherID      string    `db:"teacher" json:"teacher"`
	AssistantTutor *string   `db:"assistant_tutor" json:"assistant_tutor,omitempty"`
	CenterID       *string   `db:"center" json:"center,omitempty"`
	CourseID       *string   `db:"course_id" json:"course_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
