package models

import "time"

// RequestType distinguishes leave declarations from substitute assignments.
// Only LEAVE suppresses the requesting teacher's own batch visibility.
type RequestType string

const (
	RequestTypeLeave      RequestType = "LEAVE"
	RequestTypeSubTeacher RequestType = "SUB_TEACHER"
)

// Valid reports whether the request type is known.
func (t RequestType) Valid() bool {
	return t == RequestTypeLeave || t == RequestTypeSubTeacher
}

// RequestStatus is the lifecycle state of a substitution/leave request.
// PENDING is the only non-terminal state; APPROVED and REJECTED are final.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Valid reports whether the status is known.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// TeacherBatchRequest is a leave or substitution request raised by the main
// teacher (or assistant tutor) of a batch. DateFrom/DateTo bound the window
// the request applies to, inclusive on both ends. ApprovedAt is audit
// metadata only and never participates in window membership tests.
type TeacherBatchRequest struct {
	ID            string        `db:"id" json:"id"`
	BatchID       string        `db:"batch_id" json:"batch_id"`
	MainTeacherID string        `db:"main_teacher_id" json:"main_teacher_id"`
	RequestType   RequestType   `db:"request_type" json:"request_type"`
	Reason        *string       `db:"reason" json:"reason,omitempty"`
	DateFrom      time.Time     `db:"date_from" json:"date_from"`
	DateTo        time.Time     `db:"date_to" json:"date_to"`
	Status        RequestStatus `db:"status" json:"status"`
	SubTeacherID  *string       `db:"sub_teacher_id" json:"sub_teacher_id,omitempty"`
	ApprovedBy    *string       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
