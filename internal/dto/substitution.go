package dto

import "time"

// CreateRequestPayload is the teacher-facing create body. Dates arrive as
// YYYY-MM-DD strings and are parsed to calendar dates before persistence.
type CreateRequestPayload struct {
	BatchID     string  `json:"batch_id" validate:"required"`
	RequestType string  `json:"request_type" validate:"required"`
	Reason      *string `json:"reason"`
	DateFrom    string  `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo      string  `json:"date_to" validate:"required,datetime=2006-01-02"`
}

// UpdateRequestPayload mirrors the create body; only PENDING requests accept it.
type UpdateRequestPayload struct {
	BatchID     string  `json:"batch_id" validate:"required"`
	RequestType string  `json:"request_type" validate:"required"`
	Reason      *string `json:"reason"`
	DateFrom    string  `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo      string  `json:"date_to" validate:"required,datetime=2006-01-02"`
}

// ApproveRequestPayload carries the substitute assignment. The id may be a
// teachers.teacher_id or the substitute's user id; the service resolves it.
type ApproveRequestPayload struct {
	SubTeacherID string `json:"sub_teacher_id" validate:"required"`
}

// MyRequestItem is a request owned by the calling teacher, enriched with the
// batch name and, once approved, the substitute's display name.
type MyRequestItem struct {
	ID             string     `db:"id" json:"id"`
	BatchID        string     `db:"batch_id" json:"batch_id"`
	BatchName      string     `db:"batch_name" json:"batch_name"`
	RequestType    string     `db:"request_type" json:"request_type"`
	Reason         *string    `db:"reason" json:"reason,omitempty"`
	DateFrom       time.Time  `db:"date_from" json:"date_from"`
	DateTo         time.Time  `db:"date_to" json:"date_to"`
	Status         string     `db:"status" json:"status"`
	SubTeacherID   *string    `db:"sub_teacher_id" json:"sub_teacher_id,omitempty"`
	SubTeacherName *string    `db:"sub_teacher_name" json:"sub_teacher_name,omitempty"`
	ApprovedBy     *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// AdminRequestItem is the academic/admin projection with batch, main-teacher
// and substitute identities joined in.
type AdminRequestItem struct {
	ID              string    `db:"id" json:"id"`
	BatchID         string    `db:"batch_id" json:"batch_id"`
	BatchName       string    `db:"batch_name" json:"batch_name"`
	CenterID        *string   `db:"center" json:"center,omitempty"`
	CourseID        *string   `db:"course_id" json:"course_id,omitempty"`
	RequestType     string    `db:"request_type" json:"request_type"`
	Reason          *string   `db:"reason" json:"reason,omitempty"`
	DateFrom        time.Time `db:"date_from" json:"date_from"`
	DateTo          time.Time `db:"date_to" json:"date_to"`
	Status          string    `db:"status" json:"status"`
	MainTeacherID   string    `db:"main_teacher_id" json:"main_teacher_id"`
	MainTeacherName *string   `db:"main_teacher_name" json:"main_teacher_name,omitempty"`
	SubTeacherID    *string   `db:"sub_teacher_id" json:"sub_teacher_id,omitempty"`
	SubTeacherName  *string   `db:"sub_teacher_name" json:"sub_teacher_name,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SubstituteWindow is an approved assignment granting a substitute visibility
// over a batch for an inclusive date range.
type SubstituteWindow struct {
	BatchID  string    `db:"batch_id" json:"batch_id"`
	DateFrom time.Time `db:"date_from" json:"date_from"`
	DateTo   time.Time `db:"date_to" json:"date_to"`
}

// LeaveWindow is an approved LEAVE request active on the queried date, keyed
// by the teacher who raised it.
type LeaveWindow struct {
	BatchID       string    `db:"batch_id" json:"batch_id"`
	MainTeacherID string    `db:"main_teacher_id" json:"main_teacher_id"`
	DateFrom      time.Time `db:"date_from" json:"date_from"`
	DateTo        time.Time `db:"date_to" json:"date_to"`
}
