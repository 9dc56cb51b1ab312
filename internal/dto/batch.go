package dto

import "time"

// Role tags assigned to a batch in a teacher's effective set, in precedence
// order: substitute beats main teacher beats assistant tutor.
const (
	RoleTagSubTeacher     = "Sub Teacher"
	RoleTagMainTeacher    = "Main Teacher"
	RoleTagAssistantTutor = "Assistant Tutor"
)

// Detail levels for batch projections. The resolver prefers the enriched join
// and degrades to minimal fields when it fails.
const (
	DetailLevelFull    = "full"
	DetailLevelMinimal = "minimal"
)

// BatchOwnership is the slim projection used for ownership and leave set
// computation.
type BatchOwnership struct {
	BatchID        string  `db:"batch_id" json:"batch_id"`
	TeacherID      string  `db:"teacher" json:"teacher"`
	AssistantTutor *string `db:"assistant_tutor" json:"assistant_tutor,omitempty"`
}

// BatchDetail carries display fields for a batch. Name fields are nil on the
// minimal detail level.
type BatchDetail struct {
	BatchID            string    `db:"batch_id" json:"batch_id"`
	BatchName          string    `db:"batch_name" json:"batch_name"`
	Status             string    `db:"status" json:"status"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	TimeFrom           string    `db:"time_from" json:"time_from"`
	TimeTo             string    `db:"time_to" json:"time_to"`
	TeacherID          string    `db:"teacher" json:"teacher"`
	AssistantTutor     *string   `db:"assistant_tutor" json:"assistant_tutor,omitempty"`
	CenterName         *string   `db:"center_name" json:"center_name,omitempty"`
	CourseName         *string   `db:"course_name" json:"course_name,omitempty"`
	CourseType         *string   `db:"course_type" json:"course_type,omitempty"`
	MainTeacherName    *string   `db:"main_teacher_name" json:"main_teacher_name,omitempty"`
	AssistantTutorName *string   `db:"assistant_tutor_name" json:"assistant_tutor_name,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// EffectiveBatch is a resolver result row: batch details plus the computed
// responsibility tag for the queried teacher and date.
type EffectiveBatch struct {
	BatchDetail
	RoleTag            string     `json:"role_tag"`
	DetailLevel        string     `json:"detail_level"`
	SubDateFrom        *time.Time `json:"sub_date_from,omitempty"`
	SubDateTo          *time.Time `json:"sub_date_to,omitempty"`
	CounterpartTeacher *string    `json:"counterpart_teacher,omitempty"`
}
