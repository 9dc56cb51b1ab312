package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/models"
)

// RequestRepository manages persistence for teacher batch requests. All state
// transitions are conditional updates guarded on the current status so that
// concurrent approvals serialize on the database row.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new request in PENDING state.
func (r *RequestRepository) Create(ctx context.Context, req *models.TeacherBatchRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	req.Status = models.RequestStatusPending
	const query = `INSERT INTO teacher_batch_requests
(id, batch_id, main_teacher_id, request_type, reason, date_from, date_to, status, created_at, updated_at)
VALUES (:id, :batch_id, :main_teacher_id, :request_type, :reason, :date_from, :date_to, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// GetByID fetches a request. sql.ErrNoRows passes through.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.TeacherBatchRequest, error) {
	const query = `SELECT id, batch_id, main_teacher_id, request_type, reason, date_from, date_to, status,
sub_teacher_id, approved_by, approved_at, created_at, updated_at
FROM teacher_batch_requests WHERE id = $1`
	var req models.TeacherBatchRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByOwner returns all requests raised by the teacher, newest first, with
// batch name and substitute display name joined in.
func (r *RequestRepository) ListByOwner(ctx context.Context, teacherID string) ([]dto.MyRequestItem, error) {
	const query = `SELECT
	r.id, r.batch_id, b.batch_name, r.request_type, r.reason, r.date_from, r.date_to, r.status,
	r.sub_teacher_id, su.full_name AS sub_teacher_name, r.approved_by, r.approved_at, r.created_at
FROM teacher_batch_requests r
JOIN batches b ON b.batch_id = r.batch_id
LEFT JOIN teachers st ON st.teacher_id = r.sub_teacher_id
LEFT JOIN users su ON su.id = st.user_id
WHERE r.main_teacher_id = $1
ORDER BY r.created_at DESC`
	var items []dto.MyRequestItem
	if err := r.db.SelectContext(ctx, &items, query, teacherID); err != nil {
		return nil, fmt.Errorf("list requests by owner: %w", err)
	}
	return items, nil
}

// ListAll returns every request for the academic/admin view, optionally
// filtered by status, newest first.
func (r *RequestRepository) ListAll(ctx context.Context, status *models.RequestStatus) ([]dto.AdminRequestItem, error) {
	query := `SELECT
	r.id, r.batch_id, b.batch_name, b.center, b.course_id, r.request_type, r.reason,
	r.date_from, r.date_to, r.status, r.main_teacher_id, mu.full_name AS main_teacher_name,
	r.sub_teacher_id, su.full_name AS sub_teacher_name, r.created_at
FROM teacher_batch_requests r
JOIN batches b ON b.batch_id = r.batch_id
LEFT JOIN teachers mt ON mt.teacher_id = r.main_teacher_id
LEFT JOIN users mu ON mu.id = mt.user_id
LEFT JOIN teachers st ON st.teacher_id = r.sub_teacher_id
LEFT JOIN users su ON su.id = st.user_id`
	var args []interface{}
	if status != nil {
		query += " WHERE r.status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY r.created_at DESC"

	var items []dto.AdminRequestItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list all requests: %w", err)
	}
	return items, nil
}

// UpdatePending rewrites the mutable fields of a request while it is still
// PENDING and owned by the teacher. Returns the number of rows affected; zero
// means the request moved out of PENDING concurrently.
func (r *RequestRepository) UpdatePending(ctx context.Context, req *models.TeacherBatchRequest) (int64, error) {
	req.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teacher_batch_requests
SET batch_id = :batch_id, request_type = :request_type, reason = :reason,
	date_from = :date_from, date_to = :date_to, updated_at = :updated_at
WHERE id = :id AND main_teacher_id = :main_teacher_id AND status = 'PENDING'`
	res, err := r.db.NamedExecContext(ctx, query, req)
	if err != nil {
		return 0, fmt.Errorf("update pending request: %w", err)
	}
	return res.RowsAffected()
}

// DeletePending removes a request while it is still PENDING and owned by the
// teacher.
func (r *RequestRepository) DeletePending(ctx context.Context, id, teacherID string) (int64, error) {
	const query = `DELETE FROM teacher_batch_requests WHERE id = $1 AND main_teacher_id = $2 AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		return 0, fmt.Errorf("delete pending request: %w", err)
	}
	return res.RowsAffected()
}

// Approve transitions PENDING -> APPROVED, stamping the substitute and the
// audit fields in one conditional update. Zero rows affected means the
// request was missing or no longer PENDING; the caller disambiguates.
func (r *RequestRepository) Approve(ctx context.Context, id, subTeacherID, approvedBy string, approvedAt time.Time) (int64, error) {
	const query = `UPDATE teacher_batch_requests
SET status = 'APPROVED', sub_teacher_id = $2, approved_by = $3, approved_at = $4, updated_at = $4
WHERE id = $1 AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query, id, subTeacherID, approvedBy, approvedAt)
	if err != nil {
		return 0, fmt.Errorf("approve request: %w", err)
	}
	return res.RowsAffected()
}

// Reject transitions PENDING -> REJECTED, stamping the audit fields.
func (r *RequestRepository) Reject(ctx context.Context, id, approvedBy string, approvedAt time.Time) (int64, error) {
	const query = `UPDATE teacher_batch_requests
SET status = 'REJECTED', approved_by = $2, approved_at = $3, updated_at = $3
WHERE id = $1 AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query, id, approvedBy, approvedAt)
	if err != nil {
		return 0, fmt.Errorf("reject request: %w", err)
	}
	return res.RowsAffected()
}

// SubstituteWindows returns approved assignments where the given teacher is
// the substitute and the window covers the date. Historic rows may store the
// substitute's teacher_id or raw user id, so both are matched. The window
// test is on date_from/date_to only; approved_at is audit metadata.
func (r *RequestRepository) SubstituteWindows(ctx context.Context, teacherID, userID string, date time.Time) ([]dto.SubstituteWindow, error) {
	const query = `SELECT batch_id, date_from, date_to
FROM teacher_batch_requests
WHERE status = 'APPROVED'
	AND sub_teacher_id IN ($1, $2)
	AND date_from <= $3 AND date_to >= $3`
	var rows []dto.SubstituteWindow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID, userID, date); err != nil {
		return nil, fmt.Errorf("substitute windows: %w", err)
	}
	return rows, nil
}

// ActiveLeave returns all approved LEAVE requests whose window covers the
// date. SUB_TEACHER requests never appear here: they grant visibility to the
// substitute without suppressing the requester's own batches.
func (r *RequestRepository) ActiveLeave(ctx context.Context, date time.Time) ([]dto.LeaveWindow, error) {
	const query = `SELECT batch_id, main_teacher_id, date_from, date_to
FROM teacher_batch_requests
WHERE status = 'APPROVED'
	AND request_type = 'LEAVE'
	AND date_from <= $1 AND date_to >= $1`
	var rows []dto.LeaveWindow
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("active leave windows: %w", err)
	}
	return rows, nil
}
