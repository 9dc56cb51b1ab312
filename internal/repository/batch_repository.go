package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edumgmt-api/internal/dto"
)

// BatchRepository provides read access to batches and their display joins.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// OwnedBy reports whether the teacher is the main teacher or the assistant
// tutor of the batch.
func (r *BatchRepository) OwnedBy(ctx context.Context, batchID, teacherID string) (bool, error) {
	const query = `SELECT EXISTS (
	SELECT 1 FROM batches WHERE batch_id = $1 AND (teacher = $2 OR assistant_tutor = $2)
)`
	var owned bool
	if err := r.db.GetContext(ctx, &owned, query, batchID, teacherID); err != nil {
		return false, fmt.Errorf("check batch ownership: %w", err)
	}
	return owned, nil
}

// Exists reports whether the batch id is known.
func (r *BatchRepository) Exists(ctx context.Context, batchID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM batches WHERE batch_id = $1)`, batchID); err != nil {
		return false, fmt.Errorf("check batch existence: %w", err)
	}
	return exists, nil
}

// NameByID returns the display name of a batch, used when composing
// notification messages.
func (r *BatchRepository) NameByID(ctx context.Context, batchID string) (string, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, `SELECT batch_name FROM batches WHERE batch_id = $1`, batchID); err != nil {
		return "", err
	}
	return name, nil
}

// ListByMainTeacher returns ownership rows for batches the teacher leads.
func (r *BatchRepository) ListByMainTeacher(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error) {
	const query = `SELECT batch_id, teacher, assistant_tutor FROM batches WHERE teacher = $1`
	var rows []dto.BatchOwnership
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list batches by main teacher: %w", err)
	}
	return rows, nil
}

// ListByAssistantTutor returns ownership rows for batches the teacher assists.
func (r *BatchRepository) ListByAssistantTutor(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error) {
	const query = `SELECT batch_id, teacher, assistant_tutor FROM batches WHERE assistant_tutor = $1`
	var rows []dto.BatchOwnership
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list batches by assistant tutor: %w", err)
	}
	return rows, nil
}

// DetailsByIDs fetches the enriched batch projection: center, course and
// teacher display names joined in.
func (r *BatchRepository) DetailsByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT
	b.batch_id, b.batch_name, b.status, b.start_date, b.end_date, b.time_from, b.time_to,
	b.teacher, b.assistant_tutor, b.created_at,
	ce.center_name AS center_name,
	co.course_name AS course_name,
	co.type AS course_type,
	mu.full_name AS main_teacher_name,
	au.full_name AS assistant_tutor_name
FROM batches b
LEFT JOIN centers ce ON ce.center_id = b.center
LEFT JOIN courses co ON co.course_id = b.course_id
LEFT JOIN teachers mt ON mt.teacher_id = b.teacher
LEFT JOIN users mu ON mu.id = mt.user_id
LEFT JOIN teachers ast ON ast.teacher_id = b.assistant_tutor
LEFT JOIN users au ON au.id = ast.user_id
WHERE b.batch_id = ANY($1)`
	var rows []dto.BatchDetail
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("batch details: %w", err)
	}
	return rows, nil
}

// MinimalByIDs is the degraded projection used when the enriched join fails:
// core batch fields only, no display names.
func (r *BatchRepository) MinimalByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT batch_id, batch_name, status, start_date, end_date, time_from, time_to, teacher, assistant_tutor, created_at
FROM batches WHERE batch_id = ANY($1)`
	var rows []dto.BatchDetail
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("batch minimal details: %w", err)
	}
	return rows, nil
}

// GetOwnership returns the ownership row for a single batch. sql.ErrNoRows
// passes through for missing batches.
func (r *BatchRepository) GetOwnership(ctx context.Context, batchID string) (*dto.BatchOwnership, error) {
	const query = `SELECT batch_id, teacher, assistant_tutor FROM batches WHERE batch_id = $1`
	var row dto.BatchOwnership
	if err := r.db.GetContext(ctx, &row, query, batchID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get batch ownership: %w", err)
	}
	return &row, nil
}
