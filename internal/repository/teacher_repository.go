package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edumgmt-api/internal/dto"
)

// TeacherRepository manages persistence for teachers and owns the
// user-id <-> teacher-id resolution used across the request workflows.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ResolveTeacherID returns the teacher_id owned by the given user identity.
// sql.ErrNoRows passes through when no teacher record exists.
func (r *TeacherRepository) ResolveTeacherID(ctx context.Context, userID string) (string, error) {
	var teacherID string
	const query = `SELECT teacher_id FROM teachers WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &teacherID, query, userID); err != nil {
		return "", err
	}
	return teacherID, nil
}

// ResolveByTeacherOrUserID canonicalises an identifier that may be either a
// teachers.teacher_id or the underlying users.id. Historic request rows store
// both forms, so lookups try the teacher key first and fall back to the user
// key.
func (r *TeacherRepository) ResolveByTeacherOrUserID(ctx context.Context, id string) (string, error) {
	var teacherID string
	const byTeacher = `SELECT teacher_id FROM teachers WHERE teacher_id = $1`
	err := r.db.GetContext(ctx, &teacherID, byTeacher, id)
	if err == nil {
		return teacherID, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("resolve teacher by teacher_id: %w", err)
	}
	const byUser = `SELECT teacher_id FROM teachers WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &teacherID, byUser, id); err != nil {
		return "", err
	}
	return teacherID, nil
}

// UserIDForTeacher returns the owning user id for a teacher record, used to
// address notifications.
func (r *TeacherRepository) UserIDForTeacher(ctx context.Context, teacherID string) (string, error) {
	var userID string
	const query = `SELECT user_id FROM teachers WHERE teacher_id = $1`
	if err := r.db.GetContext(ctx, &userID, query, teacherID); err != nil {
		return "", err
	}
	return userID, nil
}

// List returns the teacher roster joined with user display fields, with total
// count for pagination.
func (r *TeacherRepository) List(ctx context.Context, filter dto.TeacherFilter) ([]dto.TeacherItem, int, error) {
	base := `FROM teachers t JOIN users u ON u.id = t.user_id WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		base += fmt.Sprintf(" AND (LOWER(u.full_name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, search)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT t.teacher_id, t.user_id, u.full_name, u.email, t.subject, t.phone, u.active, t.created_at
%s ORDER BY u.full_name ASC LIMIT %d OFFSET %d`, base, size, offset)
	var items []dto.TeacherItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return items, total, nil
}
