package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edumgmt-api/internal/dto"
)

func TestTeacherRepositoryResolveTeacherID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("teacher-1"))

	id, err := repo.ResolveTeacherID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryResolveTeacherIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT teacher_id FROM teachers WHERE user_id").
		WithArgs("user-ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ResolveTeacherID(context.Background(), "user-ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTeacherRepositoryResolveByTeacherOrUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	// Direct teacher_id hit.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE teacher_id = $1")).
		WithArgs("teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("teacher-1"))

	id, err := repo.ResolveByTeacherOrUserID(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", id)

	// User-id fallback for historic rows.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE teacher_id = $1")).
		WithArgs("user-9").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE user_id = $1")).
		WithArgs("user-9").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("teacher-9"))

	id, err = repo.ResolveByTeacherOrUserID(context.Background(), "user-9")
	require.NoError(t, err)
	assert.Equal(t, "teacher-9", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryResolveByTeacherOrUserIDUnknown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE teacher_id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teachers WHERE user_id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ResolveByTeacherOrUserID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"teacher_id", "user_id", "full_name", "email", "subject", "phone", "active", "created_at"}).
		AddRow("teacher-1", "user-1", "Alice", "alice@example.com", nil, nil, true, time.Now())
	mock.ExpectQuery("SELECT t.teacher_id, t.user_id, u.full_name").
		WithArgs("%ali%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), dto.TeacherFilter{Search: "Ali", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Alice", items[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
