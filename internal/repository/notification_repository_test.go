package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edumgmt-api/internal/models"
)

func TestNotificationRepositoryInsertPicksTable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO teacher_notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(context.Background(), models.AudienceTeacher, &models.Notification{
		RecipientID: "user-1",
		Message:     "approved",
		Type:        "request_approved",
	}))

	mock.ExpectExec("INSERT INTO academic_notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(context.Background(), models.AudienceAcademic, &models.Notification{
		RecipientID: "ac-1",
		Message:     "leave requested",
		Type:        "leave_request",
	}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryInsertDefaultsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO teacher_notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n := &models.Notification{RecipientID: "user-1", Message: "msg", Type: "kind"}
	require.NoError(t, repo.Insert(context.Background(), models.AudienceTeacher, n))
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotificationRepositoryUnknownAudience(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	err := repo.Insert(context.Background(), models.NotificationAudience("FINANCE"), &models.Notification{})
	require.Error(t, err)
}

func TestNotificationRepositoryMarkReadScopedToRecipient(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2")).
		WithArgs("n-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.MarkRead(context.Background(), models.AudienceTeacher, "n-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE")).
		WithArgs("ac-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.MarkAllRead(context.Background(), models.AudienceAcademic, "ac-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
