package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type insertedNotification struct {
	audience models.NotificationAudience
	row      models.Notification
}

type notificationStoreStub struct {
	inserted    []insertedNotification
	insertErr   error
	rows        []models.Notification
	markRows    int64
	markAllErr  error
	lastMarkArg string
}

func (s *notificationStoreStub) Insert(ctx context.Context, audience models.NotificationAudience, n *models.Notification) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, insertedNotification{audience: audience, row: *n})
	return nil
}

func (s *notificationStoreStub) ListByRecipient(ctx context.Context, audience models.NotificationAudience, recipientID string) ([]models.Notification, error) {
	return s.rows, nil
}

func (s *notificationStoreStub) MarkRead(ctx context.Context, audience models.NotificationAudience, id, recipientID string) (int64, error) {
	s.lastMarkArg = id
	return s.markRows, nil
}

func (s *notificationStoreStub) MarkAllRead(ctx context.Context, audience models.NotificationAudience, recipientID string) error {
	return s.markAllErr
}

type recipientListerStub struct {
	ids []string
	err error
}

func (s recipientListerStub) ListIDsByRole(ctx context.Context, role models.UserRole) ([]string, error) {
	return s.ids, s.err
}

func TestNotificationServiceNotifyAcademicsFansOut(t *testing.T) {
	repo := &notificationStoreStub{}
	service := NewNotificationService(repo, recipientListerStub{ids: []string{"ac-1", "ac-2"}}, true, zap.NewNop())

	related := "req-1"
	err := service.NotifyAcademics(context.Background(), "leave requested", "leave_request", &related)
	require.NoError(t, err)
	require.Len(t, repo.inserted, 2)
	assert.Equal(t, models.AudienceAcademic, repo.inserted[0].audience)
	assert.Equal(t, "ac-2", repo.inserted[1].row.RecipientID)
	require.NotNil(t, repo.inserted[0].row.RelatedID)
	assert.Equal(t, "req-1", *repo.inserted[0].row.RelatedID)
}

func TestNotificationServiceNotifyTeacher(t *testing.T) {
	repo := &notificationStoreStub{}
	service := NewNotificationService(repo, recipientListerStub{}, true, zap.NewNop())

	err := service.NotifyTeacher(context.Background(), "user-1", "approved", "request_approved", nil)
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, models.AudienceTeacher, repo.inserted[0].audience)
	assert.Equal(t, "user-1", repo.inserted[0].row.RecipientID)
}

func TestNotificationServiceDisabledIsNoop(t *testing.T) {
	repo := &notificationStoreStub{insertErr: errors.New("should not be called")}
	service := NewNotificationService(repo, recipientListerStub{ids: []string{"ac-1"}}, false, zap.NewNop())

	require.NoError(t, service.NotifyTeacher(context.Background(), "user-1", "msg", "kind", nil))
	require.NoError(t, service.NotifyAcademics(context.Background(), "msg", "kind", nil))
	assert.Empty(t, repo.inserted)
}

func TestNotificationServiceInsertErrorPropagates(t *testing.T) {
	repo := &notificationStoreStub{insertErr: errors.New("sink down")}
	service := NewNotificationService(repo, recipientListerStub{ids: []string{"ac-1"}}, true, zap.NewNop())

	err := service.NotifyAcademics(context.Background(), "msg", "kind", nil)
	require.Error(t, err)
}

func TestNotificationServiceListByRole(t *testing.T) {
	repo := &notificationStoreStub{rows: []models.Notification{{ID: "n-1"}}}
	service := NewNotificationService(repo, recipientListerStub{}, true, zap.NewNop())

	rows, err := service.List(context.Background(), teacherClaims("user-1"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestNotificationServiceListFinanceForbidden(t *testing.T) {
	service := NewNotificationService(&notificationStoreStub{}, recipientListerStub{}, true, zap.NewNop())

	_, err := service.List(context.Background(), &models.JWTClaims{UserID: "fin-1", Role: models.RoleFinance})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestNotificationServiceMarkRead(t *testing.T) {
	repo := &notificationStoreStub{markRows: 1}
	service := NewNotificationService(repo, recipientListerStub{}, true, zap.NewNop())

	err := service.MarkRead(context.Background(), teacherClaims("user-1"), "n-1")
	require.NoError(t, err)
	assert.Equal(t, "n-1", repo.lastMarkArg)
}

func TestNotificationServiceMarkReadNotFound(t *testing.T) {
	repo := &notificationStoreStub{markRows: 0}
	service := NewNotificationService(repo, recipientListerStub{}, true, zap.NewNop())

	err := service.MarkRead(context.Background(), teacherClaims("user-1"), "n-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
