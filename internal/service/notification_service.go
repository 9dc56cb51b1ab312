package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type notificationStore interface {
	Insert(ctx context.Context, audience models.NotificationAudience, n *models.Notification) error
	ListByRecipient(ctx context.Context, audience models.NotificationAudience, recipientID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, audience models.NotificationAudience, id, recipientID string) (int64, error)
	MarkAllRead(ctx context.Context, audience models.NotificationAudience, recipientID string) error
}

type academicRecipientLister interface {
	ListIDsByRole(ctx context.Context, role models.UserRole) ([]string, error)
}

// NotificationService hosts the best-effort outbound side channel used by the
// request workflows plus the per-role inbox read surface. Outbound delivery
// errors are reported to the caller, which logs and swallows them: a failed
// notification must never change the outcome of the primary operation.
type NotificationService struct {
	repo    notificationStore
	users   academicRecipientLister
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationStore, users academicRecipientLister, enabled bool, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, enabled: enabled, logger: logger}
}

// NotifyTeacher appends one notification row addressed to a teacher's user id.
func (s *NotificationService) NotifyTeacher(ctx context.Context, recipientUserID, message, kind string, relatedID *string) error {
	if !s.enabled {
		return nil
	}
	return s.repo.Insert(ctx, models.AudienceTeacher, &models.Notification{
		RecipientID: recipientUserID,
		Message:     message,
		Type:        kind,
		RelatedID:   relatedID,
	})
}

// NotifyAcademics fans a notification out to every active academic
// coordinator.
func (s *NotificationService) NotifyAcademics(ctx context.Context, message, kind string, relatedID *string) error {
	if !s.enabled {
		return nil
	}
	recipients, err := s.users.ListIDsByRole(ctx, models.RoleAcademic)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := s.repo.Insert(ctx, models.AudienceAcademic, &models.Notification{
			RecipientID: recipient,
			Message:     message,
			Type:        kind,
			RelatedID:   relatedID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// List returns the caller's inbox for the audience matching their role.
func (s *NotificationService) List(ctx context.Context, claims *models.JWTClaims) ([]models.Notification, error) {
	audience, err := audienceForRole(claims)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByRecipient(ctx, audience, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return rows, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, claims *models.JWTClaims, id string) error {
	audience, err := audienceForRole(claims)
	if err != nil {
		return err
	}
	affected, err := s.repo.MarkRead(ctx, audience, id, claims.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead flags the caller's whole inbox as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, claims *models.JWTClaims) error {
	audience, err := audienceForRole(claims)
	if err != nil {
		return err
	}
	if err := s.repo.MarkAllRead(ctx, audience, claims.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}

func audienceForRole(claims *models.JWTClaims) (models.NotificationAudience, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleTeacher:
		return models.AudienceTeacher, nil
	case models.RoleAcademic, models.RoleAdmin:
		return models.AudienceAcademic, nil
	default:
		return "", appErrors.ErrForbidden
	}
}
