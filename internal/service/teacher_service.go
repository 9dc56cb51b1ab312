package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type teacherStore interface {
	ResolveTeacherID(ctx context.Context, userID string) (string, error)
	List(ctx context.Context, filter dto.TeacherFilter) ([]dto.TeacherItem, int, error)
}

type teacherBatchStore interface {
	ListByMainTeacher(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error)
	ListByAssistantTutor(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error)
	DetailsByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error)
	MinimalByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error)
}

type leaveFilter interface {
	LeaveBatchIDs(ctx context.Context, date time.Time, teacherID string) (map[string]struct{}, error)
}

// TeacherService serves the roster plus the teacher-facing batch views. The
// "my batches" path applies the same leave windows as the resolver via the
// shared LeaveBatchIDs primitive.
type TeacherService struct {
	repo    teacherStore
	batches teacherBatchStore
	leave   leaveFilter
	now     func() time.Time
	logger  *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherStore, batches teacherBatchStore, leave leaveFilter, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, batches: batches, leave: leave, now: time.Now, logger: logger}
}

// List returns the teacher roster for academic/admin callers.
func (s *TeacherService) List(ctx context.Context, claims *models.JWTClaims, filter dto.TeacherFilter) ([]dto.TeacherItem, *models.Pagination, error) {
	if err := requireAcademic(claims); err != nil {
		return nil, nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

// MyTeacherID resolves the caller's teacher record id.
func (s *TeacherService) MyTeacherID(ctx context.Context, claims *models.JWTClaims) (string, error) {
	teacherID, err := s.resolveCaller(ctx, claims)
	if err != nil {
		return "", err
	}
	return teacherID, nil
}

// MyBatches lists the batches the calling teacher owns today, as main teacher
// or assistant tutor, hiding batches covered by the caller's own approved
// LEAVE window. Only the caller's own leave suppresses here; reciprocal
// coverage stays a resolver-only concern.
func (s *TeacherService) MyBatches(ctx context.Context, claims *models.JWTClaims) ([]dto.BatchDetail, error) {
	teacherID, err := s.resolveCaller(ctx, claims)
	if err != nil {
		return nil, err
	}

	mainBatches, err := s.batches.ListByMainTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}
	assistantBatches, err := s.batches.ListByAssistantTutor(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}

	today := dateOnly(s.now())
	hidden, err := s.leave.LeaveBatchIDs(ctx, today, teacherID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(mainBatches)+len(assistantBatches))
	seen := make(map[string]struct{})
	for _, b := range append(mainBatches, assistantBatches...) {
		if _, dup := seen[b.BatchID]; dup {
			continue
		}
		seen[b.BatchID] = struct{}{}
		if _, hide := hidden[b.BatchID]; hide {
			continue
		}
		ids = append(ids, b.BatchID)
	}
	if len(ids) == 0 {
		return []dto.BatchDetail{}, nil
	}

	details, err := s.batches.DetailsByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("batch detail join failed, falling back to minimal fields", zap.Error(err))
		details, err = s.batches.MinimalByIDs(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch details")
		}
	}
	return details, nil
}

func (s *TeacherService) resolveCaller(ctx context.Context, claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher {
		return "", appErrors.ErrForbidden
	}
	teacherID, err := s.repo.ResolveTeacherID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}
	return teacherID, nil
}
