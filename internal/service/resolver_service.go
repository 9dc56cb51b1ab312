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

type resolverRequestReader interface {
	SubstituteWindows(ctx context.Context, teacherID, userID string, date time.Time) ([]dto.SubstituteWindow, error)
	ActiveLeave(ctx context.Context, date time.Time) ([]dto.LeaveWindow, error)
}

type resolverBatchReader interface {
	ListByMainTeacher(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error)
	ListByAssistantTutor(ctx context.Context, teacherID string) ([]dto.BatchOwnership, error)
	DetailsByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error)
	MinimalByIDs(ctx context.Context, ids []string) ([]dto.BatchDetail, error)
}

type resolverTeacherReader interface {
	ResolveTeacherID(ctx context.Context, userID string) (string, error)
}

// ResolverService computes, for a teacher and date, the set of batches the
// teacher is effectively responsible for after applying approved leave and
// substitution overlays. The "my batches" read path consumes the same leave
// primitive so the two views cannot diverge.
type ResolverService struct {
	requests resolverRequestReader
	batches  resolverBatchReader
	teachers resolverTeacherReader
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewResolverService constructs a ResolverService. metrics may be nil.
func NewResolverService(requests resolverRequestReader, batches resolverBatchReader, teachers resolverTeacherReader, metrics *MetricsService, logger *zap.Logger) *ResolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{requests: requests, batches: batches, teachers: teachers, metrics: metrics, logger: logger}
}

// EffectiveBatches resolves the effective batch set for the calling teacher
// on the given date (YYYY-MM-DD).
func (s *ResolverService) EffectiveBatches(ctx context.Context, claims *models.JWTClaims, rawDate string) ([]dto.EffectiveBatch, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.ErrForbidden
	}
	if rawDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date query param required (YYYY-MM-DD)")
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	teacherID, err := s.teachers.ResolveTeacherID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}

	subWindows, err := s.requests.SubstituteWindows(ctx, teacherID, claims.UserID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute assignments")
	}

	mainBatches, err := s.batches.ListByMainTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}
	assistantBatches, err := s.batches.ListByAssistantTutor(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}

	leave, err := s.requests.ActiveLeave(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave windows")
	}

	onLeave := leaveBatchSet(leave, teacherID)

	// Own-role visibility: a batch stays visible unless one of the caller's
	// own LEAVE windows covers the date. Counterpart leave (assistant absent
	// for a main teacher, main teacher absent for an assistant) never
	// suppresses and so is already covered by plain membership.
	effective := make(map[string]struct{})
	for _, b := range mainBatches {
		if _, suppressed := onLeave[b.BatchID]; !suppressed {
			effective[b.BatchID] = struct{}{}
		}
	}
	for _, b := range assistantBatches {
		if _, suppressed := onLeave[b.BatchID]; !suppressed {
			effective[b.BatchID] = struct{}{}
		}
	}

	subByBatch := make(map[string]dto.SubstituteWindow, len(subWindows))
	for _, w := range subWindows {
		subByBatch[w.BatchID] = w
		// Substitute visibility is never suppressed by someone else's leave.
		effective[w.BatchID] = struct{}{}
	}

	ids := make([]string, 0, len(effective))
	for id := range effective {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []dto.EffectiveBatch{}, nil
	}

	details, level, err := s.batchDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	mainSet := ownershipSet(mainBatches)
	assistantSet := ownershipSet(assistantBatches)

	result := make([]dto.EffectiveBatch, 0, len(details))
	for _, d := range details {
		item := dto.EffectiveBatch{BatchDetail: d, DetailLevel: level}
		if w, isSub := subByBatch[d.BatchID]; isSub {
			item.RoleTag = dto.RoleTagSubTeacher
			from, to := dateOnly(w.DateFrom), dateOnly(w.DateTo)
			item.SubDateFrom = &from
			item.SubDateTo = &to
		} else if _, isMain := mainSet[d.BatchID]; isMain {
			item.RoleTag = dto.RoleTagMainTeacher
			item.CounterpartTeacher = d.AssistantTutorName
		} else if _, isAssistant := assistantSet[d.BatchID]; isAssistant {
			item.RoleTag = dto.RoleTagAssistantTutor
			item.CounterpartTeacher = d.MainTeacherName
		}
		result = append(result, item)
	}
	return result, nil
}

// LeaveBatchIDs returns the batch ids suppressed for the teacher on the date:
// batches covered by one of the teacher's own approved LEAVE windows. This is
// the shared primitive behind both the resolver and the "my batches" filter.
func (s *ResolverService) LeaveBatchIDs(ctx context.Context, date time.Time, teacherID string) (map[string]struct{}, error) {
	leave, err := s.requests.ActiveLeave(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave windows")
	}
	return leaveBatchSet(leave, teacherID), nil
}

// batchDetails fetches the enriched projection and degrades to the minimal
// field set instead of failing the whole resolution.
func (s *ResolverService) batchDetails(ctx context.Context, ids []string) ([]dto.BatchDetail, string, error) {
	start := time.Now()
	details, err := s.batches.DetailsByIDs(ctx, ids)
	s.metrics.ObserveDBQuery("batch_details", time.Since(start))
	if err == nil {
		return details, dto.DetailLevelFull, nil
	}
	s.logger.Warn("batch detail join failed, falling back to minimal fields", zap.Error(err))
	details, err = s.batches.MinimalByIDs(ctx, ids)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch details")
	}
	return details, dto.DetailLevelMinimal, nil
}

func leaveBatchSet(leave []dto.LeaveWindow, teacherID string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range leave {
		if w.MainTeacherID == teacherID {
			set[w.BatchID] = struct{}{}
		}
	}
	return set
}

func ownershipSet(rows []dto.BatchOwnership) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, b := range rows {
		set[b.BatchID] = struct{}{}
	}
	return set
}
