package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type requestStore interface {
	Create(ctx context.Context, req *models.TeacherBatchRequest) error
	GetByID(ctx context.Context, id string) (*models.TeacherBatchRequest, error)
	ListByOwner(ctx context.Context, teacherID string) ([]dto.MyRequestItem, error)
	ListAll(ctx context.Context, status *models.RequestStatus) ([]dto.AdminRequestItem, error)
	UpdatePending(ctx context.Context, req *models.TeacherBatchRequest) (int64, error)
	DeletePending(ctx context.Context, id, teacherID string) (int64, error)
	Approve(ctx context.Context, id, subTeacherID, approvedBy string, approvedAt time.Time) (int64, error)
	Reject(ctx context.Context, id, approvedBy string, approvedAt time.Time) (int64, error)
}

type requestBatchReader interface {
	Exists(ctx context.Context, batchID string) (bool, error)
	OwnedBy(ctx context.Context, batchID, teacherID string) (bool, error)
	NameByID(ctx context.Context, batchID string) (string, error)
}

type identityResolver interface {
	ResolveTeacherID(ctx context.Context, userID string) (string, error)
	ResolveByTeacherOrUserID(ctx context.Context, id string) (string, error)
	UserIDForTeacher(ctx context.Context, teacherID string) (string, error)
}

type requestNotifier interface {
	NotifyTeacher(ctx context.Context, recipientUserID, message, kind string, relatedID *string) error
	NotifyAcademics(ctx context.Context, message, kind string, relatedID *string) error
}

// RequestService is the lifecycle manager for substitution/leave requests:
// create, list, update, delete while PENDING, then a single approve or
// reject. Notifications fire after the primary transition and never affect
// its outcome.
type RequestService struct {
	repo      requestStore
	batches   requestBatchReader
	teachers  identityResolver
	notifier  requestNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs a RequestService.
func NewRequestService(repo requestStore, batches requestBatchReader, teachers identityResolver, notifier requestNotifier, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, batches: batches, teachers: teachers, notifier: notifier, validator: validate, logger: logger}
}

// Create registers a new PENDING request for the calling teacher.
func (s *RequestService) Create(ctx context.Context, claims *models.JWTClaims, payload dto.CreateRequestPayload) (*models.TeacherBatchRequest, error) {
	teacherID, err := s.requireTeacher(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	reqType := models.RequestType(payload.RequestType)
	dateFrom, dateTo, err := validateWindow(reqType, payload.DateFrom, payload.DateTo)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwnedBatch(ctx, payload.BatchID, teacherID); err != nil {
		return nil, err
	}

	req := &models.TeacherBatchRequest{
		BatchID:       payload.BatchID,
		MainTeacherID: teacherID,
		RequestType:   reqType,
		Reason:        payload.Reason,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}

	if reqType == models.RequestTypeLeave {
		s.notifyAcademicsOfLeave(ctx, req)
	}
	return req, nil
}

// ListMine returns the caller's requests, newest first.
func (s *RequestService) ListMine(ctx context.Context, claims *models.JWTClaims) ([]dto.MyRequestItem, error) {
	teacherID, err := s.requireTeacher(ctx, claims)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return items, nil
}

// Update rewrites a request that is still PENDING and owned by the caller.
func (s *RequestService) Update(ctx context.Context, claims *models.JWTClaims, id string, payload dto.UpdateRequestPayload) (*models.TeacherBatchRequest, error) {
	teacherID, err := s.requireTeacher(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	reqType := models.RequestType(payload.RequestType)
	dateFrom, dateTo, err := validateWindow(reqType, payload.DateFrom, payload.DateTo)
	if err != nil {
		return nil, err
	}

	existing, err := s.getOwnedPending(ctx, id, teacherID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwnedBatch(ctx, payload.BatchID, teacherID); err != nil {
		return nil, err
	}

	existing.BatchID = payload.BatchID
	existing.RequestType = reqType
	existing.Reason = payload.Reason
	existing.DateFrom = dateFrom
	existing.DateTo = dateTo

	affected, err := s.repo.UpdatePending(ctx, existing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}
	if affected == 0 {
		// Lost a race with an approval or rejection.
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is no longer pending")
	}
	return existing, nil
}

// Delete removes a request that is still PENDING and owned by the caller.
func (s *RequestService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	teacherID, err := s.requireTeacher(ctx, claims)
	if err != nil {
		return err
	}
	if _, err := s.getOwnedPending(ctx, id, teacherID); err != nil {
		return err
	}
	affected, err := s.repo.DeletePending(ctx, id, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete request")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrConflict, "request is no longer pending")
	}
	return nil
}

// AdminList returns every request for academic/admin review, optionally
// filtered by status.
func (s *RequestService) AdminList(ctx context.Context, claims *models.JWTClaims, rawStatus string) ([]dto.AdminRequestItem, error) {
	if err := requireAcademic(claims); err != nil {
		return nil, err
	}
	var status *models.RequestStatus
	if rawStatus != "" {
		candidate := models.RequestStatus(rawStatus)
		if !candidate.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", rawStatus))
		}
		status = &candidate
	}
	items, err := s.repo.ListAll(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return items, nil
}

// Approve transitions a PENDING request to APPROVED, assigning the resolved
// substitute and stamping the audit fields. The conditional update is the
// only serialization point: a concurrent second approve sees zero rows
// affected and reports a conflict.
func (s *RequestService) Approve(ctx context.Context, claims *models.JWTClaims, id string, payload dto.ApproveRequestPayload) (*models.TeacherBatchRequest, error) {
	if err := requireAcademic(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "sub_teacher_id required")
	}

	subTeacherID, err := s.teachers.ResolveByTeacherOrUserID(ctx, payload.SubTeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitute teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve substitute teacher")
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if req.Status != models.RequestStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already finalised")
	}

	approvedAt := time.Now().UTC()
	affected, err := s.repo.Approve(ctx, id, subTeacherID, claims.UserID, approvedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already finalised")
	}

	req.Status = models.RequestStatusApproved
	req.SubTeacherID = &subTeacherID
	req.ApprovedBy = &claims.UserID
	req.ApprovedAt = &approvedAt

	s.notifyTeacherOfApproval(ctx, req)
	return req, nil
}

// Reject transitions a PENDING request to REJECTED, stamping audit fields.
func (s *RequestService) Reject(ctx context.Context, claims *models.JWTClaims, id string) (*models.TeacherBatchRequest, error) {
	if err := requireAcademic(claims); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if req.Status != models.RequestStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already finalised")
	}

	rejectedAt := time.Now().UTC()
	affected, err := s.repo.Reject(ctx, id, claims.UserID, rejectedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already finalised")
	}

	req.Status = models.RequestStatusRejected
	req.ApprovedBy = &claims.UserID
	req.ApprovedAt = &rejectedAt
	return req, nil
}

func (s *RequestService) requireTeacher(ctx context.Context, claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher {
		return "", appErrors.ErrForbidden
	}
	teacherID, err := s.teachers.ResolveTeacherID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}
	return teacherID, nil
}

func requireAcademic(claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleAcademic, models.RoleAdmin:
		return nil
	default:
		return appErrors.ErrForbidden
	}
}

func (s *RequestService) ensureOwnedBatch(ctx context.Context, batchID, teacherID string) error {
	exists, err := s.batches.Exists(ctx, batchID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
	}
	owned, err := s.batches.OwnedBy(ctx, batchID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify batch ownership")
	}
	if !owned {
		return appErrors.Clone(appErrors.ErrForbidden, "batch not owned by teacher")
	}
	return nil
}

func (s *RequestService) getOwnedPending(ctx context.Context, id, teacherID string) (*models.TeacherBatchRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if req.MainTeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request not owned by teacher")
	}
	if req.Status != models.RequestStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is no longer pending")
	}
	return req, nil
}

func validateWindow(reqType models.RequestType, rawFrom, rawTo string) (time.Time, time.Time, error) {
	if !reqType.Valid() {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown request type %q", reqType))
	}
	dateFrom, err := parseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date_from")
	}
	dateTo, err := parseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date_to")
	}
	if dateTo.Before(dateFrom) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date_from must not be after date_to")
	}
	return dateFrom, dateTo, nil
}

func (s *RequestService) notifyAcademicsOfLeave(ctx context.Context, req *models.TeacherBatchRequest) {
	batchName, err := s.batches.NameByID(ctx, req.BatchID)
	if err != nil {
		batchName = req.BatchID
	}
	message := fmt.Sprintf("Leave requested for batch %s from %s to %s",
		batchName, req.DateFrom.Format(dateLayout), req.DateTo.Format(dateLayout))
	if err := s.notifier.NotifyAcademics(ctx, message, "leave_request", &req.ID); err != nil {
		s.logger.Warn("failed to notify academics of leave request",
			zap.String("request_id", req.ID), zap.Error(err))
	}
}

func (s *RequestService) notifyTeacherOfApproval(ctx context.Context, req *models.TeacherBatchRequest) {
	recipient, err := s.teachers.UserIDForTeacher(ctx, req.MainTeacherID)
	if err != nil {
		s.logger.Warn("failed to resolve approval notification recipient",
			zap.String("request_id", req.ID), zap.Error(err))
		return
	}
	batchName, err := s.batches.NameByID(ctx, req.BatchID)
	if err != nil {
		batchName = req.BatchID
	}
	message := fmt.Sprintf("Your %s request for batch %s (%s to %s) was approved",
		req.RequestType, batchName, req.DateFrom.Format(dateLayout), req.DateTo.Format(dateLayout))
	if err := s.notifier.NotifyTeacher(ctx, recipient, message, "request_approved", &req.ID); err != nil {
		s.logger.Warn("failed to notify teacher of approval",
			zap.String("request_id", req.ID), zap.Error(err))
	}
}
