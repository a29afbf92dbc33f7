package interns

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	dberrors "github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/database/errors"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
	apperrors "github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
)

// Settler recomputes an intern's progress after a status change.
type Settler interface {
	SettleCheckOut(ctx context.Context, internID string) error
}

type Service struct {
	queries     *sqlc.Queries
	settler     Settler
	auditLogger *observability.AuditLogger
	logger      *observability.Logger
}

func NewService(
	queries *sqlc.Queries,
	settler Settler,
	auditLogger *observability.AuditLogger,
	logger *observability.Logger,
) *Service {
	return &Service{
		queries:     queries,
		settler:     settler,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateInternRequest) (*InternResponse, error) {
	if (req.ShiftTimeIn == "") != (req.ShiftTimeOut == "") {
		return nil, ErrInvalidShift
	}

	required := int64(req.RequiredHours * 3600)
	internID := uuid.NewString()
	qrCode := uuid.NewString()

	err := s.queries.CreateIntern(ctx, sqlc.CreateInternParams{
		ID:               internID,
		Name:             req.Name,
		SchoolName:       req.SchoolName,
		Abbreviation:     req.Abbreviation,
		ShiftName:        toNullString(req.ShiftName),
		ShiftTimeIn:      toNullString(req.ShiftTimeIn),
		ShiftTimeOut:     toNullString(req.ShiftTimeOut),
		RequiredSeconds:  required,
		RemainingSeconds: required,
		Status:           sqlc.InternsStatusActive,
		QrCode:           toNullString(qrCode),
	})
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeDuplicateKey {
			return nil, ErrDuplicateQr
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to create intern")
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "intern",
		Action:   "create",
		InternID: internID,
		Resource: "intern",
		Success:  true,
		Source:   "api",
	})

	intern, err := s.queries.GetIntern(ctx, internID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch created intern")
	}
	return toInternResponse(intern), nil
}

func (s *Service) Get(ctx context.Context, id string) (*InternResponse, error) {
	intern, err := s.queries.GetIntern(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch intern")
	}
	return toInternResponse(intern), nil
}

func (s *Service) List(ctx context.Context) (*ListInternsResponse, error) {
	interns, err := s.queries.ListInterns(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to list interns")
	}
	return toListResponse(interns), nil
}

func (s *Service) ListBySchool(ctx context.Context, schoolName string) (*ListInternsResponse, error) {
	interns, err := s.queries.ListInternsBySchool(ctx, schoolName)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to list interns")
	}
	return toListResponse(interns), nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateInternRequest) (*InternResponse, error) {
	if (req.ShiftTimeIn == "") != (req.ShiftTimeOut == "") {
		return nil, ErrInvalidShift
	}

	intern, err := s.queries.GetIntern(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch intern")
	}

	_, err = s.queries.UpdateIntern(ctx, sqlc.UpdateInternParams{
		Name:            req.Name,
		SchoolName:      req.SchoolName,
		Abbreviation:    req.Abbreviation,
		ShiftName:       toNullString(req.ShiftName),
		ShiftTimeIn:     toNullString(req.ShiftTimeIn),
		ShiftTimeOut:    toNullString(req.ShiftTimeOut),
		RequiredSeconds: int64(req.RequiredHours * 3600),
		QrCode:          intern.QrCode,
		ID:              id,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to update intern")
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "intern",
		Action:   "update",
		InternID: id,
		Resource: "intern",
		Success:  true,
		Source:   "api",
	})

	// Required hours may have changed, recompute remaining time
	if s.settler != nil {
		if err := s.settler.SettleCheckOut(ctx, id); err != nil {
			s.logger.Error(ctx, "Failed to settle intern progress after update",
				s.logger.Field("intern_id", id), s.logger.Field("error", err))
		}
	}

	updated, err := s.queries.GetIntern(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch updated intern")
	}
	return toInternResponse(updated), nil
}

// UpdateStatus moves an intern through the Active, Completed,
// Terminated lifecycle. Completion and termination feed the
// school-level archival check.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*InternResponse, error) {
	result, err := s.queries.UpdateInternStatus(ctx, sqlc.UpdateInternStatusParams{
		Status: sqlc.InternsStatus(status),
		ID:     id,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to update intern status")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Either missing or already in this status; disambiguate
		if _, err := s.queries.GetIntern(ctx, id); err == sql.ErrNoRows {
			return nil, ErrInternNotFound
		} else if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch intern")
		}
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "intern",
		Action:   "status_" + status,
		InternID: id,
		Resource: "intern",
		Success:  true,
		Source:   "api",
	})

	if s.settler != nil && status != string(sqlc.InternsStatusActive) {
		if err := s.settler.SettleCheckOut(ctx, id); err != nil {
			s.logger.Error(ctx, "Failed to settle intern progress after status change",
				s.logger.Field("intern_id", id), s.logger.Field("error", err))
		}
	}

	updated, err := s.queries.GetIntern(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch updated intern")
	}
	return toInternResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	result, err := s.queries.DeleteIntern(ctx, id)
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeForeignKeyViolation {
			return apperrors.New(apperrors.ErrCodeConflict, "Intern still has attendance records")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to delete intern")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrInternNotFound
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "intern",
		Action:   "delete",
		InternID: id,
		Resource: "intern",
		Success:  true,
		Source:   "api",
	})
	return nil
}

// Helper functions
func toInternResponse(i sqlc.Intern) *InternResponse {
	return &InternResponse{
		ID:               i.ID,
		Name:             i.Name,
		SchoolName:       i.SchoolName,
		Abbreviation:     i.Abbreviation,
		ShiftName:        i.ShiftName.String,
		ShiftTimeIn:      i.ShiftTimeIn.String,
		ShiftTimeOut:     i.ShiftTimeOut.String,
		RequiredSeconds:  i.RequiredSeconds,
		RemainingSeconds: i.RemainingSeconds,
		Status:           string(i.Status),
		QrCode:           i.QrCode.String,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func toListResponse(interns []sqlc.Intern) *ListInternsResponse {
	responses := make([]InternResponse, len(interns))
	for i, intern := range interns {
		responses[i] = *toInternResponse(intern)
	}
	return &ListInternsResponse{Interns: responses, Total: len(responses)}
}

func toNullString(val string) sql.NullString {
	if val == "" {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: val}
}
