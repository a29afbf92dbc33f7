package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
	apperrors "github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
)

var ErrHistoryNotFound = apperrors.New(apperrors.ErrCodeNotFound, "History record not found")

// Service settles intern progress after attendance changes and archives
// whole schools once every intern from that school has finished.
type Service struct {
	queries     *sqlc.Queries
	repo        *sqlc.Repository
	auditLogger *observability.AuditLogger
	metrics     *observability.Metrics
	logger      *observability.Logger
}

func NewService(
	queries *sqlc.Queries,
	repo *sqlc.Repository,
	auditLogger *observability.AuditLogger,
	metrics *observability.Metrics,
	logger *observability.Logger,
) *Service {
	return &Service{
		queries:     queries,
		repo:        repo,
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
	}
}

// SettleCheckOut recomputes the intern's remaining duration from the
// sum of closed attendance records. Hitting zero marks the intern
// Completed. Any resolved status, Completed or Terminated, triggers the
// school archival check so terminating the last unresolved intern still
// archives the school.
func (s *Service) SettleCheckOut(ctx context.Context, internID string) error {
	intern, err := s.queries.GetIntern(ctx, internID)
	if err == sql.ErrNoRows {
		// Already archived, nothing to settle
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch intern")
	}

	attended, err := s.queries.SumElapsedByIntern(ctx, internID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to sum attended time")
	}

	remaining := intern.RequiredSeconds - attended
	if remaining < 0 {
		remaining = 0
	}

	status := intern.Status
	if remaining == 0 && status == sqlc.InternsStatusActive {
		status = sqlc.InternsStatusCompleted
	}

	if remaining != intern.RemainingSeconds || status != intern.Status {
		err = s.queries.UpdateInternProgress(ctx, sqlc.UpdateInternProgressParams{
			RemainingSeconds: remaining,
			Status:           status,
			ID:               internID,
		})
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to update intern progress")
		}
	}

	if status == sqlc.InternsStatusCompleted && intern.Status != sqlc.InternsStatusCompleted {
		s.logger.Info(ctx, "Intern completed required hours",
			zap.String("intern_id", internID),
			zap.String("school", intern.SchoolName))
		s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
			Type:     "intern",
			Action:   "completed",
			InternID: internID,
			Resource: "intern",
			Success:  true,
			Source:   "settlement",
		})
	}

	if status != sqlc.InternsStatusActive {
		if err := s.ArchiveSchoolIfDone(ctx, intern.SchoolName); err != nil {
			// Archival is retried on the next settlement from this school
			s.logger.Error(ctx, "School archival check failed",
				zap.String("school", intern.SchoolName), zap.Error(err))
		}
	}
	return nil
}

// ArchiveSchoolIfDone moves every finished intern of a school into
// intern_history when no unresolved interns remain. The whole move runs
// in one transaction so that a failure leaves the live tables intact.
func (s *Service) ArchiveSchoolIfDone(ctx context.Context, schoolName string) error {
	unresolved, err := s.queries.CountUnresolvedBySchool(ctx, schoolName)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to count unresolved interns")
	}
	if unresolved > 0 {
		return nil
	}

	archived := 0
	err = s.repo.WithTransaction(ctx, func(q *sqlc.Queries) (txErr error) {
		archived, txErr = archiveFinished(ctx, q, schoolName)
		return txErr
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.ArchivalRuns.WithLabelValues("error").Inc()
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to archive school")
	}

	if archived > 0 {
		if s.metrics != nil {
			s.metrics.ArchivalRuns.WithLabelValues("archived").Inc()
		}
		s.logger.Info(ctx, "Archived finished school",
			zap.String("school", schoolName), zap.Int("interns", archived))
		s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
			Type:     "history",
			Action:   "school_archived",
			Resource: "school:" + schoolName,
			Success:  true,
			Source:   "settlement",
		})
	}
	return nil
}

// ForceArchive archives a school's finished interns regardless of
// whether unresolved interns remain. Administrative use only.
func (s *Service) ForceArchive(ctx context.Context, schoolName string) (int, error) {
	archived := 0
	err := s.repo.WithTransaction(ctx, func(q *sqlc.Queries) (txErr error) {
		archived, txErr = archiveFinished(ctx, q, schoolName)
		return txErr
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.ArchivalRuns.WithLabelValues("error").Inc()
		}
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to archive school")
	}

	if s.metrics != nil {
		s.metrics.ArchivalRuns.WithLabelValues("forced").Inc()
	}
	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "history",
		Action:   "school_force_archived",
		Resource: "school:" + schoolName,
		Success:  true,
		Source:   "admin",
	})
	return archived, nil
}

func (s *Service) List(ctx context.Context) (*ListHistoryResponse, error) {
	records, err := s.queries.ListHistory(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to list history")
	}
	return toListResponse(records), nil
}

func (s *Service) ListBySchool(ctx context.Context, schoolName string) (*ListHistoryResponse, error) {
	records, err := s.queries.ListHistoryBySchool(ctx, schoolName)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to list history")
	}
	return toListResponse(records), nil
}

func (s *Service) GetByIntern(ctx context.Context, internID string) (*HistoryResponse, error) {
	record, err := s.queries.GetHistoryByIntern(ctx, internID)
	if err == sql.ErrNoRows {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch history record")
	}
	return toHistoryResponse(record), nil
}

// DeleteExpired removes archived records whose internship ended before
// the retention window.
func (s *Service) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := s.queries.DeleteHistoryBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to delete expired history")
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		s.logger.Info(ctx, "Deleted expired history records",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// archiveFinished snapshots every finished intern of a school into
// intern_history and removes them from the live tables. Runs inside
// the caller's transaction.
func archiveFinished(ctx context.Context, q *sqlc.Queries, schoolName string) (int, error) {
	finished, err := q.ListFinishedBySchool(ctx, schoolName)
	if err != nil {
		return 0, fmt.Errorf("list finished interns: %w", err)
	}

	now := time.Now()
	archived := 0
	for _, intern := range finished {
		attended, err := q.SumElapsedByIntern(ctx, intern.ID)
		if err != nil {
			return archived, fmt.Errorf("sum attended time for %s: %w", intern.ID, err)
		}

		// The internship runs from account creation to the latest
		// attendance day. Interns that never logged attendance fall
		// back to their last account change.
		lastDay, err := q.LatestAttendanceDate(ctx, intern.ID)
		if err != nil {
			return archived, fmt.Errorf("latest attendance date for %s: %w", intern.ID, err)
		}
		endDate := intern.UpdatedAt
		if lastDay.Valid {
			endDate = lastDay.Time
		}

		err = q.InsertHistory(ctx, sqlc.InsertHistoryParams{
			ID:              uuid.NewString(),
			InternID:        intern.ID,
			InternName:      intern.Name,
			Abbreviation:    intern.Abbreviation,
			SchoolName:      intern.SchoolName,
			ShiftName:       intern.ShiftName,
			ShiftTime:       formatShiftTime(intern.ShiftTimeIn, intern.ShiftTimeOut),
			StartDate:       intern.CreatedAt,
			EndDate:         endDate,
			RequiredSeconds: intern.RequiredSeconds,
			TotalSeconds:    attended,
			Status:          intern.Status,
			ArchivedAt:      now,
		})
		if err != nil {
			return archived, fmt.Errorf("insert history for %s: %w", intern.ID, err)
		}

		if err := q.DeleteAttendanceByIntern(ctx, intern.ID); err != nil {
			return archived, fmt.Errorf("delete attendance for %s: %w", intern.ID, err)
		}
		if _, err := q.DeleteIntern(ctx, intern.ID); err != nil {
			return archived, fmt.Errorf("delete intern %s: %w", intern.ID, err)
		}
		archived++
	}
	return archived, nil
}

// Helper functions
func toHistoryResponse(h sqlc.InternHistory) *HistoryResponse {
	return &HistoryResponse{
		ID:              h.ID,
		InternID:        h.InternID,
		InternName:      h.InternName,
		Abbreviation:    h.Abbreviation,
		SchoolName:      h.SchoolName,
		ShiftName:       h.ShiftName.String,
		ShiftTime:       h.ShiftTime.String,
		StartDate:       h.StartDate.Format("2006-01-02"),
		EndDate:         h.EndDate.Format("2006-01-02"),
		RequiredSeconds: h.RequiredSeconds,
		TotalSeconds:    h.TotalSeconds,
		Status:          string(h.Status),
		ArchivedAt:      h.ArchivedAt,
	}
}

func toListResponse(records []sqlc.InternHistory) *ListHistoryResponse {
	responses := make([]HistoryResponse, len(records))
	for i, record := range records {
		responses[i] = *toHistoryResponse(record)
	}
	return &ListHistoryResponse{Records: responses, Total: len(responses)}
}

func formatShiftTime(timeIn, timeOut sql.NullString) sql.NullString {
	if !timeIn.Valid || !timeOut.Valid {
		return sql.NullString{}
	}
	in, errIn := time.Parse("15:04:05", timeIn.String)
	out, errOut := time.Parse("15:04:05", timeOut.String)
	if errIn != nil || errOut != nil {
		return sql.NullString{}
	}
	return sql.NullString{
		Valid:  true,
		String: in.Format("03:04 PM") + " - " + out.Format("03:04 PM"),
	}
}
