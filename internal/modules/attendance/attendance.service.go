package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	dberrors "github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/database/errors"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
)

// HolidayLookup resolves public holidays. Implementations must degrade
// to "not a holiday" instead of returning errors.
type HolidayLookup interface {
	Lookup(ctx context.Context, day time.Time) (string, bool)
}

// Settler recomputes an intern's remaining duration after a record is
// closed and cascades completion into school-level archival.
type Settler interface {
	SettleCheckOut(ctx context.Context, internID string) error
}

// Service handles attendance business logic
type Service struct {
	queries     *sqlc.Queries
	holidays    HolidayLookup
	settler     Settler
	auditLogger *observability.AuditLogger
	metrics     *observability.Metrics
	logger      *observability.Logger
	loc         *time.Location
	grace       time.Duration
	lookback    int
}

// NewService creates a new attendance service
func NewService(
	queries *sqlc.Queries,
	holidays HolidayLookup,
	settler Settler,
	auditLogger *observability.AuditLogger,
	metrics *observability.Metrics,
	logger *observability.Logger,
	cfg config.AttendanceConfig,
) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid attendance timezone %q: %w", cfg.Timezone, err)
	}
	return &Service{
		queries:     queries,
		holidays:    holidays,
		settler:     settler,
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
		loc:         loc,
		grace:       cfg.GraceWindow,
		lookback:    cfg.OffsetLookback,
	}, nil
}

// Location returns the timezone all shift math is done in.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) shiftFor(intern sqlc.Intern) (Shift, error) {
	if !intern.ShiftTimeIn.Valid || !intern.ShiftTimeOut.Valid {
		return Shift{}, ErrShiftNotConfigured
	}
	return ParseShift(intern.ShiftTimeIn.String, intern.ShiftTimeOut.String, s.loc)
}

// CheckIn opens an attendance record for the shift containing now.
// A pre-existing Absent placeholder (no time-in) is claimed in place.
func (s *Service) CheckIn(ctx context.Context, internID string, now time.Time) (*AttendanceResponse, error) {
	now = now.In(s.loc)

	intern, err := s.queries.GetIntern(ctx, internID)
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch intern")
	}
	if intern.Status != sqlc.InternsStatusActive {
		return nil, ErrInternNotActive
	}

	shift, err := s.shiftFor(intern)
	if err != nil {
		return nil, err
	}
	day := shift.AttendanceDay(now)

	existing, err := s.queries.GetAttendanceForDay(ctx, sqlc.GetAttendanceForDayParams{
		InternID:       internID,
		AttendanceDate: day,
	})
	if err != nil && err != sql.ErrNoRows {
		return nil, WrapAttendanceError(err, "Failed to check existing records")
	}

	if err == nil {
		if existing.TimeIn.Valid {
			return nil, ErrAlreadyCheckedIn
		}
		// Absent placeholder: claim it instead of inserting a duplicate
		return s.claimAbsent(ctx, intern, shift, existing, day, now)
	}

	remark, notes := s.classifyCheckIn(ctx, internID, shift, day, now)

	recordID := uuid.NewString()
	err = s.queries.CreateAttendance(ctx, sqlc.CreateAttendanceParams{
		ID:             recordID,
		InternID:       internID,
		AttendanceDate: day,
		TimeIn:         sql.NullTime{Valid: true, Time: now},
		Remark:         sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: remark},
		Notes:          notes,
	})
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeDuplicateKey {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, WrapAttendanceError(err, "Failed to create attendance record")
	}

	s.recordCheckIn(ctx, internID, recordID, remark)

	record, err := s.queries.GetAttendanceByID(ctx, recordID)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch created attendance record")
	}
	return toAttendanceResponse(record), nil
}

func (s *Service) claimAbsent(ctx context.Context, intern sqlc.Intern, shift Shift, existing sqlc.AttendanceRecord, day, now time.Time) (*AttendanceResponse, error) {
	remark, _ := s.classifyCheckIn(ctx, intern.ID, shift, day, now)

	result, err := s.queries.ClaimAbsentRecord(ctx, sqlc.ClaimAbsentRecordParams{
		TimeIn:         sql.NullTime{Valid: true, Time: now},
		Remark:         sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: remark},
		InternID:       intern.ID,
		AttendanceDate: day,
	})
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to claim absence record")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// A concurrent check-in claimed it first
		return nil, ErrAlreadyCheckedIn
	}

	s.recordCheckIn(ctx, intern.ID, existing.ID, remark)

	record, err := s.queries.GetAttendanceByID(ctx, existing.ID)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch claimed attendance record")
	}
	return toAttendanceResponse(record), nil
}

// classifyCheckIn applies the punctuality rules in priority order:
// Holiday, then weekend Offset, then the grace window around shift start.
func (s *Service) classifyCheckIn(ctx context.Context, internID string, shift Shift, day, now time.Time) (sqlc.AttendanceRecordsRemark, sql.NullString) {
	if s.holidays != nil {
		if name, ok := s.holidays.Lookup(ctx, day); ok {
			return sqlc.AttendanceRecordsRemarkHoliday, sql.NullString{Valid: true, String: name}
		}
	}

	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		since := day.AddDate(0, 0, -s.lookback)
		count, err := s.queries.HasRecentAbsence(ctx, sqlc.HasRecentAbsenceParams{
			InternID:       internID,
			AttendanceDate: since,
		})
		if err != nil {
			s.logger.Warn(ctx, "Failed to check recent absences, skipping offset classification",
				zap.String("intern_id", internID), zap.Error(err))
		} else if count > 0 {
			return sqlc.AttendanceRecordsRemarkOffset, sql.NullString{}
		}
	}

	start := shift.Start(day)
	switch {
	case now.Before(start.Add(-s.grace)):
		return sqlc.AttendanceRecordsRemarkEarlyIn, sql.NullString{}
	case now.After(start.Add(s.grace)):
		return sqlc.AttendanceRecordsRemarkLate, sql.NullString{}
	default:
		return sqlc.AttendanceRecordsRemarkRegularHours, sql.NullString{}
	}
}

// CheckOut closes the open record for the shift containing now.
func (s *Service) CheckOut(ctx context.Context, internID string, now time.Time) (*AttendanceResponse, error) {
	now = now.In(s.loc)

	intern, err := s.queries.GetIntern(ctx, internID)
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch intern")
	}

	shift, err := s.shiftFor(intern)
	if err != nil {
		return nil, err
	}
	day := shift.AttendanceDay(now)

	record, err := s.queries.GetAttendanceForDay(ctx, sqlc.GetAttendanceForDayParams{
		InternID:       internID,
		AttendanceDate: day,
	})
	if err == sql.ErrNoRows {
		return nil, ErrNoOpenRecord
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch attendance record")
	}
	if !record.TimeIn.Valid {
		return nil, ErrNoOpenRecord
	}
	if record.TimeOut.Valid {
		return nil, ErrAlreadyCheckedOut
	}
	if now.Before(record.TimeIn.Time) {
		return nil, ErrCheckOutBeforeIn
	}

	elapsed := int64(now.Sub(record.TimeIn.Time).Seconds())
	remark := classifyCheckOut(record.Remark, shift.End(day), s.grace, now)

	result, err := s.queries.CloseAttendance(ctx, sqlc.CloseAttendanceParams{
		TimeOut:        sql.NullTime{Valid: true, Time: now},
		ElapsedSeconds: sql.NullInt64{Valid: true, Int64: elapsed},
		Remark:         sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: remark},
		ID:             record.ID,
	})
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to close attendance record")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Sweep or concurrent check-out closed it first
		return nil, ErrAlreadyCheckedOut
	}

	s.recordCheckOut(ctx, intern, record.ID, remark, elapsed, shift)

	if s.settler != nil {
		if err := s.settler.SettleCheckOut(ctx, internID); err != nil {
			s.logger.Error(ctx, "Failed to settle intern progress after check-out",
				zap.String("intern_id", internID), zap.Error(err))
		}
	}

	updated, err := s.queries.GetAttendanceByID(ctx, record.ID)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch updated attendance record")
	}
	resp := toAttendanceResponse(updated)

	// Settlement may have completed (and archived) the intern already.
	if settled, err := s.queries.GetIntern(ctx, internID); err == nil {
		resp.RemainingSeconds = &settled.RemainingSeconds
	}
	return resp, nil
}

// classifyCheckOut compares now to the shift end. Late and Early In are
// never downgraded to Early Out; they only escalate to Overtime.
func classifyCheckOut(current sqlc.NullAttendanceRecordsRemark, end time.Time, grace time.Duration, now time.Time) sqlc.AttendanceRecordsRemark {
	overtime := now.After(end.Add(grace))

	if current.Valid &&
		(current.AttendanceRecordsRemark == sqlc.AttendanceRecordsRemarkLate ||
			current.AttendanceRecordsRemark == sqlc.AttendanceRecordsRemarkEarlyIn) {
		if overtime {
			return sqlc.AttendanceRecordsRemarkOvertime
		}
		return current.AttendanceRecordsRemark
	}

	switch {
	case now.Before(end.Add(-grace)):
		return sqlc.AttendanceRecordsRemarkEarlyOut
	case overtime:
		return sqlc.AttendanceRecordsRemarkOvertime
	default:
		return sqlc.AttendanceRecordsRemarkRegularHours
	}
}

// ScanToggle dispatches a QR scan to check-in or check-out.
func (s *Service) ScanToggle(ctx context.Context, qrCode string, now time.Time) (*AttendanceResponse, error) {
	now = now.In(s.loc)

	intern, err := s.queries.GetInternByQrCode(ctx, sql.NullString{Valid: true, String: qrCode})
	if err == sql.ErrNoRows {
		return nil, ErrInternNotFound
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to resolve QR code")
	}

	shift, err := s.shiftFor(intern)
	if err != nil {
		return nil, err
	}
	day := shift.AttendanceDay(now)

	record, err := s.queries.GetAttendanceForDay(ctx, sqlc.GetAttendanceForDayParams{
		InternID:       intern.ID,
		AttendanceDate: day,
	})
	switch {
	case err == sql.ErrNoRows:
		return s.CheckIn(ctx, intern.ID, now)
	case err != nil:
		return nil, WrapAttendanceError(err, "Failed to check existing records")
	case !record.TimeIn.Valid:
		// Absent placeholder is claimable
		return s.CheckIn(ctx, intern.ID, now)
	case !record.TimeOut.Valid:
		return s.CheckOut(ctx, intern.ID, now)
	default:
		return nil, ErrAlreadyCheckedOut
	}
}

// MarkAbsent inserts an Absent placeholder for the shift containing now.
// Idempotent: an existing record for the attendance day is left alone.
func (s *Service) MarkAbsent(ctx context.Context, internID string, now time.Time) (bool, error) {
	now = now.In(s.loc)

	intern, err := s.queries.GetIntern(ctx, internID)
	if err == sql.ErrNoRows {
		return false, ErrInternNotFound
	}
	if err != nil {
		return false, WrapAttendanceError(err, "Failed to fetch intern")
	}
	if intern.Status != sqlc.InternsStatusActive {
		return false, nil
	}

	shift, err := s.shiftFor(intern)
	if err != nil {
		return false, err
	}
	day := shift.AttendanceDay(now)

	_, err = s.queries.GetAttendanceForDay(ctx, sqlc.GetAttendanceForDayParams{
		InternID:       internID,
		AttendanceDate: day,
	})
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, WrapAttendanceError(err, "Failed to check existing records")
	}

	err = s.queries.CreateAttendance(ctx, sqlc.CreateAttendanceParams{
		ID:             uuid.NewString(),
		InternID:       internID,
		AttendanceDate: day,
		Remark:         sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: sqlc.AttendanceRecordsRemarkAbsent},
	})
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeDuplicateKey {
			return false, nil
		}
		return false, WrapAttendanceError(err, "Failed to create absence record")
	}

	if s.metrics != nil {
		s.metrics.AbsencesMarked.Inc()
	}
	s.logger.Info(ctx, "Marked intern absent",
		zap.String("intern_id", internID),
		zap.String("attendance_date", day.Format("2006-01-02")),
	)
	return true, nil
}

// MarkAllAbsent runs the absence marker over every active intern.
func (s *Service) MarkAllAbsent(ctx context.Context, now time.Time) (int64, error) {
	interns, err := s.queries.ListActiveInterns(ctx)
	if err != nil {
		return 0, WrapAttendanceError(err, "Failed to list active interns")
	}

	var marked int64
	for _, intern := range interns {
		ok, err := s.MarkAbsent(ctx, intern.ID, now)
		if err != nil {
			s.logger.Error(ctx, "Failed to mark intern absent",
				zap.String("intern_id", intern.ID), zap.Error(err))
			continue
		}
		if ok {
			marked++
		}
	}
	return marked, nil
}

// SweepIntern closes the intern's open record if its shift has ended.
// time_out is pinned to the shift end, not the sweep's wall-clock time.
func (s *Service) SweepIntern(ctx context.Context, internID string, now time.Time) error {
	now = now.In(s.loc)

	intern, err := s.queries.GetIntern(ctx, internID)
	if err == sql.ErrNoRows {
		return ErrInternNotFound
	}
	if err != nil {
		return WrapAttendanceError(err, "Failed to fetch intern")
	}

	shift, err := s.shiftFor(intern)
	if err != nil {
		return err
	}
	day := shift.AttendanceDay(now)

	record, err := s.queries.GetAttendanceForDay(ctx, sqlc.GetAttendanceForDayParams{
		InternID:       internID,
		AttendanceDate: day,
	})
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return WrapAttendanceError(err, "Failed to fetch attendance record")
	}

	closed, err := s.autoClose(ctx, record.ID, internID, record.TimeIn, shift, day, now)
	if err != nil {
		return err
	}
	if closed && s.settler != nil {
		if err := s.settler.SettleCheckOut(ctx, internID); err != nil {
			s.logger.Error(ctx, "Failed to settle intern progress after auto timeout",
				zap.String("intern_id", internID), zap.Error(err))
		}
	}
	return nil
}

// SweepTimeouts closes every open record whose shift end has passed.
// Safe to run concurrently with manual check-outs: the conditional
// update means whichever commits first wins.
func (s *Service) SweepTimeouts(ctx context.Context, now time.Time) (int64, error) {
	now = now.In(s.loc)

	open, err := s.queries.ListOpenAttendance(ctx)
	if err != nil {
		return 0, WrapAttendanceError(err, "Failed to list open records")
	}

	var closed int64
	for _, row := range open {
		if !row.ShiftTimeIn.Valid || !row.ShiftTimeOut.Valid {
			continue
		}
		shift, err := ParseShift(row.ShiftTimeIn.String, row.ShiftTimeOut.String, s.loc)
		if err != nil {
			s.logger.Warn(ctx, "Skipping open record with invalid shift",
				zap.String("intern_id", row.InternID), zap.Error(err))
			continue
		}

		didClose, err := s.autoClose(ctx, row.ID, row.InternID, row.TimeIn, shift, row.AttendanceDate, now)
		if err != nil {
			s.logger.Error(ctx, "Failed to auto-close attendance record",
				zap.String("record_id", row.ID), zap.Error(err))
			continue
		}
		if !didClose {
			continue
		}
		closed++

		if s.settler != nil {
			if err := s.settler.SettleCheckOut(ctx, row.InternID); err != nil {
				s.logger.Error(ctx, "Failed to settle intern progress after auto timeout",
					zap.String("intern_id", row.InternID), zap.Error(err))
			}
		}
	}
	return closed, nil
}

func (s *Service) autoClose(ctx context.Context, recordID, internID string, timeIn sql.NullTime, shift Shift, day, now time.Time) (bool, error) {
	if !timeIn.Valid {
		return false, nil
	}
	end := shift.End(day)
	if now.Before(end) {
		return false, nil
	}

	elapsed := int64(end.Sub(timeIn.Time.In(s.loc)).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	result, err := s.queries.CloseAttendance(ctx, sqlc.CloseAttendanceParams{
		TimeOut:        sql.NullTime{Valid: true, Time: end},
		ElapsedSeconds: sql.NullInt64{Valid: true, Int64: elapsed},
		Remark:         sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: sqlc.AttendanceRecordsRemarkAutoTimeout},
		ID:             recordID,
	})
	if err != nil {
		return false, WrapAttendanceError(err, "Failed to auto-close attendance record")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Manual check-out won the race
		return false, nil
	}

	if s.metrics != nil {
		s.metrics.AutoTimeoutsTotal.Inc()
	}
	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "attendance",
		Action:   "auto_timeout",
		InternID: internID,
		Resource: fmt.Sprintf("attendance:%s", recordID),
		Success:  true,
		Source:   "sweeper",
	})
	return true, nil
}

// GetByID fetches one attendance record.
func (s *Service) GetByID(ctx context.Context, id string) (*AttendanceResponse, error) {
	record, err := s.queries.GetAttendanceByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch attendance record")
	}
	return toAttendanceResponse(record), nil
}

// ListByIntern returns an intern's attendance records, newest first.
func (s *Service) ListByIntern(ctx context.Context, internID string) (*ListAttendanceResponse, error) {
	records, err := s.queries.ListAttendanceByIntern(ctx, internID)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to list attendance records")
	}

	responses := make([]AttendanceResponse, len(records))
	for i, rec := range records {
		responses[i] = *toAttendanceResponse(rec)
	}
	return &ListAttendanceResponse{Records: responses, Total: len(responses)}, nil
}

// ListBySchool returns all attendance records for a school's interns.
func (s *Service) ListBySchool(ctx context.Context, schoolName string) (*ListAttendanceResponse, error) {
	rows, err := s.queries.ListAttendanceBySchool(ctx, schoolName)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to list attendance records")
	}

	responses := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		resp := *toAttendanceResponse(sqlc.AttendanceRecord{
			ID:             row.ID,
			InternID:       row.InternID,
			AttendanceDate: row.AttendanceDate,
			TimeIn:         row.TimeIn,
			TimeOut:        row.TimeOut,
			ElapsedSeconds: row.ElapsedSeconds,
			Remark:         row.Remark,
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		})
		resp.InternName = row.InternName
		resp.SchoolName = row.SchoolName
		responses[i] = resp
	}
	return &ListAttendanceResponse{Records: responses, Total: len(responses)}, nil
}

// ListByDate returns all attendance records for a calendar date.
func (s *Service) ListByDate(ctx context.Context, day time.Time) (*ListAttendanceResponse, error) {
	rows, err := s.queries.ListAttendanceByDate(ctx, day)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to list attendance records")
	}

	responses := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		resp := *toAttendanceResponse(sqlc.AttendanceRecord{
			ID:             row.ID,
			InternID:       row.InternID,
			AttendanceDate: row.AttendanceDate,
			TimeIn:         row.TimeIn,
			TimeOut:        row.TimeOut,
			ElapsedSeconds: row.ElapsedSeconds,
			Remark:         row.Remark,
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		})
		resp.InternName = row.InternName
		resp.SchoolName = row.SchoolName
		responses[i] = resp
	}
	return &ListAttendanceResponse{Records: responses, Total: len(responses)}, nil
}

// UpdateManual applies an administrative edit to a record.
func (s *Service) UpdateManual(ctx context.Context, id string, req ManualAttendanceRequest) (*AttendanceResponse, error) {
	record, err := s.queries.GetAttendanceByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch attendance record")
	}

	timeIn := record.TimeIn
	if req.TimeIn != nil {
		timeIn = sql.NullTime{Valid: true, Time: req.TimeIn.In(s.loc)}
	}
	timeOut := record.TimeOut
	if req.TimeOut != nil {
		timeOut = sql.NullTime{Valid: true, Time: req.TimeOut.In(s.loc)}
	}
	if timeIn.Valid && timeOut.Valid && timeOut.Time.Before(timeIn.Time) {
		return nil, ErrCheckOutBeforeIn
	}

	elapsed := record.ElapsedSeconds
	if timeIn.Valid && timeOut.Valid {
		elapsed = sql.NullInt64{Valid: true, Int64: int64(timeOut.Time.Sub(timeIn.Time).Seconds())}
	}

	remark := record.Remark
	if req.Remark != "" {
		remark = sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: sqlc.AttendanceRecordsRemark(req.Remark)}
	}
	notes := record.Notes
	if req.Notes != "" {
		notes = sql.NullString{Valid: true, String: req.Notes}
	}

	if _, err := s.queries.UpdateAttendanceManual(ctx, sqlc.UpdateAttendanceManualParams{
		TimeIn:         timeIn,
		TimeOut:        timeOut,
		ElapsedSeconds: elapsed,
		Remark:         remark,
		Notes:          notes,
		ID:             id,
	}); err != nil {
		return nil, WrapAttendanceError(err, "Failed to update attendance record")
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "attendance",
		Action:   "manual_edit",
		InternID: record.InternID,
		Resource: fmt.Sprintf("attendance:%s", id),
		Success:  true,
		Source:   "admin",
	})

	if s.settler != nil {
		if err := s.settler.SettleCheckOut(ctx, record.InternID); err != nil {
			s.logger.Error(ctx, "Failed to settle intern progress after manual edit",
				zap.String("intern_id", record.InternID), zap.Error(err))
		}
	}

	updated, err := s.queries.GetAttendanceByID(ctx, id)
	if err != nil {
		return nil, WrapAttendanceError(err, "Failed to fetch updated attendance record")
	}
	return toAttendanceResponse(updated), nil
}

// Delete removes a record. Administrative use only.
func (s *Service) Delete(ctx context.Context, id string) error {
	result, err := s.queries.DeleteAttendance(ctx, id)
	if err != nil {
		return WrapAttendanceError(err, "Failed to delete attendance record")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrRecordNotFound
	}

	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "attendance",
		Action:   "delete",
		Resource: fmt.Sprintf("attendance:%s", id),
		Success:  true,
		Source:   "admin",
	})
	return nil
}

// ExportTimesheet renders a school's attendance records as an xlsx sheet.
func (s *Service) ExportTimesheet(ctx context.Context, schoolName string) (*bytes.Buffer, string, error) {
	rows, err := s.queries.ListAttendanceBySchool(ctx, schoolName)
	if err != nil {
		return nil, "", WrapAttendanceError(err, "Failed to list attendance records")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timesheet"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Intern", "School", "Date", "Time In", "Time Out", "Hours", "Remark", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		values := []interface{}{
			row.InternName,
			row.SchoolName,
			row.AttendanceDate.Format("2006-01-02"),
			formatClock(row.TimeIn, s.loc),
			formatClock(row.TimeOut, s.loc),
			formatHours(row.ElapsedSeconds),
			remarkString(row.Remark),
			row.Notes.String,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", WrapAttendanceError(err, "Failed to render timesheet")
	}

	filename := fmt.Sprintf("timesheet_%s_%s.xlsx", sanitizeFilename(schoolName), time.Now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

func (s *Service) recordCheckIn(ctx context.Context, internID, recordID string, remark sqlc.AttendanceRecordsRemark) {
	if s.metrics != nil {
		s.metrics.CheckInsTotal.WithLabelValues(string(remark)).Inc()
	}
	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "attendance",
		Action:   "check_in",
		InternID: internID,
		Resource: fmt.Sprintf("attendance:%s", recordID),
		Success:  true,
		Source:   "api",
	})
}

func (s *Service) recordCheckOut(ctx context.Context, intern sqlc.Intern, recordID string, remark sqlc.AttendanceRecordsRemark, elapsed int64, shift Shift) {
	if s.metrics != nil {
		s.metrics.CheckOutsTotal.WithLabelValues(string(remark)).Inc()
		shiftLabel := "day"
		if shift.Night() {
			shiftLabel = "night"
		}
		s.metrics.AttendanceDuration.WithLabelValues(shiftLabel).Observe(float64(elapsed))
	}
	s.auditLogger.LogAttendanceEvent(ctx, observability.AttendanceEvent{
		Type:     "attendance",
		Action:   "check_out",
		InternID: intern.ID,
		Resource: fmt.Sprintf("attendance:%s", recordID),
		Success:  true,
		Source:   "api",
	})
}

// Helper functions
func toAttendanceResponse(a sqlc.AttendanceRecord) *AttendanceResponse {
	return &AttendanceResponse{
		ID:             a.ID,
		InternID:       a.InternID,
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		TimeIn:         toTimePtr(a.TimeIn),
		TimeOut:        toTimePtr(a.TimeOut),
		ElapsedSeconds: toInt64Ptr(a.ElapsedSeconds),
		Remark:         remarkString(a.Remark),
		Notes:          a.Notes.String,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toTimePtr(val sql.NullTime) *time.Time {
	if val.Valid {
		return &val.Time
	}
	return nil
}

func toInt64Ptr(val sql.NullInt64) *int64 {
	if val.Valid {
		return &val.Int64
	}
	return nil
}

func remarkString(val sqlc.NullAttendanceRecordsRemark) string {
	if val.Valid {
		return string(val.AttendanceRecordsRemark)
	}
	return ""
}

func formatClock(val sql.NullTime, loc *time.Location) string {
	if !val.Valid {
		return ""
	}
	return val.Time.In(loc).Format("03:04 PM")
}

func formatHours(val sql.NullInt64) float64 {
	if !val.Valid {
		return 0
	}
	return float64(val.Int64) / 3600.0
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	return string(out)
}
