package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
)

type stubHolidays struct {
	name string
	ok   bool
}

func (s *stubHolidays) Lookup(ctx context.Context, day time.Time) (string, bool) {
	return s.name, s.ok
}

type stubSettler struct {
	calls []string
	err   error
}

func (s *stubSettler) SettleCheckOut(ctx context.Context, internID string) error {
	s.calls = append(s.calls, internID)
	return s.err
}

type serviceDeps struct {
	mockDB   sqlmock.Sqlmock
	service  *Service
	holidays *stubHolidays
	settler  *stubSettler
}

func setupServiceTest(t *testing.T) (*serviceDeps, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := observability.NewLogger("info", "console")
	auditLogger := observability.NewAuditLogger(logger)
	queries := sqlc.New(db)
	holidays := &stubHolidays{}
	settler := &stubSettler{}

	service, err := NewService(queries, holidays, settler, auditLogger, nil, logger, config.AttendanceConfig{
		Timezone:       "Asia/Manila",
		GraceWindow:    15 * time.Minute,
		OffsetLookback: 7,
	})
	require.NoError(t, err)

	deps := &serviceDeps{
		mockDB:   mock,
		service:  service,
		holidays: holidays,
		settler:  settler,
	}

	return deps, func() { db.Close() }
}

var internColumns = []string{
	"id", "name", "school_name", "abbreviation", "shift_name", "shift_time_in", "shift_time_out",
	"required_seconds", "remaining_seconds", "status", "qr_code", "created_at", "updated_at",
}

var attendanceColumns = []string{
	"id", "intern_id", "attendance_date", "time_in", "time_out",
	"elapsed_seconds", "remark", "notes", "created_at", "updated_at",
}

func internRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows(internColumns).AddRow(
		id, "Ana Cruz", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
		int64(360*3600), int64(300*3600), "Active", "qr-"+id, time.Now(), time.Now(),
	)
}

func nightInternRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows(internColumns).AddRow(
		id, "Ben Reyes", "State University", "SU", "Night Shift", "22:00:00", "06:00:00",
		int64(360*3600), int64(300*3600), "Active", "qr-"+id, time.Now(), time.Now(),
	)
}

func manila(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return loc
}

func TestService_CheckIn_RegularHours(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 5, 0, 0, loc) // Monday, within grace
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)

	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Regular Hours", resp.Remark)
	assert.Equal(t, "2025-06-02", resp.AttendanceDate)
	assert.NoError(t, deps.mockDB.ExpectationsWereMet())
}

func TestService_CheckIn_Late(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 40, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Late", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Late", resp.Remark)
}

func TestService_CheckIn_Holiday(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()
	deps.holidays.name = "Independence Day"
	deps.holidays.ok = true

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 12, 9, 0, 0, 0, loc)
	day := time.Date(2025, 6, 12, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Holiday", "Independence Day", time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Holiday", resp.Remark)
	assert.Equal(t, "Independence Day", resp.Notes)
}

func TestService_CheckIn_WeekendOffset(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 7, 9, 0, 0, 0, loc) // Saturday
	day := time.Date(2025, 6, 7, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectQuery("SELECT COUNT\\(\\*\\) FROM attendance_records").
		WithArgs(internID, day.AddDate(0, 0, -7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Offset", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Offset", resp.Remark)
}

func TestService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now.Add(-time.Hour), nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	_, err := deps.service.CheckIn(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestService_CheckIn_DuplicateInsertRace(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := deps.service.CheckIn(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestService_CheckIn_ClaimsAbsentPlaceholder(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, nil, nil, nil, "Absent", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_in").
		WillReturnResult(sqlmock.NewResult(0, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Regular Hours", resp.Remark)
}

func TestService_CheckIn_ClaimRaceLoser(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, nil, nil, nil, "Absent", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_in").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := deps.service.CheckIn(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestService_CheckIn_InternNotFound(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := deps.service.CheckIn(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrInternNotFound)
}

func TestService_CheckIn_InternNotActive(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(0), "Completed", "qr-1", time.Now(), time.Now(),
		))

	_, err := deps.service.CheckIn(context.Background(), internID, time.Now())
	assert.ErrorIs(t, err, ErrInternNotActive)
}

func TestService_CheckIn_ShiftNotConfigured(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", nil, nil, nil,
			int64(360*3600), int64(360*3600), "Active", "qr-1", time.Now(), time.Now(),
		))

	_, err := deps.service.CheckIn(context.Background(), internID, time.Now())
	assert.ErrorIs(t, err, ErrShiftNotConfigured)
}

func TestService_CheckIn_NightShiftResolvesPreviousDay(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "22222222-2222-2222-2222-222222222222"
	loc := manila(t)
	// 01:30 belongs to the shift that started the evening before
	now := time.Date(2025, 6, 3, 1, 30, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(nightInternRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Late", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.CheckIn(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.AttendanceDate)
	assert.Equal(t, "Late", resp.Remark)
}

func TestService_CheckOut_RegularHours(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 18, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WithArgs(internID, day).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, now, int64(9*3600+300), "Regular Hours", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))

	resp, err := deps.service.CheckOut(context.Background(), internID, now)
	require.NoError(t, err)
	assert.Equal(t, "Regular Hours", resp.Remark)
	require.NotNil(t, resp.ElapsedSeconds)
	require.NotNil(t, resp.RemainingSeconds)
	assert.Equal(t, []string{internID}, deps.settler.calls)
}

func TestService_CheckOut_NoOpenRecord(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnError(sql.ErrNoRows)

	_, err := deps.service.CheckOut(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrNoOpenRecord)
}

func TestService_CheckOut_AlreadyClosed(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, timeIn.Add(9*time.Hour), int64(9*3600), "Regular Hours", nil, time.Now(), time.Now(),
		))

	_, err := deps.service.CheckOut(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestService_CheckOut_SweepWonRace(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 18, 5, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := deps.service.CheckOut(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.Empty(t, deps.settler.calls)
}

func TestService_CheckOut_BeforeCheckIn(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := timeIn.Add(-time.Minute)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	_, err := deps.service.CheckOut(context.Background(), internID, now)
	assert.ErrorIs(t, err, ErrCheckOutBeforeIn)
}

func TestClassifyCheckOut(t *testing.T) {
	loc := time.UTC
	end := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)
	grace := 15 * time.Minute

	remark := func(r sqlc.AttendanceRecordsRemark) sqlc.NullAttendanceRecordsRemark {
		return sqlc.NullAttendanceRecordsRemark{Valid: true, AttendanceRecordsRemark: r}
	}

	tests := []struct {
		name    string
		current sqlc.NullAttendanceRecordsRemark
		now     time.Time
		want    sqlc.AttendanceRecordsRemark
	}{
		{"within grace", remark(sqlc.AttendanceRecordsRemarkRegularHours), end.Add(5 * time.Minute), sqlc.AttendanceRecordsRemarkRegularHours},
		{"early out", remark(sqlc.AttendanceRecordsRemarkRegularHours), end.Add(-time.Hour), sqlc.AttendanceRecordsRemarkEarlyOut},
		{"overtime", remark(sqlc.AttendanceRecordsRemarkRegularHours), end.Add(time.Hour), sqlc.AttendanceRecordsRemarkOvertime},
		{"late stays late on early leave", remark(sqlc.AttendanceRecordsRemarkLate), end.Add(-time.Hour), sqlc.AttendanceRecordsRemarkLate},
		{"late escalates to overtime", remark(sqlc.AttendanceRecordsRemarkLate), end.Add(time.Hour), sqlc.AttendanceRecordsRemarkOvertime},
		{"early in stays on time", remark(sqlc.AttendanceRecordsRemarkEarlyIn), end.Add(5 * time.Minute), sqlc.AttendanceRecordsRemarkEarlyIn},
		{"early in escalates", remark(sqlc.AttendanceRecordsRemarkEarlyIn), end.Add(time.Hour), sqlc.AttendanceRecordsRemarkOvertime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCheckOut(tt.current, end, grace, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ScanToggle_DispatchesToCheckOut(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE qr_code").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))
	// CheckOut path refetches the intern
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, timeIn, now, int64(9*3600), "Regular Hours", nil, time.Now(), time.Now(),
		))

	resp, err := deps.service.ScanToggle(context.Background(), "qr-"+internID, now)
	require.NoError(t, err)
	assert.NotNil(t, resp.TimeOut)
}

func TestService_ScanToggle_UnknownCode(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE qr_code").
		WillReturnError(sql.ErrNoRows)

	_, err := deps.service.ScanToggle(context.Background(), "bogus", time.Now())
	assert.ErrorIs(t, err, ErrInternNotFound)
}

func TestService_MarkAbsent_CreatesPlaceholder(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	marked, err := deps.service.MarkAbsent(context.Background(), internID, now)
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestService_MarkAbsent_Idempotent(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(internRow(internID))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, now, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	marked, err := deps.service.MarkAbsent(context.Background(), internID, now)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestService_SweepTimeouts_ClosesExpired(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 19, 0, 0, 0, loc) // past the 18:00 shift end

	openColumns := []string{"id", "intern_id", "attendance_date", "time_in", "remark", "shift_time_in", "shift_time_out"}
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows(openColumns).AddRow(
			"rec-1", internID, day, timeIn, "Regular Hours", "09:00:00", "18:00:00",
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 1))

	closed, err := deps.service.SweepTimeouts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
	assert.Equal(t, []string{internID}, deps.settler.calls)
}

func TestService_SweepTimeouts_SkipsActiveShift(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, loc)

	openColumns := []string{"id", "intern_id", "attendance_date", "time_in", "remark", "shift_time_in", "shift_time_out"}
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows(openColumns).AddRow(
			"rec-1", internID, day, timeIn, "Regular Hours", "09:00:00", "18:00:00",
		))

	closed, err := deps.service.SweepTimeouts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)
	assert.Empty(t, deps.settler.calls)
}

func TestService_SweepTimeouts_LosesRaceToCheckOut(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "11111111-1111-1111-1111-111111111111"
	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 19, 0, 0, 0, loc)

	openColumns := []string{"id", "intern_id", "attendance_date", "time_in", "remark", "shift_time_in", "shift_time_out"}
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows(openColumns).AddRow(
			"rec-1", internID, day, timeIn, "Regular Hours", "09:00:00", "18:00:00",
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 0))

	closed, err := deps.service.SweepTimeouts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)
	assert.Empty(t, deps.settler.calls)
}

func TestService_SweepTimeouts_NightShiftClosesAtMorningEnd(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "22222222-2222-2222-2222-222222222222"
	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 22, 0, 0, 0, loc)
	now := time.Date(2025, 6, 3, 6, 30, 0, 0, loc) // past 06:00 next-day end

	openColumns := []string{"id", "intern_id", "attendance_date", "time_in", "remark", "shift_time_in", "shift_time_out"}
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows(openColumns).AddRow(
			"rec-1", internID, day, timeIn, "Regular Hours", "22:00:00", "06:00:00",
		))
	deps.mockDB.ExpectExec("UPDATE attendance_records SET time_out").
		WillReturnResult(sqlmock.NewResult(0, 1))

	closed, err := deps.service.SweepTimeouts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
}

func TestService_MarkAllAbsent_ContinuesOnError(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	loc := manila(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)

	first := "11111111-1111-1111-1111-111111111111"
	second := "22222222-2222-2222-2222-222222222222"

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE status = 'Active'").
		WillReturnRows(sqlmock.NewRows(internColumns).
			AddRow(first, "Ana Cruz", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
				int64(360*3600), int64(300*3600), "Active", "qr-1", time.Now(), time.Now()).
			AddRow(second, "Ben Reyes", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
				int64(360*3600), int64(300*3600), "Active", "qr-2", time.Now(), time.Now()))

	// First intern errors out mid-flight
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(first).
		WillReturnError(errors.New("connection reset"))

	// Second intern gets a placeholder
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(second).
		WillReturnRows(internRow(second))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	marked, err := deps.service.MarkAllAbsent(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
}

func TestService_GetByID_NotFound(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := deps.service.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestService_UpdateManual_RejectsOutBeforeIn(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", "intern-1", day, timeIn, nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	badOut := timeIn.Add(-time.Hour)
	_, err := deps.service.UpdateManual(context.Background(), "rec-1", ManualAttendanceRequest{TimeOut: &badOut})
	assert.ErrorIs(t, err, ErrCheckOutBeforeIn)
}

func TestService_Delete_NotFound(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	deps.mockDB.ExpectExec("DELETE FROM attendance_records WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := deps.service.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestService_ExportTimesheet(t *testing.T) {
	deps, cleanup := setupServiceTest(t)
	defer cleanup()

	loc := manila(t)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	timeOut := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)

	joinColumns := append(append([]string{}, attendanceColumns...), "intern_name", "school_name")
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WithArgs("State University").
		WillReturnRows(sqlmock.NewRows(joinColumns).AddRow(
			"rec-1", "intern-1", day, timeIn, timeOut, int64(9*3600), "Regular Hours", nil,
			time.Now(), time.Now(), "Ana Cruz", "State University",
		))

	buf, filename, err := deps.service.ExportTimesheet(context.Background(), "State University")
	require.NoError(t, err)
	assert.Contains(t, filename, "timesheet_State_University")
	assert.Greater(t, buf.Len(), 0)
}
