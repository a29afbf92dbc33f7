package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
)

func setupServiceTest(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := observability.NewLogger("info", "console")
	auditLogger := observability.NewAuditLogger(logger)
	repo := sqlc.NewRepository(db)
	service := NewService(repo.Queries, repo, auditLogger, nil, logger)

	return service, mock, func() { db.Close() }
}

var internColumns = []string{
	"id", "name", "school_name", "abbreviation", "shift_name", "shift_time_in", "shift_time_out",
	"required_seconds", "remaining_seconds", "status", "qr_code", "created_at", "updated_at",
}

var historyColumns = []string{
	"id", "intern_id", "intern_name", "abbreviation", "school_name", "shift_name", "shift_time",
	"start_date", "end_date", "required_seconds", "total_seconds", "status", "archived_at",
}

func TestService_SettleCheckOut_UpdatesRemaining(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "intern-1"
	mock.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(360*3600), "Active", "qr-1", time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(100 * 3600)))
	mock.ExpectExec("UPDATE interns SET remaining_seconds").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := service.SettleCheckOut(context.Background(), internID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SettleCheckOut_NoChangeIsNoop(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "intern-1"
	mock.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(260*3600), "Active", "qr-1", time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(100 * 3600)))

	err := service.SettleCheckOut(context.Background(), internID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SettleCheckOut_ArchivedInternIsNoop(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WillReturnError(sql.ErrNoRows)

	err := service.SettleCheckOut(context.Background(), "gone")
	require.NoError(t, err)
}

func TestService_SettleCheckOut_CompletionTriggersArchival(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "intern-1"
	school := "State University"

	mock.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(3600), "Active", "qr-1", time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(360 * 3600)))
	mock.ExpectExec("UPDATE interns SET remaining_seconds").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Archival check: one classmate still active, so nothing moves
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := service.SettleCheckOut(context.Background(), internID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SettleCheckOut_TerminationTriggersArchival(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	internID := "intern-1"
	school := "State University"
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	lastDay := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	// The intern was terminated with hours still remaining, so settlement
	// changes nothing. Archival must still run: this was the last
	// unresolved intern of the school.
	mock.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(260*3600), "Terminated", "qr-1", created, created,
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(100 * 3600)))

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(260*3600), "Terminated", "qr-1", created, created,
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(100 * 3600)))
	mock.ExpectQuery("SELECT MAX\\(attendance_date\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(lastDay))
	mock.ExpectExec("INSERT INTO intern_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM attendance_records WHERE intern_id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM interns WHERE id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := service.SettleCheckOut(context.Background(), internID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ArchiveSchoolIfDone_MovesFinishedInterns(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	school := "State University"
	internID := "intern-1"
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	lastDay := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(0), "Completed", "qr-1", created, time.Now(),
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(360 * 3600)))
	mock.ExpectQuery("SELECT MAX\\(attendance_date\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(lastDay))

	// Snapshot keeps the group code, the validity period and the
	// required duration alongside the attended total.
	mock.ExpectExec("INSERT INTO intern_history").
		WithArgs(sqlmock.AnyArg(), internID, "Ana Cruz", "SU", school,
			"Day Shift", "09:00 AM - 06:00 PM",
			created, lastDay, int64(360*3600), int64(360*3600),
			"Completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM attendance_records WHERE intern_id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM interns WHERE id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := service.ArchiveSchoolIfDone(context.Background(), school)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ArchiveSchoolIfDone_NoAttendanceFallsBackToUpdatedAt(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	school := "State University"
	internID := "intern-1"
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(360*3600), "Terminated", "qr-1", created, updated,
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT MAX\\(attendance_date\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO intern_history").
		WithArgs(sqlmock.AnyArg(), internID, "Ana Cruz", "SU", school,
			"Day Shift", "09:00 AM - 06:00 PM",
			created, updated, int64(360*3600), int64(0),
			"Terminated", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM attendance_records WHERE intern_id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM interns WHERE id").
		WithArgs(internID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := service.ArchiveSchoolIfDone(context.Background(), school)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ArchiveSchoolIfDone_RollsBackOnFailure(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	school := "State University"
	internID := "intern-1"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM interns").
		WithArgs(school).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", school, "SU", "Day Shift", "09:00:00", "18:00:00",
			int64(360*3600), int64(0), "Completed", "qr-1", time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(elapsed_seconds\\), 0\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(360 * 3600)))
	mock.ExpectQuery("SELECT MAX\\(attendance_date\\)").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO intern_history").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := service.ArchiveSchoolIfDone(context.Background(), school)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ArchiveSchoolIfDone_SkipsWhenUnresolved(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interns").
		WithArgs("State University").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	err := service.ArchiveSchoolIfDone(context.Background(), "State University")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByIntern_NotFound(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM intern_history WHERE intern_id").
		WillReturnError(sql.ErrNoRows)

	_, err := service.GetByIntern(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestService_List(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM intern_history ORDER BY").
		WillReturnRows(sqlmock.NewRows(historyColumns).AddRow(
			"hist-1", "intern-1", "Ana Cruz", "SU", "State University", "Day Shift",
			"09:00 AM - 06:00 PM", start, end, int64(360*3600), int64(360*3600),
			"Completed", time.Now(),
		))

	resp, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "09:00 AM - 06:00 PM", resp.Records[0].ShiftTime)
	assert.Equal(t, "SU", resp.Records[0].Abbreviation)
	assert.Equal(t, "2026-01-05", resp.Records[0].StartDate)
	assert.Equal(t, "2026-06-30", resp.Records[0].EndDate)
	assert.Equal(t, int64(360*3600), resp.Records[0].RequiredSeconds)
}

func TestService_DeleteExpired(t *testing.T) {
	service, mock, cleanup := setupServiceTest(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM intern_history WHERE end_date").
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := service.DeleteExpired(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

func TestFormatShiftTime(t *testing.T) {
	got := formatShiftTime(
		sql.NullString{Valid: true, String: "09:00:00"},
		sql.NullString{Valid: true, String: "18:00:00"},
	)
	require.True(t, got.Valid)
	assert.Equal(t, "09:00 AM - 06:00 PM", got.String)

	assert.False(t, formatShiftTime(sql.NullString{}, sql.NullString{}).Valid)
}
