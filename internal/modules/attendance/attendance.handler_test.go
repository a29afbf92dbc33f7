package attendance

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/middleware"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/validator"
)

type handlerDeps struct {
	mockDB    sqlmock.Sqlmock
	handler   *Handler
	service   *Service
	queries   *sqlc.Queries
	logger    *observability.Logger
	validator *validator.Validator
}

func setupHandlerTest(t *testing.T) (*handlerDeps, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := observability.NewLogger("info", "console")
	auditLogger := observability.NewAuditLogger(logger)
	validatorInstance := validator.New()
	queries := sqlc.New(db)

	// A stubbed holiday calendar keeps check-in classification independent
	// of the day the tests run on
	holidays := &stubHolidays{name: "Test Holiday", ok: true}
	service, err := NewService(queries, holidays, nil, auditLogger, nil, logger, config.AttendanceConfig{
		Timezone:       "Asia/Manila",
		GraceWindow:    15 * time.Minute,
		OffsetLookback: 7,
	})
	require.NoError(t, err)
	handler := NewHandler(service, validatorInstance)

	deps := &handlerDeps{
		mockDB:    mock,
		handler:   handler,
		service:   service,
		queries:   queries,
		logger:    logger,
		validator: validatorInstance,
	}

	return deps, func() { db.Close() }
}

func setupRouter(deps *handlerDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandlingMiddleware(deps.logger, nil))
	RegisterRoutes(r, deps.handler)
	return r
}

func TestHandler_CheckIn(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	internID := "11111111-1111-1111-1111-111111111111"
	loc, _ := time.LoadLocation("Asia/Manila")
	day := time.Now().In(loc)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	// Shift spans the whole day so this test passes regardless of clock time
	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", "Day Shift", "00:00:00", "23:59:59",
			int64(360*3600), int64(300*3600), "Active", "qr-1", time.Now(), time.Now(),
		))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnError(sql.ErrNoRows)
	deps.mockDB.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, time.Now(), nil, nil, "Late", nil, time.Now(), time.Now(),
		))

	body, _ := json.Marshal(CheckInRequest{InternID: internID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    AttendanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, internID, resp.Data.InternID)
}

func TestHandler_CheckIn_ValidationError(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	body, _ := json.Marshal(CheckInRequest{InternID: "not-a-uuid"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CheckIn_Conflict(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	internID := "11111111-1111-1111-1111-111111111111"
	loc, _ := time.LoadLocation("Asia/Manila")
	day := time.Now().In(loc)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM interns WHERE id").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(internColumns).AddRow(
			internID, "Ana Cruz", "State University", "SU", "Day Shift", "00:00:00", "23:59:59",
			int64(360*3600), int64(300*3600), "Active", "qr-1", time.Now(), time.Now(),
		))
	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? AND attendance_date").
		WillReturnRows(sqlmock.NewRows(attendanceColumns).AddRow(
			"rec-1", internID, day, time.Now(), nil, nil, "Regular Hours", nil, time.Now(), time.Now(),
		))

	body, _ := json.Marshal(CheckInRequest{InternID: internID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_GetAttendance_NotFound(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE id").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/missing-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListByIntern(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	internID := "11111111-1111-1111-1111-111111111111"
	loc, _ := time.LoadLocation("Asia/Manila")
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records WHERE intern_id = \\? ORDER BY").
		WithArgs(internID).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).
			AddRow("rec-1", internID, day, time.Now(), time.Now(), int64(8*3600), "Regular Hours", nil, time.Now(), time.Now()).
			AddRow("rec-2", internID, day.AddDate(0, 0, -1), nil, nil, nil, "Absent", nil, time.Now(), time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/intern/"+internID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ListAttendanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
}

func TestHandler_ListByDate_BadDate(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/date/02-06-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateAttendance_BadRemark(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	body := []byte(`{"remark":"Vacation"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/attendance/rec-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Sweep(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "intern_id", "attendance_date", "time_in", "remark", "shift_time_in", "shift_time_out",
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/sweep", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SweepResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.Data.ClosedCount)
}

func TestHandler_Export(t *testing.T) {
	deps, cleanup := setupHandlerTest(t)
	defer cleanup()
	router := setupRouter(deps)

	loc, _ := time.LoadLocation("Asia/Manila")
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	joinColumns := append(append([]string{}, attendanceColumns...), "intern_name", "school_name")

	deps.mockDB.ExpectQuery("SELECT (.+) FROM attendance_records a").
		WithArgs("State University").
		WillReturnRows(sqlmock.NewRows(joinColumns).AddRow(
			"rec-1", "intern-1", day, time.Now(), time.Now(), int64(8*3600), "Regular Hours", nil,
			time.Now(), time.Now(), "Ana Cruz", "State University",
		))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/school/State%20University/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "timesheet_State_University")
	assert.Greater(t, w.Body.Len(), 0)
}
