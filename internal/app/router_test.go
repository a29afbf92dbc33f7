package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Env: env},
		Metrics: config.MetricsConfig{Enabled: false},
		Redis:   config.RedisConfig{Enabled: false},
		Holiday: config.HolidayConfig{Enabled: false},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Attendance: config.AttendanceConfig{
			Timezone:         "Asia/Manila",
			GraceWindow:      15 * time.Minute,
			SchedulerRefresh: 5 * time.Minute,
			SweepInterval:    10 * time.Minute,
			OffsetLookback:   7,
		},
		History: config.HistoryConfig{
			RetentionDays:   30,
			CleanupInterval: 24 * time.Hour,
		},
	}
}

func resetMetricsRegistry() {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func TestSetupRouter_ConfigVariations(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	logger, _ := observability.NewLogger("error", "console")

	t.Run("Production Mode", func(t *testing.T) {
		resetMetricsRegistry()
		container, err := NewContainer(testConfig("production"), db, logger)
		require.NoError(t, err)

		router := SetupRouter(container)
		assert.NotNil(t, router)
	})

	t.Run("Development Mode", func(t *testing.T) {
		resetMetricsRegistry()
		container, err := NewContainer(testConfig("development"), db, logger)
		require.NoError(t, err)

		router := SetupRouter(container)
		assert.NotNil(t, router)
	})
}

func TestSetupRouter_LivenessEndpoint(t *testing.T) {
	resetMetricsRegistry()
	db, _, _ := sqlmock.New()
	defer db.Close()
	logger, _ := observability.NewLogger("error", "console")

	container, err := NewContainer(testConfig("development"), db, logger)
	require.NoError(t, err)
	router := SetupRouter(container)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alive", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupRouter_UnknownRouteReturns404(t *testing.T) {
	resetMetricsRegistry()
	db, _, _ := sqlmock.New()
	defer db.Close()
	logger, _ := observability.NewLogger("error", "console")

	container, err := NewContainer(testConfig("development"), db, logger)
	require.NoError(t, err)
	router := SetupRouter(container)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
