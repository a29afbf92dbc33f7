package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Success(t *testing.T) {
	os.Clearenv()

	// Set specific overrides
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("ENABLE_METRICS", "false")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("CORS_ALLOWED_ORIGINS", "http://foo.com,http://bar.com")
	os.Setenv("ATTENDANCE_GRACE_WINDOW", "10m")

	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"http://foo.com", "http://bar.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Attendance.GraceWindow)
	assert.Equal(t, "Asia/Manila", cfg.Attendance.Timezone)
}

func TestValidate_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadTimezone(t *testing.T) {
	os.Clearenv()
	os.Setenv("ATTENDANCE_TIMEZONE", "Mars/Olympus")
	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)

	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ATTENDANCE_TIMEZONE")
}

func TestValidate_BadCountryCode(t *testing.T) {
	os.Clearenv()
	os.Setenv("HOLIDAY_COUNTRY_CODE", "PHL")
	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)

	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HOLIDAY_COUNTRY_CODE")
}

func TestValidate_RetentionDays(t *testing.T) {
	os.Clearenv()
	os.Setenv("HISTORY_RETENTION_DAYS", "0")
	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)

	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_RETENTION_DAYS")
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("TEST_INT", "abc")
	os.Setenv("TEST_BOOL", "not_bool")
	os.Setenv("TEST_DUR", "invalid_dur")
	defer os.Clearenv()

	assert.Equal(t, 10, getEnvAsInt("TEST_INT", 10))
	assert.Equal(t, true, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DUR", time.Second))

	os.Setenv("TEST_SLICE", "")
	assert.Equal(t, []string{"default"}, getEnvAsSlice("TEST_SLICE", []string{"default"}))
}
