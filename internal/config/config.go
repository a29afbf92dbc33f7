package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuditLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Format  string `mapstructure:"format"`
}

type DatabaseRetryConfig struct {
	Enabled         *bool          `mapstructure:"enabled"`
	MaxRetries      *int           `mapstructure:"max_retries"`
	InitialInterval *time.Duration `mapstructure:"initial_interval"`
	MaxInterval     *time.Duration `mapstructure:"max_interval"`
	Multiplier      *float64       `mapstructure:"multiplier"`
	Randomization   *float64       `mapstructure:"randomization"`
	FatalErrorTypes []string       `mapstructure:"fatal_error_types"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Holiday    HolidayConfig    `mapstructure:"holiday"`
	History    HistoryConfig    `mapstructure:"history"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Redis      RedisConfig      `mapstructure:"redis"`
	AuditLog   AuditLogConfig   `mapstructure:"audit_log"`
}

type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	MaxRetries      int           `mapstructure:"max_retries"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	Env             string        `mapstructure:"env"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	UseHTTPS        bool          `mapstructure:"use_https"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Host            string              `mapstructure:"host"`
	Port            string              `mapstructure:"port"`
	User            string              `mapstructure:"user"`
	Password        string              `mapstructure:"password"`
	Name            string              `mapstructure:"name"`
	MaxOpenConns    int                 `mapstructure:"max_open_conns"`
	MaxIdleConns    int                 `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration       `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration       `mapstructure:"conn_max_idle_time"`
	SlowQueryTime   time.Duration       `mapstructure:"slow_query_time"`
	Retry           DatabaseRetryConfig `mapstructure:"retry"`
	CircuitBreaker  CBConfig            `mapstructure:"circuit_breaker"`
}

type CBConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxFailures      uint32        `mapstructure:"max_failures"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
	ResetTimeout     time.Duration `mapstructure:"reset_timeout"`
}

// AttendanceConfig drives shift classification and the per-intern
// scheduling loops. Timezone must be a valid IANA zone; all shift
// times are interpreted in it.
type AttendanceConfig struct {
	Timezone         string        `mapstructure:"timezone"`
	GraceWindow      time.Duration `mapstructure:"grace_window"`
	SchedulerRefresh time.Duration `mapstructure:"scheduler_refresh"`
	SweepInterval    time.Duration `mapstructure:"sweep_interval"`
	OffsetLookback   int           `mapstructure:"offset_lookback_days"`
}

type HolidayConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	CountryCode string        `mapstructure:"country_code"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type HistoryConfig struct {
	RetentionDays   int           `mapstructure:"retention_days"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			Env:             getEnv("ENV", "development"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			UseHTTPS:        getEnvAsBool("SERVER_USE_HTTPS", false),
			TrustedProxies:  getEnvAsSlice("SERVER_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "3306"),
			User:            getEnv("DB_USER", "apiuser"),
			Password:        getEnv("DB_PASSWORD", "apipassword"),
			Name:            getEnv("DB_NAME", "attendance"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			SlowQueryTime:   getEnvAsDuration("DB_SLOW_QUERY_TIME", 500*time.Millisecond),
			Retry: DatabaseRetryConfig{
				Enabled:         getEnvAsBoolPtr("DB_RETRY_ENABLED", true),
				MaxRetries:      getEnvAsIntPtr("DB_RETRY_MAX_RETRIES", 3),
				InitialInterval: getEnvAsDurationPtr("DB_RETRY_INITIAL_INTERVAL", 100*time.Millisecond),
				MaxInterval:     getEnvAsDurationPtr("DB_RETRY_MAX_INTERVAL", 2*time.Second),
				Multiplier:      getEnvAsFloatPtr("DB_RETRY_MULTIPLIER", 2.0),
				Randomization:   getEnvAsFloatPtr("DB_RETRY_RANDOMIZATION", 0.2),
				FatalErrorTypes: getEnvAsSlice("DB_RETRY_FATAL_ERROR_TYPES", []string{"constraint_violation", "duplicate_key", "foreign_key_violation"}),
			},
			CircuitBreaker: CBConfig{
				Enabled:          getEnvAsBool("DB_CIRCUIT_BREAKER_ENABLED", true),
				MaxFailures:      uint32(getEnvAsInt("DB_MAX_FAILURES", 5)),
				FailureThreshold: getEnvAsFloat("DB_FAILURE_THRESHOLD", 0.5),
				ResetTimeout:     getEnvAsDuration("DB_RESET_TIMEOUT", 30*time.Second),
			},
		},
		Attendance: AttendanceConfig{
			Timezone:         getEnv("ATTENDANCE_TIMEZONE", "Asia/Manila"),
			GraceWindow:      getEnvAsDuration("ATTENDANCE_GRACE_WINDOW", 15*time.Minute),
			SchedulerRefresh: getEnvAsDuration("ATTENDANCE_SCHEDULER_REFRESH", 5*time.Minute),
			SweepInterval:    getEnvAsDuration("ATTENDANCE_SWEEP_INTERVAL", 10*time.Minute),
			OffsetLookback:   getEnvAsInt("ATTENDANCE_OFFSET_LOOKBACK_DAYS", 7),
		},
		Holiday: HolidayConfig{
			Enabled:     getEnvAsBool("HOLIDAY_LOOKUP_ENABLED", true),
			BaseURL:     getEnv("HOLIDAY_API_BASE_URL", "https://date.nager.at/api/v3"),
			CountryCode: getEnv("HOLIDAY_COUNTRY_CODE", "PH"),
			Timeout:     getEnvAsDuration("HOLIDAY_API_TIMEOUT", 3*time.Second),
			CacheTTL:    getEnvAsDuration("HOLIDAY_CACHE_TTL", 24*time.Hour),
		},
		History: HistoryConfig{
			RetentionDays:   getEnvAsInt("HISTORY_RETENTION_DAYS", 30),
			CleanupInterval: getEnvAsDuration("HISTORY_CLEANUP_INTERVAL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("ENABLE_METRICS", true),
		},
		AuditLog: AuditLogConfig{
			Enabled: getEnvAsBool("AUDIT_LOG_ENABLED", true),
			Path:    getEnv("AUDIT_LOG_PATH", ""),
			Format:  getEnv("AUDIT_LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("ENABLE_REDIS", false),
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnv("REDIS_PORT", "6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("REDIS_CONN_MAX_LIFETIME", 30*time.Minute),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	// Common validation for all environments
	if err := c.validateDependencies(); err != nil {
		return err
	}

	// Environment-specific validation
	switch c.Server.Env {
	case "production":
		if err := c.validateProduction(); err != nil {
			return err
		}
	case "staging":
		if err := c.validateStaging(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateDependencies() error {
	if c.Database.CircuitBreaker.Enabled {
		if c.Database.CircuitBreaker.MaxFailures < 1 {
			return fmt.Errorf("DB_MAX_FAILURES must be at least 1 when circuit breaker is enabled")
		}
		if c.Database.CircuitBreaker.FailureThreshold <= 0 ||
			c.Database.CircuitBreaker.FailureThreshold > 1.0 {
			return fmt.Errorf("DB_FAILURE_THRESHOLD must be between 0 and 1.0")
		}
		if c.Database.CircuitBreaker.ResetTimeout <= 0 {
			return fmt.Errorf("DB_RESET_TIMEOUT must be greater than 0")
		}
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis host required when redis is enabled")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}

	if c.Database.SlowQueryTime <= 0 {
		return fmt.Errorf("DB_SLOW_QUERY_TIME must be greater than 0")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}

	if c.Attendance.Timezone == "" {
		return fmt.Errorf("ATTENDANCE_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("ATTENDANCE_TIMEZONE is not a valid IANA zone: %w", err)
	}
	if c.Attendance.GraceWindow < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_WINDOW cannot be negative")
	}
	if c.Attendance.SchedulerRefresh <= 0 {
		return fmt.Errorf("ATTENDANCE_SCHEDULER_REFRESH must be greater than 0")
	}
	if c.Attendance.SweepInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_SWEEP_INTERVAL must be greater than 0")
	}
	if c.Attendance.OffsetLookback < 1 {
		return fmt.Errorf("ATTENDANCE_OFFSET_LOOKBACK_DAYS must be at least 1")
	}

	if c.Holiday.Enabled {
		if c.Holiday.BaseURL == "" {
			return fmt.Errorf("HOLIDAY_API_BASE_URL required when holiday lookup is enabled")
		}
		if len(c.Holiday.CountryCode) != 2 {
			return fmt.Errorf("HOLIDAY_COUNTRY_CODE must be a two-letter country code")
		}
		if c.Holiday.Timeout <= 0 {
			return fmt.Errorf("HOLIDAY_API_TIMEOUT must be greater than 0")
		}
	}

	if c.History.RetentionDays < 1 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be at least 1")
	}
	if c.History.CleanupInterval <= 0 {
		return fmt.Errorf("HISTORY_CLEANUP_INTERVAL must be greater than 0")
	}

	return nil
}

func (c *Config) validateProduction() error {
	// Validate password strength
	weakPasswords := []string{"password", "apipassword", "admin", "root", "test", ""}
	dbPass := strings.ToLower(c.Database.Password)
	for _, weak := range weakPasswords {
		if dbPass == weak {
			return fmt.Errorf("FATAL SECURITY: Weak or default database password detected in production (current: %s). Use a strong password with at least 16 characters", weak)
		}
	}
	if len(c.Database.Password) < 16 {
		return fmt.Errorf("FATAL SECURITY: Database password must be at least 16 characters in production (current length: %d)", len(c.Database.Password))
	}

	// Validate HTTPS is enabled in production
	if !c.Server.UseHTTPS {
		return fmt.Errorf("FATAL SECURITY: HTTPS must be enabled in production (SERVER_USE_HTTPS=true)")
	}

	// Production logging should be JSON format
	if c.Logging.Encoding != "json" {
		return fmt.Errorf("Production logging should use JSON format for better log aggregation and analysis")
	}

	// Holiday cache needs a shared store across instances
	if c.Holiday.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("WARNING: Redis is disabled in production. Holiday lookups will hit the external API from every instance. Enable Redis for shared caching")
	}

	return nil
}

func (c *Config) validateStaging() error {
	// Staging environment should closely mirror production
	if c.Logging.Encoding != "json" {
		return fmt.Errorf("WARNING: Staging logging should use JSON format to match production logging configuration")
	}
	if c.Holiday.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("WARNING: Redis is disabled in staging. This should match production configuration for accurate testing")
	}
	return nil
}

func getEnvAsFloatPtr(key string, defaultValue float64) *float64 {
	value := os.Getenv(key)
	if value == "" {
		return &defaultValue
	}
	if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
		return &floatValue
	}
	return &defaultValue
}

func getEnvAsBoolPtr(key string, defaultValue bool) *bool {
	value := os.Getenv(key)
	if value == "" {
		return &defaultValue
	}
	if boolValue, err := strconv.ParseBool(value); err == nil {
		return &boolValue
	}
	return &defaultValue
}

func getEnvAsIntPtr(key string, defaultValue int) *int {
	value := os.Getenv(key)
	if value == "" {
		return &defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return &intValue
	}
	return &defaultValue
}

func getEnvAsDurationPtr(key string, defaultValue time.Duration) *time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return &defaultValue
	}
	if durationValue, err := time.ParseDuration(value); err == nil {
		return &durationValue
	}
	return &defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmedPart := strings.TrimSpace(part)
		if trimmedPart != "" {
			result = append(result, trimmedPart)
		}
	}
	return result
}
