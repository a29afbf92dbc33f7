package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/database"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/holiday"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/modules/attendance"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/modules/health"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/modules/history"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/modules/interns"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/validator"
)

type Container struct {
	Config      *config.Config
	DB          *sql.DB
	Logger      *observability.Logger
	Queries     *sqlc.Queries
	Repo        *sqlc.Repository
	Validator   *validator.Validator
	Metrics     *observability.Metrics
	AuditLogger *observability.AuditLogger

	HolidayClient *holiday.Client

	AttendanceService *attendance.Service
	InternsService    *interns.Service
	HistoryService    *history.Service

	AttendanceHandler *attendance.Handler
	InternsHandler    *interns.Handler
	HistoryHandler    *history.Handler
	HealthHandler     *health.Handler

	Scheduler *attendance.Scheduler

	redisMu     sync.RWMutex
	redisClient *redis.Client
}

func NewContainer(cfg *config.Config, db *sql.DB, logger *observability.Logger) (*Container, error) {
	metrics := observability.NewMetrics()
	validatorInstance := validator.New()

	var auditLogger *observability.AuditLogger
	if cfg.AuditLog.Enabled && cfg.AuditLog.Path != "" {
		dedicatedAuditLogger, err := observability.NewDedicatedAuditLogger(
			cfg.AuditLog.Path,
			cfg.AuditLog.Format,
		)
		if err != nil {
			logger.Error(context.Background(), "Failed to initialize dedicated audit logger, falling back to main logger",
				zap.Error(err),
				zap.String("path", cfg.AuditLog.Path),
			)
			auditLogger = observability.NewAuditLogger(logger)
		} else {
			logger.Info(context.Background(), "Audit logging enabled with dedicated file",
				zap.String("path", cfg.AuditLog.Path),
				zap.String("format", cfg.AuditLog.Format),
			)
			auditLogger = dedicatedAuditLogger
		}
	} else {
		auditLogger = observability.NewAuditLogger(logger)
	}

	var queryDB database.DBTX = db
	if cfg.Database.CircuitBreaker.Enabled {
		logger.Info(context.Background(), "Initializing database circuit breaker",
			zap.Bool("enabled", cfg.Database.CircuitBreaker.Enabled),
			zap.Uint32("max_failures", cfg.Database.CircuitBreaker.MaxFailures),
			zap.Float64("failure_threshold", cfg.Database.CircuitBreaker.FailureThreshold),
			zap.Duration("reset_timeout", cfg.Database.CircuitBreaker.ResetTimeout),
		)
		// Use the DB wrapper with circuit breaker that also has retry configuration
		queryDB = database.NewBreakerDB(db, cfg.Database.CircuitBreaker, metrics, logger)
	}

	queries := sqlc.New(queryDB)
	repo := sqlc.NewRepository(db)

	c := &Container{
		Config:      cfg,
		DB:          db,
		Logger:      logger,
		Queries:     queries,
		Repo:        repo,
		Validator:   validatorInstance,
		Metrics:     metrics,
		AuditLogger: auditLogger,
	}

	var holidayRedis *redis.Client
	if cfg.Holiday.Enabled && cfg.Redis.Enabled {
		client, err := c.GetRedisClient()
		if err != nil {
			logger.Warn(context.Background(), "Redis unavailable, holiday lookups will hit the API directly",
				zap.Error(err))
		} else {
			holidayRedis = client
		}
	}
	c.HolidayClient = holiday.NewClient(cfg.Holiday, holidayRedis, metrics, logger)

	historyService := history.NewService(queries, repo, auditLogger, metrics, logger)
	c.HistoryService = historyService

	attendanceService, err := attendance.NewService(
		queries, c.HolidayClient, historyService, auditLogger, metrics, logger, cfg.Attendance,
	)
	if err != nil {
		return nil, fmt.Errorf("attendance service: %w", err)
	}
	c.AttendanceService = attendanceService

	c.InternsService = interns.NewService(queries, historyService, auditLogger, logger)

	c.AttendanceHandler = attendance.NewHandler(attendanceService, validatorInstance)
	c.InternsHandler = interns.NewHandler(c.InternsService, validatorInstance)
	c.HistoryHandler = history.NewHandler(historyService,
		time.Duration(cfg.History.RetentionDays)*24*time.Hour)
	c.HealthHandler = health.NewHandler(db, holidayRedis)

	c.Scheduler = attendance.NewScheduler(
		attendanceService, queries, metrics, logger, cfg.Attendance.SchedulerRefresh,
	)

	return c, nil
}

// GetRedisClient provides a thread-safe singleton that allows retries on failure
func (c *Container) GetRedisClient() (*redis.Client, error) {
	c.redisMu.RLock()
	if c.redisClient != nil {
		client := c.redisClient
		c.redisMu.RUnlock()
		return client, nil
	}
	c.redisMu.RUnlock()

	c.redisMu.Lock()
	defer c.redisMu.Unlock()

	// Double-check after acquiring lock
	if c.redisClient != nil {
		return c.redisClient, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", c.Config.Redis.Host, c.Config.Redis.Port),
		Password:     c.Config.Redis.Password,
		DB:           c.Config.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     c.Config.Redis.PoolSize,
		MinIdleConns: c.Config.Redis.MinIdleConns,
		MaxRetries:   c.Config.Redis.MaxRetries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		c.redisClient = nil // Explicitly nullify on failure
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	c.redisClient = client
	return c.redisClient, nil
}

// Close gracefully closes all infrastructure connections
func (c *Container) Close() {
	if c.AuditLogger != nil {
		if err := c.AuditLogger.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing audit logger", zap.Error(err))
		}
	}

	c.redisMu.Lock()
	defer c.redisMu.Unlock()

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing DB", zap.Error(err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing Redis", zap.Error(err))
		}
		c.redisClient = nil
	}
}
