package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/sqlc"
)

const triggerTimeout = 30 * time.Second

type triggerEntry struct {
	entryID cron.EntryID
	spec    string
}

// Scheduler maintains two cron triggers per active intern: an absence
// marker at shift start and a timeout sweep at shift end. Triggers are
// re-synced from the interns table on a fixed interval so that shift
// edits and new interns are picked up without a restart.
type Scheduler struct {
	service *Service
	queries *sqlc.Queries
	metrics *observability.Metrics
	logger  *observability.Logger
	cron    *cron.Cron
	refresh time.Duration

	mu       sync.Mutex
	triggers map[string]triggerEntry
}

func NewScheduler(service *Service, queries *sqlc.Queries, metrics *observability.Metrics, logger *observability.Logger, refresh time.Duration) *Scheduler {
	return &Scheduler{
		service:  service,
		queries:  queries,
		metrics:  metrics,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(service.Location())),
		refresh:  refresh,
		triggers: make(map[string]triggerEntry),
	}
}

// Run syncs triggers, starts the cron loop, and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	if err := s.Sync(ctx); err != nil {
		s.logger.Error(ctx, "Initial scheduler sync failed", zap.Error(err))
	}
	s.cron.Start()

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				s.logger.Error(ctx, "Scheduler sync failed", zap.Error(err))
			}
		case <-ctx.Done():
			stopCtx := s.cron.Stop()
			<-stopCtx.Done()
			return
		}
	}
}

// Sync reconciles cron entries against the current set of active interns.
func (s *Scheduler) Sync(ctx context.Context) error {
	interns, err := s.queries.ListActiveInterns(ctx)
	if err != nil {
		return fmt.Errorf("list active interns: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(interns)*2)
	for _, intern := range interns {
		if !intern.ShiftTimeIn.Valid || !intern.ShiftTimeOut.Valid {
			continue
		}
		shift, err := ParseShift(intern.ShiftTimeIn.String, intern.ShiftTimeOut.String, s.service.Location())
		if err != nil {
			s.logger.Warn(ctx, "Skipping intern with invalid shift times",
				zap.String("intern_id", intern.ID), zap.Error(err))
			continue
		}

		internID := intern.ID
		absentKey := "absent:" + internID
		timeoutKey := "timeout:" + internID
		seen[absentKey] = struct{}{}
		seen[timeoutKey] = struct{}{}

		s.ensureTrigger(ctx, absentKey, "absent", cronSpec(shift.In), func() {
			s.fireAbsent(internID)
		})
		s.ensureTrigger(ctx, timeoutKey, "timeout", cronSpec(shift.Out), func() {
			s.fireTimeout(internID)
		})
	}

	for key, entry := range s.triggers {
		if _, ok := seen[key]; ok {
			continue
		}
		s.cron.Remove(entry.entryID)
		delete(s.triggers, key)
		if s.metrics != nil {
			s.metrics.SchedulerTriggers.WithLabelValues(kindOf(key), "removed").Inc()
		}
	}

	s.logger.Debug(ctx, "Scheduler triggers synced", zap.Int("triggers", len(s.triggers)))
	return nil
}

// ensureTrigger registers key under spec, replacing an existing entry
// only when the spec changed. Caller holds s.mu.
func (s *Scheduler) ensureTrigger(ctx context.Context, key, kind, spec string, job func()) {
	if existing, ok := s.triggers[key]; ok {
		if existing.spec == spec {
			return
		}
		s.cron.Remove(existing.entryID)
		delete(s.triggers, key)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		s.logger.Error(ctx, "Failed to register scheduler trigger",
			zap.String("trigger", key), zap.String("spec", spec), zap.Error(err))
		return
	}
	s.triggers[key] = triggerEntry{entryID: entryID, spec: spec}
	if s.metrics != nil {
		s.metrics.SchedulerTriggers.WithLabelValues(kind, "registered").Inc()
	}
}

func (s *Scheduler) fireAbsent(internID string) {
	ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
	defer cancel()
	defer s.recoverTrigger(ctx, "absent", internID)

	if s.metrics != nil {
		s.metrics.SchedulerTriggers.WithLabelValues("absent", "fired").Inc()
	}

	marked, err := s.service.MarkAbsent(ctx, internID, time.Now())
	if err != nil {
		s.logger.Error(ctx, "Absence trigger failed",
			zap.String("intern_id", internID), zap.Error(err))
		return
	}
	if marked {
		s.logger.Info(ctx, "Absence placeholder created by trigger",
			zap.String("intern_id", internID))
	}
}

func (s *Scheduler) fireTimeout(internID string) {
	ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
	defer cancel()
	defer s.recoverTrigger(ctx, "timeout", internID)

	if s.metrics != nil {
		s.metrics.SchedulerTriggers.WithLabelValues("timeout", "fired").Inc()
	}

	if err := s.service.SweepIntern(ctx, internID, time.Now()); err != nil {
		s.logger.Error(ctx, "Timeout trigger failed",
			zap.String("intern_id", internID), zap.Error(err))
	}
}

func (s *Scheduler) recoverTrigger(ctx context.Context, kind, internID string) {
	if r := recover(); r != nil {
		s.logger.Error(ctx, "Scheduler trigger panicked",
			zap.String("kind", kind),
			zap.String("intern_id", internID),
			zap.Any("panic", r))
	}
}

// TriggerCount reports the number of registered cron entries.
func (s *Scheduler) TriggerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

func cronSpec(at time.Time) string {
	return fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
}

func kindOf(key string) string {
	if len(key) > 6 && key[:6] == "absent" {
		return "absent"
	}
	return "timeout"
}
