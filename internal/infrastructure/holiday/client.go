package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/config"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/infrastructure/observability"
)

// publicHoliday mirrors the Nager.Date API response shape.
type publicHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Client resolves whether a calendar day is a public holiday.
// Lookups degrade to "not a holiday" on any failure; callers never
// see an error from this client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	ttl        time.Duration
	enabled    bool
	rdb        *redis.Client
	cb         *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *observability.Logger

	mu   sync.RWMutex
	memo map[int]map[string]string // year -> date -> holiday name
}

func NewClient(cfg config.HolidayConfig, rdb *redis.Client, metrics *observability.Metrics, logger *observability.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "HolidayAPI",
		Timeout: 2 * cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(context.Background(), "Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from_state", from.String()),
				zap.String("to_state", to.String()),
			)
			if metrics != nil {
				metrics.CircuitBreakerEvents.WithLabelValues(name, "state_change", from.String()+"_to_"+to.String()).Inc()
			}
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		country:    cfg.CountryCode,
		ttl:        cfg.CacheTTL,
		enabled:    cfg.Enabled,
		rdb:        rdb,
		cb:         gobreaker.NewCircuitBreaker(settings),
		metrics:    metrics,
		logger:     logger,
		memo:       make(map[int]map[string]string),
	}
}

// Lookup returns the holiday name for day, if any.
func (c *Client) Lookup(ctx context.Context, day time.Time) (string, bool) {
	if !c.enabled {
		return "", false
	}

	year := day.Year()
	dateKey := day.Format("2006-01-02")

	c.mu.RLock()
	if byDate, ok := c.memo[year]; ok {
		name, found := byDate[dateKey]
		c.mu.RUnlock()
		c.record("memo_hit")
		return name, found
	}
	c.mu.RUnlock()

	byDate, err := c.loadYear(ctx, year)
	if err != nil {
		c.record("error")
		c.logger.Warn(ctx, "Holiday lookup failed, treating day as regular",
			zap.Int("year", year),
			zap.Error(err),
		)
		return "", false
	}

	c.mu.Lock()
	c.memo[year] = byDate
	c.mu.Unlock()

	name, found := byDate[dateKey]
	return name, found
}

func (c *Client) loadYear(ctx context.Context, year int) (map[string]string, error) {
	cacheKey := fmt.Sprintf("holidays:%s:%d", c.country, year)

	if c.rdb != nil {
		payload, err := c.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var holidays []publicHoliday
			if err := json.Unmarshal(payload, &holidays); err == nil {
				if c.metrics != nil {
					c.metrics.CacheHits.WithLabelValues("holiday").Inc()
				}
				c.record("cache_hit")
				return indexByDate(holidays), nil
			}
		}
		if c.metrics != nil {
			c.metrics.CacheMisses.WithLabelValues("holiday").Inc()
		}
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetchYear(ctx, year)
	})
	if err != nil {
		return nil, err
	}
	holidays := result.([]publicHoliday)
	c.record("api_hit")

	if c.rdb != nil {
		if payload, err := json.Marshal(holidays); err == nil {
			if err := c.rdb.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
				c.logger.Warn(ctx, "Failed to cache holiday calendar", zap.Error(err))
			}
		}
	}

	return indexByDate(holidays), nil
}

func (c *Client) fetchYear(ctx context.Context, year int) ([]publicHoliday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, c.country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday api returned status %d", resp.StatusCode)
	}

	var holidays []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.HolidayLookups.WithLabelValues(outcome).Inc()
	}
}

func indexByDate(holidays []publicHoliday) map[string]string {
	byDate := make(map[string]string, len(holidays))
	for _, h := range holidays {
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		byDate[h.Date] = name
	}
	return byDate
}
