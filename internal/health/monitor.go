package health

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/echoscribe/internal/core/config"
	"github.com/vietddude/echoscribe/internal/core/validate"
)

// ConfigValidator re-validates the settings snapshot.
type ConfigValidator interface {
	Validate(snap *config.Settings) validate.Result
}

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor aggregates health status from the configuration and the result cache.
type Monitor struct {
	cfg        *config.Settings
	validator  ConfigValidator
	cache      Pinger // nil when no cache is configured
	interval   time.Duration
	log        *slog.Logger
	lastCheck  time.Time
	lastReport *HealthReport
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. cache may be nil.
func NewMonitor(cfg *config.Settings, validator ConfigValidator, cache Pinger, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		cfg:       cfg,
		validator: validator,
		cache:     cache,
		interval:  time.Duration(cfg.Monitoring.HealthInterval) * time.Second,
		log:       log.With("component", "health"),
	}
}

// CheckHealth validates the configuration and pings the cache. Results are
// reused for the configured health interval.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < m.interval {
		return *m.lastReport
	}
	return m.check(ctx)
}

// Start refreshes the report every health interval and logs status changes
// until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	if m.interval <= 0 {
		return // Periodic checks disabled
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			m.check(ctx)
			m.mu.Unlock()
		}
	}
}

// check builds a fresh report. m.mu must be held.
func (m *Monitor) check(ctx context.Context) HealthReport {
	report := HealthReport{
		SystemStatus: StatusHealthy,
		Environment:  m.cfg.Environment,
		Components:   make(map[string]ComponentHealth, 2),
	}

	// 1. Configuration
	report.Config = m.validator.Validate(m.cfg)
	cfgHealth := ComponentHealth{Name: "config", Status: StatusHealthy}
	if !report.Config.Success {
		// Under the abort policy an invalid configuration is fatal.
		cfgHealth.Status = StatusDegraded
		if m.cfg.AbortOnInvalid() {
			cfgHealth.Status = StatusCritical
		}
		problems := append(append([]string{}, report.Config.Errors...), report.Config.MissingRequired...)
		cfgHealth.Detail = strings.Join(problems, "; ")
	}
	report.Components[cfgHealth.Name] = cfgHealth

	// 2. Result cache
	if m.cache != nil {
		cacheHealth := ComponentHealth{Name: "cache", Status: StatusHealthy}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := m.cache.Ping(pingCtx); err != nil {
			// Cache failures never fail requests, only degrade them.
			cacheHealth.Status = StatusDegraded
			cacheHealth.Detail = err.Error()
			m.log.Warn("Result cache unreachable", "error", err)
		}
		cancel()
		report.Components[cacheHealth.Name] = cacheHealth
	}

	for _, c := range report.Components {
		report.SystemStatus = worse(report.SystemStatus, c.Status)
	}

	if m.lastReport != nil && m.lastReport.SystemStatus != report.SystemStatus {
		m.log.Info("Health status changed", "from", m.lastReport.SystemStatus, "to", report.SystemStatus)
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}
