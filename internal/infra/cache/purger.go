package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"forum-summarizer/internal/observability/metrics"
)

// DefaultPurgeSchedule runs the purger every five minutes.
const DefaultPurgeSchedule = "*/5 * * * *"

// Purgeable is implemented by caches that report expired entries.
type Purgeable interface {
	Purge() int
	Len() int
}

// Purger collects cache expirations and refreshes the cache size gauge on a
// cron schedule.
type Purger struct {
	cron    *cron.Cron
	target  Purgeable
	mu      sync.Mutex
	started bool
}

// ValidateSchedule checks that schedule is a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return nil
}

// NewPurger creates a Purger that purges target on schedule.
func NewPurger(target Purgeable, schedule string) (*Purger, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	p := &Purger{cron: cron.New(), target: target}
	if _, err := p.cron.AddFunc(schedule, p.RunOnce); err != nil {
		return nil, fmt.Errorf("add purge job: %w", err)
	}
	return p, nil
}

// RunOnce collects expirations immediately.
func (p *Purger) RunOnce() {
	expired := p.target.Purge()
	metrics.RecordCacheExpired(expired)
	metrics.UpdateCacheEntries(p.target.Len())
	if expired > 0 {
		slog.Debug("expired cache entries dropped", slog.Int("expired", expired))
	}
}

// Start begins the schedule.
func (p *Purger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.cron.Start()
		p.started = true
	}
}

// Stop halts the schedule and waits for a running collection to finish.
func (p *Purger) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		<-p.cron.Stop().Done()
		p.started = false
	}
}
