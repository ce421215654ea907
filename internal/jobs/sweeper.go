package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Sweeper runs the registry's retention eviction on a cron schedule
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	logger   arbor.ILogger
}

// NewSweeper creates a sweeper for the registry. schedule is a cron spec
// such as "@every 1m".
func NewSweeper(registry *Registry, schedule string, logger arbor.ILogger) (*Sweeper, error) {
	s := &Sweeper{
		cron:     cron.New(),
		registry: registry,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule '%s': %w", schedule, err)
	}

	return s, nil
}

func (s *Sweeper) sweep() {
	if evicted := s.registry.Sweep(); evicted > 0 {
		s.logger.Debug().Int("evicted", evicted).Msg("Evicted expired jobs")
	}
}

// Start begins running the sweep on its schedule
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule; a sweep already running completes
func (s *Sweeper) Stop() {
	s.cron.Stop()
}
