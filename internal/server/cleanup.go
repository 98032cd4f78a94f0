package server

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Purger removes expired chat sessions.
type Purger interface {
	CleanupExpired() (int, error)
}

// Cleanup runs a Purger on a cron schedule.
type Cleanup struct {
	cron    *cron.Cron
	purger  Purger
	metrics *Metrics
	log     zerolog.Logger
}

// NewCleanup schedules purger with a standard cron expression or descriptor
// such as "@every 10m". metrics may be nil.
func NewCleanup(schedule string, purger Purger, metrics *Metrics, log zerolog.Logger) (*Cleanup, error) {
	c := &Cleanup{
		cron:    cron.New(),
		purger:  purger,
		metrics: metrics,
		log:     log,
	}
	if _, err := c.cron.AddFunc(schedule, c.RunOnce); err != nil {
		return nil, fmt.Errorf("adding cleanup schedule %q: %w", schedule, err)
	}
	return c, nil
}

// RunOnce purges expired sessions now.
func (c *Cleanup) RunOnce() {
	n, err := c.purger.CleanupExpired()
	if err != nil {
		c.log.Warn().Err(err).Msg("session cleanup failed")
		return
	}
	if c.metrics != nil {
		c.metrics.purged(n)
	}
	if n > 0 {
		c.log.Info().Int("removed", n).Msg("expired sessions removed")
	}
}

// Start begins the schedule.
func (c *Cleanup) Start() {
	c.cron.Start()
}

// Stop halts the schedule and waits for a running purge.
func (c *Cleanup) Stop() {
	<-c.cron.Stop().Done()
}
