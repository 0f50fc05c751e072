package sim

import (
	"context"
	"time"
)

// FixedStepClock advances the engine by a constant step on every Wait,
// without sleeping.
type FixedStepClock struct {
	Engine *Engine
	Step   float64
}

// Wait steps the engine once and returns the step.
func (c *FixedStepClock) Wait(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.Engine.Step(c.Step)
	return c.Step, nil
}

// RealtimeClock paces the engine with a wall-clock ticker and steps it by the
// time actually elapsed.
type RealtimeClock struct {
	Engine   *Engine
	Interval time.Duration

	ticker *time.Ticker
	last   time.Time
}

// Wait blocks until the next tick or until ctx is done.
func (c *RealtimeClock) Wait(ctx context.Context) (float64, error) {
	if c.ticker == nil {
		c.ticker = time.NewTicker(c.Interval)
		c.last = time.Now()
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case now := <-c.ticker.C:
		dt := now.Sub(c.last).Seconds()
		c.last = now
		c.Engine.Step(dt)
		return dt, nil
	}
}

// Stop releases the ticker.
func (c *RealtimeClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

// Clock is the per-tick suspend point shared by both clock kinds.
type Clock interface {
	Wait(ctx context.Context) (float64, error)
}

// NewClock returns the clock selected by the engine's configuration.
func (e *Engine) NewClock() Clock {
	step := 1 / e.cfg.TickRate
	if e.cfg.Realtime {
		// A zero interval would make time.NewTicker panic.
		interval := max(time.Duration(step*float64(time.Second)), time.Nanosecond)
		return &RealtimeClock{Engine: e, Interval: interval}
	}
	return &FixedStepClock{Engine: e, Step: step}
}
