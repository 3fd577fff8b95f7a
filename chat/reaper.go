package chat

import (
	"context"
	"time"
)

// Reaper periodically sweeps idle users out of the core. The sweep
// period should be well below the idle threshold (default 5 minutes
// against a 30-minute timeout).
type Reaper struct {
	core     *Core
	interval time.Duration
}

func NewReaper(core *Core, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reaper{core: core, interval: interval}
}

// Run sweeps until the context is cancelled. Intended to run in its
// own goroutine; each sweep serializes against event handling through
// the core mutex.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.core.SweepIdle()
		}
	}
}
