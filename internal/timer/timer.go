// Package timer runs the background scheduler that enforces action and
// auto-deal deadlines, per spec.md §4.6 "Deadline scheduler": a 1-second
// tick that, for each table with a live connection, re-validates its
// deadlines after acquiring that table's coordinator lock (the deadline may
// have been cleared or extended between the tick firing and the lock being
// acquired, so every check happens on freshly-loaded state, never on a
// stale read taken before the tick).
package timer

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/jdstemmler/pokerd/internal/coordinator"
	"github.com/jdstemmler/pokerd/internal/engine"
	"github.com/jdstemmler/pokerd/internal/registry"
)

const tick = 1 * time.Second

// Scheduler drives deadline enforcement for every table the registry knows
// about.
type Scheduler struct {
	coord    *coordinator.Coordinator
	registry *registry.Registry
	log      slog.Logger
}

// New constructs a Scheduler.
func New(coord *coordinator.Coordinator, conns *registry.Registry, log slog.Logger) *Scheduler {
	return &Scheduler{coord: coord, registry: conns, log: log}
}

// Run blocks, ticking every second until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	for _, code := range s.registry.TableCodes() {
		s.checkTable(ctx, code)
	}
}

func (s *Scheduler) checkTable(ctx context.Context, code string) {
	_, err := s.coord.Mutate(ctx, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		now := time.Now()
		acted := false

		if eng.ActionDeadline != nil && !now.Before(*eng.ActionDeadline) {
			eng.ForceTimeoutAction()
			acted = true
		}
		if eng.AutoDealDeadline != nil && !now.Before(*eng.AutoDealDeadline) {
			eng.StartNewHand()
			acted = true
		}

		if !acted {
			return nil, errNoop
		}
		return eng.BuildState(""), nil
	})
	if err != nil && err != errNoop {
		s.log.Warnf("deadline check for %s: %v", code, err)
	}
}

// errNoop signals Mutate to skip persisting/broadcasting because nothing
// changed this tick.
var errNoop = noopErr{}

type noopErr struct{}

func (noopErr) Error() string { return "timer: no deadline elapsed" }
