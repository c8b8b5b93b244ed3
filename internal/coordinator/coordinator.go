// Package coordinator owns the per-table lock and the load -> mutate ->
// store -> broadcast -> touch-activity discipline spec.md §4.5 assigns to it
// (the engine itself is lock-free and I/O-free — see internal/engine). One
// Coordinator serves every table in the process; it serializes access to a
// given table code behind that table's own mutex so concurrent requests for
// different tables never block each other.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/jdstemmler/pokerd/internal/engine"
	"github.com/jdstemmler/pokerd/internal/registry"
	"github.com/jdstemmler/pokerd/internal/store"
	"github.com/jdstemmler/pokerd/internal/view"
)

// Coordinator mediates every mutation to every table's engine.
type Coordinator struct {
	store    store.Store
	registry *registry.Registry
	clock    func() time.Time
	log      slog.Logger

	mu     sync.Mutex
	tables map[string]*sync.Mutex
}

// New constructs a Coordinator over st, broadcasting to conns.
func New(st store.Store, conns *registry.Registry, clock func() time.Time, log slog.Logger) *Coordinator {
	if clock == nil {
		clock = time.Now
	}
	return &Coordinator{
		store:    st,
		registry: conns,
		clock:    clock,
		log:      log,
		tables:   map[string]*sync.Mutex{},
	}
}

func (c *Coordinator) lockFor(code string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.tables[code]
	if !ok {
		l = &sync.Mutex{}
		c.tables[code] = l
	}
	return l
}

// Mutate loads code's engine, applies fn under the table's lock, persists
// the result (unless fn returns an error), broadcasts the resulting snapshot
// to every live connection, and refreshes the table's idle-expiry TTL. fn's
// returned *engine.Snapshot is used for the broadcast and as Mutate's own
// return value.
func (c *Coordinator) Mutate(ctx context.Context, code string, fn func(*engine.Engine) (*engine.Snapshot, error)) (*engine.Snapshot, error) {
	lock := c.lockFor(code)
	lock.Lock()
	defer lock.Unlock()

	blob, err := c.store.LoadEngine(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load engine %s: %w", code, err)
	}
	eng, err := engine.FromBlob(blob, c.clock)
	if err != nil {
		return nil, fmt.Errorf("decode engine %s: %w", code, err)
	}

	// An *engine.InvariantViolation panic means engine state has drifted
	// from §3's invariants (chip conservation, single actor-on seat,
	// corrupted deck, ...). That is unrecoverable — spec.md §7 requires
	// it surface in logs with the offending blob dumped, then crash the
	// process loudly rather than persist or broadcast corrupted state.
	defer func() {
		if r := recover(); r != nil {
			c.log.Criticalf("invariant violation on table %s: %v\nengine dump:\n%s\nraw blob: %s",
				code, r, spew.Sdump(eng), string(blob))
			panic(r)
		}
	}()

	snap, err := fn(eng)
	if err != nil {
		return nil, err
	}

	newBlob, err := eng.ToBlob()
	if err != nil {
		return nil, fmt.Errorf("encode engine %s: %w", code, err)
	}
	if err := c.store.SaveEngine(ctx, code, newBlob); err != nil {
		return nil, fmt.Errorf("save engine %s: %w", code, err)
	}

	c.broadcast(code, eng, snap)

	if err := c.store.TouchActivity(ctx, code); err != nil {
		c.log.Warnf("touch activity for %s: %v", code, err)
	}

	return snap, nil
}

// broadcast sends every live connection at code its own projected view.
// Per spec.md §4.7, a send failure is logged and the connection dropped
// rather than left to error on every future broadcast.
func (c *Coordinator) broadcast(code string, eng *engine.Engine, snap *engine.Snapshot) {
	for _, conn := range c.registry.Connections(code) {
		v := view.Project(eng, snap, conn.PlayerID)
		msg := map[string]interface{}{"type": "game_state", "data": v}
		if err := conn.Send(msg); err != nil {
			c.log.Debugf("broadcast to %s/%s: %v", code, conn.PlayerID, err)
			c.registry.Remove(code, conn)
		}
	}
}
