// Package admin provides the thin operational surface spec.md §1 scopes
// outside the core engine: idle-table cleanup and process-level diagnostics.
package admin

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/jdstemmler/pokerd/internal/registry"
	"github.com/jdstemmler/pokerd/internal/store"
	"github.com/pbnjay/memory"
	"github.com/prometheus/procfs"
)

// Cleaner periodically sweeps Redis for tables with no live connection and
// no activity within store.TTL, deleting them outright (Redis's own key TTL
// is a backstop for the process crashing mid-sweep).
type Cleaner struct {
	store    store.Store
	registry *registry.Registry
	log      slog.Logger
}

// NewCleaner constructs a Cleaner.
func NewCleaner(st store.Store, conns *registry.Registry, log slog.Logger) *Cleaner {
	return &Cleaner{store: st, registry: conns, log: log}
}

// Run blocks, sweeping once an hour until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	t := time.NewTicker(1 * time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.sweep(ctx)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	codes, err := c.store.ActiveCodes(ctx)
	if err != nil {
		c.log.Warnf("list active codes: %v", err)
		return
	}
	live := map[string]bool{}
	for _, code := range c.registry.TableCodes() {
		live[code] = true
	}
	for _, code := range codes {
		if live[code] {
			continue
		}
		if _, err := c.store.LoadMeta(ctx, code); err == store.ErrNotFound {
			if err := c.store.DeleteGame(ctx, code); err != nil {
				c.log.Warnf("delete idle game %s: %v", code, err)
			}
		}
	}
}

// ProcessStats reports this process's resident memory and open file
// descriptor count, surfaced on an operator-facing diagnostics endpoint.
type ProcessStats struct {
	ResidentMemoryBytes uint64
	SystemMemoryBytes   uint64
	OpenFDs             int
}

// ReadProcessStats reads /proc/self via procfs.
func ReadProcessStats() (ProcessStats, error) {
	proc, err := procfs.Self()
	if err != nil {
		return ProcessStats{}, err
	}
	stat, err := proc.Stat()
	if err != nil {
		return ProcessStats{}, err
	}
	fds, err := proc.FileDescriptorsLen()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{
		ResidentMemoryBytes: uint64(stat.ResidentMemory()),
		SystemMemoryBytes:   memory.TotalMemory(),
		OpenFDs:             fds,
	}, nil
}
