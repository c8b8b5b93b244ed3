// Package registry tracks live websocket connections per table, per spec.md
// §4.7 "Connection registry": who is currently attached to a table (seated
// players and spectators), so the coordinator can broadcast a per-recipient
// view to each of them without touching the store.
package registry

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HeartbeatTimeout is spec.md §4.7's HEARTBEAT_TIMEOUT: a connection that
// hasn't answered a ping within this window is considered stale and reaped.
const HeartbeatTimeout = 30 * time.Second

// Conn is one live connection to a table.
type Conn struct {
	PlayerID string // view.Spectator for an unseated watcher
	Socket   *websocket.Conn

	mu       sync.Mutex
	lastPong time.Time
}

// Send writes a JSON message to the connection, safe for concurrent callers
// (gorilla/websocket permits only one concurrent writer per connection).
func (c *Conn) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Socket.WriteJSON(v)
}

// TouchPong records a pong (or any liveness signal) at now.
func (c *Conn) TouchPong(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPong = now
}

// Stale reports whether c hasn't been heard from within HeartbeatTimeout of
// now.
func (c *Conn) Stale(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.lastPong.IsZero() && now.Sub(c.lastPong) > HeartbeatTimeout
}

// Registry is the process-wide table-code -> connections map.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{conns: map[string]map[*Conn]struct{}{}}
}

// spectatorID is the sentinel player id for an unseated watcher; kept as a
// literal here (rather than importing internal/view) since registry sits
// below the view layer. Must match view.Spectator.
const spectatorID = "__spectator__"

// Add registers a connection under code. Per spec.md §4.7, connecting a
// player closes any existing connection for the same id (replacement);
// spectators are never replaced, since many may watch concurrently.
func (r *Registry) Add(code string, c *Conn) {
	r.mu.Lock()
	var stale *Conn
	set := r.conns[code]
	if set == nil {
		set = map[*Conn]struct{}{}
		r.conns[code] = set
	}
	if c.PlayerID != spectatorID {
		for existing := range set {
			if existing.PlayerID == c.PlayerID {
				stale = existing
				delete(set, existing)
				break
			}
		}
	}
	set[c] = struct{}{}
	r.mu.Unlock()

	if stale != nil {
		stale.Socket.Close()
	}
}

// Remove deregisters a connection, pruning the table's entry once empty.
func (r *Registry) Remove(code string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.conns[code]
	if set == nil {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.conns, code)
	}
}

// Connections returns a snapshot of the connections currently attached to
// code.
func (r *Registry) Connections(code string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.conns[code]
	out := make([]*Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// ConnectedPlayers returns the player ids (excluding the spectator sentinel)
// currently connected to code, and the count of connected spectators —
// the data spec.md §6's "connection_info" message reports.
func (r *Registry) ConnectedPlayers(code string) (players []string, spectatorCount int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.conns[code] {
		if c.PlayerID == spectatorID {
			spectatorCount++
		} else {
			players = append(players, c.PlayerID)
		}
	}
	return players, spectatorCount
}

// Reap closes and removes every connection across all tables that has gone
// stale (no pong within HeartbeatTimeout), per spec.md §4.7 "Heartbeat".
func (r *Registry) Reap(now time.Time) {
	r.mu.Lock()
	var stale []*Conn
	for code, set := range r.conns {
		for c := range set {
			if c.Stale(now) {
				stale = append(stale, c)
				delete(set, c)
			}
		}
		if len(set) == 0 {
			delete(r.conns, code)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Socket.Close()
	}
}

// TableCodes lists every table with at least one live connection.
func (r *Registry) TableCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.conns))
	for code := range r.conns {
		out = append(out, code)
	}
	return out
}
