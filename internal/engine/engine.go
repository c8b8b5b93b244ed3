package engine

import (
	"fmt"
	"time"
)

// SeatConfig is one player to seat at table construction.
type SeatConfig struct {
	PlayerID string
	Name     string
}

// NewEngine constructs a fresh table engine in the WAITING_TO_DEAL state
// (hand_active=false, game_over=false, no hand dealt yet). Mirrors
// engine.py's GameEngine.__init__.
func NewEngine(cfg Config, seats []SeatConfig) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.AutoDealDelaySeconds == 0 {
		cfg.AutoDealDelaySeconds = 10
	}
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 9
	}

	e := &Engine{
		Code:                 cfg.Code,
		SmallBlind:           cfg.SmallBlind,
		BigBlind:             cfg.BigBlind,
		StartingChips:        cfg.StartingChips,
		MaxSeats:             cfg.MaxSeats,
		CreatorID:            cfg.CreatorID,
		AllowRebuys:          cfg.AllowRebuys,
		MaxRebuys:            cfg.MaxRebuys,
		RebuyCutoffMinutes:   cfg.RebuyCutoffMinutes,
		TurnTimeoutSeconds:   cfg.TurnTimeoutSeconds,
		AutoDealDelaySeconds: cfg.AutoDealDelaySeconds,
		BlindLevelDurationMinutes: cfg.BlindLevelDurationMinutes,
		Street:               StreetPreflop,
		MinRaise:             cfg.BigBlind,
		ShownCards:           map[string]bool{},
		rng:                  newRNGState(cfg.Seed),
		clock:                cfg.Clock,
	}

	switch {
	case len(cfg.BlindSchedule) > 0:
		e.BlindSchedule = cfg.BlindSchedule
	case cfg.BlindLevelDurationMinutes > 0 && cfg.TargetGameTimeMinutes > 0:
		e.BlindSchedule = BuildSchedule(cfg.StartingChips, cfg.TargetGameTimeMinutes, cfg.BlindLevelDurationMinutes)
	case cfg.BlindLevelDurationMinutes > 0:
		e.BlindSchedule = buildScheduleFrom(cfg.SmallBlind, cfg.BigBlind)
	}

	for _, s := range seats {
		e.Seats = append(e.Seats, &Seat{
			PlayerID: s.PlayerID,
			Name:     s.Name,
			Chips:    cfg.StartingChips,
		})
	}
	if e.CreatorID == "" && len(e.Seats) > 0 {
		e.CreatorID = e.Seats[0].PlayerID
	}

	return e
}

func (e *Engine) now() time.Time {
	return e.clock()
}

func (e *Engine) findSeatIdx(playerID string) (int, bool) {
	for i, s := range e.Seats {
		if s.PlayerID == playerID {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) findSeat(playerID string) *Seat {
	if i, ok := e.findSeatIdx(playerID); ok {
		return e.Seats[i]
	}
	return nil
}

// playersInHand returns seats still in the hand (not folded, not
// sitting out) — spec.md's _active_players/_players_in_hand.
func (e *Engine) playersInHand() []int {
	var out []int
	for i, s := range e.Seats {
		if !s.Folded && !s.IsSittingOut {
			out = append(out, i)
		}
	}
	return out
}

// playersWhoCanAct returns seats that can still take betting actions.
func (e *Engine) playersWhoCanAct() []int {
	var out []int
	for i, s := range e.Seats {
		if s.IsActive() && !s.IsSittingOut {
			out = append(out, i)
		}
	}
	return out
}

// nextSeat finds the next occupied (non-sitting-out) seat after idx,
// wrapping around; with onlyActive, also skips folded/all-in/non-active
// seats.
func (e *Engine) nextSeat(idx int, onlyActive bool) int {
	n := len(e.Seats)
	for offset := 1; offset <= n; offset++ {
		i := (idx + offset) % n
		s := e.Seats[i]
		if s.IsSittingOut {
			continue
		}
		if onlyActive && (!s.IsActive() || s.Folded) {
			continue
		}
		return i
	}
	return idx
}

func (e *Engine) livePlayerIndices() []int {
	var out []int
	for i, s := range e.Seats {
		if !s.IsSittingOut {
			out = append(out, i)
		}
	}
	return out
}

func (e *Engine) crashIfViolated(cond bool, msg string, args ...interface{}) {
	if !cond {
		panic(newInvariantViolation(fmt.Sprintf(msg, args...)))
	}
}
