package engine

// ToggleReady flips playerID's ready flag, per spec.md §6 "ready": a
// lobby-only operation, refused once the first hand has been dealt.
func (e *Engine) ToggleReady(playerID string) (*Snapshot, error) {
	if e.HandNumber > 0 || e.GameOver {
		return nil, ErrGameNotInLobby
	}
	s := e.findSeat(playerID)
	if s == nil {
		return nil, ErrPlayerNotFound
	}
	s.IsReady = !s.IsReady
	return e.BuildState(""), nil
}

// StartGame deals the table's first hand, per spec.md §6 "start": only the
// creator may start it, and only once at least two players are seated and
// every seat is ready.
func (e *Engine) StartGame(playerID string) (*Snapshot, error) {
	if e.HandNumber > 0 || e.GameOver {
		return nil, ErrGameNotInLobby
	}
	if _, ok := e.findSeatIdx(playerID); !ok {
		return nil, ErrPlayerNotFound
	}
	if playerID != e.CreatorID {
		return nil, ErrNotYourTurn
	}
	if len(e.Seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	for _, s := range e.Seats {
		if !s.IsReady {
			return nil, ErrNotEnoughPlayers
		}
	}
	return e.StartNewHand(), nil
}

// DealNextHand is the player-triggered "deal next hand" operation (spec.md
// §6 POST .../deal). Unlike the timer's direct StartNewHand call (which only
// ever fires when auto_deal_deadline is armed, itself only set once a hand
// has ended), this validates that no hand is currently active and the table
// isn't paused before dealing.
func (e *Engine) DealNextHand(playerID string) (*Snapshot, error) {
	if _, ok := e.findSeatIdx(playerID); !ok {
		return nil, ErrPlayerNotFound
	}
	if e.HandActive {
		return nil, ErrHandStillActive
	}
	if e.Paused {
		return nil, ErrGamePaused
	}
	return e.StartNewHand(), nil
}

// LeaveGame removes playerID from the lobby, per spec.md §6 "leave"
// (non-creator leaves lobby): a lobby-only operation, refused once the first
// hand has been dealt (a seat vacating mid-game busts out via elimination,
// not leave — removing a seat outright would also shift DealerIdx under
// hands already in flight). If the departing seat is the creator, host
// status transfers to the next-seated player so the table is never left
// ownerless.
func (e *Engine) LeaveGame(playerID string) (*Snapshot, error) {
	if e.HandNumber > 0 || e.GameOver {
		return nil, ErrGameNotInLobby
	}
	idx, ok := e.findSeatIdx(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	e.Seats = append(e.Seats[:idx], e.Seats[idx+1:]...)
	if e.CreatorID == playerID {
		e.CreatorID = ""
		if len(e.Seats) > 0 {
			e.CreatorID = e.Seats[0].PlayerID
		}
	}
	return e.BuildState(""), nil
}
