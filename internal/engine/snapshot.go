package engine

import "github.com/jdstemmler/pokerd/internal/cards"

// BuildState assembles the public, broadcast-ready Snapshot for the engine's
// current state, per spec.md §4.4 "Table state projection" (pre-per-recipient
// filtering — see internal/view for that layer). message is carried through
// verbatim as Snapshot.Message (e.g. a game-over reason or an action error
// surfaced alongside state).
func (e *Engine) BuildState(message string) *Snapshot {
	s := &Snapshot{
		Code:               e.Code,
		CreatorID:          e.CreatorID,
		MaxSeats:           e.MaxSeats,
		HandNumber:         e.HandNumber,
		Street:             e.Street,
		Pot:                e.Pot,
		CommunityCards:     append([]cards.Card(nil), e.CommunityCards...),
		DealerIdx:          e.DealerIdx,
		CurrentBet:         e.CurrentBet,
		MinRaise:           e.MinRaise,
		HandActive:         e.HandActive,
		GameOver:           e.GameOver,
		Message:            message,
		LastHandResult:     e.LastHandResult,
		TurnTimeoutSeconds: e.TurnTimeoutSeconds,
		ActionDeadline:     e.ActionDeadline,
		AutoDealDeadline:   e.AutoDealDeadline,
		GameStartedAt:      e.GameStartedAt,
		SmallBlind:         e.SmallBlind,
		BigBlind:           e.BigBlind,
		BlindLevel:         e.BlindLevel,
		BlindLevelDuration: e.BlindLevelDurationMinutes,
		BlindSchedule:      e.BlindSchedule,
		NextBlindChangeAt:  e.getNextBlindChangeAt(),
		AllowRebuys:        e.AllowRebuys,
		MaxRebuys:          e.MaxRebuys,
		RebuyCutoffMinutes: e.RebuyCutoffMinutes,
		Paused:             e.Paused,
		TotalPausedSeconds: e.TotalPausedSeconds,
		FinalStandings:     e.FinalStandings,
	}

	if e.GameOver && e.GameOverMessage != "" && message == "" {
		s.Message = e.GameOverMessage
	}

	if len(e.Seats) > 0 {
		s.DealerPlayerID = e.Seats[e.DealerIdx].PlayerID
	}
	if e.HandActive {
		s.ActionOnPlayerID = e.Seats[e.ActionOnIdx].PlayerID
	}

	for name := range e.ShownCards {
		s.ShownCards = append(s.ShownCards, name)
	}

	for i, seat := range e.Seats {
		sv := SeatView{
			PlayerID:     seat.PlayerID,
			Name:         seat.Name,
			Chips:        seat.Chips,
			BetThisRound: seat.BetThisRound,
			BetThisHand:  seat.BetThisHand,
			Folded:       seat.Folded,
			AllIn:        seat.AllIn,
			IsSittingOut: seat.IsSittingOut,
			LastAction:   seat.LastAction,
			RebuyCount:   seat.RebuyCount,
			RebuyQueued:  seat.RebuyQueued,
			CanRebuy:     e.canRebuy(i),
			IsReady:      seat.IsReady,
		}
		// Showdown reveals non-folded hands only, per spec.md §4.4: a folded
		// seat's cards stay hidden even once the pot is awarded.
		if (e.Street == StreetShowdown && !seat.Folded) || e.ShownCards[seat.PlayerID] {
			sv.HoleCards = seat.HoleCards
		}
		s.Seats = append(s.Seats, sv)
	}

	return s
}

// HoleCardsOf returns playerID's current hole cards directly from engine
// state, bypassing the showdown/shown-cards gating BuildState applies to the
// broadcast Snapshot. internal/view uses this to fill in a viewer's own
// cards during an active hand, which the shared Snapshot never carries.
func (e *Engine) HoleCardsOf(playerID string) []cards.Card {
	s := e.findSeat(playerID)
	if s == nil {
		return nil
	}
	return s.HoleCards
}

// canRebuy reports whether the seat at idx is currently eligible to queue a
// rebuy, per spec.md §4.3 "Rebuys": must be out of chips (or sitting out from
// elimination), rebuys enabled, under MaxRebuys (0=unlimited), within the
// rebuy cutoff if one is configured, not already queued, and the table must
// not be down to a heads-up-or-fewer live field (rebuys are disabled once the
// game is effectively down to a final confrontation).
func (e *Engine) canRebuy(idx int) bool {
	if !e.AllowRebuys || e.GameOver {
		return false
	}
	seat := e.Seats[idx]
	if seat.Chips > 0 || seat.RebuyQueued {
		return false
	}
	if e.MaxRebuys > 0 && seat.RebuyCount >= e.MaxRebuys {
		return false
	}
	if e.RebuyCutoffMinutes > 0 && e.GameStartedAt != nil {
		if e.effectiveElapsed().Minutes() > float64(e.RebuyCutoffMinutes) {
			return false
		}
	}
	live := e.livePlayerIndices()
	if len(live) <= 2 {
		return false
	}
	return true
}
