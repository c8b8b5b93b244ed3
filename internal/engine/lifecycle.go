package engine

import "github.com/jdstemmler/pokerd/internal/cards"

// StartNewHand deals a new hand, per spec.md §4.3 "Hand lifecycle". If the
// game is already over, it returns the current state unchanged.
func (e *Engine) StartNewHand() *Snapshot {
	if e.GameOver {
		return e.BuildState("")
	}

	// Process queued rebuys first.
	for _, s := range e.Seats {
		if s.RebuyQueued {
			s.Chips = e.StartingChips
			s.IsSittingOut = false
			s.RebuyCount++
			s.RebuyQueued = false
			e.removeFromEliminationOrder(s.PlayerID)
		}
	}

	// Record eliminations: any seat with chips<=0 and not queued for rebuy
	// that isn't already recorded is appended and sat out.
	for _, s := range e.Seats {
		if s.Chips <= 0 && !s.RebuyQueued && !e.isEliminated(s.PlayerID) {
			e.EliminationOrder = append(e.EliminationOrder, EliminationEntry{PlayerID: s.PlayerID, HandNumber: e.HandNumber})
			s.IsSittingOut = true
		}
	}

	live := e.livePlayerIndices()
	if len(live) < 2 {
		e.GameOver = true
		e.GameOverMessage = "Not enough players to continue"
		e.computeFinalStandings()
		return e.BuildState(e.GameOverMessage)
	}

	e.HandNumber++
	e.LastHandResult = nil

	if e.GameStartedAt == nil {
		now := e.now()
		e.GameStartedAt = &now
	}

	e.maybeAdvanceBlindLevel()

	e.AutoDealDeadline = nil
	e.ShownCards = map[string]bool{}

	if e.HandNumber > 1 {
		e.DealerIdx = e.nextSeat(e.DealerIdx, false)
	}

	for _, s := range e.Seats {
		if !s.IsSittingOut {
			s.ResetForNewHand()
		} else {
			s.Folded = false
			s.AllIn = false
			s.HasActed = false
		}
	}

	deck := cards.NewDeck(e.rng.forHand(e.HandNumber))
	e.deck = deck
	e.CommunityCards = nil
	e.Street = StreetPreflop
	e.Pot = 0
	e.CurrentBet = 0
	e.MinRaise = e.BigBlind
	e.LastRaiserIdx = nil

	e.currentHistory = newHandHistory(e.HandNumber)
	e.HandActive = true

	for _, s := range e.Seats {
		if !s.IsSittingOut {
			hole, err := e.deck.Deal(2)
			e.crashIfViolated(err == nil, "deck exhausted dealing hole cards: %v", err)
			s.HoleCards = hole
		}
	}

	e.postBlinds()

	return e.BuildState("")
}

// postBlinds posts small and big blinds per spec.md §4.3 "Blind posting".
func (e *Engine) postBlinds() {
	live := e.livePlayerIndices()

	var sbIdx, bbIdx int
	if len(live) == 2 {
		sbIdx = e.DealerIdx
		bbIdx = e.nextSeat(e.DealerIdx, false)
	} else {
		sbIdx = e.nextSeat(e.DealerIdx, false)
		bbIdx = e.nextSeat(sbIdx, false)
	}

	e.forceBet(sbIdx, e.SmallBlind, "SB")
	e.forceBet(bbIdx, e.BigBlind, "BB")

	e.CurrentBet = e.BigBlind
	e.MinRaise = e.BigBlind

	e.ActionOnIdx = e.nextSeat(bbIdx, false)
	e.setActionDeadline()

	lr := bbIdx
	e.LastRaiserIdx = &lr
}

// forceBet forces a seat to bet amount (blinds), capped at its stack;
// underfunded forces mark the seat all-in. Returns the amount actually
// posted.
func (e *Engine) forceBet(idx int, amount int64, label string) int64 {
	s := e.Seats[idx]
	actual := amount
	if actual > s.Chips {
		actual = s.Chips
	}
	s.Chips -= actual
	s.BetThisRound += actual
	s.BetThisHand += actual
	e.Pot += actual
	if label != "" {
		s.LastAction = label
	}
	if s.Chips == 0 {
		s.AllIn = true
	}
	return actual
}

func (e *Engine) isEliminated(playerID string) bool {
	for _, ent := range e.EliminationOrder {
		if ent.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (e *Engine) removeFromEliminationOrder(playerID string) {
	out := e.EliminationOrder[:0]
	for _, ent := range e.EliminationOrder {
		if ent.PlayerID != playerID {
			out = append(out, ent)
		}
	}
	e.EliminationOrder = out
}

// computeFinalStandings builds spec.md §4.3 "Elimination & final standings":
// place 1 is the sole seat not eliminated; places 2..N are elimination
// entries in reverse (last eliminated is 2nd).
func (e *Engine) computeFinalStandings() {
	var survivor string
	for _, s := range e.Seats {
		if !e.isEliminated(s.PlayerID) {
			survivor = s.PlayerID
			break
		}
	}

	standings := []FinalStanding{}
	if survivor != "" {
		standings = append(standings, FinalStanding{PlayerID: survivor, Place: 1})
	}
	place := 2
	for i := len(e.EliminationOrder) - 1; i >= 0; i-- {
		standings = append(standings, FinalStanding{PlayerID: e.EliminationOrder[i].PlayerID, Place: place})
		place++
	}
	e.FinalStandings = standings
}

func (e *Engine) setActionDeadline() {
	if e.TurnTimeoutSeconds > 0 && e.HandActive {
		t := e.now().Add(secondsToDuration(e.TurnTimeoutSeconds))
		e.ActionDeadline = &t
	} else {
		e.ActionDeadline = nil
	}
}

func (e *Engine) setAutoDealDeadline() {
	if e.AutoDealDelaySeconds > 0 && e.HandNumber > 0 && !e.HandActive && !e.Paused {
		t := e.now().Add(secondsToDuration(e.AutoDealDelaySeconds))
		e.AutoDealDeadline = &t
	} else {
		e.AutoDealDeadline = nil
	}
}
