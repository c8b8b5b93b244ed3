package engine

// GetValidActions returns the actions playerID may currently take, per
// spec.md §4.3 "Valid actions". Returns an error if it is not that player's
// turn to act (or no hand is active).
func (e *Engine) GetValidActions(playerID string) ([]ValidAction, error) {
	idx, ok := e.findSeatIdx(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !e.HandActive {
		return nil, ErrNoActiveHand
	}
	if idx != e.ActionOnIdx {
		return nil, ErrNotYourTurn
	}

	s := e.Seats[idx]
	toCall := e.CurrentBet - s.BetThisRound
	if toCall < 0 {
		toCall = 0
	}

	var out []ValidAction
	out = append(out, ValidAction{Action: ActionFold})

	if toCall == 0 {
		out = append(out, ValidAction{Action: ActionCheck})
	} else {
		callAmt := toCall
		if callAmt > s.Chips {
			callAmt = s.Chips
		}
		out = append(out, ValidAction{Action: ActionCall, Amount: callAmt})
	}

	if s.Chips > toCall {
		minRaiseTo := e.CurrentBet + e.MinRaise
		maxRaiseTo := s.BetThisRound + s.Chips
		if minRaiseTo > maxRaiseTo {
			minRaiseTo = maxRaiseTo
		}
		out = append(out, ValidAction{Action: ActionRaise, MinAmount: minRaiseTo, MaxAmount: maxRaiseTo})
	}

	if s.Chips > 0 {
		out = append(out, ValidAction{Action: ActionAllIn, Amount: s.BetThisRound + s.Chips})
	}

	return out, nil
}

// ProcessAction applies playerID's requested action and returns the resulting
// state snapshot, per spec.md §4.3 "Processing an action". amount is the
// total bet-to amount this round for ActionRaise; it is ignored for the other
// action kinds.
func (e *Engine) ProcessAction(playerID string, action Action, amount int64) (*Snapshot, error) {
	idx, ok := e.findSeatIdx(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !e.HandActive {
		return nil, ErrNoActiveHand
	}
	if e.Paused {
		return nil, ErrGamePaused
	}
	if idx != e.ActionOnIdx {
		return nil, ErrNotYourTurn
	}

	s := e.Seats[idx]

	switch action {
	case ActionFold:
		e.doFold(idx)
	case ActionCheck:
		if e.CurrentBet != s.BetThisRound {
			return nil, ErrCannotCheck
		}
		e.doCheck(idx)
	case ActionCall:
		e.doCall(idx)
	case ActionRaise:
		if err := e.doRaise(idx, amount); err != nil {
			return nil, err
		}
	case ActionAllIn:
		e.doAllIn(idx)
	default:
		return nil, ErrUnknownAction
	}

	e.currentHistory.recordAction(playerID, action, amount, e.Street)

	if len(e.playersInHand()) <= 1 {
		e.awardPotToLastPlayer()
		return e.BuildState(""), nil
	}

	if e.isRoundComplete() {
		e.advanceStreet()
	} else {
		e.ActionOnIdx = e.nextSeat(e.ActionOnIdx, true)
		e.setActionDeadline()
	}

	return e.BuildState(""), nil
}

// ForceTimeoutAction folds (or checks, if no bet is owed) the seat whose
// action deadline has elapsed, per spec.md §4.6 "Action timeout". It is a
// no-op if no hand is active or no deadline has been set.
func (e *Engine) ForceTimeoutAction() *Snapshot {
	if !e.HandActive || e.ActionDeadline == nil {
		return e.BuildState("")
	}
	idx := e.ActionOnIdx
	s := e.Seats[idx]

	if e.CurrentBet == s.BetThisRound {
		e.doCheck(idx)
	} else {
		e.doFold(idx)
	}
	e.currentHistory.recordAction(s.PlayerID, Action(s.LastAction), 0, e.Street)

	if len(e.playersInHand()) <= 1 {
		e.awardPotToLastPlayer()
		return e.BuildState("")
	}

	if e.isRoundComplete() {
		e.advanceStreet()
	} else {
		e.ActionOnIdx = e.nextSeat(e.ActionOnIdx, true)
		e.setActionDeadline()
	}

	return e.BuildState("")
}

func (e *Engine) doFold(idx int) {
	s := e.Seats[idx]
	s.Folded = true
	s.HasActed = true
	s.LastAction = "fold"
}

func (e *Engine) doCheck(idx int) {
	s := e.Seats[idx]
	s.HasActed = true
	s.LastAction = "check"
}

func (e *Engine) doCall(idx int) {
	s := e.Seats[idx]
	toCall := e.CurrentBet - s.BetThisRound
	if toCall > s.Chips {
		toCall = s.Chips
	}
	s.Chips -= toCall
	s.BetThisRound += toCall
	s.BetThisHand += toCall
	e.Pot += toCall
	s.HasActed = true
	if toCall == 0 {
		s.LastAction = "check"
	} else {
		s.LastAction = "call"
	}
	if s.Chips == 0 {
		s.AllIn = true
	}
}

// doRaise raises the total bet-this-round to totalBetAmount. Mirrors
// engine.py's _do_raise validation: the raise must either reach at least
// min_raise_to, or commit the player's entire remaining stack.
func (e *Engine) doRaise(idx int, totalBetAmount int64) error {
	s := e.Seats[idx]
	minRaiseTo := e.CurrentBet + e.MinRaise
	maxPossible := s.BetThisRound + s.Chips

	if totalBetAmount < minRaiseTo && totalBetAmount < maxPossible {
		return ErrMustMeetMinRaise
	}
	if totalBetAmount > maxPossible {
		return ErrMustMeetMinRaise
	}

	delta := totalBetAmount - s.BetThisRound
	if delta < 0 {
		return ErrMustMeetMinRaise
	}

	raiseSize := totalBetAmount - e.CurrentBet

	s.Chips -= delta
	s.BetThisRound += delta
	s.BetThisHand += delta
	e.Pot += delta
	s.HasActed = true
	s.LastAction = "raise"
	if s.Chips == 0 {
		s.AllIn = true
		if raiseSize < e.MinRaise && totalBetAmount > e.CurrentBet {
			s.LastAction = "all_in"
		}
	}

	if totalBetAmount > e.CurrentBet {
		if raiseSize > e.MinRaise {
			e.MinRaise = raiseSize
		}
		e.CurrentBet = totalBetAmount
		lr := idx
		e.LastRaiserIdx = &lr
		e.clearActedFlagsExcept(idx)
	}

	return nil
}

func (e *Engine) doAllIn(idx int) {
	s := e.Seats[idx]
	totalBetAmount := s.BetThisRound + s.Chips
	_ = e.doRaise(idx, totalBetAmount)
	s.LastAction = "all_in"
}

// clearActedFlagsExcept resets has_acted for every other active, non-folded
// seat so they get another chance to respond to a raise.
func (e *Engine) clearActedFlagsExcept(idx int) {
	for i, s := range e.Seats {
		if i == idx {
			continue
		}
		if s.Folded || s.IsSittingOut {
			continue
		}
		if s.Chips > 0 {
			s.HasActed = false
		}
	}
}

func (e *Engine) isRoundComplete() bool {
	inHand := e.playersInHand()
	if len(inHand) <= 1 {
		return true
	}
	canAct := e.playersWhoCanAct()
	if len(canAct) == 0 {
		return true
	}
	for _, i := range canAct {
		s := e.Seats[i]
		if !s.HasActed || s.BetThisRound != e.CurrentBet {
			return false
		}
	}
	return true
}

// advanceStreet moves from the current street to the next, dealing community
// cards and resetting round-local betting state, per spec.md §4.3 "Street
// advancement". It recurses through run-out streets when fewer than two
// seats can still act (everyone else is all-in or folded).
func (e *Engine) advanceStreet() {
	for _, s := range e.Seats {
		s.ResetForNewRound()
	}
	e.CurrentBet = 0
	e.MinRaise = e.BigBlind
	e.LastRaiserIdx = nil

	switch e.Street {
	case StreetPreflop:
		e.dealCommunity(3)
		e.Street = StreetFlop
	case StreetFlop:
		e.dealCommunity(1)
		e.Street = StreetTurn
	case StreetTurn:
		e.dealCommunity(1)
		e.Street = StreetRiver
	case StreetRiver:
		e.Street = StreetShowdown
		e.showdown()
		return
	default:
		return
	}

	if len(e.playersWhoCanAct()) < 2 {
		e.advanceStreet()
		return
	}

	// Heads-up: the dealer acts first post-flop, per spec.md §4.3. Fall back
	// to the normal first-active-seat-after-the-dealer rule if the dealer
	// can't act (folded or all-in).
	if len(e.playersInHand()) == 2 {
		d := e.Seats[e.DealerIdx]
		if d.IsActive() && !d.Folded && !d.IsSittingOut {
			e.ActionOnIdx = e.DealerIdx
			e.setActionDeadline()
			return
		}
	}

	e.ActionOnIdx = e.nextSeat(e.DealerIdx, true)
	e.setActionDeadline()
}

// dealCommunity burns one card, then deals n and appends them to the board,
// per spec.md §4.3 "Street advance: ... burn one card, deal the next
// community batch (3/1/1)".
func (e *Engine) dealCommunity(n int) {
	_, err := e.deck.DealOne()
	e.crashIfViolated(err == nil, "deck exhausted burning a card: %v", err)
	cs, err := e.deck.Deal(n)
	e.crashIfViolated(err == nil, "deck exhausted dealing community cards: %v", err)
	e.CommunityCards = append(e.CommunityCards, cs...)
	e.currentHistory.recordCommunity(cs)
}
