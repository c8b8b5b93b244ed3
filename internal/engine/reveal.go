package engine

// ShowCards voluntarily reveals playerID's hole cards from the hand just
// completed to all observers, per spec.md §4.4 "Voluntary reveal": refused
// while a hand is active, and refused if the seat holds no cards to show.
func (e *Engine) ShowCards(playerID string) (*Snapshot, error) {
	s := e.findSeat(playerID)
	if s == nil {
		return nil, ErrPlayerNotFound
	}
	if e.HandActive {
		return nil, ErrHandStillActive
	}
	if len(s.HoleCards) == 0 {
		return nil, ErrNoCardsToShow
	}
	if e.ShownCards == nil {
		e.ShownCards = map[string]bool{}
	}
	e.ShownCards[playerID] = true
	return e.BuildState(""), nil
}
