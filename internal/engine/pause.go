package engine

// Pause suspends the game clock (blind-level advancement and deadlines),
// per spec.md §4.3 "Pause/unpause". It is refused while a hand is in
// progress so an action deadline can never tick away mid-hand.
func (e *Engine) Pause() (*Snapshot, error) {
	if e.Paused {
		return nil, ErrAlreadyPaused
	}
	if e.HandActive {
		return nil, ErrCannotPauseDuringHand
	}
	now := e.now()
	e.Paused = true
	e.PausedAt = &now
	e.AutoDealDeadline = nil
	return e.BuildState(""), nil
}

// Unpause resumes the game clock, folding the elapsed pause duration into
// TotalPausedSeconds so blind-level and rebuy-cutoff accounting stays
// accurate across the pause.
func (e *Engine) Unpause() (*Snapshot, error) {
	if !e.Paused {
		return nil, ErrNotPaused
	}
	if e.PausedAt != nil {
		e.TotalPausedSeconds += e.now().Sub(*e.PausedAt).Seconds()
	}
	e.Paused = false
	e.PausedAt = nil
	e.setAutoDealDeadline()
	return e.BuildState(""), nil
}
