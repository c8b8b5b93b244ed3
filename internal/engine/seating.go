package engine

// SeatPlayer adds playerID to the table at StartingChips, per spec.md §4.2
// "Joining a table". A playerID that is already seated gets the current
// state back (reconnect) at any point. A new player is rejected once the
// first hand has been dealt or the game is over — joining is a lobby-only
// operation; a player who leaves and returns mid-game re-enters via a rebuy
// instead.
func (e *Engine) SeatPlayer(playerID, name string) (*Snapshot, error) {
	if _, ok := e.findSeatIdx(playerID); ok {
		return e.BuildState(""), nil
	}
	if e.GameOver || e.HandNumber > 0 {
		return nil, ErrGameNotInLobby
	}
	if e.MaxSeats > 0 && len(e.Seats) >= e.MaxSeats {
		return nil, ErrGameFull
	}
	for _, s := range e.Seats {
		if s.Name == name {
			return nil, ErrNameTaken
		}
	}

	if len(e.Seats) == 0 && e.CreatorID == "" {
		e.CreatorID = playerID
	}
	e.Seats = append(e.Seats, &Seat{
		PlayerID: playerID,
		Name:     name,
		Chips:    e.StartingChips,
	})
	return e.BuildState(""), nil
}
