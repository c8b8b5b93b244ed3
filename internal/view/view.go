// Package view projects an engine.Snapshot into the state visible to one
// recipient, per spec.md §4.4 "Per-recipient view projection": a seated
// player sees their own hole cards always, everyone's at showdown or once
// voluntarily shown, and a spectator never sees a hole card that hasn't been
// shown.
package view

import (
	"github.com/jdstemmler/pokerd/internal/cards"
	"github.com/jdstemmler/pokerd/internal/engine"
)

// Spectator is the sentinel viewer ID for a connection watching the table
// without a seat.
const Spectator = "__spectator__"

// View is the per-recipient projection of a table's state, broadcast over
// the recipient's websocket connection.
type View struct {
	*engine.Snapshot
	ValidActions []engine.ValidAction `json:"valid_actions,omitempty"`
	MyCards      []cards.Card         `json:"my_cards,omitempty"`
}

// Project builds the View for viewerPlayerID, per spec.md §4.4: the
// players array never carries the recipient's own hole cards — those are
// sent separately as MyCards — and a spectator gets neither MyCards nor
// ValidActions.
func Project(eng *engine.Engine, snap *engine.Snapshot, viewerPlayerID string) *View {
	out := *snap
	seats := make([]engine.SeatView, len(snap.Seats))
	copy(seats, snap.Seats)
	for i := range seats {
		if seats[i].PlayerID == viewerPlayerID {
			seats[i].HoleCards = nil
		}
	}

	v := &View{Snapshot: &out}
	v.Seats = seats
	v.Snapshot.LastHandResult = filterHandResult(snap.LastHandResult, viewerPlayerID, snap.ShownCards)

	if viewerPlayerID != Spectator {
		v.MyCards = eng.HoleCardsOf(viewerPlayerID)

		if snap.HandActive && snap.ActionOnPlayerID == viewerPlayerID {
			if actions, err := eng.GetValidActions(viewerPlayerID); err == nil {
				v.ValidActions = actions
			}
		}
	}

	return v
}

// filterHandResult strips hole cards from r.PlayerHands for every player
// other than viewerPlayerID who hasn't voluntarily shown, per spec.md §4.4:
// "hand name remains visible for all revealed or shown players; cards only
// if the recipient is the player or the player is in shown_cards."
func filterHandResult(r *engine.LastHandResult, viewerPlayerID string, shownCards []string) *engine.LastHandResult {
	if r == nil {
		return nil
	}
	shown := make(map[string]bool, len(shownCards))
	for _, id := range shownCards {
		shown[id] = true
	}
	out := *r
	filtered := make(map[string]engine.PlayerHandResult, len(r.PlayerHands))
	for id, ph := range r.PlayerHands {
		if id != viewerPlayerID && !shown[id] {
			ph.Cards = nil
		}
		filtered[id] = ph
	}
	out.PlayerHands = filtered
	return &out
}
