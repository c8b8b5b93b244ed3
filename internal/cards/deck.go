package cards

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Deck is an ordered sequence of cards; the top of the deck is index 0.
// Deals pop from the front. Shuffle uses an injected RNG so tests (and
// deterministic seeded games) can reproduce an exact sequence.
type Deck struct {
	cards []Card
}

// NewDeck builds all 52 cards in a stable suit-major, rank-minor order, then
// shuffles with rng. A nil rng leaves the deck in its stable order (tests
// that want a specific unshuffled deck pass nil and arrange cards themselves
// via NewDeckFromCards).
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, s := range allSuits {
		for rank := 2; rank <= 14; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: s})
		}
	}
	if rng != nil {
		d.Shuffle(rng)
	}
	return d
}

// NewDeckFromCards builds a deck from an explicit card sequence, preserving
// order exactly. Used by tests that need a rigged deck and by deserialization.
func NewDeckFromCards(cards []Card) *Deck {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	return &Deck{cards: cp}
}

// Shuffle randomizes the remaining cards in place using the Fisher-Yates
// algorithm driven by rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// ErrNotEnoughCards is returned by Deal when n exceeds the remaining count.
var ErrNotEnoughCards = fmt.Errorf("cards: not enough cards remaining")

// Deal removes the first n cards and returns them, in deck order.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrNotEnoughCards
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out, nil
}

// DealOne is Deal(1)[0].
func (d *Deck) DealOne() (Card, error) {
	cs, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return cs[0], nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns the remaining cards in deck order, without mutating the deck.
func (d *Deck) Cards() []Card {
	cp := make([]Card, len(d.cards))
	copy(cp, d.cards)
	return cp
}

// deckJSON is the persistence form: remaining cards in exact order. Restoring
// a serialized deck must not reshuffle.
type deckJSON struct {
	Cards []Card `json:"cards"`
}

// MarshalJSON preserves the remaining card order exactly.
func (d Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(deckJSON{Cards: d.cards})
}

// UnmarshalJSON restores the exact remaining order, no reshuffle.
func (d *Deck) UnmarshalJSON(data []byte) error {
	var dj deckJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return err
	}
	d.cards = dj.Cards
	return nil
}
