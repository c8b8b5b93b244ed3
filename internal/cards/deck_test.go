package cards

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	require.Len(t, seen, 52)
}

func TestDealRemovesFromFront(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	before := d.Cards()
	dealt, err := d.Deal(3)
	require.NoError(t, err)
	require.Equal(t, before[:3], dealt)
	require.Equal(t, 49, d.Remaining())
}

func TestDealNotEnoughCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	_, err := d.Deal(53)
	require.ErrorIs(t, err, ErrNotEnoughCards)
}

func TestDealOne(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	top := d.Cards()[0]
	c, err := d.DealOne()
	require.NoError(t, err)
	require.Equal(t, top, c)
}

func TestDeckRoundTripPreservesOrder(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(42)))
	_, _ = d.Deal(10)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var restored Deck
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, d.Cards(), restored.Cards())
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, s := range []string{"Ah", "Ts", "2c", "Kd"} {
		c, err := ParseCard(s)
		require.NoError(t, err)
		require.Equal(t, s, c.String())
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	c := Card{Rank: 14, Suit: Hearts}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"rank":14,"suit":"h"}`, string(data))

	var out Card
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, c, out)
}
