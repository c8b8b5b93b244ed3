package handrank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdstemmler/pokerd/internal/cards"
)

func mustCards(t *testing.T, ss ...string) []cards.Card {
	t.Helper()
	out := make([]cards.Card, len(ss))
	for i, s := range ss {
		c, err := cards.ParseCard(s)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

// S6: the wheel A-2-3-4-5 evaluates to STRAIGHT(5), and loses to STRAIGHT(6).
func TestS6WheelStraight(t *testing.T) {
	wheel, err := Evaluate(mustCards(t, "Ah", "2d", "3c", "4s", "5h"))
	require.NoError(t, err)
	require.Equal(t, Straight, wheel.Category)
	require.Equal(t, []int{5}, wheel.Tiebreakers)

	six, err := Evaluate(mustCards(t, "6h", "5d", "4c", "3s", "2h"))
	require.NoError(t, err)
	require.Equal(t, Straight, six.Category)
	require.True(t, Less(wheel, six))
}

func TestRoyalFlush(t *testing.T) {
	r, err := Evaluate(mustCards(t, "Ah", "Kh", "Qh", "Jh", "Th"))
	require.NoError(t, err)
	require.Equal(t, RoyalFlush, r.Category)
}

func TestFullHouseOverFlush(t *testing.T) {
	fh, err := Evaluate(mustCards(t, "Ah", "Ad", "Ac", "Ks", "Kh"))
	require.NoError(t, err)
	require.Equal(t, FullHouse, fh.Category)
	require.Equal(t, []int{14, 13}, fh.Tiebreakers)

	fl, err := Evaluate(mustCards(t, "2h", "5h", "9h", "Jh", "Kh"))
	require.NoError(t, err)
	require.Equal(t, Flush, fl.Category)

	require.True(t, Less(fl, fh))
}

func TestSevenCardPicksBest(t *testing.T) {
	r, err := Evaluate(mustCards(t, "Ah", "Ad", "2c", "2s", "2h", "9d", "4c"))
	require.NoError(t, err)
	require.Equal(t, FullHouse, r.Category)
	require.Equal(t, []int{2, 14}, r.Tiebreakers)
}

func TestTwoPairTiebreakers(t *testing.T) {
	r, err := Evaluate(mustCards(t, "Kh", "Kd", "9c", "9s", "2h"))
	require.NoError(t, err)
	require.Equal(t, TwoPair, r.Category)
	require.Equal(t, []int{13, 9, 2}, r.Tiebreakers)
}

func TestDetermineWinnersTie(t *testing.T) {
	a, _ := Evaluate(mustCards(t, "Ah", "Kd", "Qc", "Js", "9h"))
	b, _ := Evaluate(mustCards(t, "Ad", "Kh", "Qs", "Jc", "9d"))
	c, _ := Evaluate(mustCards(t, "2h", "3d", "4c", "5s", "7h"))

	winners := DetermineWinners(map[string]HandRank{"a": a, "b": b, "c": c})
	require.ElementsMatch(t, []string{"a", "b"}, winners)
}

func TestDetermineWinnersEmpty(t *testing.T) {
	require.Empty(t, DetermineWinners(nil))
}

func TestTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		deck := cards.NewDeck(rng)
		hand1, _ := deck.Deal(7)
		deck2 := cards.NewDeck(rng)
		hand2, _ := deck2.Deal(7)

		a, err := Evaluate(hand1)
		require.NoError(t, err)
		b, err := Evaluate(hand2)
		require.NoError(t, err)

		lt := Compare(a, b) < 0
		gt := Compare(a, b) > 0
		eq := Compare(a, b) == 0
		count := 0
		for _, v := range []bool{lt, gt, eq} {
			if v {
				count++
			}
		}
		require.Equal(t, 1, count)
	}
}

func TestEvaluateTooFewCards(t *testing.T) {
	_, err := Evaluate(mustCards(t, "Ah", "Kd", "Qc", "Js"))
	require.ErrorIs(t, err, ErrTooFewCards)
}
