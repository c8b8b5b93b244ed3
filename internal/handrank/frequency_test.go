package handrank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdstemmler/pokerd/internal/cards"
)

// TestCategoryFrequency is spec.md §8 property 10: over 200,000 seeded 7-card
// deals, observed category frequencies must land within tolerance of the
// theoretical 7-card-hand distribution.
func TestCategoryFrequency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical sample in -short mode")
	}

	const trials = 200_000
	rng := rand.New(rand.NewSource(20260729))

	counts := make(map[Category]int)
	for i := 0; i < trials; i++ {
		deck := cards.NewDeck(rng)
		hand, err := deck.Deal(7)
		require.NoError(t, err)
		r, err := Evaluate(hand)
		require.NoError(t, err)
		counts[r.Category]++
	}

	// Theoretical 7-card hand frequencies (percent), per spec.md §8 property 10.
	expected := map[Category]float64{
		HighCard:      17.41,
		OnePair:       43.83,
		TwoPair:       23.50,
		ThreeOfAKind:  4.83,
		Straight:      4.62,
		Flush:         3.03,
		FullHouse:     2.60,
		FourOfAKind:   0.168,
		StraightFlush: 0.0279,
		RoyalFlush:    0.0032,
	}

	for cat, wantPct := range expected {
		gotPct := float64(counts[cat]) / float64(trials) * 100
		tolerance := 1.0
		if wantPct < 1.0 {
			tolerance = 0.1
		}
		require.InDeltaf(t, wantPct, gotPct, tolerance,
			"category %s: want ~%.4f%%, got %.4f%% (%d/%d)", cat, wantPct, gotPct, counts[cat], trials)
	}
}
