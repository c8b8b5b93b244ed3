package handrank

import (
	"math/rand"
	"testing"

	chehsunliu "github.com/chehsunliu/poker"
	"github.com/stretchr/testify/require"

	"github.com/jdstemmler/pokerd/internal/cards"
)

// toChehsunliu mirrors the teacher's convertCardToChehsunliu: chehsunliu.NewCard
// wants a two-character string like "Ah".
func toChehsunliu(t *testing.T, hand []cards.Card) []chehsunliu.Card {
	t.Helper()
	out := make([]chehsunliu.Card, len(hand))
	for i, c := range hand {
		out[i] = chehsunliu.NewCard(c.String())
	}
	return out
}

// TestCrossValidateAgainstChehsunliu draws random 7-card hands and checks that
// our ordering over a batch of hands agrees with chehsunliu/poker's ordering
// (lower chehsunliu rank is better; our Category/Tiebreakers must agree on
// pairwise comparisons). This is a test-only oracle dependency: chehsunliu's
// opaque rank int doesn't expose the decomposed tiebreakers spec.md requires,
// so it can't back the production evaluator, but it is a strong independent
// check on category/ordering correctness.
func TestCrossValidateAgainstChehsunliu(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 500; i++ {
		deck := cards.NewDeck(rng)
		handA, _ := deck.Deal(7)
		handB, _ := deck.Deal(7)

		ours := func(h []cards.Card) HandRank {
			r, err := Evaluate(h)
			require.NoError(t, err)
			return r
		}
		rA, rB := ours(handA), ours(handB)

		theirA := chehsunliu.Evaluate(toChehsunliu(t, handA))
		theirB := chehsunliu.Evaluate(toChehsunliu(t, handB))

		ourCmp := Compare(rA, rB)
		// chehsunliu: lower is better, so invert sign to compare orderings.
		theirCmp := int(theirB) - int(theirA)

		require.Equal(t, sign(ourCmp), sign(theirCmp), "hand %d disagreement: ours=%v vs %v, chehsunliu=%d vs %d", i, rA, rB, theirA, theirB)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
