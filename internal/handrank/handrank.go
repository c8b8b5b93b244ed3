// Package handrank implements the canonical 7-card -> best-5 hand ranking
// with a total order over (category, tiebreakers) that supports ties,
// including the wheel (A-2-3-4-5) low-straight special case.
package handrank

import (
	"fmt"
	"sort"

	"github.com/jdstemmler/pokerd/internal/cards"
)

// Category orders the ten hand categories from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[Category]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "Unknown"
}

// HandRank is (category, tiebreakers[]) with lexicographic total order.
type HandRank struct {
	Category    Category
	Tiebreakers []int
}

// Compare returns <0 if a<b, 0 if equal, >0 if a>b, lexicographically on
// (Category, Tiebreakers).
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Tiebreakers)
	if len(b.Tiebreakers) < n {
		n = len(b.Tiebreakers)
	}
	for i := 0; i < n; i++ {
		if d := a.Tiebreakers[i] - b.Tiebreakers[i]; d != 0 {
			return d
		}
	}
	return len(a.Tiebreakers) - len(b.Tiebreakers)
}

// Less reports whether a ranks below b.
func Less(a, b HandRank) bool { return Compare(a, b) < 0 }

// Equal reports a genuine tie.
func Equal(a, b HandRank) bool { return Compare(a, b) == 0 }

func (h HandRank) String() string {
	return fmt.Sprintf("%s%v", h.Category, h.Tiebreakers)
}

// ErrTooFewCards is a programmer error: evaluate requires >=5 cards.
var ErrTooFewCards = fmt.Errorf("handrank: need at least 5 cards to evaluate")

// Evaluate returns the HandRank of the best 5-card combination among 5..7
// cards. Fewer than 5 cards is a programmer error (fails loudly).
func Evaluate(hand []cards.Card) (HandRank, error) {
	if len(hand) < 5 {
		return HandRank{}, ErrTooFewCards
	}
	if len(hand) == 5 {
		return evaluate5(hand), nil
	}

	best := HandRank{Category: -1}
	forEachCombination(hand, 5, func(combo []cards.Card) {
		r := evaluate5(combo)
		if best.Category == -1 || Compare(r, best) > 0 {
			best = r
		}
	})
	return best, nil
}

// forEachCombination invokes fn once per C(len(items),k) subset, each time
// with a freshly allocated slice (safe for fn to retain a reference, though
// Evaluate does not).
func forEachCombination(items []cards.Card, k int, fn func([]cards.Card)) {
	n := len(items)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]cards.Card, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		fn(combo)

		// advance indices, odometer-style, skipping ahead when a wheel would
		// exceed n
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// evaluate5 classifies exactly 5 cards per spec.md §4.2's decision table.
func evaluate5(hand []cards.Card) HandRank {
	ranks := make([]int, 5)
	suits := make([]cards.Suit, 5)
	for i, c := range hand {
		ranks[i] = c.Rank
		suits[i] = c.Suit
	}

	flush := suits[0] == suits[1] && suits[0] == suits[2] && suits[0] == suits[3] && suits[0] == suits[4]

	sortedDesc := append([]int(nil), ranks...)
	sort.Sort(sort.Reverse(sort.IntSlice(sortedDesc)))

	straight, straightHigh := detectStraight(sortedDesc)

	freq := make(map[int]int)
	for _, r := range ranks {
		freq[r]++
	}

	// group ranks by count, each group sorted descending by rank
	byCount := map[int][]int{}
	for r, n := range freq {
		byCount[n] = append(byCount[n], r)
	}
	for n := range byCount {
		sort.Sort(sort.Reverse(sort.IntSlice(byCount[n])))
	}

	switch {
	case flush && straight && straightHigh == 14:
		return HandRank{Category: RoyalFlush, Tiebreakers: []int{14}}
	case flush && straight:
		return HandRank{Category: StraightFlush, Tiebreakers: []int{straightHigh}}
	case len(byCount[4]) == 1:
		quad := byCount[4][0]
		kicker := highestExcluding(sortedDesc, quad)
		return HandRank{Category: FourOfAKind, Tiebreakers: []int{quad, kicker}}
	case len(byCount[3]) == 1 && len(byCount[2]) == 1:
		return HandRank{Category: FullHouse, Tiebreakers: []int{byCount[3][0], byCount[2][0]}}
	case flush:
		return HandRank{Category: Flush, Tiebreakers: sortedDesc}
	case straight:
		return HandRank{Category: Straight, Tiebreakers: []int{straightHigh}}
	case len(byCount[3]) == 1:
		trip := byCount[3][0]
		kickers := excludingAll(sortedDesc, []int{trip})
		return HandRank{Category: ThreeOfAKind, Tiebreakers: append([]int{trip}, kickers...)}
	case len(byCount[2]) == 2:
		pairs := byCount[2] // already sorted desc
		kicker := excludingAll(sortedDesc, pairs)
		tb := append([]int{pairs[0], pairs[1]}, kicker...)
		return HandRank{Category: TwoPair, Tiebreakers: tb}
	case len(byCount[2]) == 1:
		pair := byCount[2][0]
		kickers := excludingAll(sortedDesc, []int{pair})
		return HandRank{Category: OnePair, Tiebreakers: append([]int{pair}, kickers...)}
	default:
		return HandRank{Category: HighCard, Tiebreakers: sortedDesc}
	}
}

// detectStraight reports whether 5 distinct-or-wheel ranks form a straight,
// and its high card (5 for the wheel A-2-3-4-5).
func detectStraight(sortedDesc []int) (bool, int) {
	// dedupe; a straight requires 5 distinct ranks
	uniq := make([]int, 0, 5)
	for i, r := range sortedDesc {
		if i == 0 || r != sortedDesc[i-1] {
			uniq = append(uniq, r)
		}
	}
	if len(uniq) != 5 {
		return false, 0
	}
	if uniq[0]-uniq[4] == 4 {
		return true, uniq[0]
	}
	// wheel: A,5,4,3,2 (sorted desc with ace high = 14)
	wheel := []int{14, 5, 4, 3, 2}
	isWheel := true
	for i := range wheel {
		if uniq[i] != wheel[i] {
			isWheel = false
			break
		}
	}
	if isWheel {
		return true, 5
	}
	return false, 0
}

func highestExcluding(sortedDesc []int, exclude int) int {
	for _, r := range sortedDesc {
		if r != exclude {
			return r
		}
	}
	return 0
}

func excludingAll(sortedDesc []int, exclude []int) []int {
	ex := make(map[int]int)
	for _, e := range exclude {
		ex[e]++
	}
	out := make([]int, 0, len(sortedDesc))
	for _, r := range sortedDesc {
		if ex[r] > 0 {
			ex[r]--
			continue
		}
		out = append(out, r)
	}
	return out
}

// DetermineWinners returns the ids whose HandRank equals the maximum among
// hands. Empty input returns an empty slice (no error).
func DetermineWinners(hands map[string]HandRank) []string {
	if len(hands) == 0 {
		return nil
	}
	ids := make([]string, 0, len(hands))
	for id := range hands {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := hands[ids[0]]
	for _, id := range ids[1:] {
		if Compare(hands[id], best) > 0 {
			best = hands[id]
		}
	}

	winners := make([]string, 0, len(ids))
	for _, id := range ids {
		if Equal(hands[id], best) {
			winners = append(winners, id)
		}
	}
	return winners
}
