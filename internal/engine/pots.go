package engine

import (
	"sort"

	"github.com/jdstemmler/pokerd/internal/cards"
	"github.com/jdstemmler/pokerd/internal/handrank"
)

// Pot is one side pot (or the main pot): an amount and the seat indices
// eligible to win it.
type Pot struct {
	Amount    int64
	Eligible  []int // seat indices, in seat order
}

// calculatePots partitions the total chips committed this hand into the main
// pot and any side pots, per spec.md §4.3 "Side pots": the sorted unique
// bet_this_hand levels of the seats still in the hand define pot boundaries,
// every non-sitting-out seat's chips between two levels (folded seats
// included) count toward that pot, and a seat is eligible for a pot if its
// bet_this_hand reaches that level and it has not folded. The last pot also
// takes any folded chips above the highest level.
func (e *Engine) calculatePots() []Pot {
	inHand := e.playersInHand()
	if len(inHand) == 0 {
		return nil
	}

	levelSet := map[int64]bool{}
	for _, i := range inHand {
		if b := e.Seats[i].BetThisHand; b > 0 {
			levelSet[b] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []Pot
	var prev int64
	for n, level := range levels {
		slice := level - prev
		if slice <= 0 {
			prev = level
			continue
		}
		var amount int64
		var eligible []int
		for i, s := range e.Seats {
			if s.IsSittingOut || s.BetThisHand <= prev {
				continue
			}
			if n == len(levels)-1 {
				amount += s.BetThisHand - prev
			} else {
				amount += min(slice, s.BetThisHand-prev)
			}
			if s.BetThisHand >= level && !s.Folded {
				eligible = append(eligible, i)
			}
		}
		if amount > 0 {
			pots = append(pots, Pot{Amount: amount, Eligible: eligible})
		}
		prev = level
	}

	return pots
}

// showdown evaluates every non-folded hand, awards each pot to its winner(s),
// and records LastHandResult, per spec.md §4.3 "Showdown". Uncalled bets
// (a pot with exactly one eligible seat) are refunded rather than recorded as
// a win.
func (e *Engine) showdown() {
	inHand := e.playersInHand()

	ranks := map[int]handrank.HandRank{}
	for _, i := range inHand {
		s := e.Seats[i]
		hand := make([]cards.Card, 0, len(s.HoleCards)+len(e.CommunityCards))
		hand = append(hand, s.HoleCards...)
		hand = append(hand, e.CommunityCards...)
		hr, err := handrank.Evaluate(hand)
		e.crashIfViolated(err == nil, "showdown evaluate failed for seat %d: %v", i, err)
		ranks[i] = hr
	}

	pots := e.calculatePots()

	var winners []WinnerRecord
	var refunds []RefundRecord
	playerHands := map[string]PlayerHandResult{}

	for _, i := range inHand {
		s := e.Seats[i]
		playerHands[s.PlayerID] = PlayerHandResult{Cards: s.HoleCards, HandName: ranks[i].Category.String()}
	}

	for _, pot := range pots {
		if len(pot.Eligible) == 1 {
			i := pot.Eligible[0]
			s := e.Seats[i]
			s.Chips += pot.Amount
			refunds = append(refunds, RefundRecord{PlayerID: s.PlayerID, Name: s.Name, Amount: pot.Amount})
			continue
		}

		best := pot.Eligible[0]
		for _, i := range pot.Eligible[1:] {
			if handrank.Less(ranks[best], ranks[i]) {
				best = i
			}
		}

		var tied []int
		for _, i := range pot.Eligible {
			if handrank.Equal(ranks[i], ranks[best]) {
				tied = append(tied, i)
			}
		}
		sort.Ints(tied)

		share := pot.Amount / int64(len(tied))
		remainder := pot.Amount % int64(len(tied))

		for n, i := range tied {
			amt := share
			if int64(n) < remainder {
				amt++
			}
			s := e.Seats[i]
			s.Chips += amt
			winners = append(winners, WinnerRecord{PlayerID: s.PlayerID, Name: s.Name, Winnings: amt, Hand: ranks[i].Category.String()})
		}
	}

	e.LastHandResult = &LastHandResult{
		Winners:        winners,
		Refunds:        refunds,
		Pot:            e.Pot,
		CommunityCards: e.CommunityCards,
		PlayerHands:    playerHands,
	}

	e.currentHistory.Winners = winners
	e.HandHistories = append(e.HandHistories, e.currentHistory)
	e.currentHistory = nil

	e.Pot = 0
	e.HandActive = false
	e.ActionDeadline = nil
	e.setAutoDealDeadline()
}

// awardPotToLastPlayer ends the hand immediately when only one seat remains
// unfolded (everyone else folded), refunding any amount that seat bet beyond
// what any opponent called, per spec.md §4.3 "Win by fold".
func (e *Engine) awardPotToLastPlayer() {
	inHand := e.playersInHand()
	e.crashIfViolated(len(inHand) == 1, "awardPotToLastPlayer called with %d players in hand", len(inHand))

	winnerIdx := inHand[0]
	winner := e.Seats[winnerIdx]

	var nextHighest int64
	for i, s := range e.Seats {
		if i == winnerIdx {
			continue
		}
		if s.BetThisHand > nextHighest {
			nextHighest = s.BetThisHand
		}
	}

	var refund int64
	if winner.BetThisHand > nextHighest {
		refund = winner.BetThisHand - nextHighest
	}

	winner.Chips += e.Pot

	var winners []WinnerRecord
	var refunds []RefundRecord
	if refund > 0 {
		winners = append(winners, WinnerRecord{PlayerID: winner.PlayerID, Name: winner.Name, Winnings: e.Pot - refund})
		refunds = append(refunds, RefundRecord{PlayerID: winner.PlayerID, Name: winner.Name, Amount: refund})
	} else {
		winners = append(winners, WinnerRecord{PlayerID: winner.PlayerID, Name: winner.Name, Winnings: e.Pot})
	}

	e.LastHandResult = &LastHandResult{
		Winners:        winners,
		Refunds:        refunds,
		Pot:            e.Pot,
		CommunityCards: e.CommunityCards,
		PlayerHands:    map[string]PlayerHandResult{},
	}

	e.currentHistory.Winners = winners
	e.HandHistories = append(e.HandHistories, e.currentHistory)
	e.currentHistory = nil

	e.Pot = 0
	e.HandActive = false
	e.ActionDeadline = nil
	e.setAutoDealDeadline()
}
