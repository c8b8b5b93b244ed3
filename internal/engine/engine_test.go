package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, n int) *Engine {
	t.Helper()
	seats := make([]SeatConfig, n)
	for i := range seats {
		seats[i] = SeatConfig{PlayerID: string(rune('A' + i)), Name: string(rune('A' + i))}
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(Config{
		Code:          "TEST",
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		Seed:          42,
		Clock:         func() time.Time { return now },
	}, seats)
	return eng
}

func totalChips(e *Engine) int64 {
	var total int64
	for _, s := range e.Seats {
		total += s.Chips
	}
	return total + e.Pot
}

// TestChipConservation is property 1: the sum of every seat's chips plus the
// pot never changes across a hand's lifecycle.
func TestChipConservation(t *testing.T) {
	eng := newTestEngine(t, 3)
	before := totalChips(eng)
	require.Equal(t, int64(3000), before)

	eng.StartNewHand()
	require.Equal(t, before, totalChips(eng))

	for !eng.GameOver && totalChips(eng) == before {
		if !eng.HandActive {
			break
		}
		actor := eng.Seats[eng.ActionOnIdx].PlayerID
		_, err := eng.ProcessAction(actor, ActionCall, 0)
		require.NoError(t, err)
		require.Equal(t, before, totalChips(eng))
	}
}

// TestSingleActor is property 2: while a hand is active, exactly one seat
// is on action, and it must be able to act.
func TestSingleActor(t *testing.T) {
	eng := newTestEngine(t, 3)
	eng.StartNewHand()
	require.True(t, eng.HandActive)

	actor := eng.Seats[eng.ActionOnIdx]
	require.True(t, actor.IsActive())
}

// TestNoDuplicateCards is property 3: the deck, hole cards, and community
// cards never share a card.
func TestNoDuplicateCards(t *testing.T) {
	eng := newTestEngine(t, 4)
	eng.StartNewHand()

	seen := map[string]bool{}
	for _, s := range eng.Seats {
		for _, c := range s.HoleCards {
			require.False(t, seen[c.String()], "duplicate card %s", c.String())
			seen[c.String()] = true
		}
	}
	for _, c := range eng.CommunityCards {
		require.False(t, seen[c.String()], "duplicate card %s", c.String())
		seen[c.String()] = true
	}
	for _, c := range eng.deck.Cards() {
		require.False(t, seen[c.String()], "duplicate card %s", c.String())
		seen[c.String()] = true
	}
	require.Equal(t, 52, len(seen))
}

// TestHeadsUpBlinds: with two players, the dealer posts the small blind.
func TestHeadsUpBlinds(t *testing.T) {
	eng := newTestEngine(t, 2)
	eng.StartNewHand()

	dealer := eng.Seats[eng.DealerIdx]
	require.Equal(t, int64(1000-10), dealer.Chips)
}

// TestFoldEndsHandImmediately: when everyone else folds, the sole remaining
// seat is immediately awarded the pot without a showdown.
func TestFoldEndsHandImmediately(t *testing.T) {
	eng := newTestEngine(t, 2)
	eng.StartNewHand()
	before := totalChips(eng)

	actor := eng.Seats[eng.ActionOnIdx].PlayerID
	snap, err := eng.ProcessAction(actor, ActionFold, 0)
	require.NoError(t, err)
	require.False(t, snap.HandActive)
	require.Equal(t, before, totalChips(eng))
	require.NotNil(t, eng.LastHandResult)
	require.Len(t, eng.LastHandResult.Winners, 1)
}

// TestMonotoneHandNumber is property 5: hand_number strictly increases each
// StartNewHand call while the game is not over.
func TestMonotoneHandNumber(t *testing.T) {
	eng := newTestEngine(t, 3)
	var last int
	for i := 0; i < 5; i++ {
		eng.StartNewHand()
		require.Greater(t, eng.HandNumber, last)
		last = eng.HandNumber

		for eng.HandActive {
			actor := eng.Seats[eng.ActionOnIdx].PlayerID
			_, err := eng.ProcessAction(actor, ActionCall, 0)
			require.NoError(t, err)
		}
	}
}

// TestSerializeRoundTrip is property 7: ToBlob/FromBlob round-trips engine
// state exactly for the fields that matter to resumed play.
func TestSerializeRoundTrip(t *testing.T) {
	eng := newTestEngine(t, 3)
	eng.StartNewHand()

	blob, err := eng.ToBlob()
	require.NoError(t, err)

	restored, err := FromBlob(blob, func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	require.NoError(t, err)

	require.Equal(t, eng.Code, restored.Code)
	require.Equal(t, eng.HandNumber, restored.HandNumber)
	require.Equal(t, eng.Pot, restored.Pot)
	require.Equal(t, len(eng.Seats), len(restored.Seats))
	for i := range eng.Seats {
		require.Equal(t, eng.Seats[i].Chips, restored.Seats[i].Chips)
		require.Equal(t, eng.Seats[i].PlayerID, restored.Seats[i].PlayerID)
	}
}

// TestRebuyRoundTrip is property 9: a rebuy requested while a hand is active
// queues and is honored exactly once at the start of the next hand, and is
// cancellable beforehand.
func TestRebuyRoundTrip(t *testing.T) {
	eng := newTestEngine(t, 3)
	eng.AllowRebuys = true
	eng.Seats[0].Chips = 0
	eng.HandActive = true

	_, err := eng.CancelRebuy("A")
	require.ErrorIs(t, err, ErrNoRebuyQueued)

	_, err = eng.Rebuy("A")
	require.NoError(t, err)
	require.True(t, eng.Seats[0].RebuyQueued)

	_, err = eng.CancelRebuy("A")
	require.NoError(t, err)
	require.False(t, eng.Seats[0].RebuyQueued)

	_, err = eng.Rebuy("A")
	require.NoError(t, err)

	eng.HandActive = false
	eng.StartNewHand()
	require.Equal(t, eng.StartingChips, eng.Seats[0].Chips+eng.Seats[0].BetThisHand)
	require.Equal(t, 1, eng.Seats[0].RebuyCount)
}

// TestRebuyImmediateWhenNoHandActive is spec.md §4.3's other rebuy path: a
// rebuy requested between hands restores chips immediately instead of
// queuing.
func TestRebuyImmediateWhenNoHandActive(t *testing.T) {
	eng := newTestEngine(t, 3)
	eng.AllowRebuys = true
	eng.Seats[0].Chips = 0

	_, err := eng.Rebuy("A")
	require.NoError(t, err)
	require.False(t, eng.Seats[0].RebuyQueued)
	require.Equal(t, eng.StartingChips, eng.Seats[0].Chips)
	require.Equal(t, 1, eng.Seats[0].RebuyCount)
	require.False(t, eng.Seats[0].IsSittingOut)
}

// TestBlindScheduleMonotonicAndInSet is spec.md's scenario S5: the built
// schedule's early levels match the documented expectation, every level is
// in the standard set, and the schedule is non-decreasing and reaches at
// least 3x the starting stack.
func TestBlindScheduleMonotonicAndInSet(t *testing.T) {
	schedule := BuildSchedule(5000, 240, 20)
	require.GreaterOrEqual(t, len(schedule), 3)
	require.Equal(t, int64(50), schedule[0].BigBlind)
	require.Equal(t, int64(100), schedule[1].BigBlind)
	require.Equal(t, int64(150), schedule[2].BigBlind)

	var max int64
	for i, lvl := range schedule {
		require.Contains(t, niceBlindValues, float64(lvl.BigBlind))
		if i > 0 {
			require.GreaterOrEqual(t, lvl.BigBlind, schedule[i-1].BigBlind)
		}
		if lvl.BigBlind > max {
			max = lvl.BigBlind
		}
	}
	require.GreaterOrEqual(t, max, int64(15000))
}

func TestNiceBlindSnapsToStandardSet(t *testing.T) {
	require.Equal(t, int64(50), niceBlind(50))
	require.Equal(t, int64(50), niceBlind(48))
	require.Equal(t, int64(1), niceBlind(1))
}

// TestPauseUnpauseAccumulatesPausedTime verifies pause accounting excludes
// paused duration from effective elapsed time used for blind advancement.
func TestPauseUnpauseAccumulatesPausedTime(t *testing.T) {
	cur := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return cur }

	seats := []SeatConfig{{PlayerID: "A", Name: "A"}, {PlayerID: "B", Name: "B"}, {PlayerID: "C", Name: "C"}}
	eng := NewEngine(Config{
		Code: "PAUSE", StartingChips: 1000, SmallBlind: 10, BigBlind: 20,
		BlindLevelDurationMinutes: 10, TargetGameTimeMinutes: 60,
		Seed: 1, Clock: clock,
	}, seats)
	eng.StartNewHand()
	for eng.HandActive {
		actor := eng.Seats[eng.ActionOnIdx].PlayerID
		_, _ = eng.ProcessAction(actor, ActionCall, 0)
	}

	_, err := eng.Pause()
	require.NoError(t, err)
	cur = cur.Add(30 * time.Minute)
	_, err = eng.Unpause()
	require.NoError(t, err)

	require.InDelta(t, 1800.0, eng.TotalPausedSeconds, 0.01)
	require.Less(t, eng.effectiveElapsed(), 1*time.Minute)
}
