package engine

import (
	"math"
	"sort"
	"time"
)

// niceBlindMultipliers are the standard tournament-chip multipliers spec.md
// §4.3 "nice_blind" snaps to, combined with powers of ten 10^0..10^5.
var niceBlindMultipliers = []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 8}

var niceBlindValues = buildNiceBlindValues()

func buildNiceBlindValues() []float64 {
	vals := make([]float64, 0, len(niceBlindMultipliers)*6)
	for d := 0; d <= 5; d++ {
		pow := math.Pow10(d)
		for _, f := range niceBlindMultipliers {
			vals = append(vals, f*pow)
		}
	}
	sort.Float64s(vals)
	return vals
}

// niceBlind snaps v to the nearest value in the standard set; equidistant
// ties pick the lower value.
func niceBlind(v float64) int64 {
	if v <= niceBlindValues[0] {
		return int64(niceBlindValues[0])
	}
	best := niceBlindValues[0]
	bestDist := math.Abs(v - best)
	for _, cand := range niceBlindValues[1:] {
		d := math.Abs(v - cand)
		if d < bestDist || (d == bestDist && cand < best) {
			best = cand
			bestDist = d
		}
	}
	return int64(best)
}

func sbFor(bb int64) int64 {
	sb := bb / 2
	if sb < 1 {
		sb = 1
	}
	return sb
}

func dedupLevels(levels []BlindLevel) []BlindLevel {
	out := levels[:0:0]
	for _, l := range levels {
		if len(out) > 0 && out[len(out)-1] == l {
			continue
		}
		out = append(out, l)
	}
	return out
}

// buildScheduleFrom builds a schedule starting from the given initial blinds
// using the legacy fixed default-schedule levels >= the starting blinds —
// engine.py's GameEngine._build_schedule_from, used when a level duration is
// configured without an explicit target game time.
func buildScheduleFrom(startSB, startBB int64) []BlindLevel {
	defaultSchedule := []BlindLevel{
		{10, 20}, {15, 30}, {20, 40}, {30, 60}, {50, 100}, {75, 150},
		{100, 200}, {150, 300}, {200, 400}, {300, 600}, {500, 1000},
	}
	schedule := []BlindLevel{{startSB, startBB}}
	for _, lvl := range defaultSchedule {
		if lvl.SmallBlind > startSB {
			schedule = append(schedule, lvl)
		}
	}
	return schedule
}

// BuildSchedule builds a three-phase blind schedule targeting a total game
// duration, per spec.md §4.3 "Blind schedule":
//   - Phase 1 (linear): first ceil(N/2) levels, BB = nice_blind(bbInitial*(i+1)).
//   - Phase 2 (geometric): remaining levels up to N+2, ratio >= 1.2, targeting
//     startingChips as the asymptotic stack size.
//   - Phase 3 (overtime): appended at 1.5x per level until BB >= 3*startingChips,
//     each level strictly exceeding the previous.
func BuildSchedule(startingChips int64, targetGameTimeMinutes, levelDurationMinutes int) []BlindLevel {
	if levelDurationMinutes <= 0 {
		levelDurationMinutes = 1
	}
	bbInitial := niceBlind(float64(startingChips) / 100)
	if bbInitial < 2 {
		bbInitial = 2
	}

	n := targetGameTimeMinutes / levelDurationMinutes
	if n < 3 {
		n = 3
	}

	phase1Count := (n + 1) / 2 // ceil(n/2)

	levels := make([]BlindLevel, 0, n+2)
	var lastBB int64
	for i := 0; i < phase1Count; i++ {
		bb := niceBlind(float64(bbInitial) * float64(i+1))
		levels = append(levels, BlindLevel{SmallBlind: sbFor(bb), BigBlind: bb})
		lastBB = bb
	}

	totalThroughPhase2 := n + 2
	phase2Count := totalThroughPhase2 - phase1Count
	if phase2Count > 0 {
		ratio := 1.2
		if phase2Count > 1 {
			r := math.Pow(float64(startingChips)/float64(lastBB), 1.0/float64(phase2Count-1))
			if r > ratio {
				ratio = r
			}
		}
		base := float64(lastBB)
		for i := 1; i <= phase2Count; i++ {
			bb := niceBlind(base * math.Pow(ratio, float64(i)))
			if bb <= lastBB {
				bb = lastBB + 1
			}
			levels = append(levels, BlindLevel{SmallBlind: sbFor(bb), BigBlind: bb})
			lastBB = bb
		}
	}

	overtimeCeiling := 3 * startingChips
	for lastBB < overtimeCeiling {
		bb := niceBlind(float64(lastBB) * 1.5)
		if bb <= lastBB {
			bb = lastBB + 1
		}
		levels = append(levels, BlindLevel{SmallBlind: sbFor(bb), BigBlind: bb})
		lastBB = bb
	}

	return dedupLevels(levels)
}

// maybeAdvanceBlindLevel advances the engine's current blind level according
// to effective elapsed time, per spec.md §4.3 "Advancing during play".
func (e *Engine) maybeAdvanceBlindLevel() {
	if e.BlindLevelDurationMinutes <= 0 || len(e.BlindSchedule) == 0 || e.GameStartedAt == nil {
		return
	}

	elapsedMinutes := e.effectiveElapsed().Minutes()
	targetLevel := int(elapsedMinutes / float64(e.BlindLevelDurationMinutes))

	for targetLevel >= len(e.BlindSchedule) {
		last := e.BlindSchedule[len(e.BlindSchedule)-1]
		bb := niceBlind(float64(last.BigBlind) * 1.5)
		if bb <= last.BigBlind {
			bb = last.BigBlind + 1
		}
		e.BlindSchedule = append(e.BlindSchedule, BlindLevel{SmallBlind: sbFor(bb), BigBlind: bb})
	}

	if targetLevel > e.BlindLevel {
		e.BlindLevel = targetLevel
		lvl := e.BlindSchedule[e.BlindLevel]
		e.SmallBlind = lvl.SmallBlind
		e.BigBlind = lvl.BigBlind
	}
}

// secondsToDurationFloat converts a fractional-second count (as accumulated
// in Engine.TotalPausedSeconds) to a time.Duration.
func secondsToDurationFloat(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// effectiveElapsed returns elapsed game time excluding paused time, per
// spec.md §4.3 "effective elapsed".
func (e *Engine) effectiveElapsed() time.Duration {
	if e.GameStartedAt == nil {
		return 0
	}
	now := e.now()
	if e.Paused && e.PausedAt != nil {
		now = *e.PausedAt
	}
	elapsed := now.Sub(*e.GameStartedAt)
	return elapsed - secondsToDurationFloat(e.TotalPausedSeconds)
}

// getNextBlindChangeAt returns the timestamp the next blind level begins, or
// nil if there is no next level, the schedule is exhausted, or paused.
func (e *Engine) getNextBlindChangeAt() *time.Time {
	if e.BlindLevelDurationMinutes <= 0 || len(e.BlindSchedule) == 0 || e.GameStartedAt == nil {
		return nil
	}
	if e.BlindLevel >= len(e.BlindSchedule)-1 {
		return nil
	}
	if e.Paused {
		return nil
	}
	nextLevel := e.BlindLevel + 1
	t := e.GameStartedAt.Add(secondsToDurationFloat(e.TotalPausedSeconds)).Add(minutesToDuration(nextLevel * e.BlindLevelDurationMinutes))
	return &t
}
