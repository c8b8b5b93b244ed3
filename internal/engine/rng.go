package engine

import (
	"math/rand"
	"time"
)

// rngState derives the RNG used to shuffle each hand's deck. When seeded
// (Config.Seed != 0), each hand's shuffle is deterministic but distinct
// (seed+hand_number), mirroring the teacher's pkg/poker/game.go
// derived-per-hand-seed convention so a seeded game reproduces identical
// deals hand-by-hand across restarts. When unseeded, each hand draws from a
// freshly time-seeded source — only the resulting deck order is persisted
// (see internal/store), so the generator itself never needs to survive a
// restore.
type rngState struct {
	seed   int64
	seeded bool
}

func newRNGState(seed int64) *rngState {
	return &rngState{seed: seed, seeded: seed != 0}
}

func (r *rngState) forHand(handNumber int) *rand.Rand {
	if r.seeded {
		return rand.New(rand.NewSource(r.seed + int64(handNumber)))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() + int64(handNumber)))
}
