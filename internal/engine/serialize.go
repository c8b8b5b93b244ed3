package engine

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jdstemmler/pokerd/internal/cards"
)

// blobV1 is the on-disk shape persisted under the game:{code}:engine key
// (internal/store), per spec.md §6 and §9's versioned-struct guidance: a new
// field defaults to its zero value when decoding an older blob, and a field
// rename/removal bumps Version so FromBlob can special-case migration.
type blobV1 struct {
	Version int `json:"version"`

	Code      string `json:"code"`
	CreatorID string `json:"creator_id"`
	MaxSeats  int    `json:"max_seats"`

	SmallBlind           int64 `json:"small_blind"`
	BigBlind             int64 `json:"big_blind"`
	StartingChips        int64 `json:"starting_chips"`
	AllowRebuys          bool  `json:"allow_rebuys"`
	MaxRebuys            int   `json:"max_rebuys"`
	RebuyCutoffMinutes   int   `json:"rebuy_cutoff_minutes"`
	TurnTimeoutSeconds   int   `json:"turn_timeout_seconds"`
	AutoDealDelaySeconds int   `json:"auto_deal_delay_seconds"`

	BlindLevelDurationMinutes int          `json:"blind_level_duration_minutes"`
	BlindSchedule             []BlindLevel `json:"blind_schedule"`
	BlindLevel                int          `json:"blind_level"`

	Seats      []*Seat `json:"seats"`
	DealerIdx  int     `json:"dealer_idx"`
	HandNumber int     `json:"hand_number"`

	Deck           *cards.Deck    `json:"deck,omitempty"`
	CommunityCards []cards.Card   `json:"community_cards"`
	Street         Street         `json:"street"`
	Pot            int64          `json:"pot"`
	CurrentBet     int64          `json:"current_bet"`
	MinRaise       int64          `json:"min_raise"`
	HandActive     bool           `json:"hand_active"`
	ActionOnIdx    int            `json:"action_on_idx"`
	LastRaiserIdx  *int           `json:"last_raiser_idx"`

	ActionDeadline   *time.Time `json:"action_deadline"`
	AutoDealDeadline *time.Time `json:"auto_deal_deadline"`
	GameStartedAt    *time.Time `json:"game_started_at"`

	HandHistories  []*HandHistory `json:"hand_histories"`
	CurrentHistory *HandHistory   `json:"current_history,omitempty"`

	LastHandResult *LastHandResult `json:"last_hand_result"`

	ShownCards map[string]bool `json:"shown_cards"`

	Paused             bool    `json:"paused"`
	PausedAt           *time.Time `json:"paused_at"`
	TotalPausedSeconds float64 `json:"total_paused_seconds"`

	GameOver        bool   `json:"game_over"`
	GameOverMessage string `json:"game_over_message"`

	EliminationOrder []EliminationEntry `json:"elimination_order"`
	FinalStandings   []FinalStanding    `json:"final_standings"`

	RNGSeed int64 `json:"rng_seed"`
}

// ToBlob serializes the engine to its persisted JSON representation. The
// injected clock is not persisted — FromBlob callers must supply one (or
// accept the time.Now default) when restoring.
func (e *Engine) ToBlob() ([]byte, error) {
	b := blobV1{
		Version:                   1,
		Code:                      e.Code,
		CreatorID:                 e.CreatorID,
		MaxSeats:                  e.MaxSeats,
		SmallBlind:                e.SmallBlind,
		BigBlind:                  e.BigBlind,
		StartingChips:             e.StartingChips,
		AllowRebuys:               e.AllowRebuys,
		MaxRebuys:                 e.MaxRebuys,
		RebuyCutoffMinutes:        e.RebuyCutoffMinutes,
		TurnTimeoutSeconds:        e.TurnTimeoutSeconds,
		AutoDealDelaySeconds:      e.AutoDealDelaySeconds,
		BlindLevelDurationMinutes: e.BlindLevelDurationMinutes,
		BlindSchedule:             e.BlindSchedule,
		BlindLevel:                e.BlindLevel,
		Seats:                     e.Seats,
		DealerIdx:                 e.DealerIdx,
		HandNumber:                e.HandNumber,
		Deck:                      e.deck,
		CommunityCards:            e.CommunityCards,
		Street:                    e.Street,
		Pot:                       e.Pot,
		CurrentBet:                e.CurrentBet,
		MinRaise:                  e.MinRaise,
		HandActive:                e.HandActive,
		ActionOnIdx:               e.ActionOnIdx,
		LastRaiserIdx:             e.LastRaiserIdx,
		ActionDeadline:            e.ActionDeadline,
		AutoDealDeadline:          e.AutoDealDeadline,
		GameStartedAt:             e.GameStartedAt,
		HandHistories:             e.HandHistories,
		CurrentHistory:            e.currentHistory,
		LastHandResult:            e.LastHandResult,
		ShownCards:                e.ShownCards,
		Paused:                    e.Paused,
		PausedAt:                  e.PausedAt,
		TotalPausedSeconds:        e.TotalPausedSeconds,
		GameOver:                  e.GameOver,
		GameOverMessage:           e.GameOverMessage,
		EliminationOrder:          e.EliminationOrder,
		FinalStandings:            e.FinalStandings,
	}
	if e.rng != nil {
		b.RNGSeed = e.rng.seed
	}
	return json.Marshal(b)
}

// FromBlob reconstructs an Engine from a blob written by ToBlob. clock is
// injected fresh (time.Now if nil) since the persisted blob carries no clock.
//
// Decoding rejects unknown fields loudly rather than silently dropping them,
// per spec.md §9: a blob written by a newer version of pokerd that this
// binary doesn't understand should fail closed, not load with the unknown
// data quietly discarded.
func FromBlob(data []byte, clock func() time.Time) (*Engine, error) {
	var b blobV1
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}

	e := &Engine{
		Code:                      b.Code,
		CreatorID:                 b.CreatorID,
		MaxSeats:                  b.MaxSeats,
		SmallBlind:                b.SmallBlind,
		BigBlind:                  b.BigBlind,
		StartingChips:             b.StartingChips,
		AllowRebuys:               b.AllowRebuys,
		MaxRebuys:                 b.MaxRebuys,
		RebuyCutoffMinutes:        b.RebuyCutoffMinutes,
		TurnTimeoutSeconds:        b.TurnTimeoutSeconds,
		AutoDealDelaySeconds:      b.AutoDealDelaySeconds,
		BlindLevelDurationMinutes: b.BlindLevelDurationMinutes,
		BlindSchedule:             b.BlindSchedule,
		BlindLevel:                b.BlindLevel,
		Seats:                     b.Seats,
		DealerIdx:                 b.DealerIdx,
		HandNumber:                b.HandNumber,
		deck:                      b.Deck,
		CommunityCards:            b.CommunityCards,
		Street:                    b.Street,
		Pot:                       b.Pot,
		CurrentBet:                b.CurrentBet,
		MinRaise:                  b.MinRaise,
		HandActive:                b.HandActive,
		ActionOnIdx:               b.ActionOnIdx,
		LastRaiserIdx:             b.LastRaiserIdx,
		ActionDeadline:            b.ActionDeadline,
		AutoDealDeadline:          b.AutoDealDeadline,
		GameStartedAt:             b.GameStartedAt,
		HandHistories:             b.HandHistories,
		currentHistory:            b.CurrentHistory,
		LastHandResult:            b.LastHandResult,
		ShownCards:                b.ShownCards,
		Paused:                    b.Paused,
		PausedAt:                  b.PausedAt,
		TotalPausedSeconds:        b.TotalPausedSeconds,
		GameOver:                  b.GameOver,
		GameOverMessage:           b.GameOverMessage,
		EliminationOrder:          b.EliminationOrder,
		FinalStandings:            b.FinalStandings,
		rng:                       newRNGState(b.RNGSeed),
		clock:                     clock,
	}
	if e.ShownCards == nil {
		e.ShownCards = map[string]bool{}
	}
	return e, nil
}
