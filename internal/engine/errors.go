package engine

import "errors"

// EngineError is the closed set of user-surface error kinds from spec.md §7.
// The HTTP transport (internal/transport/httpapi) answers every EngineError
// with HTTP 400 and {detail: string}.
type EngineError struct {
	kind string
	msg  string
}

func (e *EngineError) Error() string { return e.msg }

// Kind returns the stable error-kind name, usable for errors.Is comparisons
// against the sentinel values below.
func (e *EngineError) Kind() string { return e.kind }

func newErr(kind, msg string) *EngineError {
	return &EngineError{kind: kind, msg: msg}
}

// Is implements errors.Is support: two EngineErrors are equal if their kinds
// match, independent of the human message.
func (e *EngineError) Is(target error) bool {
	var other *EngineError
	if errors.As(target, &other) {
		return other.kind == e.kind
	}
	return false
}

// Sentinel error kinds from spec.md §7.
var (
	ErrGameNotFound           = newErr("GameNotFound", "game not found")
	ErrPlayerNotFound         = newErr("PlayerNotFound", "player not found")
	ErrInvalidPin             = newErr("InvalidPin", "invalid pin")
	ErrGameNotInLobby         = newErr("GameNotInLobby", "game is not in lobby")
	ErrGameFull               = newErr("GameFull", "game is full")
	ErrNameTaken              = newErr("NameTaken", "name already taken")
	ErrNotYourTurn            = newErr("NotYourTurn", "not your turn")
	ErrNoActiveHand           = newErr("NoActiveHand", "no active hand")
	ErrCannotCheck            = newErr("CannotCheck", "cannot check, must call or fold")
	ErrMustMeetMinRaise       = newErr("MustMeetMinRaise", "raise does not meet the minimum raise")
	ErrRebuysDisabled         = newErr("RebuysDisabled", "rebuys are not allowed")
	ErrNotBusted              = newErr("NotBusted", "player still has chips")
	ErrMaxRebuysReached       = newErr("MaxRebuysReached", "maximum rebuys reached")
	ErrCutoffPassed           = newErr("CutoffPassed", "rebuy window has closed")
	ErrAlreadyQueued          = newErr("AlreadyQueued", "rebuy already queued")
	ErrNoRebuyQueued          = newErr("NoRebuyQueued", "no rebuy queued")
	ErrNotEnoughPlayers       = newErr("NotEnoughPlayers", "not enough players to continue")
	ErrHandStillActive        = newErr("HandStillActive", "hand is still active")
	ErrAlreadyPaused          = newErr("AlreadyPaused", "game is already paused")
	ErrNotPaused              = newErr("NotPaused", "game is not paused")
	ErrCannotPauseDuringHand  = newErr("CannotPauseDuringHand", "cannot pause during an active hand")
	ErrPlayerCannotAct        = newErr("PlayerCannotAct", "player cannot act")
	ErrUnknownAction          = newErr("UnknownAction", "unknown action")
	ErrGamePaused             = newErr("GamePaused", "game is paused")
	ErrNoCardsToShow          = newErr("NoCardsToShow", "no cards to show")
)

// InvariantViolation is a fatal condition per spec.md §7: the caller must
// crash the process loudly, logging the offending blob.
type InvariantViolation struct {
	msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.msg }

func newInvariantViolation(msg string) *InvariantViolation {
	return &InvariantViolation{msg: msg}
}
