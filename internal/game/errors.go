package game

import (
	"errors"
	"fmt"
)

// Rule violations are ordinary errors: state is unchanged and the caller
// must not retry automatically.
var (
	ErrGameFinished     = errors.New("game is finished")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("cannot play now")
	ErrNoPlaysRemaining = errors.New("no plays remaining")
	ErrInvalidCard      = errors.New("invalid card")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrNoPendingAction  = errors.New("no pending action")
	ErrNotYourResponse  = errors.New("not your turn to respond")
	ErrNoOpsecCard      = errors.New("no OPSEC card in hand")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrPendingAction    = errors.New("resolve pending action first")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrEliminated       = errors.New("player is eliminated")
)

// PaymentDueError reports that a responder's accept needs card selection:
// either none was supplied, or the supplied cards fall short of the amount
// while the responder can still cover it. The caller re-prompts (a human
// sees a modal; a bot surrenders everything it owns).
type PaymentDueError struct {
	Amount int
}

func (e *PaymentDueError) Error() string {
	return fmt.Sprintf("payment of %dM due, select cards to pay with", e.Amount)
}

// DiscardRequiredError reports that end-turn was refused because the hand
// exceeds the limit; Excess cards must be named. Fails closed: the turn
// pointer has not moved.
type DiscardRequiredError struct {
	Excess int
}

func (e *DiscardRequiredError) Error() string {
	return fmt.Sprintf("must discard %d cards down to the hand limit", e.Excess)
}
