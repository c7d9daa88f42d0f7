// Package betting validates player actions against the state of a betting
// round. Validation is a pure function of its inputs: it never decides turn
// order or street transitions, and a rejected action leaves the caller's
// state untouched.
package betting

import (
	"fmt"

	"github.com/lox/pokerengine/poker"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction parses the lower-case action name
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Request is a proposed action together with the table state it is judged
// against. All amounts are chips.
type Request struct {
	Action Action
	// Amount is the street total a raise goes to. Ignored for other actions.
	Amount int
	// Stack is the player's remaining chips behind.
	Stack int
	// Committed is what the player has already put in on this street.
	Committed int
	// CurrentBet is the highest street commitment at the table.
	CurrentBet int
	BigBlind   int
}

// ToCall returns the chips needed to match the current bet
func (r Request) ToCall() int {
	if r.CurrentBet <= r.Committed {
		return 0
	}
	return r.CurrentBet - r.Committed
}

// MinRaiseTo returns the smallest legal raise-to total
func (r Request) MinRaiseTo() int {
	return r.CurrentBet + r.BigBlind
}

// Decision is the outcome of validating a Request
type Decision struct {
	Accepted bool
	// Action is the action actually applied. An under-funded call or an
	// oversized raise becomes AllIn.
	Action Action
	// Amount is the number of chips moving from the stack into the pot.
	Amount int
	AllIn  bool
	// Reason explains a rejection.
	Reason string
}

func reject(req Request, kind error, format string, args ...any) (Decision, error) {
	err := fmt.Errorf("%s: %s: %w", req.Action, fmt.Sprintf(format, args...), kind)
	return Decision{Action: req.Action, Reason: err.Error()}, err
}

func accept(action Action, amount, stack int) (Decision, error) {
	allIn := amount == stack && amount > 0
	if allIn && action != Fold && action != Check {
		action = AllIn
	}
	return Decision{Accepted: true, Action: action, Amount: amount, AllIn: allIn}, nil
}

// Validate checks a proposed action and returns the chips it commits.
//
// Rejections wrap poker.ErrIllegalAction for rule violations (checking
// while facing a bet, raising below the minimum without going all-in) and
// poker.ErrPrecondition for inputs that cannot describe a real action
// (no chips, negative amounts, no big blind, a street commitment above the
// current bet).
func Validate(req Request) (Decision, error) {
	if req.Action == Fold {
		return Decision{Accepted: true, Action: Fold}, nil
	}

	switch {
	case req.Stack <= 0:
		return reject(req, poker.ErrPrecondition, "player has no chips")
	case req.Committed < 0 || req.CurrentBet < 0 || req.Amount < 0:
		return reject(req, poker.ErrPrecondition, "negative amount")
	case req.BigBlind <= 0:
		return reject(req, poker.ErrPrecondition, "big blind must be positive, got %d", req.BigBlind)
	case req.Committed > req.CurrentBet:
		return reject(req, poker.ErrPrecondition, "committed %d exceeds current bet %d", req.Committed, req.CurrentBet)
	}

	toCall := req.ToCall()

	switch req.Action {
	case Check:
		if req.Committed != req.CurrentBet {
			return reject(req, poker.ErrIllegalAction, "facing a bet of %d", toCall)
		}
		return Decision{Accepted: true, Action: Check}, nil

	case Call:
		if toCall == 0 {
			return reject(req, poker.ErrIllegalAction, "nothing to call")
		}
		return accept(Call, min(toCall, req.Stack), req.Stack)

	case Raise:
		need := req.Amount - req.Committed
		if need >= req.Stack {
			// Any raise that takes the whole stack stands as an all-in,
			// including short ones that do not reach the minimum.
			return accept(Raise, req.Stack, req.Stack)
		}
		if req.Amount <= req.CurrentBet {
			return reject(req, poker.ErrIllegalAction, "raise to %d does not exceed current bet %d", req.Amount, req.CurrentBet)
		}
		if req.Amount < req.MinRaiseTo() {
			return reject(req, poker.ErrIllegalAction, "raise to %d below minimum %d", req.Amount, req.MinRaiseTo())
		}
		return accept(Raise, need, req.Stack)

	case AllIn:
		return accept(AllIn, req.Stack, req.Stack)
	}

	return reject(req, poker.ErrPrecondition, "unknown action %d", int(req.Action))
}

// LegalActions lists the actions Validate would accept for the given state.
// Raise is only offered when a full minimum raise fits behind the stack;
// otherwise the aggressive option is AllIn.
func LegalActions(req Request) []Action {
	actions := []Action{Fold}
	if req.Stack <= 0 || req.Committed > req.CurrentBet {
		return actions
	}

	toCall := req.ToCall()
	if toCall == 0 {
		actions = append(actions, Check)
		if req.MinRaiseTo()-req.Committed < req.Stack {
			actions = append(actions, Raise)
		}
		return append(actions, AllIn)
	}

	if toCall >= req.Stack {
		// Calling would take every chip anyway.
		return append(actions, AllIn)
	}

	actions = append(actions, Call)
	if req.MinRaiseTo()-req.Committed < req.Stack {
		actions = append(actions, Raise)
	}
	return append(actions, AllIn)
}
