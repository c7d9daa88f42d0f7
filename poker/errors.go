package poker

import "errors"

// Error kinds shared by the engine packages. Call sites wrap these with
// context; callers match them with errors.Is.
var (
	// ErrPrecondition marks a call made with inputs the operation cannot
	// accept, e.g. evaluating fewer than five cards or acting with no chips.
	ErrPrecondition = errors.New("poker: precondition violation")

	// ErrIllegalAction marks a betting action the rules do not allow in the
	// current table state. The action is rejected and nothing changes.
	ErrIllegalAction = errors.New("poker: illegal action")

	// ErrInvariant marks an internal consistency failure, such as a pot
	// that nobody is eligible to win. Settlement must stop.
	ErrInvariant = errors.New("poker: invariant violation")
)
