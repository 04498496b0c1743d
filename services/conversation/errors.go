package conversation

import (
	"errors"
	"fmt"

	"stayfinder/models"
)

// PhaseError reports an operation invoked while the conversation is in an
// incompatible phase. It surfaces to the client as "not expecting this input"
// rather than being silently accepted.
type PhaseError struct {
	Expected models.Phase
	Actual   models.Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phaseViolation: not currently expecting this input (phase is %s, wanted %s)", e.Actual, e.Expected)
}

func newPhaseError(expected, actual models.Phase) error {
	return &PhaseError{Expected: expected, Actual: actual}
}

// IsPhaseViolation reports whether err is a PhaseError.
func IsPhaseViolation(err error) bool {
	var pe *PhaseError
	return errors.As(err, &pe)
}

// ErrNoOffers is returned when selection resolution is requested with an
// empty offer list. That is a caller contract violation, never a NotFound.
var ErrNoOffers = errors.New("selection resolution requires a non-empty offer list")
