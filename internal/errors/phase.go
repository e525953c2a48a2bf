package errors

import "fmt"

// Phase names the step of a deploy run in which an error occurred.
type Phase string

// Run phases, in execution order.
const (
	PhaseNone      Phase = ""
	PhaseConfig    Phase = "config"
	PhaseEnumerate Phase = "enumerate"
	PhaseBackup    Phase = "backup"
	PhaseSync      Phase = "sync"
	PhasePrune     Phase = "prune"
)

// PhaseError records a failure together with the phase and path it concerns.
type PhaseError struct {
	Phase Phase
	Path  string
	Err   error
}

// NewPhaseError wraps err for the given phase and path.
func NewPhaseError(phase Phase, path string, err error) *PhaseError {
	return &PhaseError{Phase: phase, Path: path, Err: err}
}

func (e *PhaseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Path, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// PhaseOf returns the phase of the first PhaseError in err's chain,
// or PhaseNone if there is none.
func PhaseOf(err error) Phase {
	var pe *PhaseError
	if As(err, &pe) {
		return pe.Phase
	}
	return PhaseNone
}
