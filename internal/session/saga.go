package session

import "fmt"

// DeletionStep marks the last completed step of the account-deletion saga.
// The sequence is strictly ordered and has no cross-step transaction; a
// failed run leaves the checkpoint readable so a retry resumes where the
// previous attempt stopped instead of repeating completed steps.
type DeletionStep int

const (
	StepNone DeletionStep = iota
	StepProfileDeleted
	StepPrincipalRemoved
	StepSignedOut
)

func (s DeletionStep) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepProfileDeleted:
		return "profile deletion"
	case StepPrincipalRemoved:
		return "principal removal"
	case StepSignedOut:
		return "sign-out"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// DeletionError reports which saga step failed. Completed steps are not
// rolled back; the caller stays authenticated and may retry.
type DeletionError struct {
	Step DeletionStep // the step that failed
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("account deletion failed at %q: %v", e.Step, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
