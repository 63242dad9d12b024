package automerge

import "fmt"

// OutcomeKind classifies the result of evaluating one merge candidate.
type OutcomeKind int8

const (
	// OutcomeSkipped means no merge was attempted, Outcome.Reason names why.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeMerged means exactly one merge mutation was executed successfully.
	OutcomeMerged
	// OutcomeFailed means the evaluation or the merge mutation failed,
	// Outcome.Cause contains the error.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMerged:
		return "merged"
	case OutcomeFailed:
		return "failed"
	default:
		return "undefined"
	}
}

// SkipCode names the condition that prevented a merge attempt.
type SkipCode string

const (
	SkipNotMergeable            SkipCode = "pull request is not mergeable"
	SkipAlreadyMerged           SkipCode = "pull request is already merged"
	SkipNotOpen                 SkipCode = "pull request is not open"
	SkipNoPullRequest           SkipCode = "no matching pull request"
	SkipActorNotAllowed         SkipCode = "event actor is not the automation identity"
	SkipIgnoredAction           SkipCode = "event action does not trigger merges"
	SkipCheckSuiteNotSuccessful SkipCode = "check suite did not succeed"
	SkipFilterMismatch          SkipCode = "event filter query did not match"
	SkipUnsupportedEvent        SkipCode = "event type is unsupported"
)

// SkipReason describes why a merge was not attempted.
type SkipReason struct {
	Code SkipCode
	// State carries the offending state value when Code refers to one,
	// e.g. the mergeable state for SkipNotMergeable.
	State string
}

func (r SkipReason) String() string {
	if r.State == "" {
		return string(r.Code)
	}

	return fmt.Sprintf("%s: %s", r.Code, r.State)
}

// Outcome is the structured result of evaluating one merge candidate.
// Orchestrators return it instead of propagating errors, event-processing
// failures must not surface to the host as process faults.
type Outcome struct {
	Kind     OutcomeKind
	Strategy Strategy
	Reason   SkipReason
	Cause    error
}

func Merged(strategy Strategy) Outcome {
	return Outcome{Kind: OutcomeMerged, Strategy: strategy}
}

func Skipped(code SkipCode) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: SkipReason{Code: code}}
}

func SkippedState(code SkipCode, state string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: SkipReason{Code: code, State: state}}
}

func Failed(cause error) Outcome {
	return Outcome{Kind: OutcomeFailed, Cause: cause}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeMerged:
		return fmt.Sprintf("merged (%s)", o.Strategy)
	case OutcomeSkipped:
		return fmt.Sprintf("skipped (%s)", o.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("failed (%s)", o.Cause)
	default:
		return "undefined"
	}
}
