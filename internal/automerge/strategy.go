package automerge

import "github.com/simplesurance/automerger/internal/githubclt"

// Strategy is the merge strategy that a merge mutation uses.
type Strategy int8

const (
	// StrategyMergeCommit merges with a merge commit, the full commit
	// history of the pull request is preserved.
	StrategyMergeCommit Strategy = iota
	// StrategySquash collapses all commits of the pull request into one.
	StrategySquash
	// StrategyRebase is currently not selected by any review state, the
	// variant is kept so that activating it only requires changing
	// SelectStrategy.
	StrategyRebase
)

func (s Strategy) String() string {
	switch s {
	case StrategyMergeCommit:
		return "merge"
	case StrategySquash:
		return "squash"
	case StrategyRebase:
		return "rebase"
	default:
		return "undefined"
	}
}

func (s Strategy) mergeMethod() githubclt.MergeMethod {
	switch s {
	case StrategyMergeCommit:
		return githubclt.MergeMethodMerge
	case StrategyRebase:
		return githubclt.MergeMethodRebase
	default:
		return githubclt.MergeMethodSquash
	}
}

// SelectStrategy returns the merge strategy for the state of the most recent
// review submission of a pull request.
// A pull request that a human explicitly approved is merged with a merge
// commit. For every other review state, including no review at all, the
// commits are squashed so that unreviewed automation commit trains do not
// inflate the history.
func SelectStrategy(latestReviewState githubclt.ReviewState) Strategy {
	switch latestReviewState {
	case githubclt.ReviewStateApproved:
		return StrategyMergeCommit

	case githubclt.ReviewStatePending,
		githubclt.ReviewStateCommented,
		githubclt.ReviewStateChangesRequested,
		githubclt.ReviewStateDismissed:
		return StrategySquash

	default:
		// no review was submitted or github introduced a new state
		return StrategySquash
	}
}
