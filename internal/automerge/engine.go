package automerge

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/automerger/internal/githubclt"
	"github.com/simplesurance/automerger/internal/logfields"
)

// Merger executes a merge mutation against the github API.
type Merger interface {
	MergePullRequest(ctx context.Context, pullRequestID string, method githubclt.MergeMethod, commitHeadline string) error
}

// Engine decides if a pull request is eligible for auto-merging and, if it
// is, executes the merge mutation.
// It holds no state, every decision is made fresh from the passed pull
// request information.
type Engine struct {
	merger Merger
	logger *zap.Logger
}

func NewEngine(merger Merger) *Engine {
	return &Engine{
		merger: merger,
		logger: zap.L().Named("merge_engine"),
	}
}

// TryMerge evaluates the eligibility rules in order and executes at most one
// merge mutation.
// Mergeability is checked before the merged and open states so that a
// conflicting pull request reports the conflict even when it transiently
// also appears merged or closed.
func (e *Engine) TryMerge(ctx context.Context, info *githubclt.PullRequestInfo, commitHeadline string) Outcome {
	logger := e.logger.With(
		logfields.PullRequest(info.Number),
		zap.String("github.pull_request_id", info.ID),
	)

	if info.MergeableState != githubclt.MergeableStateMergeable {
		logger.Info(
			"skipping merge, pull request is not in a mergeable state",
			logfields.Event("merge_skipped_not_mergeable"),
			zap.String("github.mergeable_state", string(info.MergeableState)),
		)

		return SkippedState(SkipNotMergeable, string(info.MergeableState))
	}

	if info.Merged {
		logger.Info(
			"skipping merge, pull request is already merged",
			logfields.Event("merge_skipped_already_merged"),
		)

		return Skipped(SkipAlreadyMerged)
	}

	if info.State != githubclt.PullRequestStateOpen {
		logger.Info(
			"skipping merge, pull request is not open",
			logfields.Event("merge_skipped_not_open"),
			zap.String("github.pull_request_state", string(info.State)),
		)

		return SkippedState(SkipNotOpen, string(info.State))
	}

	latestReview, _ := info.LatestReviewState()
	strategy := SelectStrategy(latestReview)

	logger = logger.With(
		logfields.MergeStrategy(strategy.String()),
		logfields.CommitHeadline(commitHeadline),
	)

	err := e.merger.MergePullRequest(ctx, info.ID, strategy.mergeMethod(), commitHeadline)
	if err != nil {
		return Failed(err)
	}

	logger.Info(
		"pull request merged",
		logfields.Event("pull_request_merged"),
	)

	return Merged(strategy)
}
