package automerge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v43/github"
	"go.uber.org/zap"

	"github.com/simplesurance/automerger/internal/automerr"
	"github.com/simplesurance/automerger/internal/githubclt"
	"github.com/simplesurance/automerger/internal/gitparse"
	"github.com/simplesurance/automerger/internal/logfields"
	github_prov "github.com/simplesurance/automerger/internal/provider/github"
)

//go:generate mockgen -source automerge.go -destination mocks/mock_githubclient.go -package mocks

const loggerName = "automerger"

// GithubClient is the github API surface the agent depends on.
type GithubClient interface {
	PullRequestInfoByBranch(ctx context.Context, owner, repo, branch string) (*githubclt.PullRequestInfo, error)
	PullRequestInfoByNumber(ctx context.Context, owner, repo string, prNumber int) (*githubclt.PullRequestInfo, error)
	MergePullRequest(ctx context.Context, pullRequestID string, method githubclt.MergeMethod, commitHeadline string) error
}

// Agent evaluates one github event per invocation and merges eligible open
// pull requests.
// It keeps no state across invocations, every decision is made from a fresh
// API read.
type Agent struct {
	ghClient    GithubClient
	engine      *Engine
	githubLogin string

	prTriggerActions map[string]struct{}
	filter           *EventFilter

	logger *zap.Logger
}

type option func(*Agent)

// WithEventFilter sets a jq predicate that events must match to be processed.
// A nil filter disables filtering.
func WithEventFilter(filter *EventFilter) option {
	return func(a *Agent) {
		if filter != nil {
			a.filter = filter
		}
	}
}

// WithPullRequestTriggerActions sets the pull_request event actions that
// trigger a merge evaluation.
func WithPullRequestTriggerActions(actions []string) option {
	return func(a *Agent) {
		a.prTriggerActions = toStrSet(actions)
	}
}

func New(ghClient GithubClient, githubLogin string, opts ...option) *Agent {
	a := Agent{
		ghClient:    ghClient,
		engine:      NewEngine(ghClient),
		githubLogin: githubLogin,
		logger:      zap.L().Named(loggerName),
	}

	for _, o := range opts {
		o(&a)
	}

	return &a
}

func toStrSet(in []string) map[string]struct{} {
	result := make(map[string]struct{}, len(in))

	for _, elem := range in {
		result[elem] = struct{}{}
	}

	return result
}

var logFieldEventIgnored = logfields.Event("github_event_ignored")

// HandleEvent dispatches the event to the handler for its type and returns
// one outcome per evaluated merge candidate.
// Event-processing failures are logged and reported as Failed outcomes, they
// are never propagated, the host must not mistake "nothing to merge" for an
// infrastructure fault.
func (a *Agent) HandleEvent(ctx context.Context, event *github_prov.Event) []Outcome {
	logger := a.logger.With(event.LogFields...)

	logger.Debug("event received", logfields.Event("github_event_received"))

	if a.filter != nil {
		match, err := a.filter.Match(ctx, event.JSON)
		if err != nil {
			err = fmt.Errorf("matching event filter query failed: %w", err)
			return a.logOutcomes(logger, Failed(err))
		}

		if !match {
			logger.Debug(
				"ignoring event, filter query did not match",
				logFieldEventIgnored,
			)

			return a.logOutcomes(logger, Skipped(SkipFilterMismatch))
		}
	}

	switch ev := event.Event.(type) {
	case *github.PushEvent:
		return a.logOutcomes(logger, a.processPushEvent(ctx, logger, ev))

	case *github.PullRequestEvent:
		return a.logOutcomes(logger, a.processPullRequestEvent(ctx, logger, ev))

	case *github.CheckSuiteEvent:
		return a.logOutcomes(logger, a.processCheckSuiteEvent(ctx, logger, ev)...)

	default:
		logger.Info(
			"ignoring event, event type is unsupported",
			logFieldEventIgnored,
		)

		return a.logOutcomes(logger, SkippedState(SkipUnsupportedEvent, event.Name))
	}
}

// logOutcomes is the uniform failure boundary of the handlers: failures are
// logged with full error detail and swallowed, skips caused by a missing
// pull request are warnings, everything else is informational.
func (a *Agent) logOutcomes(logger *zap.Logger, outcomes ...Outcome) []Outcome {
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case OutcomeFailed:
			logger.Error(
				"processing event failed",
				logfields.Event("event_processing_failed"),
				zap.Error(outcome.Cause),
			)

		case OutcomeSkipped:
			if outcome.Reason.Code == SkipNoPullRequest {
				logger.Warn(
					"nothing to do, no matching pull request",
					logfields.Event("merge_candidate_not_found"),
				)
				continue
			}

			logger.Info(
				"merge skipped",
				logfields.Event("merge_skipped"),
				zap.String("skip_reason", outcome.Reason.String()),
			)

		case OutcomeMerged:
			logger.Info(
				"merge succeeded",
				logfields.Event("merge_succeeded"),
				logfields.MergeStrategy(outcome.Strategy.String()),
			)
		}
	}

	return outcomes
}

// processPushEvent merges the open pull request whose head is the pushed
// branch.
// Pushes are the authorization gate of the agent: only pushes by the
// configured automation identity trigger a merge evaluation.
func (a *Agent) processPushEvent(ctx context.Context, logger *zap.Logger, ev *github.PushEvent) Outcome {
	owner := ev.GetRepo().GetOwner().GetName()
	repo := ev.GetRepo().GetName()
	pusher := ev.GetPusher().GetName()

	logger = logger.With(
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.Actor(pusher),
	)

	if pusher != a.githubLogin {
		logger.Info(
			"ignoring event, pusher is not the automation identity",
			logFieldEventIgnored,
		)

		return SkippedState(SkipActorNotAllowed, pusher)
	}

	branch, err := gitparse.ReferenceName(ev.GetRef())
	if err != nil {
		return Failed(err)
	}

	commitHeadline, err := gitparse.CommitHeadline(ev.GetHeadCommit().GetMessage())
	if err != nil {
		return Failed(err)
	}

	info, err := a.ghClient.PullRequestInfoByBranch(ctx, owner, repo, branch)
	if err != nil {
		if errors.Is(err, automerr.ErrNotFound) {
			return Skipped(SkipNoPullRequest)
		}

		return Failed(fmt.Errorf("fetching pull request information for branch %q failed: %w", branch, err))
	}

	return a.engine.TryMerge(ctx, info, commitHeadline)
}

// processPullRequestEvent merges the pull request the event refers to.
// The commit headline is taken from the pull request title.
func (a *Agent) processPullRequestEvent(ctx context.Context, logger *zap.Logger, ev *github.PullRequestEvent) Outcome {
	owner := ev.GetRepo().GetOwner().GetLogin()
	repo := ev.GetRepo().GetName()
	prNumber := ev.GetNumber()
	action := ev.GetAction()

	logger = logger.With(
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.PullRequest(prNumber),
	)

	if _, exist := a.prTriggerActions[action]; !exist {
		logger.Debug(
			"ignoring event, pull-request action does not trigger merges",
			logFieldEventIgnored,
			zap.String("github.pull_request_event.action", action),
		)

		return SkippedState(SkipIgnoredAction, action)
	}

	return a.evalPullRequestNr(ctx, owner, repo, prNumber)
}

// processCheckSuiteEvent merges the open pull requests associated with a
// successfully completed check suite, one engine pass per pull request.
func (a *Agent) processCheckSuiteEvent(ctx context.Context, logger *zap.Logger, ev *github.CheckSuiteEvent) []Outcome {
	owner := ev.GetRepo().GetOwner().GetLogin()
	repo := ev.GetRepo().GetName()
	suite := ev.GetCheckSuite()

	logger = logger.With(
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
	)

	if action := ev.GetAction(); action != "completed" {
		logger.Debug(
			"ignoring event, check-suite action is not 'completed'",
			logFieldEventIgnored,
			zap.String("github.check_suite_event.action", action),
		)

		return []Outcome{SkippedState(SkipIgnoredAction, action)}
	}

	if conclusion := suite.GetConclusion(); conclusion != "success" {
		logger.Info(
			"ignoring event, check suite did not conclude successfully",
			logFieldEventIgnored,
			zap.String("github.check_suite.conclusion", conclusion),
		)

		return []Outcome{SkippedState(SkipCheckSuiteNotSuccessful, conclusion)}
	}

	if len(suite.PullRequests) == 0 {
		return []Outcome{Skipped(SkipNoPullRequest)}
	}

	outcomes := make([]Outcome, 0, len(suite.PullRequests))
	for _, pr := range suite.PullRequests {
		outcomes = append(outcomes, a.evalPullRequestNr(ctx, owner, repo, pr.GetNumber()))
	}

	return outcomes
}

func (a *Agent) evalPullRequestNr(ctx context.Context, owner, repo string, prNumber int) Outcome {
	info, err := a.ghClient.PullRequestInfoByNumber(ctx, owner, repo, prNumber)
	if err != nil {
		if errors.Is(err, automerr.ErrNotFound) {
			return Skipped(SkipNoPullRequest)
		}

		return Failed(fmt.Errorf("fetching pull request information for pr %d failed: %w", prNumber, err))
	}

	return a.engine.TryMerge(ctx, info, info.Title)
}
