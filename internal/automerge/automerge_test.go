package automerge

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/automerger/internal/automerge/mocks"
	"github.com/simplesurance/automerger/internal/automerr"
	"github.com/simplesurance/automerger/internal/githubclt"
	"github.com/simplesurance/automerger/internal/gitparse"
)

const repo = "repo"
const repoOwner = "testman"
const automationLogin = "automerge-bot"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestAgent(t *testing.T, opts ...option) (*Agent, *mocks.MockGithubClient) {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	clt := mocks.NewMockGithubClient(gomock.NewController(t))

	opts = append(
		[]option{WithPullRequestTriggerActions([]string{"opened", "synchronize"})},
		opts...,
	)

	return New(clt, automationLogin, opts...), clt
}

func requireSingleOutcome(t *testing.T, outcomes []Outcome) Outcome {
	t.Helper()
	require.Len(t, outcomes, 1)
	return outcomes[0]
}

// Scenario: the automation identity pushed to a branch with an open,
// mergeable, approved pull request. Expect a single merge-commit mutation
// with the parsed commit headline.
func TestPushEventMergesApprovedPR(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByBranch(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("dependency-updates")).
		Return(newPRInfo(
			githubclt.MergeableStateMergeable, false, githubclt.PullRequestStateOpen,
			githubclt.ReviewStateApproved,
		), nil)

	clt.EXPECT().
		MergePullRequest(gomock.Any(), gomock.Eq("PR_kwABC"), gomock.Eq(githubclt.MergeMethodMerge), gomock.Eq("chore: update deps")).
		Return(nil)

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps\n\nlong body")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	assert.Equal(t, OutcomeMerged, outcome.Kind)
	assert.Equal(t, StrategyMergeCommit, outcome.Strategy)
}

// Scenario: the pusher is not the automation identity. Expect no fetch and
// no mutation call.
func TestPushEventFromOtherIdentityIsIgnored(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newPushEvent("some-human", "refs/heads/dependency-updates", "chore: update deps")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipActorNotAllowed, outcome.Reason.Code)
}

// Scenario: no open pull request exists for the pushed branch. Expect a
// quiet skip, not a failure.
func TestPushEventWithoutPullRequest(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByBranch(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("dependency-updates")).
		Return(nil, automerr.ErrNotFound)

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipNoPullRequest, outcome.Reason.Code)
}

// Scenario: the fetched pull request has conflicts. Expect a skip naming the
// mergeable state and no mutation call.
func TestPushEventWithConflictingPR(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByBranch(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("dependency-updates")).
		Return(newPRInfo(
			githubclt.MergeableStateConflicting, false, githubclt.PullRequestStateOpen,
		), nil)

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipNotMergeable, outcome.Reason.Code)
	assert.Equal(t, string(githubclt.MergeableStateConflicting), outcome.Reason.State)
}

func TestPushEventWithMalformedRefFails(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newPushEvent(automationLogin, "refs/tags/v1.0.0", "chore: update deps")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	require.Equal(t, OutcomeFailed, outcome.Kind)

	var parseErr *gitparse.ParseError
	assert.ErrorAs(t, outcome.Cause, &parseErr)
}

func TestPushEventFetchFailureIsContained(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByBranch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("api unreachable"))

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", "{}", ev)))

	require.Equal(t, OutcomeFailed, outcome.Kind)
	require.Error(t, outcome.Cause)
}

func TestPullRequestEventMergesWithTitleHeadline(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByNumber(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(17)).
		Return(&githubclt.PullRequestInfo{
			ID:             "PR_kwXYZ",
			Number:         17,
			Title:          "update dependency",
			MergeableState: githubclt.MergeableStateMergeable,
			State:          githubclt.PullRequestStateOpen,
		}, nil)

	clt.EXPECT().
		MergePullRequest(gomock.Any(), gomock.Eq("PR_kwXYZ"), gomock.Eq(githubclt.MergeMethodSquash), gomock.Eq("update dependency")).
		Return(nil)

	ev := newPullRequestEvent(17, "synchronize")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("pull_request", "{}", ev)))

	assert.Equal(t, OutcomeMerged, outcome.Kind)
	assert.Equal(t, StrategySquash, outcome.Strategy)
}

func TestPullRequestEventWithNonTriggerActionIsIgnored(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newPullRequestEvent(17, "labeled")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("pull_request", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipIgnoredAction, outcome.Reason.Code)
	assert.Equal(t, "labeled", outcome.Reason.State)
}

func TestCheckSuiteEventEvaluatesAllAssociatedPRs(t *testing.T) {
	agent, clt := newTestAgent(t)

	clt.EXPECT().
		PullRequestInfoByNumber(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(3)).
		Return(newPRInfo(
			githubclt.MergeableStateMergeable, false, githubclt.PullRequestStateOpen,
		), nil)

	clt.EXPECT().
		PullRequestInfoByNumber(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(4)).
		Return(newPRInfo(
			githubclt.MergeableStateMergeable, true, githubclt.PullRequestStateMerged,
		), nil)

	clt.EXPECT().
		MergePullRequest(gomock.Any(), gomock.Any(), gomock.Eq(githubclt.MergeMethodSquash), gomock.Any()).
		Return(nil)

	ev := newCheckSuiteEvent("completed", "success", 3, 4)
	outcomes := agent.HandleEvent(context.Background(), newEvent("check_suite", "{}", ev))
	require.Len(t, outcomes, 2)

	assert.Equal(t, OutcomeMerged, outcomes[0].Kind)
	assert.Equal(t, OutcomeSkipped, outcomes[1].Kind)
	assert.Equal(t, SkipAlreadyMerged, outcomes[1].Reason.Code)
}

func TestCheckSuiteEventWithFailedConclusionIsIgnored(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newCheckSuiteEvent("completed", "failure", 3)
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("check_suite", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipCheckSuiteNotSuccessful, outcome.Reason.Code)
	assert.Equal(t, "failure", outcome.Reason.State)
}

func TestCheckSuiteEventWithoutCompletedActionIsIgnored(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newCheckSuiteEvent("requested", "", 3)
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("check_suite", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipIgnoredAction, outcome.Reason.Code)
}

func TestCheckSuiteEventWithoutPRsIsSkipped(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newCheckSuiteEvent("completed", "success")
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("check_suite", "{}", ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipNoPullRequest, outcome.Reason.Code)
}

func TestUnsupportedEventTypeIsIgnored(t *testing.T) {
	agent, _ := newTestAgent(t)

	ev := newEvent("workflow_dispatch", "{}", struct{}{})
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), ev))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipUnsupportedEvent, outcome.Reason.Code)
	assert.Equal(t, "workflow_dispatch", outcome.Reason.State)
}

func TestEventFilterMismatchSkipsDispatch(t *testing.T) {
	filter, err := NewEventFilter(".repository.private == false")
	require.NoError(t, err)

	agent, _ := newTestAgent(t, WithEventFilter(filter))

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps")
	payload := `{"repository": {"private": true}}`
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", payload, ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipFilterMismatch, outcome.Reason.Code)
}

func TestEventFilterMatchDispatchesEvent(t *testing.T) {
	filter, err := NewEventFilter(".repository.private == false")
	require.NoError(t, err)

	agent, _ := newTestAgent(t, WithEventFilter(filter))

	ev := newPushEvent("some-human", "refs/heads/dependency-updates", "chore: update deps")
	payload := `{"repository": {"private": false}}`
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", payload, ev)))

	require.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipActorNotAllowed, outcome.Reason.Code)
}

func TestEventFilterErrorFailsInvocation(t *testing.T) {
	filter, err := NewEventFilter(".repository.name")
	require.NoError(t, err)

	agent, _ := newTestAgent(t, WithEventFilter(filter))

	ev := newPushEvent(automationLogin, "refs/heads/dependency-updates", "chore: update deps")
	payload := `{"repository": {"name": "repo"}}`
	outcome := requireSingleOutcome(t, agent.HandleEvent(context.Background(), newEvent("push", payload, ev)))

	require.Equal(t, OutcomeFailed, outcome.Kind)
	require.Error(t, outcome.Cause)
}
