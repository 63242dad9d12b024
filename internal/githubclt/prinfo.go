package githubclt

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/simplesurance/automerger/internal/automerr"
)

// reviewsLast is the number of most recent review submissions that are
// retrieved per pull request.
const reviewsLast = 100

// MergeableState is the mergeability of a pull request as last computed by
// github. The value is eventually consistent, github may not have finished
// recomputing it when it is read.
type MergeableState string

const (
	MergeableStateConflicting = MergeableState(githubv4.MergeableStateConflicting)
	MergeableStateMergeable   = MergeableState(githubv4.MergeableStateMergeable)
	MergeableStateUnknown     = MergeableState(githubv4.MergeableStateUnknown)
)

// PullRequestState is the lifecycle state of a pull request.
type PullRequestState string

const (
	PullRequestStateOpen   = PullRequestState(githubv4.PullRequestStateOpen)
	PullRequestStateClosed = PullRequestState(githubv4.PullRequestStateClosed)
	PullRequestStateMerged = PullRequestState(githubv4.PullRequestStateMerged)
)

// ReviewState is the state of a single review submission.
type ReviewState string

const (
	ReviewStatePending          = ReviewState(githubv4.PullRequestReviewStatePending)
	ReviewStateCommented        = ReviewState(githubv4.PullRequestReviewStateCommented)
	ReviewStateApproved         = ReviewState(githubv4.PullRequestReviewStateApproved)
	ReviewStateChangesRequested = ReviewState(githubv4.PullRequestReviewStateChangesRequested)
	ReviewStateDismissed        = ReviewState(githubv4.PullRequestReviewStateDismissed)
)

// PullRequestInfo is the merge-relevant state of a pull request.
// It is constructed fresh from a live query per event and discarded after the
// merge decision was made.
type PullRequestInfo struct {
	// ID is the graphql node id, it is the target of merge mutations.
	ID             string
	Number         int
	Title          string
	MergeableState MergeableState
	Merged         bool
	State          PullRequestState
	// ReviewStates contains the states of the review submissions in
	// submission order, the most recent review is the last element.
	ReviewStates []ReviewState
}

// LatestReviewState returns the state of the most recent review submission.
// If the pull request has no reviews, false is returned.
func (p *PullRequestInfo) LatestReviewState() (ReviewState, bool) {
	if len(p.ReviewStates) == 0 {
		return "", false
	}

	return p.ReviewStates[len(p.ReviewStates)-1], true
}

type prInfoQueryNode struct {
	ID        githubv4.ID
	Number    githubv4.Int
	Title     githubv4.String
	Mergeable githubv4.MergeableState
	Merged    githubv4.Boolean
	State     githubv4.PullRequestState
	Reviews   struct {
		Edges []struct {
			Node struct {
				State githubv4.PullRequestReviewState
			}
		}
	} `graphql:"reviews(last: $reviewsLast)"`
}

func (node *prInfoQueryNode) toPullRequestInfo() *PullRequestInfo {
	reviewStates := make([]ReviewState, 0, len(node.Reviews.Edges))
	for _, edge := range node.Reviews.Edges {
		reviewStates = append(reviewStates, ReviewState(edge.Node.State))
	}

	return &PullRequestInfo{
		ID:             fmt.Sprint(node.ID),
		Number:         int(node.Number),
		Title:          string(node.Title),
		MergeableState: MergeableState(node.Mergeable),
		Merged:         bool(node.Merged),
		State:          PullRequestState(node.State),
		ReviewStates:   reviewStates,
	}
}

// PullRequestInfoByBranch returns the merge-relevant state of the most
// recent open pull request whose head is the given branch.
// If no open pull request exists for the branch, automerr.ErrNotFound is
// returned.
func (clt *Client) PullRequestInfoByBranch(ctx context.Context, owner, repo, branch string) (*PullRequestInfo, error) {
	var q struct {
		Repository struct {
			PullRequests struct {
				Nodes []prInfoQueryNode
			} `graphql:"pullRequests(headRefName: $headRefName, states: $states, last: $prLast)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":       githubv4.String(owner),
		"name":        githubv4.String(repo),
		"headRefName": githubv4.String(branch),
		"states":      []githubv4.PullRequestState{githubv4.PullRequestStateOpen},
		"prLast":      githubv4.Int(1),
		"reviewsLast": githubv4.Int(reviewsLast),
	}

	if err := clt.graphQLClt.Query(ctx, &q, vars); err != nil {
		return nil, clt.wrapGraphQLRetryableErrors(err)
	}

	if len(q.Repository.PullRequests.Nodes) == 0 {
		return nil, fmt.Errorf("no open pull request with head branch %q: %w",
			branch, automerr.ErrNotFound)
	}

	return q.Repository.PullRequests.Nodes[0].toPullRequestInfo(), nil
}

// PullRequestInfoByNumber returns the merge-relevant state of the pull
// request with the given number.
// If the pull request does not exist, automerr.ErrNotFound is returned.
func (clt *Client) PullRequestInfoByNumber(ctx context.Context, owner, repo string, prNumber int) (*PullRequestInfo, error) {
	var q struct {
		Repository struct {
			PullRequest prInfoQueryNode `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":       githubv4.String(owner),
		"name":        githubv4.String(repo),
		"number":      githubv4.Int(prNumber),
		"reviewsLast": githubv4.Int(reviewsLast),
	}

	if err := clt.graphQLClt.Query(ctx, &q, vars); err != nil {
		// the graphql API reports a missing pull request as a query
		// error, not as a null result
		if strings.Contains(err.Error(), "Could not resolve to a PullRequest") {
			return nil, fmt.Errorf("pull request %d: %w", prNumber, automerr.ErrNotFound)
		}

		return nil, clt.wrapGraphQLRetryableErrors(err)
	}

	return q.Repository.PullRequest.toPullRequestInfo(), nil
}
