package githubclt

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"

	"github.com/simplesurance/automerger/internal/logfields"
)

// MergeMethod is the github merge method that a merge mutation uses.
type MergeMethod string

const (
	MergeMethodMerge  = MergeMethod(githubv4.PullRequestMergeMethodMerge)
	MergeMethodSquash = MergeMethod(githubv4.PullRequestMergeMethodSquash)
	MergeMethodRebase = MergeMethod(githubv4.PullRequestMergeMethodRebase)
)

// MergePullRequest merges the pull request with the given graphql node id
// using the given merge method and commit headline.
// The mutation fails when the pull request became unmergeable, was merged or
// closed in the meantime, github rejects the request in those cases.
func (clt *Client) MergePullRequest(ctx context.Context, pullRequestID string, method MergeMethod, commitHeadline string) error {
	var m struct {
		MergePullRequest struct {
			PullRequest struct {
				ID     githubv4.ID
				Merged githubv4.Boolean
			}
		} `graphql:"mergePullRequest(input: $input)"`
	}

	mergeMethod := githubv4.PullRequestMergeMethod(method)
	input := githubv4.MergePullRequestInput{
		PullRequestID:  githubv4.ID(pullRequestID),
		CommitHeadline: githubv4.NewString(githubv4.String(commitHeadline)),
		MergeMethod:    &mergeMethod,
	}

	if err := clt.graphQLClt.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("merge mutation for pull request %q failed: %w",
			pullRequestID, clt.wrapGraphQLRetryableErrors(err))
	}

	clt.logger.Debug(
		"merge mutation executed",
		logfields.Event("github_pull_request_merged"),
		zap.String("github.pull_request_id", pullRequestID),
		logfields.CommitHeadline(commitHeadline),
	)

	return nil
}
