package automerge

import (
	"github.com/google/go-github/v43/github"

	github_prov "github.com/simplesurance/automerger/internal/provider/github"
)

func strPtr(in string) *string {
	return &in
}

func intPtr(in int) *int {
	return &in
}

func newEvent(name string, payloadJSON string, ev any) *github_prov.Event {
	return &github_prov.Event{
		Name:  name,
		JSON:  []byte(payloadJSON),
		Event: ev,
	}
}

func newPushEvent(pusher, ref, commitMessage string) *github.PushEvent {
	return &github.PushEvent{
		Ref:    strPtr(ref),
		Pusher: &github.User{Name: strPtr(pusher)},
		HeadCommit: &github.HeadCommit{
			Message: strPtr(commitMessage),
		},
		Repo: &github.PushEventRepository{
			Name: strPtr(repo),
			Owner: &github.User{
				Name: strPtr(repoOwner),
			},
		},
	}
}

func newPullRequestEvent(prNumber int, action string) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: strPtr(action),
		Number: intPtr(prNumber),
		PullRequest: &github.PullRequest{
			Number: intPtr(prNumber),
		},
		Repo: &github.Repository{
			Name: strPtr(repo),
			Owner: &github.User{
				Login: strPtr(repoOwner),
			},
		},
	}
}

func newCheckSuiteEvent(action, conclusion string, prNumbers ...int) *github.CheckSuiteEvent {
	suite := github.CheckSuite{
		Conclusion: strPtr(conclusion),
	}

	for _, nr := range prNumbers {
		suite.PullRequests = append(suite.PullRequests, &github.PullRequest{
			Number: intPtr(nr),
		})
	}

	return &github.CheckSuiteEvent{
		Action:     strPtr(action),
		CheckSuite: &suite,
		Repo: &github.Repository{
			Name: strPtr(repo),
			Owner: &github.User{
				Login: strPtr(repoOwner),
			},
		},
	}
}
