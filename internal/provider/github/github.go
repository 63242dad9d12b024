// Package github reads and classifies the github event that triggered the
// current automerger run.
//
// The automation host supplies the event name and a file containing the JSON
// payload, the locations are published via the GITHUB_EVENT_NAME and
// GITHUB_EVENT_PATH environment variables.
package github

import (
	"fmt"
	"os"

	"github.com/google/go-github/v43/github"
	"go.uber.org/zap"

	"github.com/simplesurance/automerger/internal/logfields"
)

// Environment variables that the automation host sets per run.
const (
	EnvVarEventName = "GITHUB_EVENT_NAME"
	EnvVarEventPath = "GITHUB_EVENT_PATH"
)

// LoadEvent reads the JSON payload from payloadPath and parses it into the
// typed event struct for eventName.
// Payloads of unsupported event types parse into types the agent ignores,
// they do not cause an error.
func LoadEvent(eventName, payloadPath string) (*Event, error) {
	if eventName == "" {
		return nil, fmt.Errorf("event name is empty, %s is unset", EnvVarEventName)
	}

	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("reading event payload failed: %w", err)
	}

	return parseEvent(eventName, payload)
}

func parseEvent(eventName string, payload []byte) (*Event, error) {
	event, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		return nil, fmt.Errorf("parsing %q event payload failed: %w", eventName, err)
	}

	return &Event{
		Name:      eventName,
		JSON:      payload,
		Event:     event,
		LogFields: eventLogFields(eventName, event),
	}, nil
}

func eventLogFields(eventName string, event any) []zap.Field {
	logFields := []zap.Field{
		logfields.TriggerEvent(eventName),
	}

	switch ev := event.(type) {
	case *github.PushEvent:
		logFields = append(
			logFields,
			logfields.RepositoryOwner(ev.GetRepo().GetOwner().GetName()),
			logfields.Repository(ev.GetRepo().GetName()),
			zap.String("git.ref", ev.GetRef()),
			logfields.Actor(ev.GetPusher().GetName()),
		)

	case *github.PullRequestEvent:
		logFields = append(
			logFields,
			logfields.RepositoryOwner(ev.GetRepo().GetOwner().GetLogin()),
			logfields.Repository(ev.GetRepo().GetName()),
			logfields.PullRequest(ev.GetNumber()),
			zap.String("github.pull_request_event.action", ev.GetAction()),
		)

		if hb := ev.GetPullRequest().GetHead(); hb != nil {
			logFields = append(
				logFields,
				logfields.Branch(hb.GetRef()),
				logfields.Commit(hb.GetSHA()),
			)
		}

	case *github.CheckSuiteEvent:
		logFields = append(
			logFields,
			logfields.RepositoryOwner(ev.GetRepo().GetOwner().GetLogin()),
			logfields.Repository(ev.GetRepo().GetName()),
			logfields.Branch(ev.GetCheckSuite().GetHeadBranch()),
			logfields.Commit(ev.GetCheckSuite().GetHeadSHA()),
			zap.String("github.check_suite_event.action", ev.GetAction()),
			zap.String("github.check_suite.conclusion", ev.GetCheckSuite().GetConclusion()),
		)
	}

	return logFields
}
