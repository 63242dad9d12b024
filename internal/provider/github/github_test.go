package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v43/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pushPayload = `{
	"ref": "refs/heads/dependency-updates",
	"pusher": {"name": "automerge-bot"},
	"head_commit": {"message": "chore: update deps\n\ndetails"},
	"repository": {"name": "testrepo", "owner": {"name": "testman"}}
}`

func TestLoadEvent(t *testing.T) {
	payloadPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(pushPayload), 0o600))

	event, err := LoadEvent("push", payloadPath)
	require.NoError(t, err)

	assert.Equal(t, "push", event.Name)
	assert.JSONEq(t, pushPayload, string(event.JSON))

	pushEv, ok := event.Event.(*github.PushEvent)
	require.True(t, ok, "payload was not parsed into a PushEvent")
	assert.Equal(t, "refs/heads/dependency-updates", pushEv.GetRef())
	assert.Equal(t, "automerge-bot", pushEv.GetPusher().GetName())
}

func TestLoadEventFailsWithoutEventName(t *testing.T) {
	_, err := LoadEvent("", "/does/not/matter")
	require.Error(t, err)
}

func TestLoadEventFailsWithMissingPayloadFile(t *testing.T) {
	_, err := LoadEvent("push", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseEventClassification(t *testing.T) {
	testcases := []struct {
		eventName string
		payload   string
		wantType  any
	}{
		{
			eventName: "pull_request",
			payload:   `{"action": "synchronize", "number": 3}`,
			wantType:  &github.PullRequestEvent{},
		},
		{
			eventName: "check_suite",
			payload:   `{"action": "completed", "check_suite": {"conclusion": "success"}}`,
			wantType:  &github.CheckSuiteEvent{},
		},
		{
			eventName: "push",
			payload:   pushPayload,
			wantType:  &github.PushEvent{},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.eventName, func(t *testing.T) {
			event, err := parseEvent(tc.eventName, []byte(tc.payload))
			require.NoError(t, err)
			assert.IsType(t, tc.wantType, event.Event)
		})
	}
}

func TestParseEventFailsOnInvalidJSON(t *testing.T) {
	_, err := parseEvent("push", []byte("{invalid"))
	require.Error(t, err)
}
