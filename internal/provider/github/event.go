package github

import "go.uber.org/zap"

// Event is the preprocessed github event that triggered the current run.
type Event struct {
	// Name is the github webhook event type, e.g. "push"
	Name string
	// JSON is the event payload as JSON
	JSON []byte
	// Event is the parsed JSON payload as struct type returned by github.ParseWebHook()
	Event     any
	LogFields []zap.Field
}
