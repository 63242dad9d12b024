// Package cfg loads the automerger configuration.
package cfg

import (
	"errors"
	"io"
	"os"

	"github.com/pelletier/go-toml"
)

// Environment variables recognized by FromEnv.
const (
	EnvVarGithubAPIToken = "GITHUB_TOKEN"
	EnvVarGithubLogin    = "GITHUB_LOGIN"
)

// DefPullRequestTriggerActions are the pull_request event actions that
// trigger a merge evaluation when pull_request_trigger_actions is unset.
var DefPullRequestTriggerActions = []string{
	"opened",
	"reopened",
	"synchronize",
	"edited",
	"ready_for_review",
}

type Config struct {
	GithubAPIToken string `toml:"github_api_token"`
	// GithubLogin is the identity that is authorized to trigger
	// auto-merging via push events.
	GithubLogin               string   `toml:"github_login"`
	EventFilterQuery          string   `toml:"event_filter_query"`
	PullRequestTriggerActions []string `toml:"pull_request_trigger_actions"`
	LogFormat                 string   `toml:"log_format"`
	LogTimeKey                string   `toml:"log_time_key"`
	LogLevel                  string   `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		PullRequestTriggerActions: DefPullRequestTriggerActions,
		LogFormat:                 "logfmt",
		LogTimeKey:                "time",
		LogLevel:                  "info",
	}
}

func Load(reader io.Reader) (*Config, error) {
	result := Default()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, result); err != nil {
		return nil, err
	}

	return result, nil
}

// FromEnv overrides credential options with values from the process
// environment. Environment variables take precedence over the config file,
// the automation host passes them per run.
func (r *Config) FromEnv() {
	if token, exist := os.LookupEnv(EnvVarGithubAPIToken); exist {
		r.GithubAPIToken = token
	}

	if login, exist := os.LookupEnv(EnvVarGithubLogin); exist {
		r.GithubLogin = login
	}
}

func (r *Config) Validate() error {
	if r.GithubAPIToken == "" {
		return errors.New("github_api_token is unset, set it in the config file or via " + EnvVarGithubAPIToken)
	}

	return nil
}

func (r *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(r)
}
