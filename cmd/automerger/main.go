package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/automerger/internal/automerge"
	"github.com/simplesurance/automerger/internal/cfg"
	"github.com/simplesurance/automerger/internal/githubclt"
	"github.com/simplesurance/automerger/internal/logfields"
	"github.com/simplesurance/automerger/internal/provider/github"
)

const appName = "automerger"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Error(
			"panic caught, terminating",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

type arguments struct {
	Verbose     *bool
	ConfigFile  *string
	EventName   *string
	EventPath   *string
	ShowVersion *bool
}

var args arguments

const defConfigFile = "/etc/automerger/config.toml"

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			defConfigFile,
			"path to the automerger configuration file",
		),
		EventName: pflag.String(
			"event-name",
			os.Getenv(github.EnvVarEventName),
			"name of the github event that triggered the run",
		),
		EventPath: pflag.String(
			"event-path",
			os.Getenv(github.EnvVarEventPath),
			"path to the JSON payload of the triggering event",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\nEvaluate a GitHub event and auto-merge eligible pull requests.\n", appName)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	file, err := os.Open(*args.ConfigFile)
	if err != nil {
		// credentials can be passed via environment variables, a
		// missing default config file is not an error
		if os.IsNotExist(err) && !pflag.CommandLine.Changed("cfg-file") {
			return cfg.Default()
		}

		exitOnErr(fmt.Sprintf("could not open configuration file: %s", *args.ConfigFile), err)
	}
	defer file.Close()

	config, err := cfg.Load(file)
	if err != nil {
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	return config
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stdout,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	cfg.OutputPaths = []string{"stdout"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func mustParseEventFilter(config *cfg.Config) *automerge.EventFilter {
	if config.EventFilterQuery == "" {
		return nil
	}

	filter, err := automerge.NewEventFilter(config.EventFilterQuery)
	if err != nil {
		logger.Fatal(
			"could not parse event filter query",
			logfields.Event("event_filter_parsing_failed"),
			zap.String("event_filter_query", config.EventFilterQuery),
			zap.Error(err),
		)
	}

	return filter
}

func main() {
	defer panicHandler()

	// -1 runs the registered exit hooks without forcing an exit code,
	// returning from main must exit with 0
	defer goodbye.Exit(context.Background(), -1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	config := mustParseCfg()
	config.FromEnv()
	exitOnErr("configuration is invalid", config.Validate())

	mustInitLogger(config)

	logger.Info(
		"loaded cfg",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.String("github_login", config.GithubLogin),
		zap.String("event_filter_query", config.EventFilterQuery),
		zap.Strings("pull_request_trigger_actions", config.PullRequestTriggerActions),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
	)

	event, err := github.LoadEvent(*args.EventName, *args.EventPath)
	if err != nil {
		logger.Fatal(
			"loading the triggering event failed",
			logfields.Event("event_loading_failed"),
			zap.String("event_name", *args.EventName),
			zap.String("event_path", *args.EventPath),
			zap.Error(err),
		)
	}

	ghClient := githubclt.New(config.GithubAPIToken)

	agent := automerge.New(
		ghClient,
		config.GithubLogin,
		automerge.WithPullRequestTriggerActions(config.PullRequestTriggerActions),
		automerge.WithEventFilter(mustParseEventFilter(config)),
	)

	outcomes := agent.HandleEvent(context.Background(), event)

	logger.Info(
		"event processed",
		logfields.Event("run_finished"),
		logfields.TriggerEvent(event.Name),
		zap.Stringers("outcomes", outcomes),
	)
}
