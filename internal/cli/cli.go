package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/config"
	"github.com/vk/mazeharness/internal/orchestrator"
)

// Process exit codes.
const (
	ExitPass        = 0
	ExitFail        = 1
	ExitUsage       = 2
	ExitNoArtifacts = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is a parsed command line: the effective configuration and what
// was seen of the -request flag.
type Invocation struct {
	Config           *config.Config
	RequestFlagCount int
	RequestPath      string
}

// requestFlag counts its occurrences so a repeated -request can be rejected
// by the request loader rather than silently keeping the last value.
type requestFlag struct {
	count int
	path  string
}

func (f *requestFlag) String() string { return f.path }

func (f *requestFlag) Set(v string) error {
	f.count++
	f.path = v
	return nil
}

// Parse processes command-line arguments. It returns the Invocation, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// environ is passed to the config loader; nil means the process environment.
func Parse(ctx context.Context, args []string, output io.Writer, environ []string) (*Invocation, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mazeharness", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mazeharness - Runs one headless maze attempt and writes its artifacts.

Usage:
  mazeharness -request <path> [options]

Exit codes:
  0 pass, 1 fail, 2 usage error, 3 no artifacts folder could be created

Options:
`)
		flagSet.PrintDefaults()
	}

	var req requestFlag
	flagSet.Var(&req, "request", "Path to the run request JSON file. Must be given once.")
	configFlag := flagSet.String("config", "", "Path to an .hcl config file or a directory of them.")
	envFileFlag := flagSet.String("env-file", config.DefaultDotEnvPath, "Path to a .env file with MAZEHARNESS_* overrides.")
	projectRootFlag := flagSet.String("project-root", "", "Project root that relative paths resolve against.")
	artifactsDirFlag := flagSet.String("artifacts-dir", "", "Artifacts folder, relative to the project root.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	skipProbeFlag := flagSet.Bool("skip-probe", false, "Skip the connectivity probe of the brain endpoint.")
	probeTimeoutFlag := flagSet.Duration("probe-timeout", 0, "Connectivity probe timeout.")
	fallbackFlag := flagSet.Bool("fallback", false, "Read the configured fallback request when -request is absent.")
	debugOutputFlag := flagSet.String("debug-output", "", "Folder for last-request.json and last-result.json of fallback runs.")
	ffmpegFlag := flagSet.String("ffmpeg", "", "Explicit path to the ffmpeg executable.")
	noVideoFlag := flagSet.Bool("no-video", false, "Disable frame capture and video encoding.")
	realtimeFlag := flagSet.Bool("realtime", false, "Pace the simulation with wall-clock time.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg, err := config.Load(ctx, config.Sources{
		ConfigPath: *configFlag,
		DotEnvPath: *envFileFlag,
		Environ:    environ,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	// Only flags given explicitly override the loaded configuration.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "project-root":
			cfg.ProjectRoot = *projectRootFlag
		case "artifacts-dir":
			cfg.ArtifactsDir = *artifactsDirFlag
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "healthcheck-port":
			cfg.HealthcheckPort = *healthPortFlag
		case "skip-probe":
			cfg.Probe.Skip = *skipProbeFlag
		case "probe-timeout":
			cfg.Probe.Timeout = *probeTimeoutFlag
		case "fallback":
			cfg.Request.UseFallback = *fallbackFlag
		case "debug-output":
			cfg.Request.DebugOutputDir = *debugOutputFlag
		case "ffmpeg":
			cfg.Video.FFmpegPath = *ffmpegFlag
		case "no-video":
			cfg.Video.Enabled = !*noVideoFlag
		case "realtime":
			cfg.Simulation.Realtime = *realtimeFlag
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	slog.Debug("CLI parameter validation complete.")

	inv := &Invocation{Config: cfg, RequestFlagCount: req.count, RequestPath: req.path}
	slog.Debug("CLI parser finished successfully.", "request_flags", req.count, "request", req.path)
	return inv, false, nil
}

// ExitFor maps the outcome of an attempt to the process exit error. A pass
// yields nil.
func ExitFor(res *artifacts.Result, err error) error {
	switch {
	case errors.Is(err, orchestrator.ErrArtifactsUnavailable):
		return &ExitError{Code: ExitNoArtifacts, Message: err.Error()}
	case err != nil:
		return &ExitError{Code: ExitFail, Message: err.Error()}
	case res == nil:
		return &ExitError{Code: ExitFail, Message: "attempt produced no result"}
	case res.Passed():
		return nil
	default:
		return &ExitError{Code: ExitFail, Message: fmt.Sprintf("attempt failed (%s): %s", res.FailureType, res.Reason)}
	}
}
