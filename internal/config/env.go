package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MAZEHARNESS_"

// ReadDotEnv parses a .env file into KEY=VALUE pairs. A missing file yields
// no pairs and no error.
func ReadDotEnv(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, k+"="+v)
	}
	return out, nil
}

// envSetter applies a single MAZEHARNESS_* value.
type envSetter func(cfg *Config, v string) error

var envSetters = map[string]envSetter{
	"PROJECT_ROOT":     stringVar(func(c *Config) *string { return &c.ProjectRoot }),
	"ARTIFACTS_DIR":    stringVar(func(c *Config) *string { return &c.ArtifactsDir }),
	"CELL_SIZE":        floatVar(func(c *Config) *float64 { return &c.CellSize }),
	"HEALTHCHECK_PORT": intVar(func(c *Config) *int { return &c.HealthcheckPort }),
	"LOG_LEVEL":        stringVar(func(c *Config) *string { return &c.LogLevel }),
	"LOG_FORMAT":       stringVar(func(c *Config) *string { return &c.LogFormat }),
	"SKIP_PROBE":       boolVar(func(c *Config) *bool { return &c.Probe.Skip }),
	"PROBE_TIMEOUT_MS": func(c *Config, v string) error {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Probe.Timeout = time.Duration(ms) * time.Millisecond
		return nil
	},
	"USE_FALLBACK":     boolVar(func(c *Config) *bool { return &c.Request.UseFallback }),
	"FALLBACK_REQUEST": stringVar(func(c *Config) *string { return &c.Request.FallbackPath }),
	"DEBUG_OUTPUT_DIR": stringVar(func(c *Config) *string { return &c.Request.DebugOutputDir }),
	"VIDEO_ENABLED":    boolVar(func(c *Config) *bool { return &c.Video.Enabled }),
	"FFMPEG_PATH":      stringVar(func(c *Config) *string { return &c.Video.FFmpegPath }),
	"TOOLS_DIR":        stringVar(func(c *Config) *string { return &c.Video.ToolsDir }),
	"TICK_RATE":        floatVar(func(c *Config) *float64 { return &c.Simulation.TickRate }),
	"REALTIME":         boolVar(func(c *Config) *bool { return &c.Simulation.Realtime }),
}

// ApplyEnv applies MAZEHARNESS_* entries from environ onto cfg. Later entries
// win over earlier ones; unknown keys are ignored.
func ApplyEnv(cfg *Config, environ []string) error {
	var errs []error
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, EnvPrefix)
		if !ok {
			continue
		}
		setter, ok := envSetters[name]
		if !ok {
			continue
		}
		if err := setter(cfg, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func stringVar(field func(*Config) *string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolVar(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func intVar(field func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatVar(field func(*Config) *float64) envSetter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}
