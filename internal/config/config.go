package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxTickRate bounds simulation.tick_rate in Hz.
const MaxTickRate = 1000

// Config is the complete harness configuration.
type Config struct {
	ProjectRoot     string
	ArtifactsDir    string
	CellSize        float64
	HealthcheckPort int
	LogLevel        string
	LogFormat       string

	Probe      ProbeConfig
	Request    RequestConfig
	Video      VideoConfig
	Simulation SimulationConfig
}

// ProbeConfig controls the pre-flight connectivity check.
type ProbeConfig struct {
	Skip    bool
	Timeout time.Duration
}

// RequestConfig controls where the run request is read from when -request is
// absent, and where debug copies go.
type RequestConfig struct {
	UseFallback    bool
	FallbackPath   string
	DebugOutputDir string
}

// VideoConfig controls frame capture and encoding.
type VideoConfig struct {
	Enabled       bool
	FFmpegPath    string
	ToolsDir      string
	Width         int
	Height        int
	DefaultFPS    float64
	EncodeTimeout time.Duration
}

// SimulationConfig tunes the headless simulation.
type SimulationConfig struct {
	TickRate     float64
	Realtime     bool
	MaxSpeed     float64
	WheelBase    float64
	StopDistance float64
	DriveLeft    float64
	DriveRight   float64
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProjectRoot:     ".",
		ArtifactsDir:    "artifacts",
		CellSize:        10,
		HealthcheckPort: 0,
		LogLevel:        "info",
		LogFormat:       LogFormatText,
		Probe: ProbeConfig{
			Timeout: 3000 * time.Millisecond,
		},
		Request: RequestConfig{
			FallbackPath: "request.json",
		},
		Video: VideoConfig{
			Enabled:       true,
			ToolsDir:      "tools/ffmpeg",
			Width:         640,
			Height:        480,
			DefaultFPS:    30,
			EncodeTimeout: 2 * time.Minute,
		},
		Simulation: SimulationConfig{
			TickRate:     30,
			MaxSpeed:     10,
			WheelBase:    4,
			StopDistance: 10,
			DriveLeft:    1,
			DriveRight:   1,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json (got %q)", c.LogFormat))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be > 0 (got %v)", c.CellSize))
	}
	if c.HealthcheckPort < 0 || c.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("healthcheck_port must be 0-65535 (got %d)", c.HealthcheckPort))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be > 0 (got %s)", c.Probe.Timeout))
	}
	if c.Video.Width < 0 || c.Video.Height < 0 {
		errs = append(errs, fmt.Errorf("video size must not be negative (got %dx%d)", c.Video.Width, c.Video.Height))
	}
	if c.Video.DefaultFPS <= 0 {
		errs = append(errs, fmt.Errorf("video default_fps must be > 0 (got %v)", c.Video.DefaultFPS))
	}
	if c.Video.EncodeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("video encode_timeout must be > 0 (got %s)", c.Video.EncodeTimeout))
	}
	if c.Simulation.TickRate <= 0 || c.Simulation.TickRate > MaxTickRate {
		errs = append(errs, fmt.Errorf("simulation tick_rate must be in (0, %v] (got %v)", float64(MaxTickRate), c.Simulation.TickRate))
	}
	if c.Simulation.WheelBase <= 0 {
		errs = append(errs, fmt.Errorf("simulation wheel_base must be > 0 (got %v)", c.Simulation.WheelBase))
	}
	return errors.Join(errs...)
}
