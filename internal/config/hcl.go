package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the HCL file layout. Every field is optional; absent
// values leave the current configuration untouched.
type fileRoot struct {
	ProjectRoot     *string  `hcl:"project_root,optional"`
	ArtifactsDir    *string  `hcl:"artifacts_dir,optional"`
	CellSize        *float64 `hcl:"cell_size,optional"`
	HealthcheckPort *int     `hcl:"healthcheck_port,optional"`
	LogLevel        *string  `hcl:"log_level,optional"`
	LogFormat       *string  `hcl:"log_format,optional"`

	Probe      *probeBlock      `hcl:"probe,block"`
	Request    *requestBlock    `hcl:"request,block"`
	Video      *videoBlock      `hcl:"video,block"`
	Simulation *simulationBlock `hcl:"simulation,block"`
}

type probeBlock struct {
	Skip      *bool `hcl:"skip,optional"`
	TimeoutMS *int  `hcl:"timeout_ms,optional"`
}

type requestBlock struct {
	UseFallback    *bool   `hcl:"use_fallback,optional"`
	FallbackPath   *string `hcl:"fallback_path,optional"`
	DebugOutputDir *string `hcl:"debug_output_dir,optional"`
}

type videoBlock struct {
	Enabled       *bool    `hcl:"enabled,optional"`
	FFmpegPath    *string  `hcl:"ffmpeg_path,optional"`
	ToolsDir      *string  `hcl:"tools_dir,optional"`
	Width         *int     `hcl:"width,optional"`
	Height        *int     `hcl:"height,optional"`
	DefaultFPS    *float64 `hcl:"default_fps,optional"`
	EncodeTimeout *string  `hcl:"encode_timeout,optional"`
}

type simulationBlock struct {
	TickRate     *float64 `hcl:"tick_rate,optional"`
	Realtime     *bool    `hcl:"realtime,optional"`
	MaxSpeed     *float64 `hcl:"max_speed,optional"`
	WheelBase    *float64 `hcl:"wheel_base,optional"`
	StopDistance *float64 `hcl:"stop_distance,optional"`
	DriveLeft    *float64 `hcl:"drive_left,optional"`
	DriveRight   *float64 `hcl:"drive_right,optional"`
}

// LoadHCL applies every .hcl file found at path onto cfg. A directory is
// searched recursively and its files are applied in lexical order.
func LoadHCL(ctx context.Context, path string, cfg *Config, environ []string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return fmt.Errorf("failed to find config files at %s: %w", path, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .hcl config files found at %s", path)
	}
	logger.Debug("Discovered HCL config files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(environ)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if err := root.apply(cfg); err != nil {
			return fmt.Errorf("invalid value in %s: %w", file, err)
		}
		logger.Debug("Applied HCL config file.", "file", file)
	}
	return nil
}

// newEvalContext exposes the environment as the `env` object.
func newEvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclsyntax.ValidIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func (r *fileRoot) apply(cfg *Config) error {
	set(&cfg.ProjectRoot, r.ProjectRoot)
	set(&cfg.ArtifactsDir, r.ArtifactsDir)
	set(&cfg.CellSize, r.CellSize)
	set(&cfg.HealthcheckPort, r.HealthcheckPort)
	set(&cfg.LogLevel, r.LogLevel)
	set(&cfg.LogFormat, r.LogFormat)

	if p := r.Probe; p != nil {
		set(&cfg.Probe.Skip, p.Skip)
		if p.TimeoutMS != nil {
			cfg.Probe.Timeout = time.Duration(*p.TimeoutMS) * time.Millisecond
		}
	}
	if q := r.Request; q != nil {
		set(&cfg.Request.UseFallback, q.UseFallback)
		set(&cfg.Request.FallbackPath, q.FallbackPath)
		set(&cfg.Request.DebugOutputDir, q.DebugOutputDir)
	}
	if v := r.Video; v != nil {
		set(&cfg.Video.Enabled, v.Enabled)
		set(&cfg.Video.FFmpegPath, v.FFmpegPath)
		set(&cfg.Video.ToolsDir, v.ToolsDir)
		set(&cfg.Video.Width, v.Width)
		set(&cfg.Video.Height, v.Height)
		set(&cfg.Video.DefaultFPS, v.DefaultFPS)
		if v.EncodeTimeout != nil {
			d, err := time.ParseDuration(*v.EncodeTimeout)
			if err != nil {
				return fmt.Errorf("video.encode_timeout: %w", err)
			}
			cfg.Video.EncodeTimeout = d
		}
	}
	if s := r.Simulation; s != nil {
		set(&cfg.Simulation.TickRate, s.TickRate)
		set(&cfg.Simulation.Realtime, s.Realtime)
		set(&cfg.Simulation.MaxSpeed, s.MaxSpeed)
		set(&cfg.Simulation.WheelBase, s.WheelBase)
		set(&cfg.Simulation.StopDistance, s.StopDistance)
		set(&cfg.Simulation.DriveLeft, s.DriveLeft)
		set(&cfg.Simulation.DriveRight, s.DriveRight)
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
