package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/config"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/orchestrator"
	"github.com/vk/mazeharness/internal/probe"
	"github.com/vk/mazeharness/internal/request"
	"github.com/vk/mazeharness/internal/sim"
	"github.com/vk/mazeharness/internal/video"
)

// Options holds everything an App needs besides its output writer.
type Options struct {
	Config *config.Config

	// RequestFlagCount and RequestPath describe the -request flag as seen on
	// the command line.
	RequestFlagCount int
	RequestPath      string
}

// App encapsulates the harness dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *config.Config

	engine       *sim.Engine
	orchestrator *orchestrator.Orchestrator

	httpServer *http.Server
	snapshot   atomic.Pointer[attempt.Snapshot]
}

// NewApp is the constructor for the main application. It returns a fully
// wired App with its own isolated logger.
func NewApp(outW io.Writer, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{outW: outW, logger: logger, config: cfg}

	a.engine = sim.NewEngine(simConfig(cfg))
	logger.Debug("Simulation engine created.", "tick_rate", a.engine.Config().TickRate, "realtime", a.engine.Config().Realtime)

	var prober probe.Prober = probe.TCPProbe{Timeout: cfg.Probe.Timeout}
	if cfg.Probe.Skip {
		prober = probe.Skip{}
	}

	a.orchestrator = orchestrator.New(orchestrator.Options{
		Request: request.Options{
			FlagCount:    opts.RequestFlagCount,
			Path:         opts.RequestPath,
			UseFallback:  cfg.Request.UseFallback,
			FallbackPath: resolvePath(cfg.ProjectRoot, cfg.Request.FallbackPath),
		},
		SkipProbe:    cfg.Probe.Skip,
		VideoEnabled: cfg.Video.Enabled,
		FrameWidth:   cfg.Video.Width,
		FrameHeight:  cfg.Video.Height,
		CellSize:     cfg.CellSize,
		DebugMirror:  artifacts.NewDebugMirror(cfg.ProjectRoot, cfg.Request.DebugOutputDir),
	}, orchestrator.Deps{
		Loader:    request.NewLoader(),
		Artifacts: artifacts.NewService(cfg.ProjectRoot, cfg.ArtifactsDir),
		Prober:    prober,
		Scenes:    a.engine,
		Robots:    a.engine,
		Video:     a.newVideoService(ctx),
		Observer:  a.publish,
	})
	logger.Debug("Attempt orchestrator wired.")

	return a
}

// Snapshot returns the latest published attempt snapshot.
func (a *App) Snapshot() (attempt.Snapshot, bool) {
	s := a.snapshot.Load()
	if s == nil {
		return attempt.Snapshot{}, false
	}
	return *s, true
}

func (a *App) publish(s attempt.Snapshot) {
	a.snapshot.Store(&s)
}

// newVideoService resolves ffmpeg and builds a frame recorder over the
// engine. A disabled video returns a service over the not-configured
// recorder; a missing ffmpeg only fails the final encode.
func (a *App) newVideoService(ctx context.Context) *video.Service {
	logger := ctxlog.FromContext(ctx)
	if !a.config.Video.Enabled {
		logger.Info("🎬 Video recording disabled by configuration.")
		return video.NewService(nil)
	}

	path, err := video.Resolve(video.DiscoveryOptions{
		Override:    a.config.Video.FFmpegPath,
		ProjectRoot: a.config.ProjectRoot,
		ToolsDir:    a.config.Video.ToolsDir,
	})
	var encoder video.Encoder = video.FFmpegEncoder{Path: path, Timeout: a.config.Video.EncodeTimeout}
	if err != nil {
		logger.Warn("🎬 ffmpeg not found; frames will be captured but not encoded.", "error", err)
		encoder = video.MissingEncoder{Err: err}
	} else {
		logger.Debug("🎬 ffmpeg resolved.", "path", path)
	}

	rec := video.NewFrameRecorder(a.engine, encoder)
	rec.FallbackFPS = a.config.Video.DefaultFPS
	return video.NewService(rec)
}

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	s := cfg.Simulation
	sc.TickRate = s.TickRate
	sc.Realtime = s.Realtime
	sc.MaxSpeed = s.MaxSpeed
	sc.WheelBase = s.WheelBase
	sc.StopDistance = s.StopDistance
	sc.DriveLeft = s.DriveLeft
	sc.DriveRight = s.DriveRight
	return sc
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
