package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/binding"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/model"
	"github.com/vk/mazeharness/internal/request"
	"github.com/vk/mazeharness/internal/video"
)

// Failure reasons produced by the orchestrator itself.
const (
	ReasonWiringIncomplete = "Scene wiring is incomplete: scene provider or robot factory is missing."
	ReasonRobotSpawn       = "Failed to spawn robot."
	ReasonAborted          = "Attempt aborted."
)

// Run executes the attempt. The returned result is the one written to
// result.json. The only error is ErrArtifactsUnavailable, in which case the
// result is nil.
func (o *Orchestrator) Run(ctx context.Context, clock Clock) (res *artifacts.Result, err error) {
	logger := ctxlog.FromContext(ctx)
	defer o.Teardown(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("💥 Attempt panicked.", "panic", r)
			res, err = o.recoverPanic(ctx, r)
		}
	}()

	// Resolve and load the request.
	o.st.source = o.opts.Request.Source()
	loaded, loadErr := o.deps.Loader.Load(o.opts.Request)
	if loadErr != nil {
		logger.Error("Request load failed.", "error", loadErr)
		if err := o.createLayout(ctx, InvalidRequestName); err != nil {
			return nil, err
		}
		o.st.name = InvalidRequestName
		return o.fail(ctx, attempt.FailureInvalidInput, loadErr.Error()), nil
	}
	o.st.source = loaded.Source
	req := loaded.Request
	o.st.name = req.Name
	logger.Debug("Request loaded.", "path", loaded.Path, "source", loaded.Source)

	// Create artifacts layout.
	if err := o.createLayout(ctx, req.Name); err != nil {
		return nil, err
	}

	// Copy request into the attempt folder.
	if err := artifacts.CopyRequestJSON(loaded.Path, *o.st.layout); err != nil {
		logger.Error("Request copy failed.", "error", err)
		return o.fail(ctx, attempt.FailureError, err.Error()), nil
	}
	if o.st.source == request.SourceFallback {
		if err := o.opts.DebugMirror.WriteRequest(req); err != nil {
			logger.Warn("Debug request mirror failed.", "error", err)
		}
	}

	// Business validation.
	if err := request.Validate(req); err != nil {
		logger.Error("Request validation failed.", "error", err)
		return o.fail(ctx, attempt.FailureInvalidInput, err.Error()), nil
	}

	// Connectivity probe.
	if o.opts.SkipProbe {
		logger.Info("Connectivity probe skipped by configuration.")
	} else {
		logger.Debug("Probing brain endpoint.", "endpoint", req.Endpoint)
		if err := o.deps.Prober.Probe(ctx, req.Endpoint); err != nil {
			logger.Error("Connectivity probe failed.", "endpoint", req.Endpoint, "error", err)
			return o.fail(ctx, attempt.FailureConnection, err.Error()), nil
		}
	}

	// Build the grid.
	grid, err := model.Validate(req.Map, o.opts.CellSize)
	if err != nil {
		logger.Error("Level preparation failed.", "error", err)
		return o.fail(ctx, attempt.FailureInvalidInput, err.Error()), nil
	}
	o.st.grid = grid
	logger.Debug("Level grid built.", "rows", grid.Rows(), "cols", grid.Cols(), "cell_size", grid.CellSize())

	// Verify scene wiring.
	if o.deps.Scenes == nil || o.deps.Robots == nil {
		logger.Error("Scene wiring is incomplete.")
		return o.fail(ctx, attempt.FailureError, ReasonWiringIncomplete), nil
	}

	// Scene, level, robot.
	if err := o.spawn(ctx, req); err != nil {
		logger.Error("Runtime scene setup failed.", "error", err)
		return o.fail(ctx, attempt.FailureError, err.Error()), nil
	}

	// Start the attempt, bind, start capture.
	c := attempt.New(req.TimeLimitSeconds).WithClock(o.deps.Now)
	o.st.controller = c
	c.Start()
	logger.Info("🚀 Attempt started.", "name", req.Name, "time_limit_seconds", req.TimeLimitSeconds)

	handle, err := binding.Bind(o.st.scene, grid, o.st.robot, c)
	if err != nil {
		logger.Error("Runtime binding failed.", "error", err)
		c.ForceFail(attempt.FailureError, err.Error())
	}
	o.st.handle = handle
	if handle != nil && !handle.HasBoundarySensor() {
		logger.Warn("Scene has no boundary sensor; bounds are checked per tick only.", "scene", o.st.scene.Name())
	}

	if o.opts.VideoEnabled && c.IsRunning() {
		vreq := video.Request{
			FramesDir:  o.st.layout.FramesDir,
			OutputPath: o.st.layout.VideoPath,
			Width:      o.opts.FrameWidth,
			Height:     o.opts.FrameHeight,
		}
		if err := o.deps.Video.Start(c, vreq); err != nil {
			logger.Error("Video capture start failed.", "error", err)
		}
	}

	// Run loop.
	o.loop(ctx, clock, logger)

	// Stop capture.
	if o.deps.Video.Capturing() {
		out, err := o.deps.Video.Stop(ctx, c, c.ElapsedSeconds())
		if err != nil {
			logger.Error("Video encoding failed.", "error", err, "frames", out.Frames)
		} else {
			logger.Info("🎬 Video encoded.", "path", o.st.layout.VideoPath, "frames", out.Frames, "fps", out.FPS)
		}
	}

	return o.finish(ctx, artifacts.ResultFromSnapshot(req.Name, c.Snapshot(), *o.st.layout)), nil
}

func (o *Orchestrator) loop(ctx context.Context, clock Clock, logger *slog.Logger) {
	c := o.st.controller
	for c.IsRunning() {
		dt, err := clock.Wait(ctx)
		if err != nil {
			logger.Warn("Attempt aborted while waiting for the next tick.", "error", err)
			c.ForceFail(attempt.FailureError, fmt.Sprintf("%s %v", ReasonAborted, err))
			break
		}
		o.tick(dt, logger)
	}
}

// tick runs one iteration: capture a frame, advance time, evaluate.
func (o *Orchestrator) tick(dt float64, logger *slog.Logger) {
	c := o.st.controller
	if !c.IsRunning() {
		return
	}
	if o.deps.Video.Capturing() {
		if err := o.deps.Video.CaptureFrame(c); err != nil {
			logger.Error("Video frame capture failed.", "error", err)
		}
	}
	c.Tick(dt)
	o.st.handle.Evaluate()
	o.publish(c.Snapshot())
}

func (o *Orchestrator) spawn(ctx context.Context, req *request.RunRequest) error {
	sceneName := binding.SceneName(req.Name, o.deps.Now(), o.deps.NewID())
	scene, err := o.deps.Scenes.CreateScene(ctx, sceneName)
	if err != nil {
		return fmt.Errorf("create scene %s: %w", sceneName, err)
	}
	o.st.scene = scene

	if err := scene.SpawnLevel(ctx, o.st.grid); err != nil {
		return fmt.Errorf("spawn level: %w", err)
	}

	robot, err := o.deps.Robots.SpawnRobot(ctx, scene, o.st.grid, req.StartRotationDegrees)
	if err != nil {
		return fmt.Errorf("%s %w", ReasonRobotSpawn, err)
	}
	if robot == nil {
		return fmt.Errorf("%s robot factory returned no robot", ReasonRobotSpawn)
	}
	o.st.robot = robot
	return nil
}

func (o *Orchestrator) createLayout(ctx context.Context, name string) error {
	layout, err := o.deps.Artifacts.CreateLayout(name, o.deps.Now(), o.deps.NewID())
	if err != nil {
		ctxlog.FromContext(ctx).Error("❌ Failed to create artifacts layout; no result will be written.", "name", name, "error", err)
		return fmt.Errorf("%w: %v", ErrArtifactsUnavailable, err)
	}
	o.st.layout = &layout
	ctxlog.FromContext(ctx).Debug("Artifacts layout created.", "folder", layout.AttemptFolder)
	return nil
}

// fail builds, persists, and returns a failure result for a stage that ended
// the attempt before the run loop.
func (o *Orchestrator) fail(ctx context.Context, kind attempt.FailureKind, reason string) *artifacts.Result {
	return o.finish(ctx, artifacts.FailResult(o.st.name, kind, reason, 0, *o.st.layout))
}

// finish writes the result and its debug mirror and publishes the final
// snapshot. Write failures are logged and do not change the outcome.
func (o *Orchestrator) finish(ctx context.Context, res *artifacts.Result) *artifacts.Result {
	logger := ctxlog.FromContext(ctx)
	if err := artifacts.WriteResultJSON(res, *o.st.layout); err != nil {
		logger.Error("Failed to write result.json.", "error", err)
	}
	if o.st.source == request.SourceFallback {
		if err := o.opts.DebugMirror.WriteResult(res); err != nil {
			logger.Warn("Debug result mirror failed.", "error", err)
		}
	}

	if c := o.st.controller; c != nil && c.IsCompleted() {
		o.publish(c.Snapshot())
	} else {
		o.publish(attempt.FailSnapshot(res.FailureType, res.Reason, res.DurationSeconds))
	}

	if res.Passed() {
		logger.Info("✅ Attempt passed.", "name", res.Name, "duration_seconds", res.DurationSeconds, "result", res.Artifacts.Result)
	} else {
		logger.Info("❌ Attempt failed.", "name", res.Name, "failure_type", res.FailureType, "reason", res.Reason, "result", res.Artifacts.Result)
	}
	return res
}

func (o *Orchestrator) recoverPanic(ctx context.Context, r any) (*artifacts.Result, error) {
	reason := fmt.Sprintf("Unexpected internal error: %v", r)
	if o.st.layout == nil {
		name := o.st.name
		if name == "" {
			name = InvalidRequestName
		}
		if err := o.createLayout(ctx, name); err != nil {
			return nil, err
		}
	}
	if c := o.st.controller; c != nil {
		c.ForceFail(attempt.FailureError, reason)
		return o.finish(ctx, artifacts.ResultFromSnapshot(o.st.name, c.Snapshot(), *o.st.layout)), nil
	}
	return o.fail(ctx, attempt.FailureError, reason), nil
}

func (o *Orchestrator) publish(s attempt.Snapshot) {
	if o.deps.Observer != nil {
		o.deps.Observer(s)
	}
}

// Teardown detaches the binding, stops a capture still in progress, unloads
// the scene, and clears the attempt state. It is safe to call repeatedly.
func (o *Orchestrator) Teardown(ctx context.Context) {
	if o.st.torn {
		return
	}
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("💥 Attempt teardown panicked.", "panic", r)
			o.st = state{torn: true, layout: o.st.layout, controller: o.st.controller}
		}
	}()

	o.st.handle.Detach()

	if o.deps.Video.Capturing() {
		if _, err := o.deps.Video.Stop(ctx, o.st.controller, elapsedOf(o.st.controller)); err != nil {
			logger.Warn("Video stop during teardown failed.", "error", err)
		}
	}

	if o.st.scene != nil {
		if err := o.st.scene.Unload(ctx); err != nil {
			logger.Warn("Scene unload failed.", "scene", o.st.scene.Name(), "error", err)
		}
	}

	o.st = state{torn: true, layout: o.st.layout, controller: o.st.controller}
	logger.Debug("🏁 Attempt teardown complete.")
}

func elapsedOf(c *attempt.Controller) float64 {
	if c == nil {
		return 0
	}
	return c.ElapsedSeconds()
}
