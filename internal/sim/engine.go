package sim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/vk/mazeharness/internal/binding"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/model"
)

// ErrSceneBusy is returned when a scene is requested while another is loaded.
var ErrSceneBusy = errors.New("another scene is already loaded")

// Engine hosts at most one loaded World at a time. It implements
// binding.SceneProvider, binding.RobotFactory, and video.FrameSource.
type Engine struct {
	cfg Config

	// NewBrain builds the brain for each spawned robot. It defaults to a
	// LocalBrain configured from Config.
	NewBrain func(Config) Brain

	mu     sync.Mutex
	active *World
	robots int
}

// NewEngine returns an engine with cfg applied over the defaults.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Active returns the loaded world, or nil.
func (e *Engine) Active() *World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// CreateScene implements binding.SceneProvider.
func (e *Engine) CreateScene(ctx context.Context, name string) (binding.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("scene name is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return nil, fmt.Errorf("%w: %s", ErrSceneBusy, e.active.name)
	}

	w := &World{name: name, onUnload: e.release}
	e.active = w
	ctxlog.FromContext(ctx).Debug("Scene created.", "scene", name)
	return w, nil
}

func (e *Engine) release(w *World) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == w {
		e.active = nil
	}
}

// SpawnRobot implements binding.RobotFactory. The robot is placed at the
// center of the start cell.
func (e *Engine) SpawnRobot(ctx context.Context, scene binding.Scene, grid *model.Grid, rotationDegrees float64) (binding.Robot, error) {
	w, ok := scene.(*World)
	if !ok || w == nil {
		return nil, fmt.Errorf("scene %T is not a simulation world", scene)
	}
	if grid == nil {
		return nil, errors.New("level grid is missing")
	}

	e.mu.Lock()
	e.robots++
	id := fmt.Sprintf("robot-%d", e.robots)
	e.mu.Unlock()

	newBrain := e.NewBrain
	if newBrain == nil {
		newBrain = defaultBrain
	}

	start := grid.Start()
	x, z := grid.CellCenter(start.Row, start.Col)
	r := newRobot(id, e.cfg, newBrain(e.cfg), x, z, rotationDegrees)
	if err := w.spawnRobot(r); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Robot spawned.", "robot", id, "x", x, "z", z, "rotation", rotationDegrees)
	return r, nil
}

// Step advances the loaded world.
func (e *Engine) Step(dt float64) {
	if w := e.Active(); w != nil {
		w.Step(dt)
	}
}

// Frame implements video.FrameSource by rendering the loaded world.
func (e *Engine) Frame(width, height int) (image.Image, error) {
	w := e.Active()
	if w == nil {
		return nil, errors.New("no scene is loaded")
	}
	return Render(w, width, height)
}

func defaultBrain(cfg Config) Brain {
	return LocalBrain{
		StopDistance: cfg.StopDistance,
		Drive:        MotorCommand{Left: cfg.DriveLeft, Right: cfg.DriveRight},
	}
}
