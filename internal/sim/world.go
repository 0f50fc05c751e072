package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/mazeharness/internal/binding"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/model"
)

// ErrSceneUnloaded is returned when a world is used after Unload.
var ErrSceneUnloaded = errors.New("scene is unloaded")

// World is one isolated scene. It implements binding.Scene.
type World struct {
	name string

	mu        sync.Mutex
	grid      *model.Grid
	perimeter *Perimeter
	robot     *Robot
	inside    bool
	elapsed   float64
	unloaded  bool
	onUnload  func(*World)
}

// Name returns the scene name.
func (w *World) Name() string { return w.name }

// Grid returns the spawned level, or nil before SpawnLevel.
func (w *World) Grid() *model.Grid {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grid
}

// Robot returns the spawned robot, or nil.
func (w *World) Robot() *Robot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.robot
}

// Elapsed returns the simulated seconds stepped so far.
func (w *World) Elapsed() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsed
}

// Unloaded reports whether Unload has run.
func (w *World) Unloaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.unloaded
}

// SpawnLevel builds the level for grid with a perimeter sensor around it.
func (w *World) SpawnLevel(ctx context.Context, grid *model.Grid) error {
	if grid == nil {
		return errors.New("level grid is missing")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unloaded {
		return ErrSceneUnloaded
	}
	if w.grid != nil {
		return fmt.Errorf("scene %s already has a level", w.name)
	}
	w.grid = grid
	w.perimeter = &Perimeter{}

	ex, ez := grid.Extent()
	ctxlog.FromContext(ctx).Debug("Level spawned.", "scene", w.name, "rows", grid.Rows(), "cols", grid.Cols(), "extent_x", ex, "extent_z", ez)
	return nil
}

// BoundarySensor returns the level perimeter, or nil before SpawnLevel.
func (w *World) BoundarySensor() binding.BoundarySensor {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.perimeter == nil {
		return nil
	}
	return w.perimeter
}

// Unload tears the scene down. Repeated calls are no-ops.
func (w *World) Unload(ctx context.Context) error {
	w.mu.Lock()
	if w.unloaded {
		w.mu.Unlock()
		return nil
	}
	w.unloaded = true
	w.robot = nil
	w.perimeter = nil
	onUnload := w.onUnload
	w.mu.Unlock()

	if onUnload != nil {
		onUnload(w)
	}
	ctxlog.FromContext(ctx).Debug("Scene unloaded.", "scene", w.name)
	return nil
}

func (w *World) spawnRobot(r *Robot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.unloaded:
		return ErrSceneUnloaded
	case w.grid == nil:
		return fmt.Errorf("scene %s has no level", w.name)
	case w.robot != nil:
		return fmt.Errorf("scene %s already has a robot", w.name)
	}
	w.robot = r
	w.inside = true
	return nil
}

// Step advances the world by dt seconds. The perimeter fires once each time
// the robot moves from inside the level to outside.
func (w *World) Step(dt float64) {
	w.mu.Lock()
	if w.unloaded || w.grid == nil {
		w.mu.Unlock()
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.elapsed += dt
	grid, robot, perimeter := w.grid, w.robot, w.perimeter
	w.mu.Unlock()

	if robot == nil {
		return
	}
	robot.step(grid, dt)

	inside := grid.IsWithinBounds(robot.Position())
	w.mu.Lock()
	crossed := w.inside && !inside
	w.inside = inside
	w.mu.Unlock()

	if crossed && perimeter != nil {
		perimeter.Enter(robot.ID())
	}
}
