// Package binding wires a spawned robot to the attempt controller: it owns
// the terminal condition evaluator for the attempt and the perimeter sensor
// subscription, and releases both on Detach.
//
// The scene, robot, and sensor types are ports. internal/sim provides the
// headless implementation; tests provide fakes.
package binding

import (
	"context"

	"github.com/vk/mazeharness/internal/model"
)

// Scene is an isolated world that hosts one attempt.
type Scene interface {
	Name() string
	// SpawnLevel builds the level geometry for grid, including the perimeter
	// sensor sized to the grid extent.
	SpawnLevel(ctx context.Context, grid *model.Grid) error
	// BoundarySensor returns the perimeter sensor, or nil if the level has
	// none.
	BoundarySensor() BoundarySensor
	Unload(ctx context.Context) error
}

// SceneProvider creates scenes.
type SceneProvider interface {
	CreateScene(ctx context.Context, name string) (Scene, error)
}

// Robot is the attempt's robot body.
type Robot interface {
	ID() string
	// Position returns the world position on the ground plane.
	Position() (x, z float64)
}

// RobotFactory spawns the robot at the grid's start cell.
type RobotFactory interface {
	SpawnRobot(ctx context.Context, scene Scene, grid *model.Grid, rotationDegrees float64) (Robot, error)
}

// BoundarySensor reports bodies crossing the level perimeter.
type BoundarySensor interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(bodyID string)) (cancel func())
}
