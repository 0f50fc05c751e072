package binding

import (
	"errors"
	"sync"

	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/model"
)

// ReasonPerimeter is the failure reason when the perimeter sensor fires.
const ReasonPerimeter = "Robot left level bounds (perimeter trigger)."

// Bind errors.
var (
	ErrSceneMissing      = errors.New("Runtime scene handle is missing.")
	ErrGridMissing       = errors.New("Level grid is missing.")
	ErrRobotMissing      = errors.New("Robot instance is missing.")
	ErrControllerMissing = errors.New("Attempt controller is missing.")
)

// Handle is the per-attempt wiring created by Bind.
type Handle struct {
	robot     Robot
	evaluator *attempt.Evaluator
	hasSensor bool

	once   sync.Once
	cancel func()
}

// Bind builds the evaluator for the attempt and subscribes to the scene's
// perimeter sensor when there is one.
func Bind(scene Scene, grid *model.Grid, robot Robot, c *attempt.Controller) (*Handle, error) {
	switch {
	case scene == nil:
		return nil, ErrSceneMissing
	case grid == nil:
		return nil, ErrGridMissing
	case robot == nil:
		return nil, ErrRobotMissing
	case c == nil:
		return nil, ErrControllerMissing
	}

	h := &Handle{
		robot:     robot,
		evaluator: attempt.NewEvaluator(grid, c),
	}

	if sensor := scene.BoundarySensor(); sensor != nil {
		robotID := robot.ID()
		h.hasSensor = true
		h.cancel = sensor.Subscribe(func(bodyID string) {
			if !c.IsRunning() || bodyID != robotID {
				return
			}
			if grid.IsWithinBounds(robot.Position()) {
				return
			}
			c.TryCompleteFail(attempt.FailureOutOfBounds, ReasonPerimeter)
		})
	}
	return h, nil
}

// HasBoundarySensor reports whether a perimeter subscription was made.
func (h *Handle) HasBoundarySensor() bool { return h != nil && h.hasSensor }

// Evaluate runs the terminal condition checks at the robot's position and
// reports whether the attempt is now complete.
func (h *Handle) Evaluate() bool {
	if h == nil {
		return false
	}
	return h.evaluator.Evaluate(h.robot.Position())
}

// Detach removes the perimeter subscription. It is safe to call more than
// once and on a nil handle.
func (h *Handle) Detach() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.cancel != nil {
			h.cancel()
			h.cancel = nil
		}
	})
}
