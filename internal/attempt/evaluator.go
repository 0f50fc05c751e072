package attempt

import "github.com/vk/mazeharness/internal/model"

// Reasons recorded by the evaluator.
const (
	ReasonFinished    = "Robot reached finish area."
	ReasonOutOfBounds = "Robot left level bounds."
	ReasonTimeout     = "Level completion time limit exceeded."
)

// Evaluator judges terminal conditions for one grid/attempt pair. It holds no
// state of its own; every call reads the grid, the controller, and the
// position it is given.
type Evaluator struct {
	grid       *model.Grid
	controller *Controller
}

// NewEvaluator binds an evaluator to a grid and controller.
func NewEvaluator(grid *model.Grid, controller *Controller) *Evaluator {
	return &Evaluator{grid: grid, controller: controller}
}

// Evaluate checks the robot position against the terminal conditions in
// priority order: finish, out of bounds, timeout. The first match completes
// the attempt. It reports whether this call completed the attempt.
//
// Finish wins over bounds because the finish cell may sit on the grid edge,
// and bounds wins over timeout so an escape at the deadline is an escape.
func (e *Evaluator) Evaluate(x, z float64) bool {
	if e == nil || e.grid == nil || e.controller == nil || !e.controller.IsRunning() {
		return false
	}

	if e.grid.IsFinish(x, z) {
		return e.controller.TryCompletePass(ReasonFinished)
	}
	if !e.grid.IsWithinBounds(x, z) {
		return e.controller.TryCompleteFail(FailureOutOfBounds, ReasonOutOfBounds)
	}
	if e.controller.IsTimeLimitExceeded() {
		return e.controller.TryCompleteFail(FailureTimeout, ReasonTimeout)
	}
	return false
}
