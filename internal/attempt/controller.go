package attempt

import "time"

// Phase is the lifecycle position of a Controller.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Completed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "not_started"
	}
}

// Controller tracks elapsed time and the terminal verdict of one attempt.
//
// Completion happens exactly once. TryCompletePass and TryCompleteFail only
// succeed while Running, which is what stops a finish-line check and a timeout
// check from both completing the attempt in the same tick.
type Controller struct {
	timeLimit   float64
	elapsed     float64
	phase       Phase
	status      Status
	failureKind FailureKind
	reason      string
	completedAt *time.Time

	now func() time.Time
}

// New creates a Controller with the given time limit in seconds. Negative
// limits are clamped to zero.
func New(timeLimitSeconds float64) *Controller {
	if timeLimitSeconds < 0 {
		timeLimitSeconds = 0
	}
	c := &Controller{timeLimit: timeLimitSeconds, now: time.Now}
	c.Reset()
	return c
}

// WithClock replaces the wall clock used to stamp CompletedAt.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Controller) TimeLimitSeconds() float64 { return c.timeLimit }
func (c *Controller) ElapsedSeconds() float64   { return c.elapsed }
func (c *Controller) Phase() Phase              { return c.phase }
func (c *Controller) Status() Status            { return c.status }
func (c *Controller) FailureKind() FailureKind  { return c.failureKind }
func (c *Controller) Reason() string            { return c.reason }

// CompletedAt returns when the attempt completed, or nil if it has not.
func (c *Controller) CompletedAt() *time.Time { return c.completedAt }

func (c *Controller) IsStarted() bool   { return c.phase != NotStarted }
func (c *Controller) IsRunning() bool   { return c.phase == Running }
func (c *Controller) IsCompleted() bool { return c.phase == Completed }

// IsTimeLimitExceeded reports whether a running attempt has used up its time.
func (c *Controller) IsTimeLimitExceeded() bool {
	return c.IsRunning() && c.elapsed >= c.timeLimit
}

// Start moves a fresh controller to Running. It is a no-op once started.
func (c *Controller) Start() {
	if c.IsStarted() {
		return
	}
	c.phase = Running
	c.elapsed = 0
	c.status = StatusUnset
	c.failureKind = FailureNone
	c.reason = ""
}

// Tick advances elapsed time while Running. Negative deltas count as zero.
func (c *Controller) Tick(deltaSeconds float64) {
	if !c.IsRunning() {
		return
	}
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	c.elapsed += deltaSeconds
}

// TryCompletePass completes a running attempt as passed.
func (c *Controller) TryCompletePass(reason string) bool {
	return c.tryComplete(StatusPass, FailureNone, reason)
}

// TryCompleteFail completes a running attempt as failed.
func (c *Controller) TryCompleteFail(kind FailureKind, reason string) bool {
	return c.tryComplete(StatusFail, kind.Normalize(), reason)
}

// ForceFail fails the attempt from any non-terminal phase, starting it first
// if needed. It never overwrites a completed attempt and reports whether it
// applied.
func (c *Controller) ForceFail(kind FailureKind, reason string) bool {
	if c.IsCompleted() {
		return false
	}
	if !c.IsStarted() {
		c.phase = Running
	}
	c.complete(StatusFail, kind.Normalize(), reason)
	return true
}

// Reset returns the controller to NotStarted, keeping its time limit.
func (c *Controller) Reset() {
	c.phase = NotStarted
	c.elapsed = 0
	c.status = StatusUnset
	c.failureKind = FailureNone
	c.reason = ""
	c.completedAt = nil
}

func (c *Controller) tryComplete(status Status, kind FailureKind, reason string) bool {
	if !c.IsRunning() {
		return false
	}
	c.complete(status, kind, reason)
	return true
}

func (c *Controller) complete(status Status, kind FailureKind, reason string) {
	at := c.now()
	c.status = status
	c.failureKind = kind
	c.reason = reason
	c.completedAt = &at
	c.phase = Completed
}
