package attempt

// Snapshot is an immutable copy of a controller's verdict, used for result
// assembly and for status publishing.
type Snapshot struct {
	Phase          Phase       `json:"-"`
	PhaseName      string      `json:"phase"`
	Completed      bool        `json:"completed"`
	Status         Status      `json:"status"`
	FailureKind    FailureKind `json:"failureType"`
	Reason         string      `json:"reason"`
	ElapsedSeconds float64     `json:"elapsedSeconds"`
	TimeLimit      float64     `json:"timeLimitSeconds"`
}

// Snapshot captures the controller state. An unset status on a completed or
// missing attempt is reported as a failure so a result never claims neither.
func (c *Controller) Snapshot() Snapshot {
	if c == nil {
		return FailSnapshot(FailureError, "Attempt controller is missing.", 0)
	}

	s := Snapshot{
		Phase:          c.phase,
		PhaseName:      c.phase.String(),
		Completed:      c.IsCompleted(),
		Status:         c.status,
		FailureKind:    c.failureKind,
		Reason:         c.reason,
		ElapsedSeconds: max(c.elapsed, 0),
		TimeLimit:      c.timeLimit,
	}
	if !c.IsCompleted() {
		return s
	}
	if s.Status != StatusPass {
		s.Status = StatusFail
		s.FailureKind = s.FailureKind.Normalize()
	} else {
		s.FailureKind = FailureNone
	}
	return s
}

// FailSnapshot builds a completed, failed snapshot.
func FailSnapshot(kind FailureKind, reason string, elapsedSeconds float64) Snapshot {
	return Snapshot{
		Phase:          Completed,
		PhaseName:      Completed.String(),
		Completed:      true,
		Status:         StatusFail,
		FailureKind:    kind.Normalize(),
		Reason:         reason,
		ElapsedSeconds: max(elapsedSeconds, 0),
	}
}
