package artifacts

import "github.com/vk/mazeharness/internal/attempt"

// Paths lists the attempt's artifacts relative to the project root.
type Paths struct {
	Request string `json:"request"`
	Result  string `json:"result"`
	Video   string `json:"video"`
}

// Result is the machine-readable outcome of one attempt.
type Result struct {
	Name            string              `json:"name"`
	Status          attempt.Status      `json:"status"`
	FailureType     attempt.FailureKind `json:"failureType"`
	Reason          string              `json:"reason"`
	DurationSeconds float64             `json:"durationSeconds"`
	Artifacts       Paths               `json:"artifacts"`
}

// Passed reports whether the attempt passed.
func (r *Result) Passed() bool {
	return r != nil && r.Status == attempt.StatusPass
}

// PathsFor returns the project-relative artifact paths of a layout.
func PathsFor(l Layout) Paths {
	return Paths{
		Request: l.Relative(l.RequestPath),
		Result:  l.Relative(l.ResultPath),
		Video:   l.Relative(l.VideoPath),
	}
}

// ResultFromSnapshot builds the result of an attempt that reached the run loop.
func ResultFromSnapshot(name string, s attempt.Snapshot, l Layout) *Result {
	status := s.Status
	kind := attempt.FailureNone
	if status != attempt.StatusPass {
		status = attempt.StatusFail
		kind = s.FailureKind.Normalize()
	}
	return &Result{
		Name:            name,
		Status:          status,
		FailureType:     kind,
		Reason:          s.Reason,
		DurationSeconds: max(s.ElapsedSeconds, 0),
		Artifacts:       PathsFor(l),
	}
}

// FailResult builds the result of an attempt that ended before or outside the
// run loop.
func FailResult(name string, kind attempt.FailureKind, reason string, durationSeconds float64, l Layout) *Result {
	return &Result{
		Name:            name,
		Status:          attempt.StatusFail,
		FailureType:     kind.Normalize(),
		Reason:          reason,
		DurationSeconds: max(durationSeconds, 0),
		Artifacts:       PathsFor(l),
	}
}
