package attempt

// FailureKind classifies why an attempt failed. The string values are written
// verbatim into result files.
type FailureKind string

const (
	FailureNone         FailureKind = "None"
	FailureInvalidInput FailureKind = "InvalidInput"
	FailureConnection   FailureKind = "Connection"
	FailureTimeout      FailureKind = "Timeout"
	FailureOutOfBounds  FailureKind = "OutOfBounds"
	FailureError        FailureKind = "Error"
	FailureVideoError   FailureKind = "VideoError"
)

// Normalize maps an unspecified kind to FailureError. A failed attempt never
// carries FailureNone.
func (k FailureKind) Normalize() FailureKind {
	if k == "" || k == FailureNone {
		return FailureError
	}
	return k
}

// Status is the terminal verdict of an attempt.
type Status string

const (
	StatusUnset Status = ""
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
)
