package video

import (
	"context"
	"errors"
)

// DefaultFPS is used when the effective frame rate cannot be derived.
const DefaultFPS = 30.0

// FramePattern is the printf pattern of captured frame files.
const FramePattern = "frame-%06d.png"

// ErrNotConfigured is returned by NoopRecorder for every operation.
var ErrNotConfigured = errors.New("Video recorder is not configured.")

// Request describes where a capture writes its frames and video.
type Request struct {
	FramesDir  string
	OutputPath string
	Width      int
	Height     int
}

// Outcome summarizes a stopped capture.
type Outcome struct {
	Frames int
	FPS    float64
}

// Recorder captures frames during an attempt and encodes them when stopped.
type Recorder interface {
	StartCapture(req Request) error
	CaptureFrame() error
	// StopAndEncode always leaves the recorder not capturing.
	StopAndEncode(ctx context.Context, durationSeconds float64) (Outcome, error)
	Capturing() bool
}

// NoopRecorder stands in when no recorder is configured. Every operation
// fails with ErrNotConfigured.
type NoopRecorder struct{}

func (NoopRecorder) StartCapture(Request) error { return ErrNotConfigured }
func (NoopRecorder) CaptureFrame() error        { return ErrNotConfigured }
func (NoopRecorder) Capturing() bool            { return false }

func (NoopRecorder) StopAndEncode(context.Context, float64) (Outcome, error) {
	return Outcome{}, ErrNotConfigured
}
