package video

import (
	"context"
	"strings"

	"github.com/vk/mazeharness/internal/attempt"
)

// DefaultFailureReason replaces empty recorder error messages.
const DefaultFailureReason = "Video recording failed."

// Service owns the video lifecycle of one attempt. Any recorder failure
// force-fails the attempt with FailureVideoError.
type Service struct {
	recorder Recorder
}

// NewService wraps recorder. A nil recorder selects NoopRecorder.
func NewService(recorder Recorder) *Service {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &Service{recorder: recorder}
}

// Capturing reports whether the recorder is capturing.
func (s *Service) Capturing() bool {
	return s.recorder.Capturing()
}

// Start begins capture.
func (s *Service) Start(c *attempt.Controller, req Request) error {
	if err := s.recorder.StartCapture(req); err != nil {
		fail(c, err)
		return err
	}
	return nil
}

// CaptureFrame captures one frame.
func (s *Service) CaptureFrame(c *attempt.Controller) error {
	if err := s.recorder.CaptureFrame(); err != nil {
		fail(c, err)
		return err
	}
	return nil
}

// Stop ends capture and encodes the video. The attempt is force-failed only
// if it has not already completed.
func (s *Service) Stop(ctx context.Context, c *attempt.Controller, durationSeconds float64) (Outcome, error) {
	out, err := s.recorder.StopAndEncode(ctx, durationSeconds)
	if err != nil {
		fail(c, err)
		return out, err
	}
	return out, nil
}

// Reason normalizes a recorder error into a failure reason.
func Reason(err error) string {
	if err == nil {
		return DefaultFailureReason
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return DefaultFailureReason
	}
	return msg
}

func fail(c *attempt.Controller, err error) {
	if c == nil {
		return
	}
	c.ForceFail(attempt.FailureVideoError, Reason(err))
}
