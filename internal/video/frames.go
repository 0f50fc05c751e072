package video

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FrameSource renders the current view of the attempt.
type FrameSource interface {
	Frame(width, height int) (image.Image, error)
}

// FrameRecorder writes one PNG per captured frame and hands the sequence to an
// Encoder on stop. Its states are idle, capturing, and stopped; a stopped
// recorder can start a new capture.
type FrameRecorder struct {
	// FallbackFPS replaces an underivable frame rate. Zero means DefaultFPS.
	FallbackFPS float64

	source  FrameSource
	encoder Encoder

	mu        sync.Mutex
	capturing bool
	req       Request
	frames    int
}

// NewFrameRecorder returns a recorder that renders frames from source and
// encodes them with encoder.
func NewFrameRecorder(source FrameSource, encoder Encoder) *FrameRecorder {
	return &FrameRecorder{source: source, encoder: encoder}
}

// Capturing reports whether a capture is active.
func (r *FrameRecorder) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capturing
}

// Frames returns the number of frames captured since the last start.
func (r *FrameRecorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// StartCapture creates the frames directory and resets the frame counter.
func (r *FrameRecorder) StartCapture(req Request) error {
	if strings.TrimSpace(req.FramesDir) == "" {
		return errors.New("frames directory path is empty")
	}
	if r.source == nil {
		return errors.New("frame source is not configured")
	}
	if err := os.MkdirAll(req.FramesDir, 0o755); err != nil {
		return fmt.Errorf("create frames directory %s: %w", req.FramesDir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.req = req
	r.frames = 0
	r.capturing = true
	return nil
}

// CaptureFrame renders and stores the next frame.
func (r *FrameRecorder) CaptureFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.capturing {
		return errors.New("frame capture is not active")
	}

	path := filepath.Join(r.req.FramesDir, fmt.Sprintf(FramePattern, r.frames))
	img, err := r.source.Frame(r.req.Width, r.req.Height)
	if err != nil {
		return fmt.Errorf("render frame %s: %w", filepath.Base(path), err)
	}
	if err := writePNG(path, img); err != nil {
		return fmt.Errorf("capture frame %s: %w", path, err)
	}
	r.frames++
	return nil
}

// StopAndEncode ends the capture and encodes the frames at the effective
// frame rate. The encoder is never invoked without frames. On success the
// frames directory is removed.
func (r *FrameRecorder) StopAndEncode(ctx context.Context, durationSeconds float64) (Outcome, error) {
	r.mu.Lock()
	r.capturing = false
	req, frames := r.req, r.frames
	r.mu.Unlock()

	out := Outcome{Frames: frames}
	if durationSeconds > 0 {
		out.FPS = float64(frames) / durationSeconds
	}

	if strings.TrimSpace(req.OutputPath) == "" {
		return out, errors.New("output video path is empty")
	}
	if frames <= 0 {
		return out, errors.New("no frames were captured")
	}
	if out.FPS <= 0 {
		out.FPS = r.FallbackFPS
		if out.FPS <= 0 {
			out.FPS = DefaultFPS
		}
	}
	if r.encoder == nil {
		return out, errors.New("video encoder is not configured")
	}

	err := r.encoder.Encode(ctx, EncodeRequest{
		FramesPattern: filepath.Join(req.FramesDir, FramePattern),
		FPS:           out.FPS,
		OutputPath:    req.OutputPath,
	})
	if err != nil {
		return out, err
	}

	if err := os.RemoveAll(req.FramesDir); err != nil {
		return out, fmt.Errorf("cleanup frames directory %s: %w", req.FramesDir, err)
	}
	return out, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}
