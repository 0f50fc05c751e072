package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultEncodeTimeout bounds a single ffmpeg run.
const DefaultEncodeTimeout = 2 * time.Minute

// EncodeRequest is the input of one encode.
type EncodeRequest struct {
	// FramesPattern is a printf-style input pattern such as frames/frame-%06d.png.
	FramesPattern string
	FPS           float64
	OutputPath    string
}

// Encoder turns a frame sequence into a video file.
type Encoder interface {
	Encode(ctx context.Context, req EncodeRequest) error
}

// FFmpegEncoder runs an ffmpeg binary.
type FFmpegEncoder struct {
	Path    string
	Timeout time.Duration
}

// MissingEncoder stands in for ffmpeg when discovery found none. Capture runs
// as usual and every encode fails with Err, or ErrEncoderNotFound when Err is
// nil.
type MissingEncoder struct {
	Err error
}

// Encode always fails.
func (m MissingEncoder) Encode(context.Context, EncodeRequest) error {
	if m.Err != nil {
		return m.Err
	}
	return ErrEncoderNotFound
}

// Args returns the ffmpeg argument list for req.
func (FFmpegEncoder) Args(req EncodeRequest) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-framerate", strconv.FormatFloat(req.FPS, 'f', -1, 64),
		"-i", req.FramesPattern,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		req.OutputPath,
	}
}

// Encode runs ffmpeg and checks that the output file exists afterwards.
func (e FFmpegEncoder) Encode(ctx context.Context, req EncodeRequest) error {
	if strings.TrimSpace(e.Path) == "" {
		return errors.New("ffmpeg executable is not configured")
	}
	if req.FPS <= 0 {
		req.FPS = DefaultFPS
	}
	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create video output directory: %w", err)
		}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultEncodeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, e.Args(req)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("ffmpeg encoding timed out after %s", timeout)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("ffmpeg encoding failed: exitCode=%d: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()+" "+stdout.String()))
		}
		return fmt.Errorf("failed to run ffmpeg: %w", runErr)
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("ffmpeg encoding failed: output %s was not produced: %s",
			req.OutputPath, strings.TrimSpace(stderr.String()+" "+stdout.String()))
	}
	return nil
}
