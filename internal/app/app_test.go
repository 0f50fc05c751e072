package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/config"
	"github.com/vk/mazeharness/internal/testutil"
	"github.com/vk/mazeharness/internal/video"
)

// setupAppTest creates an App rooted in a temp project folder with the probe
// skipped and video disabled. The request is written to the project root.
func setupAppTest(t *testing.T, req testutil.Request, mutate func(*config.Config)) (*App, *testutil.SafeBuffer, string) {
	t.Helper()

	root := t.TempDir()
	path := testutil.WriteRequest(t, root, "request.json", req)

	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.LogLevel = "debug"
	cfg.Probe.Skip = true
	cfg.Video.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, Options{Config: cfg, RequestFlagCount: 1, RequestPath: path})

	t.Cleanup(func() {
		if os.Getenv(testutil.LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer, root
}

func readResult(t *testing.T, root string, res *artifacts.Result) *artifacts.Result {
	t.Helper()
	onDisk, err := artifacts.ReadResultJSON(filepath.Join(root, filepath.FromSlash(res.Artifacts.Result)))
	require.NoError(t, err)
	return onDisk
}

func TestRun_RobotReachesFinish(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	req := testutil.ValidRequest("straight line")
	req.Map = [][]string{{"S", "E", "F"}}
	a, logs, root := setupAppTest(t, req, nil)

	// --- Act ---
	res, err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, res.Passed(), "reason: %s", res.Reason)
	assert.Equal(t, attempt.FailureNone, res.FailureType)
	assert.Equal(t, res, readResult(t, root, res))
	assert.Contains(t, logs.String(), "🏁 Attempt finished.")

	snap, ok := a.Snapshot()
	require.True(t, ok)
	assert.True(t, snap.Completed)
	assert.Equal(t, attempt.StatusPass, snap.Status)
}

func TestRun_RobotLeavesLevel(t *testing.T) {
	t.Parallel()

	req := testutil.ValidRequest("reverse")
	req.Map = [][]string{{"S", "E", "F"}}
	req.StartRotationDegrees = 180
	a, _, _ := setupAppTest(t, req, nil)

	res, err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, attempt.StatusFail, res.Status)
	assert.Equal(t, attempt.FailureOutOfBounds, res.FailureType)
}

func TestRun_RobotBlockedByWallTimesOut(t *testing.T) {
	t.Parallel()

	req := testutil.ValidRequest("blocked")
	req.Map = [][]string{{"S", "E", "W", "F"}}
	req.TimeLimitSeconds = 1
	a, _, _ := setupAppTest(t, req, nil)

	res, err := a.Run(context.Background())

	require.NoError(t, err)
	want := &artifacts.Result{
		Name:            "blocked",
		Status:          attempt.StatusFail,
		FailureType:     attempt.FailureTimeout,
		Reason:          attempt.ReasonTimeout,
		DurationSeconds: 1,
		Artifacts:       res.Artifacts,
	}
	if diff := cmp.Diff(want, res, cmpopts.EquateApprox(0, 0.1)); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MissingFFmpegKeepsOutcome(t *testing.T) {
	t.Parallel()

	if _, err := video.Resolve(video.DiscoveryOptions{ToolsDir: "does-not-exist"}); err == nil {
		t.Skip("ffmpeg is installed on this host")
	}

	// --- Arrange ---
	req := testutil.ValidRequest("no encoder")
	req.Map = [][]string{{"S", "E", "F"}}
	a, logs, root := setupAppTest(t, req, func(c *config.Config) {
		c.Video.Enabled = true
		c.Video.ToolsDir = "does-not-exist"
		c.Video.Width = 32
		c.Video.Height = 24
	})

	// --- Act ---
	res, err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, res.Passed(), "reason: %s", res.Reason)
	assert.Equal(t, attempt.FailureNone, res.FailureType)
	assert.Greater(t, res.DurationSeconds, 0.0, "the robot drove before the attempt ended")
	assert.Contains(t, logs.String(), "ffmpeg not found")
	assert.Contains(t, logs.String(), "Video encoding failed.")

	attemptDir := filepath.Dir(filepath.Join(root, filepath.FromSlash(res.Artifacts.Result)))
	assert.DirExists(t, filepath.Join(attemptDir, artifacts.FramesFolderName), "frames are kept when encoding fails")
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(res.Artifacts.Video)))
}

func TestRun_FallbackRequest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	req := testutil.ValidRequest("fallback")
	req.Map = [][]string{{"S", "E", "F"}}
	testutil.WriteRequest(t, root, "request.json", req)

	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.Probe.Skip = true
	cfg.Video.Enabled = false
	cfg.Request.UseFallback = true
	cfg.Request.DebugOutputDir = "debug"
	a := NewApp(io.Discard, Options{Config: cfg})

	// --- Act ---
	res, err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.FileExists(t, filepath.Join(root, "debug", artifacts.DebugRequestFileName))
	assert.FileExists(t, filepath.Join(root, "debug", artifacts.DebugResultFileName))
}

func TestRun_ArtifactsUnavailable(t *testing.T) {
	t.Parallel()

	req := testutil.ValidRequest("blocked folder")
	a, _, root := setupAppTest(t, req, nil)
	// A regular file where the artifacts folder should go.
	testutil.WriteFile(t, root, "artifacts", "not a folder")

	res, err := a.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, res)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a := NewApp(io.Discard, Options{Config: config.Default()})
	srv := httptest.NewServer(a.healthMux())
	t.Cleanup(srv.Close)

	// --- Act & Assert: health ---
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))

	// --- Act & Assert: attempt before any snapshot ---
	resp, err = http.Get(srv.URL + "/attempt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// --- Act & Assert: attempt after a snapshot ---
	a.publish(attempt.Snapshot{PhaseName: "Running", ElapsedSeconds: 1.5, TimeLimit: 30})
	resp, err = http.Get(srv.URL + "/attempt")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Running", got["phase"])
	assert.Equal(t, 1.5, got["elapsedSeconds"])
}

func TestHealthCheckServer_Lifecycle(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	a := NewApp(io.Discard, Options{Config: cfg})
	ctx := context.Background()

	// Disabled by default.
	require.NoError(t, a.startHealthCheckServer(ctx))
	assert.Nil(t, a.httpServer)
	require.NoError(t, a.closeHealthCheckServer(ctx))

	// Pick a free port, then serve on it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.HealthcheckPort = ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	require.NoError(t, a.startHealthCheckServer(ctx))
	require.NotNil(t, a.httpServer)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", cfg.HealthcheckPort))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, a.closeHealthCheckServer(ctx))
	assert.Nil(t, a.httpServer)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	buf := &testutil.SafeBuffer{}
	logger := newLogger("warn", "json", buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, "shown", line["msg"])
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	buf := &testutil.SafeBuffer{}
	logger := newLogger("chatty", "text", buf)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.Contains(t, out, "Unknown log level; using info.")
	assert.Contains(t, out, "msg=shown")
	assert.NotContains(t, out, "hidden")
}
