package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/binding"
	"github.com/vk/mazeharness/internal/model"
	"github.com/vk/mazeharness/internal/request"
	"github.com/vk/mazeharness/internal/testutil"
	"github.com/vk/mazeharness/internal/video"
)

const scenarioMap = `[["S","E","E"],["W","E","E"],["E","E","F"]]`

func requestJSON(name string, limit float64, mapJSON string) string {
	body := `{"name":"` + name + `","socketAddress":"127.0.0.1:9000","levelCompletionLimitSeconds":` +
		strconv.FormatFloat(limit, 'f', -1, 64) + `,"startRotationDegrees":0`
	if mapJSON != "" {
		body += `,"map":` + mapJSON
	}
	return body + "}"
}

type fakeSensor struct {
	mu   sync.Mutex
	subs map[int]func(string)
	next int
}

func (s *fakeSensor) Subscribe(fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = map[int]func(string){}
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *fakeSensor) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *fakeSensor) fire(id string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

type fakeScene struct {
	name     string
	sensor   *fakeSensor
	grid     *model.Grid
	unloads  int
	levelErr error
	// unloadPanic makes Unload panic with this value.
	unloadPanic string
}

func (s *fakeScene) Name() string { return s.name }

func (s *fakeScene) SpawnLevel(_ context.Context, g *model.Grid) error {
	if s.levelErr != nil {
		return s.levelErr
	}
	s.grid = g
	return nil
}

func (s *fakeScene) BoundarySensor() binding.BoundarySensor {
	if s.sensor == nil {
		return nil
	}
	return s.sensor
}

func (s *fakeScene) Unload(context.Context) error {
	s.unloads++
	if s.unloadPanic != "" {
		panic(s.unloadPanic)
	}
	return nil
}

type fakeRobot struct {
	mu   sync.Mutex
	x, z float64
}

func (r *fakeRobot) ID() string { return "robot" }

func (r *fakeRobot) Position() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.z
}

func (r *fakeRobot) moveTo(x, z float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.z = x, z
}

// fakeWorld implements SceneProvider and RobotFactory.
type fakeWorld struct {
	scenes   []*fakeScene
	robot    *fakeRobot
	placeAt  func(g *model.Grid) (x, z float64)
	spawnErr error
	panicMsg string
	levelErr error
	// unloadPanic is handed to every scene the world creates.
	unloadPanic string
	noSensor    bool
}

func (w *fakeWorld) CreateScene(_ context.Context, name string) (binding.Scene, error) {
	s := &fakeScene{name: name, sensor: &fakeSensor{}, levelErr: w.levelErr, unloadPanic: w.unloadPanic}
	if w.noSensor {
		s.sensor = nil
	}
	w.scenes = append(w.scenes, s)
	return s, nil
}

func (w *fakeWorld) SpawnRobot(_ context.Context, _ binding.Scene, g *model.Grid, _ float64) (binding.Robot, error) {
	if w.panicMsg != "" {
		panic(w.panicMsg)
	}
	if w.spawnErr != nil {
		return nil, w.spawnErr
	}
	w.robot = &fakeRobot{}
	if w.placeAt != nil {
		w.robot.moveTo(w.placeAt(g))
	} else {
		start := g.Start()
		w.robot.moveTo(g.CellCenter(start.Row, start.Col))
	}
	return w.robot, nil
}

func (w *fakeWorld) scene() *fakeScene {
	if len(w.scenes) == 0 {
		return nil
	}
	return w.scenes[len(w.scenes)-1]
}

// stepClock returns a fixed dt and runs an optional hook before each tick.
type stepClock struct {
	dt     float64
	ticks  int
	before func(tick int)
}

func (c *stepClock) Wait(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.ticks++
	if c.before != nil {
		c.before(c.ticks)
	}
	return c.dt, nil
}

type fakeProber struct {
	err   error
	calls int
}

func (p *fakeProber) Probe(context.Context, string) error {
	p.calls++
	return p.err
}

type fakeRecorder struct {
	capturing bool
	startErr  error
	frameErr  error
	stopErr   error
	frames    int
	stops     int
	duration  float64
	req       video.Request
}

func (r *fakeRecorder) StartCapture(req video.Request) error {
	if r.startErr != nil {
		return r.startErr
	}
	r.req = req
	r.capturing = true
	return nil
}

func (r *fakeRecorder) CaptureFrame() error {
	if r.frameErr != nil {
		return r.frameErr
	}
	r.frames++
	return nil
}

func (r *fakeRecorder) StopAndEncode(_ context.Context, d float64) (video.Outcome, error) {
	r.capturing = false
	r.stops++
	r.duration = d
	return video.Outcome{Frames: r.frames}, r.stopErr
}

func (r *fakeRecorder) Capturing() bool { return r.capturing }

var errBoom = errors.New("boom")

// harness wires an orchestrator against fakes rooted in a temp project.
type harness struct {
	root      string
	world     *fakeWorld
	prober    *fakeProber
	recorder  *fakeRecorder
	snapshots []attempt.Snapshot
	opts      Options
	deps      Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		root:     t.TempDir(),
		world:    &fakeWorld{},
		prober:   &fakeProber{},
		recorder: &fakeRecorder{},
	}
	h.opts = Options{CellSize: 10}
	h.deps = Deps{
		Artifacts: artifacts.NewService(h.root, ""),
		Prober:    h.prober,
		Scenes:    h.world,
		Robots:    h.world,
		Video:     video.NewService(h.recorder),
		Observer:  func(s attempt.Snapshot) { h.snapshots = append(h.snapshots, s) },
		Now:       func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID:     uuid.New,
	}
	return h
}

func (h *harness) writeRequest(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(h.root, "request.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	h.opts.Request = request.Options{FlagCount: 1, Path: path}
}

func (h *harness) run(t *testing.T, clock Clock) (*Orchestrator, *artifacts.Result, error) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	o := New(h.opts, h.deps)
	res, err := o.Run(ctx, clock)
	return o, res, err
}

func readResult(t *testing.T, o *Orchestrator) *artifacts.Result {
	t.Helper()
	layout, ok := o.Layout()
	require.True(t, ok)
	res, err := artifacts.ReadResultJSON(layout.ResultPath)
	require.NoError(t, err)
	return res
}
