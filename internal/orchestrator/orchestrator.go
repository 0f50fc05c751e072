package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/attempt"
	"github.com/vk/mazeharness/internal/binding"
	"github.com/vk/mazeharness/internal/model"
	"github.com/vk/mazeharness/internal/probe"
	"github.com/vk/mazeharness/internal/request"
	"github.com/vk/mazeharness/internal/video"
)

// InvalidRequestName names the artifacts folder of a request that could not
// be loaded.
const InvalidRequestName = "invalid-request"

// ErrArtifactsUnavailable is returned when no artifacts folder could be
// created, so no result could be written.
var ErrArtifactsUnavailable = errors.New("artifacts folder unavailable")

// Clock is the per-tick suspend point owned by the host. Wait blocks until
// the next tick and returns the elapsed seconds since the previous one.
type Clock interface {
	Wait(ctx context.Context) (dt float64, err error)
}

// Observer receives attempt snapshots on every tick and once at the end.
type Observer func(attempt.Snapshot)

// RequestLoader resolves and decodes the run request.
type RequestLoader interface {
	Load(opts request.Options) (*request.Loaded, error)
}

// Options configures one attempt.
type Options struct {
	Request   request.Options
	SkipProbe bool

	VideoEnabled bool
	FrameWidth   int
	FrameHeight  int

	// CellSize is the world size of one grid cell. Non-positive selects
	// model.DefaultCellSize.
	CellSize float64

	// DebugMirror receives copies of the request and result when the request
	// came from the fallback source. Nil disables it.
	DebugMirror *artifacts.DebugMirror
}

// Deps are the collaborators of an attempt. Scenes and Robots may be nil, in
// which case the attempt fails with a wiring error before any scene is made.
type Deps struct {
	Loader    RequestLoader
	Artifacts *artifacts.Service
	Prober    probe.Prober
	Scenes    binding.SceneProvider
	Robots    binding.RobotFactory
	Video     *video.Service
	Observer  Observer

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() uuid.UUID
}

// Orchestrator runs a single attempt. It is not safe for concurrent use and
// must not be reused.
type Orchestrator struct {
	opts Options
	deps Deps

	st state
}

// state is everything the attempt owns between stages. Teardown clears it.
type state struct {
	source     request.Source
	name       string
	layout     *artifacts.Layout
	grid       *model.Grid
	scene      binding.Scene
	robot      binding.Robot
	controller *attempt.Controller
	handle     *binding.Handle
	torn       bool
}

// New returns an Orchestrator. Nil Loader, Prober, and Video fall back to the
// file loader, the TCP probe, and a not-configured recorder.
func New(opts Options, deps Deps) *Orchestrator {
	if deps.Loader == nil {
		deps.Loader = request.NewLoader()
	}
	if deps.Prober == nil {
		deps.Prober = probe.TCPProbe{}
	}
	if deps.Video == nil {
		deps.Video = video.NewService(nil)
	}
	if deps.Artifacts == nil {
		deps.Artifacts = artifacts.NewService(".", "")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	return &Orchestrator{opts: opts, deps: deps}
}

// Controller returns the attempt controller once the attempt has started.
func (o *Orchestrator) Controller() *attempt.Controller {
	return o.st.controller
}

// Layout returns the artifacts layout once it exists.
func (o *Orchestrator) Layout() (artifacts.Layout, bool) {
	if o.st.layout == nil {
		return artifacts.Layout{}, false
	}
	return *o.st.layout, true
}
