package sim

import (
	"math"
	"sync"

	"github.com/vk/mazeharness/internal/model"
)

// Robot is a kinematic differential-drive body.
type Robot struct {
	id  string
	cfg Config

	laser Laser
	brain Brain

	mu      sync.RWMutex
	x, z    float64
	heading float64
	cmd     MotorCommand
	lastHit float64
}

func newRobot(id string, cfg Config, brain Brain, x, z, headingDegrees float64) *Robot {
	return &Robot{
		id:      id,
		cfg:     cfg,
		laser:   Laser{MaxDistance: cfg.LaserRange},
		brain:   brain,
		x:       x,
		z:       z,
		heading: headingDegrees * math.Pi / 180,
		lastHit: cfg.LaserRange,
	}
}

// ID returns the body id reported to the perimeter sensor.
func (r *Robot) ID() string { return r.id }

// Position returns the robot center.
func (r *Robot) Position() (x, z float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.x, r.z
}

// HeadingDegrees returns the heading in degrees.
func (r *Robot) HeadingDegrees() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.heading * 180 / math.Pi
}

// Motors returns the last applied motor command.
func (r *Robot) Motors() MotorCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cmd
}

// DistanceFront returns the last laser reading.
func (r *Robot) DistanceFront() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastHit
}

// step senses, asks the brain for a command, and integrates motion for dt
// seconds. A move that would overlap a wall is dropped.
func (r *Robot) step(grid *model.Grid, dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastHit = r.laser.Distance(grid, r.x, r.z, r.heading)
	if r.brain != nil {
		c := r.brain.Tick(SensorData{DistanceFront: r.lastHit})
		r.cmd = MotorCommand{Left: clamp(c.Left, -1, 1), Right: clamp(c.Right, -1, 1)}
	}
	if dt <= 0 {
		return
	}

	left, right := r.cmd.Left*r.cfg.MaxSpeed, r.cmd.Right*r.cfg.MaxSpeed
	speed := (left + right) / 2
	r.heading += (left - right) / r.cfg.WheelBase * dt

	nx := r.x + math.Sin(r.heading)*speed*dt
	nz := r.z + math.Cos(r.heading)*speed*dt
	if collides(grid, nx, nz, r.cfg.RobotRadius) {
		return
	}
	r.x, r.z = nx, nz
}

func collides(grid *model.Grid, x, z, radius float64) bool {
	if grid == nil {
		return false
	}
	for _, p := range [][2]float64{
		{x, z},
		{x + radius, z}, {x - radius, z},
		{x, z + radius}, {x, z - radius},
	} {
		if isWall(grid, p[0], p[1]) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
