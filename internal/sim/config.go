package sim

// Config tunes the simulation.
type Config struct {
	// TickRate is the fixed step rate in Hz.
	TickRate float64
	// Realtime paces Wait with wall-clock time instead of stepping as fast as
	// possible.
	Realtime bool

	// MaxSpeed is the wheel speed at full motor command, in world units per
	// second.
	MaxSpeed float64
	// WheelBase is the distance between the wheels.
	WheelBase float64
	// RobotRadius is the collision radius of the robot body.
	RobotRadius float64

	// LaserRange is the maximum distance the front laser reports.
	LaserRange float64

	// StopDistance is the local brain's braking distance.
	StopDistance float64
	// DriveLeft and DriveRight are the local brain's cruise motor command.
	DriveLeft  float64
	DriveRight float64
}

// DefaultConfig returns the stock simulation settings.
func DefaultConfig() Config {
	return Config{
		TickRate:     30,
		MaxSpeed:     10,
		WheelBase:    4,
		RobotRadius:  1.5,
		LaserRange:   100,
		StopDistance: 10,
		DriveLeft:    1,
		DriveRight:   1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.WheelBase <= 0 {
		c.WheelBase = d.WheelBase
	}
	if c.RobotRadius < 0 {
		c.RobotRadius = 0
	}
	if c.LaserRange <= 0 {
		c.LaserRange = d.LaserRange
	}
	return c
}
