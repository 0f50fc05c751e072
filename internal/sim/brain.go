package sim

// SensorData is what the robot's sensors report on one tick.
type SensorData struct {
	DistanceFront float64
}

// MotorCommand sets both wheels. Values are clamped to [-1, 1].
type MotorCommand struct {
	Left  float64
	Right float64
}

// Brain decides the motor command for each tick.
type Brain interface {
	Tick(s SensorData) MotorCommand
}

// LocalBrain drives forward until the front laser sees an obstacle within
// StopDistance, then stops.
type LocalBrain struct {
	StopDistance float64
	Drive        MotorCommand
}

// Tick implements Brain.
func (b LocalBrain) Tick(s SensorData) MotorCommand {
	if s.DistanceFront <= b.StopDistance {
		return MotorCommand{}
	}
	return b.Drive
}
