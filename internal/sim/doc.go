// Package sim is a headless stand-in for the physics engine that hosts an
// attempt. It implements the binding ports (scenes, robots, the perimeter
// sensor) and the video frame source with a kinematic differential-drive
// robot on the level grid.
//
// Coordinates follow the grid: rows run along X, columns along Z, and a
// heading of zero faces +Z. Positive headings turn clockwise seen from above.
package sim
