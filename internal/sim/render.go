package sim

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/vk/mazeharness/internal/model"
)

// Default frame size when the request leaves it unset.
const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 480
)

var (
	colorBackground = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	colorFloor      = color.RGBA{R: 200, G: 200, B: 196, A: 255}
	colorWall       = color.RGBA{R: 60, G: 60, B: 66, A: 255}
	colorStart      = color.RGBA{R: 90, G: 170, B: 90, A: 255}
	colorFinish     = color.RGBA{R: 220, G: 170, B: 40, A: 255}
	colorRobot      = color.RGBA{R: 40, G: 110, B: 220, A: 255}
	colorHeading    = color.RGBA{R: 250, G: 250, B: 250, A: 255}
)

// Render draws a top-down view of w. Columns (Z) run left to right and rows
// (X) top to bottom.
func Render(w *World, width, height int) (image.Image, error) {
	if width <= 0 {
		width = DefaultFrameWidth
	}
	if height <= 0 {
		height = DefaultFrameHeight
	}
	grid := w.Grid()
	if grid == nil {
		return nil, errors.New("scene has no level")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: colorBackground}, image.Point{}, draw.Src)

	ex, ez := grid.Extent()
	scale := math.Min(float64(width)/ez, float64(height)/ex)
	offX := (float64(width) - ez*scale) / 2
	offY := (float64(height) - ex*scale) / 2
	toPixel := func(x, z float64) (px, py float64) {
		return offX + (z+ez/2)*scale, offY + (x+ex/2)*scale
	}

	for row := range grid.Rows() {
		for col := range grid.Cols() {
			r := grid.CellRect(row, col)
			x0, y0 := toPixel(r.MinX, r.MinZ)
			x1, y1 := toPixel(r.MaxX, r.MaxZ)
			rect := image.Rect(int(x0), int(y0), int(math.Ceil(x1)), int(math.Ceil(y1)))
			draw.Draw(img, rect, &image.Uniform{C: cellColor(grid.At(row, col))}, image.Point{}, draw.Src)
		}
	}

	if robot := w.Robot(); robot != nil {
		x, z := robot.Position()
		px, py := toPixel(x, z)
		radius := math.Max(w.robotRadius()*scale, 2)
		fillCircle(img, px, py, radius, colorRobot)

		h := robot.HeadingDegrees() * math.Pi / 180
		drawLine(img, px, py, px+math.Cos(h)*radius, py+math.Sin(h)*radius, colorHeading)
	}
	return img, nil
}

func (w *World) robotRadius() float64 {
	if r := w.Robot(); r != nil {
		return r.cfg.RobotRadius
	}
	return 0
}

func cellColor(k model.CellKind) color.Color {
	switch k {
	case model.Wall:
		return colorWall
	case model.Start:
		return colorStart
	case model.Finish:
		return colorFinish
	default:
		return colorFloor
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	minX, maxX := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	minY, maxY := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.Color) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.Set(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), c)
	}
}
