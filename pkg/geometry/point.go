package geometry

import (
	"github.com/golang/geo/r2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

// Point is a planar point in the map's inertial x/y frame (meters).
type Point struct {
	r2.Point
}

func NewPoint(x, y float64) Point {
	return Point{r2.Point{X: x, Y: y}}
}

func (p Point) GetX() float64 {
	return p.X
}

func (p Point) GetY() float64 {
	return p.Y
}

// Z is always 0, the sampler does not handle elevation.
func (p Point) GetZ() float64 {
	return 0
}

func (p Point) Distance(q Point) float64 {
	return p.Sub(q.Point).Norm()
}

// Bounds returns the smallest rectangle containing every given point.
func Bounds(polylines ...[]Point) r2.Rect {
	rect := r2.EmptyRect()
	for _, line := range polylines {
		for _, p := range line {
			rect = rect.AddPoint(p.Point)
		}
	}
	return rect
}

// ProjectToSegment returns the closest point to p on segment ab and its distance to p.
func ProjectToSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a.Point)
	lenSq := ab.Dot(ab)
	if util.AlmostEqual(lenSq, 0) {
		return a, p.Distance(a)
	}
	t := p.Sub(a.Point).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := Point{a.Add(ab.Mul(t))}
	return proj, p.Distance(proj)
}
