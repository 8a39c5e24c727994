package geometry

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

const (
	// distance between two samples of a straight segment
	straightStep = 1.0
	// number of angular subdivisions of an arc, independent of its length
	arcSubdivisions = 20
)

var ErrUnsupportedGeometry = errors.New("unsupported road geometry")

type Kind uint8

const (
	KindStraight Kind = iota
	KindArc
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindStraight:
		return "line"
	case KindArc:
		return "arc"
	default:
		return "unsupported"
	}
}

// Geometry is one plan view record: a start pose, a length and the curve kind.
// Element names the source record for unsupported kinds (spiral, poly3, paramPoly3).
type Geometry struct {
	Kind      Kind
	S         float64
	X         float64
	Y         float64
	Hdg       float64
	Length    float64
	Curvature float64
	Element   string
}

func NewStraight(s, x, y, hdg, length float64) Geometry {
	return Geometry{Kind: KindStraight, S: s, X: x, Y: y, Hdg: hdg, Length: length, Element: "line"}
}

func NewArc(s, x, y, hdg, length, curvature float64) Geometry {
	return Geometry{Kind: KindArc, S: s, X: x, Y: y, Hdg: hdg, Length: length, Curvature: curvature, Element: "arc"}
}

func NewUnsupported(s, x, y, hdg, length float64, element string) Geometry {
	return Geometry{Kind: KindUnsupported, S: s, X: x, Y: y, Hdg: hdg, Length: length, Element: element}
}

// Sample converts g into a polyline shifted laterally by offset.
func Sample(g Geometry, offset float64) ([]Point, error) {
	switch g.Kind {
	case KindStraight:
		return SampleStraight(g.X, g.Y, g.Hdg, g.Length, offset), nil
	case KindArc:
		// a flat arc has no center, exporters write it for straight pieces
		if util.AlmostEqual(g.Curvature, 0) {
			return SampleStraight(g.X, g.Y, g.Hdg, g.Length, offset), nil
		}
		return SampleArc(g.X, g.Y, g.Hdg, g.Length, g.Curvature, offset), nil
	default:
		return nil, util.WrapErrorf(nil, ErrUnsupportedGeometry,
			"unsupported road geometry %q at s=%.3f", g.Element, g.S)
	}
}

// LaneOffset is the lateral offset of a lane's outer boundary. It only uses the lane's own width,
// lanes further from the reference line are not shifted by the widths of inner lanes.
// The lane centerline uses half of this value.
func LaneOffset(width float64, laneID int) float64 {
	return width * float64(util.Sgn(laneID))
}

/*
SampleStraight. samples a straight segment starting at (x,y) with heading hdg, shifted
perpendicular to the heading by offset (positive = left).

the first point is the shifted start pose, then one point every 1.0 units strictly below length,
and the end point is computed from length directly so it is exact for any length.
*/
func SampleStraight(x, y, hdg, length, offset float64) []Point {
	sin, cos := math.Sincos(hdg)
	start := r2.Point{X: x - offset*sin, Y: y + offset*cos}
	dir := r2.Point{X: cos, Y: sin}

	points := make([]Point, 0, int(math.Max(length, 0)/straightStep)+2)
	points = append(points, Point{start})
	for d := straightStep; d < length; d += straightStep {
		points = append(points, Point{start.Add(dir.Mul(d))})
	}
	points = append(points, Point{start.Add(dir.Mul(length))})
	return points
}

/*
SampleArc. samples an arc of constant curvature (sign = turn direction, positive = left turn).

the arc center lies 1/curvature to the left of the start pose. the offset is applied radially and
sign-adjusted by the curvature so that a positive offset is always on the left of the driving
direction. output: shifted start point, 20 samples at start_angle + i*length*curvature/20 for
i = 0..19, then the analytic end point.

curvature must not be 0.
*/
func SampleArc(x, y, hdg, length, curvature, offset float64) []Point {
	sin, cos := math.Sincos(hdg)
	sgn := float64(util.Sgn(curvature))

	center := r2.Point{X: x - sin/curvature, Y: y + cos/curvature}
	radius := 1/math.Abs(curvature) - sgn*offset
	startAngle := hdg - sgn*math.Pi/2
	sweep := length * curvature
	step := sweep / arcSubdivisions

	onArc := func(angle float64) Point {
		s, c := math.Sincos(angle)
		return Point{center.Add(r2.Point{X: c, Y: s}.Mul(radius))}
	}

	points := make([]Point, 0, arcSubdivisions+2)
	points = append(points, Point{r2.Point{X: x - offset*sin, Y: y + offset*cos}})
	for i := 0; i < arcSubdivisions; i++ {
		points = append(points, onArc(startAngle+float64(i)*step))
	}
	points = append(points, onArc(startAngle+sweep))
	return points
}
