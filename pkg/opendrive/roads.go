package opendrive

import (
	"github.com/beevik/etree"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

// parseRoads registers every road and samples its reference line.
func (p *Parser) parseRoads(odr *etree.Element) error {
	for _, odrRoad := range odr.SelectElements("road") {
		id, err := intAttr(odrRoad, "id")
		if err != nil {
			return err
		}
		junction, err := intAttrOr(odrRoad, "junction", roadnetwork.NoJunction)
		if err != nil {
			return err
		}
		road := p.builder.AddRoad(id, junction)

		planView, err := readPlanView(odrRoad)
		if err != nil {
			return err
		}
		for _, geom := range planView {
			points, err := sample(id, geom, 0)
			if err != nil {
				return err
			}
			p.builder.AddRoadPoints(road, points)
		}
	}
	return nil
}

// readPlanView reads the geometry records of a road in document order.
func readPlanView(odrRoad *etree.Element) ([]geometry.Geometry, error) {
	planView, err := requireElement(odrRoad, "planView")
	if err != nil {
		return nil, err
	}
	odrGeoms := planView.SelectElements("geometry")
	geoms := make([]geometry.Geometry, 0, len(odrGeoms))
	for _, odrGeom := range odrGeoms {
		geom, err := readGeometry(odrGeom)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, geom)
	}
	return geoms, nil
}

func readGeometry(odrGeom *etree.Element) (geometry.Geometry, error) {
	var vals [5]float64
	for i, name := range [...]string{"s", "x", "y", "hdg", "length"} {
		v, err := floatAttr(odrGeom, name)
		if err != nil {
			return geometry.Geometry{}, err
		}
		vals[i] = v
	}
	s, x, y, hdg, length := vals[0], vals[1], vals[2], vals[3], vals[4]

	children := odrGeom.ChildElements()
	if len(children) == 0 {
		return geometry.NewStraight(s, x, y, hdg, length), nil
	}
	switch kind := children[0]; kind.Tag {
	case "line":
		return geometry.NewStraight(s, x, y, hdg, length), nil
	case "arc":
		curvature, err := floatAttr(kind, "curvature")
		if err != nil {
			return geometry.Geometry{}, err
		}
		return geometry.NewArc(s, x, y, hdg, length, curvature), nil
	default:
		// spiral, poly3, paramPoly3
		return geometry.NewUnsupported(s, x, y, hdg, length, kind.Tag), nil
	}
}

func sample(roadID int, geom geometry.Geometry, offset float64) ([]geometry.Point, error) {
	points, err := geometry.Sample(geom, offset)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrValidation, "road %d", roadID)
	}
	return points, nil
}

// roadOf resolves the road registered for a <road> element in the roads pass.
func (p *Parser) roadOf(odrRoad *etree.Element) (roadnetwork.RoadIndex, error) {
	id, err := intAttr(odrRoad, "id")
	if err != nil {
		return 0, err
	}
	road, ok := p.builder.GetRoad(id)
	if !ok {
		return 0, util.WrapErrorf(nil, ErrStructure, "road %d was not registered", id)
	}
	return road, nil
}
