package opendrive

import (
	"github.com/beevik/etree"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

// lane groups in the order lanes are registered. the center lane carries no width and is skipped.
var laneGroups = [...]string{"left", "right"}

func laneSectionsOf(odrRoad *etree.Element) ([]*etree.Element, error) {
	lanes, err := requireElement(odrRoad, "lanes")
	if err != nil {
		return nil, err
	}
	return lanes.SelectElements("laneSection"), nil
}

// forEachGroupLane calls handle for every lane of the left group, then the right group.
func forEachGroupLane(odrSection *etree.Element, handle func(odrLane *etree.Element) error) error {
	for _, name := range laneGroups {
		group := odrSection.SelectElement(name)
		if group == nil {
			continue
		}
		for _, odrLane := range group.SelectElements("lane") {
			if err := handle(odrLane); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseLaneSections registers the lane sections of every road in document order.
func (p *Parser) parseLaneSections(odr *etree.Element) error {
	for _, odrRoad := range odr.SelectElements("road") {
		road, err := p.roadOf(odrRoad)
		if err != nil {
			return err
		}
		odrSections, err := laneSectionsOf(odrRoad)
		if err != nil {
			return err
		}
		for _, odrSection := range odrSections {
			s, err := floatAttrOr(odrSection, "s", 0)
			if err != nil {
				return err
			}
			p.builder.AddLaneSection(road, s)
		}
	}
	return nil
}

// parseLanes registers the lanes of every lane section and samples their boundary and center lines
// from the road's plan view.
func (p *Parser) parseLanes(odr *etree.Element) error {
	for _, odrRoad := range odr.SelectElements("road") {
		road, err := p.roadOf(odrRoad)
		if err != nil {
			return err
		}
		planView, err := readPlanView(odrRoad)
		if err != nil {
			return err
		}
		odrSections, err := laneSectionsOf(odrRoad)
		if err != nil {
			return err
		}
		roadID := p.builder.Peek().GetRoad(road).GetID()
		sections := p.builder.Peek().GetRoad(road).GetSections()
		for i, odrSection := range odrSections {
			section := sections[i]
			err := forEachGroupLane(odrSection, func(odrLane *etree.Element) error {
				return p.parseLane(roadID, section, planView, odrLane)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) parseLane(roadID int, section roadnetwork.SectionIndex, planView []geometry.Geometry,
	odrLane *etree.Element) error {
	id, err := intAttr(odrLane, "id")
	if err != nil {
		return err
	}
	laneType, err := roadnetwork.ParseLaneType(odrLane.SelectAttrValue("type", ""))
	if err != nil {
		return util.WrapErrorf(err, ErrValidation, "road %d lane %d", roadID, id)
	}
	odrWidth, err := requireElement(odrLane, "width")
	if err != nil {
		return err
	}
	sOffset, err := floatAttrOr(odrWidth, "sOffset", 0)
	if err != nil {
		return err
	}
	width, err := floatAttr(odrWidth, "a")
	if err != nil {
		return err
	}

	lane := p.builder.AddLane(section, id, sOffset, width, laneType)

	boundaryOffset := geometry.LaneOffset(width, id)
	for _, geom := range planView {
		boundary, err := sample(roadID, geom, boundaryOffset)
		if err != nil {
			return err
		}
		p.builder.AddLaneBoundaryPoints(lane, boundary)

		center, err := sample(roadID, geom, boundaryOffset/2)
		if err != nil {
			return err
		}
		p.builder.AddLanePoints(lane, center)
	}
	return nil
}
