package opendrive

import (
	"github.com/beevik/etree"
	"github.com/samber/lo"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

type Direction uint8

const (
	Predecessor Direction = iota
	Successor
)

var directions = [...]Direction{Predecessor, Successor}

func (d Direction) String() string {
	if d == Predecessor {
		return "predecessor"
	}
	return "successor"
}

// roadConnections resolves the predecessor/successor link of every road. a link target that is not a
// road is looked up as a junction and fans out to every connecting road entered from this road.
func (p *Parser) roadConnections(odr *etree.Element) error {
	for _, odrRoad := range odr.SelectElements("road") {
		road, err := p.roadOf(odrRoad)
		if err != nil {
			return err
		}
		link := odrRoad.SelectElement("link")
		if link == nil {
			continue
		}
		for _, dir := range directions {
			odrLink := link.SelectElement(dir.String())
			if odrLink == nil {
				continue
			}
			elementID, err := intAttr(odrLink, "elementId")
			if err != nil {
				return err
			}
			p.linkRoad(road, dir, elementID)
		}
	}
	return nil
}

func (p *Parser) linkRoad(road roadnetwork.RoadIndex, dir Direction, elementID int) {
	roadID := p.builder.Peek().GetRoad(road).GetID()

	if target, ok := p.builder.GetRoad(elementID); ok {
		p.addRoadLink(road, dir, target)
		return
	}
	junction, ok := p.builder.GetJunction(elementID)
	if !ok {
		p.addUnresolved(UnresolvedReference{Kind: UnresolvedLinkTarget, Direction: dir, RoadID: roadID,
			ElementID: elementID})
		return
	}

	targets, missing := p.builder.FindConnectingRoads(junction, road)
	for _, target := range targets {
		p.addRoadLink(road, dir, target)
	}
	for _, connectingRoad := range missing {
		p.addUnresolved(UnresolvedReference{Kind: UnresolvedConnectingRoad, Direction: dir, RoadID: roadID,
			ElementID: connectingRoad})
	}
	if len(targets) == 0 && len(missing) == 0 {
		p.addUnresolved(UnresolvedReference{Kind: UnresolvedJunctionConnection, Direction: dir, RoadID: roadID,
			ElementID: elementID})
	}
}

func (p *Parser) addRoadLink(road roadnetwork.RoadIndex, dir Direction, target roadnetwork.RoadIndex) {
	if dir == Predecessor {
		p.builder.AddRoadPredecessor(road, target)
	} else {
		p.builder.AddRoadSuccessor(road, target)
	}
}

/*
laneSectionConnections. links lane sections along and across roads.

for a road outside a junction, neighbouring sections of the same road are linked to each other, the
first section takes the last section of every predecessor road as predecessor and the last section
takes the first section of every successor road as successor (a single section does both).

every section of a junction member road is linked to the neighbouring roads.
*/
func (p *Parser) laneSectionConnections(odr *etree.Element) error {
	m := p.builder.Peek()
	for _, odrRoad := range odr.SelectElements("road") {
		road, err := p.roadOf(odrRoad)
		if err != nil {
			return err
		}
		r := m.GetRoad(road)
		sections := r.GetSections()
		junctionMember := r.IsJunctionMember()

		for i, section := range sections {
			if junctionMember || i == 0 {
				for _, pred := range r.GetPredecessors() {
					if last, ok := m.GetRoad(pred).LastSection(); ok {
						p.builder.AddSectionPredecessor(section, last)
					}
				}
			} else {
				p.builder.AddSectionPredecessor(section, sections[i-1])
			}

			if junctionMember || i == len(sections)-1 {
				for _, succ := range r.GetSuccessors() {
					if first, ok := m.GetRoad(succ).FirstSection(); ok {
						p.builder.AddSectionSuccessor(section, first)
					}
				}
			} else {
				p.builder.AddSectionSuccessor(section, sections[i+1])
			}
		}
	}
	return nil
}

/*
laneConnections. links driving lanes to the lanes of the adjacent lane sections.

an explicit <link><predecessor id=..>/<successor id=..> picks the lane with that id in every adjacent
section. without one, the direction is resolved through the junction of the adjacent road: the
connection (this road -> adjacent road) and its laneLinks starting at this lane give the target lanes.
*/
func (p *Parser) laneConnections(odr *etree.Element) error {
	m := p.builder.Peek()
	for _, odrRoad := range odr.SelectElements("road") {
		road, err := p.roadOf(odrRoad)
		if err != nil {
			return err
		}
		odrSections, err := laneSectionsOf(odrRoad)
		if err != nil {
			return err
		}
		sections := m.GetRoad(road).GetSections()

		for i, odrSection := range odrSections {
			section := sections[i]
			err := forEachGroupLane(odrSection, func(odrLane *etree.Element) error {
				if odrLane.SelectAttrValue("type", "") != roadnetwork.Driving.String() {
					return nil
				}
				id, err := intAttr(odrLane, "id")
				if err != nil {
					return err
				}
				lane, err := m.GetSection(section).Lane(id)
				if err != nil {
					return util.WrapErrorf(err, ErrStructure, "road %d", m.GetRoad(road).GetID())
				}

				link := odrLane.SelectElement("link")
				for _, dir := range directions {
					var odrLink *etree.Element
					if link != nil {
						odrLink = link.SelectElement(dir.String())
					}
					if odrLink == nil {
						p.linkLaneViaJunction(lane, section, dir)
						continue
					}
					targetID, err := intAttr(odrLink, "id")
					if err != nil {
						return err
					}
					p.linkLaneDirect(lane, section, dir, targetID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) adjacentSections(section roadnetwork.SectionIndex, dir Direction) []roadnetwork.SectionIndex {
	ls := p.builder.Peek().GetSection(section)
	if dir == Predecessor {
		return ls.GetPredecessors()
	}
	return ls.GetSuccessors()
}

func (p *Parser) linkLaneDirect(lane roadnetwork.LaneIndex, section roadnetwork.SectionIndex, dir Direction,
	targetID int) {
	m := p.builder.Peek()
	for _, adj := range p.adjacentSections(section, dir) {
		target, err := m.GetSection(adj).Lane(targetID)
		if err != nil {
			p.addUnresolved(p.laneReference(UnresolvedLane, lane, adj, dir, targetID))
			continue
		}
		p.addLaneLink(lane, dir, target)
	}
}

func (p *Parser) linkLaneViaJunction(lane roadnetwork.LaneIndex, section roadnetwork.SectionIndex, dir Direction) {
	m := p.builder.Peek()
	roadID := m.GetRoad(m.GetSection(section).GetRoad()).GetID()
	laneID := m.GetLane(lane).GetID()

	for _, adj := range p.adjacentSections(section, dir) {
		adjSection := m.GetSection(adj)
		adjRoad := m.GetRoad(adjSection.GetRoad())
		junction, ok := p.builder.GetJunction(adjRoad.GetJunction())
		if !ok {
			continue
		}

		connections := p.builder.FindConnections(junction, roadID, adjRoad.GetID())
		if len(connections) == 0 {
			p.addUnresolved(p.laneReference(UnresolvedJunctionConnection, lane, adj, dir, 0))
			continue
		}
		for _, c := range connections {
			links := lo.Filter(m.GetConnection(c).GetLaneLinks(), func(ll roadnetwork.LaneLink, _ int) bool {
				return ll.From == laneID
			})
			for _, ll := range links {
				target, err := adjSection.Lane(ll.To)
				if err != nil {
					p.addUnresolved(p.laneReference(UnresolvedLane, lane, adj, dir, ll.To))
					continue
				}
				p.addLaneLink(lane, dir, target)
			}
		}
	}
}

func (p *Parser) addLaneLink(lane roadnetwork.LaneIndex, dir Direction, target roadnetwork.LaneIndex) {
	if dir == Predecessor {
		p.builder.AddLanePredecessor(lane, target)
	} else {
		p.builder.AddLaneSuccessor(lane, target)
	}
}

func (p *Parser) laneReference(kind UnresolvedKind, lane roadnetwork.LaneIndex, adj roadnetwork.SectionIndex,
	dir Direction, targetID int) UnresolvedReference {
	m := p.builder.Peek()
	return UnresolvedReference{
		Kind:         kind,
		Direction:    dir,
		RoadID:       m.RoadOfLane(lane).GetID(),
		ElementID:    m.GetRoad(m.GetSection(adj).GetRoad()).GetID(),
		LaneID:       m.GetLane(lane).GetID(),
		TargetLaneID: targetID,
	}
}
