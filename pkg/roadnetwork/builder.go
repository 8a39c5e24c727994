package roadnetwork

import (
	"github.com/samber/lo"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

/*
MapBuilder. the only code path that writes into a Map. every operation appends, nothing is
deduplicated: callers add each logical edge exactly once.
*/
type MapBuilder struct {
	m *Map
}

func NewMapBuilder() *MapBuilder {
	return &MapBuilder{m: newMap()}
}

func (b *MapBuilder) live() *Map {
	util.AssertPanic(b.m != nil, "roadnetwork: MapBuilder used after Map() handed off the map")
	return b.m
}

// Map hands off the finished map. The builder cannot be used afterwards.
func (b *MapBuilder) Map() *Map {
	m := b.live()
	b.m = nil
	return m
}

// GetRoad resolves an OpenDRIVE road id.
func (b *MapBuilder) GetRoad(id int) (RoadIndex, bool) {
	idx, ok := b.live().roadByID[id]
	return idx, ok
}

// GetJunction resolves an OpenDRIVE junction id.
func (b *MapBuilder) GetJunction(id int) (JunctionIndex, bool) {
	idx, ok := b.live().junctionByID[id]
	return idx, ok
}

// Peek gives read access to the map under construction.
func (b *MapBuilder) Peek() *Map {
	return b.live()
}

func (b *MapBuilder) AddRoad(id, junction int) RoadIndex {
	m := b.live()
	idx := RoadIndex(len(m.roads))
	m.roads = append(m.roads, Road{
		index:        idx,
		id:           id,
		junction:     junction,
		points:       make([]geometry.Point, 0),
		sections:     make([]SectionIndex, 0),
		predecessors: make([]RoadIndex, 0),
		successors:   make([]RoadIndex, 0),
	})
	m.roadByID[id] = idx
	return idx
}

func (b *MapBuilder) AddRoadPoints(road RoadIndex, points []geometry.Point) {
	r := &b.live().roads[road]
	r.points = append(r.points, points...)
}

func (b *MapBuilder) AddRoadPredecessor(road, predecessor RoadIndex) {
	r := &b.live().roads[road]
	r.predecessors = append(r.predecessors, predecessor)
}

func (b *MapBuilder) AddRoadSuccessor(road, successor RoadIndex) {
	r := &b.live().roads[road]
	r.successors = append(r.successors, successor)
}

func (b *MapBuilder) AddJunction(id int) JunctionIndex {
	m := b.live()
	idx := JunctionIndex(len(m.junctions))
	m.junctions = append(m.junctions, Junction{
		index:       idx,
		id:          id,
		connections: make([]ConnectionIndex, 0),
	})
	m.junctionByID[id] = idx
	return idx
}

func (b *MapBuilder) AddJunctionConnection(junction JunctionIndex, incomingRoad, connectingRoad int) ConnectionIndex {
	m := b.live()
	idx := ConnectionIndex(len(m.connections))
	m.connections = append(m.connections, JunctionConnection{
		index:          idx,
		junction:       junction,
		incomingRoad:   incomingRoad,
		connectingRoad: connectingRoad,
		laneLinks:      make([]LaneLink, 0),
	})
	j := &m.junctions[junction]
	j.connections = append(j.connections, idx)
	return idx
}

func (b *MapBuilder) AddLaneLink(connection ConnectionIndex, from, to int) {
	c := &b.live().connections[connection]
	c.laneLinks = append(c.laneLinks, LaneLink{From: from, To: to})
}

// FindConnections returns the connections of junction from incomingRoad to connectingRoad.
func (b *MapBuilder) FindConnections(junction JunctionIndex, incomingRoad, connectingRoad int) []ConnectionIndex {
	m := b.live()
	return lo.Filter(m.junctions[junction].connections, func(c ConnectionIndex, _ int) bool {
		return m.connections[c].incomingRoad == incomingRoad && m.connections[c].connectingRoad == connectingRoad
	})
}

/*
FindConnectingRoads. returns the connecting road of every connection in junction whose incoming road
is road, in connection order. connecting road ids that are not in the map are left out and reported
through missing.
*/
func (b *MapBuilder) FindConnectingRoads(junction JunctionIndex, road RoadIndex) (roads []RoadIndex, missing []int) {
	m := b.live()
	roadID := m.roads[road].id
	missing = make([]int, 0)
	roads = lo.FilterMap(m.junctions[junction].connections, func(c ConnectionIndex, _ int) (RoadIndex, bool) {
		conn := &m.connections[c]
		if conn.incomingRoad != roadID {
			return 0, false
		}
		idx, ok := m.roadByID[conn.connectingRoad]
		if !ok {
			missing = append(missing, conn.connectingRoad)
		}
		return idx, ok
	})
	return roads, missing
}

func (b *MapBuilder) AddLaneSection(road RoadIndex, sOffset float64) SectionIndex {
	m := b.live()
	idx := SectionIndex(len(m.sections))
	m.sections = append(m.sections, LaneSection{
		index:        idx,
		road:         road,
		sOffset:      sOffset,
		lanes:        make([]LaneIndex, 0),
		laneByID:     make(map[int]LaneIndex),
		predecessors: make([]SectionIndex, 0),
		successors:   make([]SectionIndex, 0),
	})
	r := &m.roads[road]
	r.sections = append(r.sections, idx)
	return idx
}

func (b *MapBuilder) AddSectionPredecessor(section, predecessor SectionIndex) {
	s := &b.live().sections[section]
	s.predecessors = append(s.predecessors, predecessor)
}

func (b *MapBuilder) AddSectionSuccessor(section, successor SectionIndex) {
	s := &b.live().sections[section]
	s.successors = append(s.successors, successor)
}

func (b *MapBuilder) AddLane(section SectionIndex, id int, offset, width float64, laneType LaneType) LaneIndex {
	m := b.live()
	idx := LaneIndex(len(m.lanes))
	m.lanes = append(m.lanes, Lane{
		index:          idx,
		section:        section,
		id:             id,
		laneType:       laneType,
		offset:         offset,
		width:          width,
		points:         make([]geometry.Point, 0),
		boundaryPoints: make([]geometry.Point, 0),
		predecessors:   make([]LaneIndex, 0),
		successors:     make([]LaneIndex, 0),
	})
	s := &m.sections[section]
	s.lanes = append(s.lanes, idx)
	s.laneByID[id] = idx
	return idx
}

func (b *MapBuilder) AddLanePoints(lane LaneIndex, points []geometry.Point) {
	l := &b.live().lanes[lane]
	l.points = append(l.points, points...)
}

func (b *MapBuilder) AddLaneBoundaryPoints(lane LaneIndex, points []geometry.Point) {
	l := &b.live().lanes[lane]
	l.boundaryPoints = append(l.boundaryPoints, points...)
}

func (b *MapBuilder) AddLanePredecessor(lane, predecessor LaneIndex) {
	l := &b.live().lanes[lane]
	l.predecessors = append(l.predecessors, predecessor)
}

func (b *MapBuilder) AddLaneSuccessor(lane, successor LaneIndex) {
	l := &b.live().lanes[lane]
	l.successors = append(l.successors, successor)
}
