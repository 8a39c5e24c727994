package roadnetwork

import (
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"golang.org/x/exp/rand"
)

type Road struct {
	index    RoadIndex
	id       int
	junction int

	points   []geometry.Point
	sections []SectionIndex

	predecessors []RoadIndex
	successors   []RoadIndex
}

func (r *Road) GetIndex() RoadIndex {
	return r.index
}

func (r *Road) GetID() int {
	return r.id
}

// GetJunction returns the id of the junction the road belongs to, or NoJunction.
func (r *Road) GetJunction() int {
	return r.junction
}

func (r *Road) IsJunctionMember() bool {
	return r.junction != NoJunction
}

func (r *Road) GetPoints() []geometry.Point {
	return r.points
}

func (r *Road) GetSections() []SectionIndex {
	return r.sections
}

func (r *Road) FirstSection() (SectionIndex, bool) {
	if len(r.sections) == 0 {
		return 0, false
	}
	return r.sections[0], true
}

func (r *Road) LastSection() (SectionIndex, bool) {
	if len(r.sections) == 0 {
		return 0, false
	}
	return r.sections[len(r.sections)-1], true
}

func (r *Road) GetPredecessors() []RoadIndex {
	return r.predecessors
}

func (r *Road) GetSuccessors() []RoadIndex {
	return r.successors
}

type Junction struct {
	index       JunctionIndex
	id          int
	connections []ConnectionIndex
}

func (j *Junction) GetIndex() JunctionIndex {
	return j.index
}

func (j *Junction) GetID() int {
	return j.id
}

func (j *Junction) GetConnections() []ConnectionIndex {
	return j.connections
}

type JunctionConnection struct {
	index          ConnectionIndex
	junction       JunctionIndex
	incomingRoad   int
	connectingRoad int
	laneLinks      []LaneLink
}

func (c *JunctionConnection) GetIndex() ConnectionIndex {
	return c.index
}

func (c *JunctionConnection) GetJunction() JunctionIndex {
	return c.junction
}

func (c *JunctionConnection) GetIncomingRoad() int {
	return c.incomingRoad
}

func (c *JunctionConnection) GetConnectingRoad() int {
	return c.connectingRoad
}

func (c *JunctionConnection) GetLaneLinks() []LaneLink {
	return c.laneLinks
}

type LaneSection struct {
	index   SectionIndex
	road    RoadIndex
	sOffset float64

	lanes    []LaneIndex
	laneByID map[int]LaneIndex

	predecessors []SectionIndex
	successors   []SectionIndex
}

func (ls *LaneSection) GetIndex() SectionIndex {
	return ls.index
}

func (ls *LaneSection) GetRoad() RoadIndex {
	return ls.road
}

func (ls *LaneSection) GetSOffset() float64 {
	return ls.sOffset
}

func (ls *LaneSection) GetLanes() []LaneIndex {
	return ls.lanes
}

// Lane returns the lane with the given OpenDRIVE id, failing with util.ErrNotFound.
func (ls *LaneSection) Lane(id int) (LaneIndex, error) {
	lane, ok := ls.laneByID[id]
	if !ok {
		return 0, util.WrapErrorf(ErrLaneNotFound, util.ErrNotFound, "lane %d in section %d of road index %d",
			id, ls.index, ls.road)
	}
	return lane, nil
}

func (ls *LaneSection) HasLane(id int) bool {
	_, ok := ls.laneByID[id]
	return ok
}

func (ls *LaneSection) GetPredecessors() []SectionIndex {
	return ls.predecessors
}

func (ls *LaneSection) GetSuccessors() []SectionIndex {
	return ls.successors
}

type Lane struct {
	index    LaneIndex
	section  SectionIndex
	id       int
	laneType LaneType
	offset   float64
	width    float64

	points         []geometry.Point
	boundaryPoints []geometry.Point

	predecessors []LaneIndex
	successors   []LaneIndex
}

func (l *Lane) GetIndex() LaneIndex {
	return l.index
}

func (l *Lane) GetSection() SectionIndex {
	return l.section
}

func (l *Lane) GetID() int {
	return l.id
}

func (l *Lane) GetType() LaneType {
	return l.laneType
}

func (l *Lane) IsDriving() bool {
	return l.laneType == Driving
}

func (l *Lane) GetOffset() float64 {
	return l.offset
}

func (l *Lane) GetWidth() float64 {
	return l.width
}

func (l *Lane) GetPoints() []geometry.Point {
	return l.points
}

func (l *Lane) GetBoundaryPoints() []geometry.Point {
	return l.boundaryPoints
}

// EntryPoint is where traffic enters the lane: the first sample for negative ids, which run along
// the reference line, the last one for positive ids. ok is false for an empty polyline.
func (l *Lane) EntryPoint() (geometry.Point, bool) {
	if len(l.points) == 0 {
		return geometry.Point{}, false
	}
	if l.id > 0 {
		return l.points[len(l.points)-1], true
	}
	return l.points[0], true
}

func (l *Lane) GetPredecessors() []LaneIndex {
	return l.predecessors
}

func (l *Lane) GetSuccessors() []LaneIndex {
	return l.successors
}

/*
Map. the completed road network. it owns every entity in per-kind arenas; all references between
entities are arena indices, so cyclic lane graphs (roundabouts) need no special handling.

a Map is only written by its MapBuilder. once handed out it is read-only and safe for
concurrent readers.
*/
type Map struct {
	roads       []Road
	junctions   []Junction
	connections []JunctionConnection
	sections    []LaneSection
	lanes       []Lane

	roadByID     map[int]RoadIndex
	junctionByID map[int]JunctionIndex
}

func newMap() *Map {
	return &Map{
		roads:        make([]Road, 0),
		junctions:    make([]Junction, 0),
		connections:  make([]JunctionConnection, 0),
		sections:     make([]LaneSection, 0),
		lanes:        make([]Lane, 0),
		roadByID:     make(map[int]RoadIndex),
		junctionByID: make(map[int]JunctionIndex),
	}
}

func (m *Map) NumberOfRoads() int {
	return len(m.roads)
}

func (m *Map) NumberOfJunctions() int {
	return len(m.junctions)
}

func (m *Map) NumberOfSections() int {
	return len(m.sections)
}

func (m *Map) NumberOfLanes() int {
	return len(m.lanes)
}

func (m *Map) GetRoad(idx RoadIndex) *Road {
	return &m.roads[idx]
}

func (m *Map) GetJunction(idx JunctionIndex) *Junction {
	return &m.junctions[idx]
}

func (m *Map) GetConnection(idx ConnectionIndex) *JunctionConnection {
	return &m.connections[idx]
}

func (m *Map) GetSection(idx SectionIndex) *LaneSection {
	return &m.sections[idx]
}

func (m *Map) GetLane(idx LaneIndex) *Lane {
	return &m.lanes[idx]
}

// FindRoadByID returns false for ids that were never added.
func (m *Map) FindRoadByID(id int) (*Road, bool) {
	idx, ok := m.roadByID[id]
	if !ok {
		return nil, false
	}
	return &m.roads[idx], true
}

// FindJunctionByID returns false for ids that were never added.
func (m *Map) FindJunctionByID(id int) (*Junction, bool) {
	idx, ok := m.junctionByID[id]
	if !ok {
		return nil, false
	}
	return &m.junctions[idx], true
}

// RoadOfLane walks the back-references lane -> section -> road.
func (m *Map) RoadOfLane(idx LaneIndex) *Road {
	return &m.roads[m.sections[m.lanes[idx].section].road]
}

func (m *Map) ForEachRoad(handle func(r *Road)) {
	for i := range m.roads {
		handle(&m.roads[i])
	}
}

func (m *Map) ForEachLane(handle func(l *Lane)) {
	for i := range m.lanes {
		handle(&m.lanes[i])
	}
}

// isDrivingRoad reports whether the first lane section of r has lane -1.
func (m *Map) isDrivingRoad(r *Road) bool {
	first, ok := r.FirstSection()
	if !ok {
		return false
	}
	return m.sections[first].HasLane(-1)
}

func (m *Map) HasDrivingRoad() bool {
	for i := range m.roads {
		if m.isDrivingRoad(&m.roads[i]) {
			return true
		}
	}
	return false
}

/*
RandomDrivingRoad. picks roads uniformly at random until one whose first lane section holds lane -1
(the first right-hand driving lane) is found.

the caller must make sure such a road exists (see HasDrivingRoad), otherwise this never returns.
*/
func (m *Map) RandomDrivingRoad(rd *rand.Rand) *Road {
	for {
		road := &m.roads[rd.Intn(len(m.roads))]
		if m.isDrivingRoad(road) {
			return road
		}
	}
}
