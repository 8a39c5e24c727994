package usecases

import (
	"sync"

	"github.com/golang/geo/r2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/concurrent"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// polylineCodec encodes planar (x, y) points in map units with centimetre precision.
var polylineCodec = polyline.Codec{Dim: 2, Scale: 1e2}

func EncodePolyline(points []geometry.Point) string {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.GetX(), p.GetY()})
	}
	return string(polylineCodec.EncodeCoords(nil, coords))
}

func DecodePolyline(s string) ([]geometry.Point, error) {
	coords, _, err := polylineCodec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode polyline")
	}
	points := make([]geometry.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, geometry.NewPoint(c[0], c[1]))
	}
	return points, nil
}

type EncodedLane struct {
	ID       int
	Type     roadnetwork.LaneType
	Center   string
	Boundary string
}

type EncodedRoad struct {
	ID       int
	Junction int
	Polyline string
	Lanes    []EncodedLane
}

// EncodedMap is the renderable form of the road network.
type EncodedMap struct {
	Roads  []EncodedRoad
	Bounds r2.Rect
}

type LaneRef struct {
	RoadID  int
	SOffset float64
	LaneID  int
}

type LaneView struct {
	ID           int
	Type         roadnetwork.LaneType
	Width        float64
	Predecessors []LaneRef
	Successors   []LaneRef
}

type SectionView struct {
	SOffset float64
	Lanes   []LaneView
}

type RoadView struct {
	ID           int
	Junction     int
	Predecessors []int
	Successors   []int
	Sections     []SectionView
}

type MapService struct {
	log          *zap.Logger
	m            *roadnetwork.Map
	spatialIndex SpatialIndex
	objects      ObjectSource
	searchRadius float64
	numWorkers   int

	encodeOnce sync.Once
	encoded    *EncodedMap
}

func NewMapService(log *zap.Logger, m *roadnetwork.Map, spatialIndex SpatialIndex, objects ObjectSource,
	searchRadius float64, numWorkers int) *MapService {
	return &MapService{
		log:          log,
		m:            m,
		spatialIndex: spatialIndex,
		objects:      objects,
		searchRadius: searchRadius,
		numWorkers:   numWorkers,
	}
}

// EncodedMap encodes every road once, roads are encoded in parallel.
func (ms *MapService) EncodedMap() *EncodedMap {
	ms.encodeOnce.Do(func() {
		roads := make([]roadnetwork.RoadIndex, 0, ms.m.NumberOfRoads())
		polylines := make([][]geometry.Point, 0, ms.m.NumberOfRoads())
		ms.m.ForEachRoad(func(r *roadnetwork.Road) {
			roads = append(roads, r.GetIndex())
			polylines = append(polylines, r.GetPoints())
		})

		ms.encoded = &EncodedMap{
			Roads:  concurrent.Map(ms.numWorkers, roads, ms.encodeRoad),
			Bounds: geometry.Bounds(polylines...),
		}
		ms.log.Info("encoded road network", zap.Int("roads", len(roads)))
	})
	return ms.encoded
}

func (ms *MapService) encodeRoad(idx roadnetwork.RoadIndex) EncodedRoad {
	r := ms.m.GetRoad(idx)
	er := EncodedRoad{
		ID:       r.GetID(),
		Junction: r.GetJunction(),
		Polyline: EncodePolyline(r.GetPoints()),
		Lanes:    make([]EncodedLane, 0),
	}
	for _, s := range r.GetSections() {
		for _, l := range ms.m.GetSection(s).GetLanes() {
			lane := ms.m.GetLane(l)
			er.Lanes = append(er.Lanes, EncodedLane{
				ID:       lane.GetID(),
				Type:     lane.GetType(),
				Center:   EncodePolyline(lane.GetPoints()),
				Boundary: EncodePolyline(lane.GetBoundaryPoints()),
			})
		}
	}
	return er
}

func (ms *MapService) Road(id int) (*RoadView, error) {
	r, ok := ms.m.FindRoadByID(id)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "road %d not found", id)
	}

	view := &RoadView{
		ID:           r.GetID(),
		Junction:     r.GetJunction(),
		Predecessors: ms.roadIDs(r.GetPredecessors()),
		Successors:   ms.roadIDs(r.GetSuccessors()),
		Sections:     make([]SectionView, 0, len(r.GetSections())),
	}
	for _, s := range r.GetSections() {
		section := ms.m.GetSection(s)
		sv := SectionView{SOffset: section.GetSOffset(), Lanes: make([]LaneView, 0, len(section.GetLanes()))}
		for _, l := range section.GetLanes() {
			lane := ms.m.GetLane(l)
			sv.Lanes = append(sv.Lanes, LaneView{
				ID:           lane.GetID(),
				Type:         lane.GetType(),
				Width:        lane.GetWidth(),
				Predecessors: ms.laneRefs(lane.GetPredecessors()),
				Successors:   ms.laneRefs(lane.GetSuccessors()),
			})
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

func (ms *MapService) roadIDs(roads []roadnetwork.RoadIndex) []int {
	ids := make([]int, 0, len(roads))
	for _, r := range roads {
		ids = append(ids, ms.m.GetRoad(r).GetID())
	}
	return ids
}

func (ms *MapService) laneRefs(lanes []roadnetwork.LaneIndex) []LaneRef {
	refs := make([]LaneRef, 0, len(lanes))
	for _, l := range lanes {
		lane := ms.m.GetLane(l)
		refs = append(refs, LaneRef{
			RoadID:  ms.m.RoadOfLane(l).GetID(),
			SOffset: ms.m.GetSection(lane.GetSection()).GetSOffset(),
			LaneID:  lane.GetID(),
		})
	}
	return refs
}

// NearbyLanes returns the driving lanes within radius of (x, y). A zero radius uses the configured
// search radius.
func (ms *MapService) NearbyLanes(x, y, radius float64) []spatialindex.LaneHit {
	if radius <= 0 {
		radius = ms.searchRadius
	}
	return ms.spatialIndex.SearchWithinRadius(x, y, radius)
}

func (ms *MapService) Objects() []simulator.ObjectState {
	return ms.objects.Positions()
}
