package spatialindex

import (
	"math"
	"sort"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// maximum number of hits returned by SearchWithinRadius
const maxHits = 20

type Rtree struct {
	tr *rtree.RTreeG[laneSegment]
	m  *roadnetwork.Map
}

// laneSegment is one piece of a driving lane centerline.
type laneSegment struct {
	lane  roadnetwork.LaneIndex
	index int
	a, b  geometry.Point
}

// LaneHit is a driving lane near a query point.
type LaneHit struct {
	Lane   roadnetwork.LaneIndex
	RoadID int
	LaneID int
	// closest point of the lane centerline and its distance to the query point
	Point    geometry.Point
	Distance float64
	// index of the centerline segment containing Point
	Segment int
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[laneSegment]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree, each leaf is the bounding box of one centerline segment of a driving lane,
// padded by boundingBoxRadius.
func (rt *Rtree) Build(m *roadnetwork.Map, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	rt.m = m
	segments := 0
	m.ForEachLane(func(l *roadnetwork.Lane) {
		if !l.IsDriving() {
			return
		}
		points := l.GetPoints()
		for i := 0; i+1 < len(points); i++ {
			a, b := points[i], points[i+1]
			rt.tr.Insert(
				[2]float64{math.Min(a.X, b.X) - boundingBoxRadius, math.Min(a.Y, b.Y) - boundingBoxRadius},
				[2]float64{math.Max(a.X, b.X) + boundingBoxRadius, math.Max(a.Y, b.Y) + boundingBoxRadius},
				laneSegment{lane: l.GetIndex(), index: i, a: a, b: b})
			segments++
		}
	})
	log.Info("R-tree spatial index built.", zap.Int("segments", segments))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns the driving lanes whose centerline passes within radius of (x, y),
// one hit per lane, closest first.
func (rt *Rtree) SearchWithinRadius(x, y, radius float64) []LaneHit {
	q := geometry.NewPoint(x, y)
	best := make(map[roadnetwork.LaneIndex]LaneHit)

	rt.tr.Search([2]float64{x - radius, y - radius}, [2]float64{x + radius, y + radius},
		func(min, max [2]float64, data laneSegment) bool {
			p, dist := geometry.ProjectToSegment(q, data.a, data.b)
			if dist > radius {
				return true
			}
			if prev, ok := best[data.lane]; ok && prev.Distance <= dist {
				return true
			}
			best[data.lane] = LaneHit{Lane: data.lane, Point: p, Distance: dist, Segment: data.index}
			return true
		})

	results := make([]LaneHit, 0, len(best))
	for _, hit := range best {
		lane := rt.m.GetLane(hit.Lane)
		hit.LaneID = lane.GetID()
		hit.RoadID = rt.m.RoadOfLane(hit.Lane).GetID()
		results = append(results, hit)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Lane < results[j].Lane
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	return results
}

// Nearest returns the closest driving lane within radius of (x, y).
func (rt *Rtree) Nearest(x, y, radius float64) (LaneHit, bool) {
	hits := rt.SearchWithinRadius(x, y, radius)
	if len(hits) == 0 {
		return LaneHit{}, false
	}
	return hits[0], true
}
