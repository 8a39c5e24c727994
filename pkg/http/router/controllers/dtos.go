package controllers

import (
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http/usecases"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
)

type nearbyLanesRequest struct {
	X      float64 `json:"x" validate:"min=-1000000,max=1000000"`
	Y      float64 `json:"y" validate:"min=-1000000,max=1000000"`
	Radius float64 `json:"radius" validate:"gte=0,max=1000"`
}

type boundsResponse struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type laneResponse struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Center   string `json:"center"`
	Boundary string `json:"boundary"`
}

type roadResponse struct {
	ID       int            `json:"id"`
	Junction int            `json:"junction"`
	Polyline string         `json:"polyline"`
	Lanes    []laneResponse `json:"lanes"`
}

type mapResponse struct {
	Roads  []roadResponse `json:"roads"`
	Bounds boundsResponse `json:"bounds"`
}

func NewMapResponse(em *usecases.EncodedMap) mapResponse {
	roads := make([]roadResponse, 0, len(em.Roads))
	for _, r := range em.Roads {
		lanes := make([]laneResponse, 0, len(r.Lanes))
		for _, l := range r.Lanes {
			lanes = append(lanes, laneResponse{ID: l.ID, Type: l.Type.String(), Center: l.Center, Boundary: l.Boundary})
		}
		roads = append(roads, roadResponse{ID: r.ID, Junction: r.Junction, Polyline: r.Polyline, Lanes: lanes})
	}
	resp := mapResponse{Roads: roads}
	if !em.Bounds.IsEmpty() {
		resp.Bounds = boundsResponse{
			MinX: em.Bounds.X.Lo,
			MinY: em.Bounds.Y.Lo,
			MaxX: em.Bounds.X.Hi,
			MaxY: em.Bounds.Y.Hi,
		}
	}
	return resp
}

type laneRefResponse struct {
	Road    int     `json:"road"`
	SOffset float64 `json:"s_offset"`
	Lane    int     `json:"lane"`
}

type laneDetailResponse struct {
	ID           int               `json:"id"`
	Type         string            `json:"type"`
	Width        float64           `json:"width"`
	Predecessors []laneRefResponse `json:"predecessors"`
	Successors   []laneRefResponse `json:"successors"`
}

type sectionResponse struct {
	SOffset float64              `json:"s_offset"`
	Lanes   []laneDetailResponse `json:"lanes"`
}

type roadDetailResponse struct {
	ID           int               `json:"id"`
	Junction     int               `json:"junction"`
	Predecessors []int             `json:"predecessors"`
	Successors   []int             `json:"successors"`
	Sections     []sectionResponse `json:"sections"`
}

func newLaneRefs(refs []usecases.LaneRef) []laneRefResponse {
	out := make([]laneRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, laneRefResponse{Road: r.RoadID, SOffset: r.SOffset, Lane: r.LaneID})
	}
	return out
}

func NewRoadDetailResponse(v *usecases.RoadView) roadDetailResponse {
	sections := make([]sectionResponse, 0, len(v.Sections))
	for _, s := range v.Sections {
		lanes := make([]laneDetailResponse, 0, len(s.Lanes))
		for _, l := range s.Lanes {
			lanes = append(lanes, laneDetailResponse{
				ID:           l.ID,
				Type:         l.Type.String(),
				Width:        l.Width,
				Predecessors: newLaneRefs(l.Predecessors),
				Successors:   newLaneRefs(l.Successors),
			})
		}
		sections = append(sections, sectionResponse{SOffset: s.SOffset, Lanes: lanes})
	}
	return roadDetailResponse{
		ID:           v.ID,
		Junction:     v.Junction,
		Predecessors: v.Predecessors,
		Successors:   v.Successors,
		Sections:     sections,
	}
}

type laneHitResponse struct {
	Road     int     `json:"road"`
	Lane     int     `json:"lane"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
}

func NewLaneHitsResponse(hits []spatialindex.LaneHit) []laneHitResponse {
	out := make([]laneHitResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, laneHitResponse{
			Road:     h.RoadID,
			Lane:     h.LaneID,
			X:        h.Point.GetX(),
			Y:        h.Point.GetY(),
			Distance: h.Distance,
		})
	}
	return out
}

func NewObjectsResponse(states []simulator.ObjectState) []simulator.ObjectState {
	if states == nil {
		return []simulator.ObjectState{}
	}
	return states
}
