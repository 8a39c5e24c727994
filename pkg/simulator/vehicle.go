package simulator

import (
	"context"
	"errors"
	"sync"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"golang.org/x/exp/rand"
	"golang.org/x/time/rate"
)

var (
	ErrDeadEnd       = errors.New("lane has no continuation in driving direction")
	ErrNoDrivingRoad = errors.New("map has no road with a driving lane -1")
)

const (
	// spawnLane is the lane vehicles are placed on, the first right hand lane.
	spawnLane = -1

	DefaultTickHz = 50.0
)

// ObjectState is the position of one vehicle at snapshot time.
type ObjectState struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

/*
Vehicle. moves along lane centerlines one sample point per tick.

lanes with a negative id are driven in the direction of their points, lanes with a positive id
against it. at the end of a lane the vehicle jumps to a random successor (negative id) or
predecessor (positive id) lane.
*/
type Vehicle struct {
	id int
	m  *roadnetwork.Map
	rd *rand.Rand

	mu         sync.RWMutex
	lane       roadnetwork.LaneIndex
	step       int
	stepsTaken int
	position   geometry.Point
}

// NewVehicle places a vehicle at the start of lane -1 of a random road.
func NewVehicle(id int, m *roadnetwork.Map, rd *rand.Rand) (*Vehicle, error) {
	if !m.HasDrivingRoad() {
		return nil, util.WrapErrorf(nil, ErrNoDrivingRoad, "spawn vehicle %d", id)
	}
	road := m.RandomDrivingRoad(rd)
	first, _ := road.FirstSection()
	lane, err := m.GetSection(first).Lane(spawnLane)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrNoDrivingRoad, "spawn vehicle %d on road %d", id, road.GetID())
	}

	v := &Vehicle{id: id, m: m, rd: rd}
	v.enter(lane)
	return v, nil
}

func (v *Vehicle) GetID() int {
	return v.id
}

func (v *Vehicle) GetLane() roadnetwork.LaneIndex {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lane
}

func (v *Vehicle) Position() geometry.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.position
}

func (v *Vehicle) State() ObjectState {
	p := v.Position()
	return ObjectState{ID: v.id, X: p.GetX(), Y: p.GetY(), Z: p.GetZ()}
}

// enter puts the vehicle at the entry point of lane for its driving direction. callers hold mu or
// own v exclusively.
func (v *Vehicle) enter(lane roadnetwork.LaneIndex) {
	l := v.m.GetLane(lane)
	v.lane = lane
	v.stepsTaken = 0
	v.step = 0
	if l.GetID() > 0 {
		v.step = len(l.GetPoints()) - 1
	}
	if p, ok := l.EntryPoint(); ok {
		v.position = p
	}
}

// Step advances the vehicle by one sample point, or onto the next lane once the current one is
// used up. It returns ErrDeadEnd when the lane has no continuation.
func (v *Vehicle) Step() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	l := v.m.GetLane(v.lane)
	points := l.GetPoints()
	if len(points) == 0 {
		return util.WrapErrorf(nil, ErrDeadEnd, "vehicle %d: lane %d of road %d has no points", v.id, l.GetID(),
			v.m.RoadOfLane(v.lane).GetID())
	}

	if v.stepsTaken < len(points)-1 {
		if l.GetID() < 0 {
			v.step++
		} else {
			v.step--
		}
		v.stepsTaken++
		v.position = points[v.step]
		return nil
	}

	next := l.GetSuccessors()
	if l.GetID() > 0 {
		next = l.GetPredecessors()
	}
	if len(next) == 0 {
		return util.WrapErrorf(nil, ErrDeadEnd, "vehicle %d: lane %d of road %d", v.id, l.GetID(),
			v.m.RoadOfLane(v.lane).GetID())
	}
	v.enter(next[v.rd.Intn(len(next))])
	return nil
}

// Drive steps the vehicle at tickHz until ctx is done or the vehicle reaches a dead end.
func (v *Vehicle) Drive(ctx context.Context, tickHz float64) error {
	if tickHz <= 0 {
		tickHz = DefaultTickHz
	}
	limiter := rate.NewLimiter(rate.Limit(tickHz), 1)
	for {
		if util.StopConcurrentOperation(ctx) {
			return ctx.Err()
		}
		if err := limiter.Wait(ctx); err != nil {
			// the next tick would pass the ctx deadline
			<-ctx.Done()
			return ctx.Err()
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
}
