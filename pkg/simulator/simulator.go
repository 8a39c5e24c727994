package simulator

import (
	"context"
	"errors"
	"sync"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

/*
Simulator. drives a set of vehicles over a read-only map, one goroutine per vehicle.

a vehicle that reaches a dead end is parked at its last position and logged; the other vehicles
keep driving.
*/
type Simulator struct {
	log    *zap.Logger
	m      *roadnetwork.Map
	tickHz float64
	seed   uint64

	mu       sync.RWMutex
	vehicles []*Vehicle
}

func NewSimulator(log *zap.Logger, m *roadnetwork.Map, tickHz float64, seed uint64) *Simulator {
	return &Simulator{
		log:      log,
		m:        m,
		tickHz:   tickHz,
		seed:     seed,
		vehicles: make([]*Vehicle, 0),
	}
}

// AddVehicle spawns a vehicle with its own random source derived from the simulator seed.
func (s *Simulator) AddVehicle() (*Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.vehicles)
	rd := rand.New(rand.NewSource(s.seed + uint64(id)))
	v, err := NewVehicle(id, s.m, rd)
	if err != nil {
		return nil, err
	}
	s.vehicles = append(s.vehicles, v)
	return v, nil
}

func (s *Simulator) Vehicles() []*Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vehicles := make([]*Vehicle, len(s.vehicles))
	copy(vehicles, s.vehicles)
	return vehicles
}

// Positions returns a snapshot of every vehicle position in spawn order.
func (s *Simulator) Positions() []ObjectState {
	vehicles := s.Vehicles()
	states := make([]ObjectState, 0, len(vehicles))
	for _, v := range vehicles {
		states = append(states, v.State())
	}
	return states
}

// Run drives every vehicle added so far until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	vehicles := s.Vehicles()
	s.log.Info("starting simulation", zap.Int("vehicles", len(vehicles)), zap.Float64("tickHz", s.tickHz))

	g, gctx := errgroup.WithContext(ctx)
	for _, v := range vehicles {
		g.Go(func() error {
			err := v.Drive(gctx, s.tickHz)
			switch {
			case errors.Is(err, ErrDeadEnd):
				s.log.Warn("vehicle stopped", zap.Int("vehicle", v.GetID()), zap.Error(err))
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil
			default:
				return err
			}
		})
	}
	err := g.Wait()
	s.log.Info("simulation stopped")
	return err
}
