package telemetry

import (
	"context"
	"time"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"go.uber.org/zap"
)

const DefaultPeriod = 10 * time.Millisecond

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type MovingObject struct {
	ID       int      `json:"id"`
	Position Position `json:"position"`
}

// SensorView is the ground truth of every moving object at one point in time.
type SensorView struct {
	Timestamp     time.Time      `json:"timestamp"`
	MovingObjects []MovingObject `json:"moving_objects"`
}

func NewSensorView(ts time.Time, states []simulator.ObjectState) SensorView {
	objects := make([]MovingObject, 0, len(states))
	for _, s := range states {
		objects = append(objects, MovingObject{ID: s.ID, Position: Position{X: s.X, Y: s.Y, Z: s.Z}})
	}
	return SensorView{Timestamp: ts, MovingObjects: objects}
}

type PositionSource interface {
	Positions() []simulator.ObjectState
}

// Publisher broadcasts a SensorView of the position source to the hub every period.
type Publisher struct {
	log    *zap.Logger
	hub    *Hub
	source PositionSource
	period time.Duration
}

func NewPublisher(log *zap.Logger, hub *Hub, source PositionSource, period time.Duration) *Publisher {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Publisher{log: log, hub: hub, source: source, period: period}
}

// Run publishes until ctx is done, then disconnects every subscriber.
func (p *Publisher) Run(ctx context.Context) error {
	p.log.Info("publishing telemetry", zap.Duration("period", p.period))
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	defer p.hub.RemoveAll()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("telemetry publisher stopped")
			return nil
		case now := <-ticker.C:
			if err := p.hub.Broadcast(NewSensorView(now, p.source.Positions())); err != nil {
				return err
			}
		}
	}
}
