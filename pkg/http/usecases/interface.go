package usecases

import (
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
)

type SpatialIndex interface {
	SearchWithinRadius(x, y, radius float64) []spatialindex.LaneHit
}

type ObjectSource interface {
	Positions() []simulator.ObjectState
}
