package controllers

import (
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http/usecases"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
)

type MapService interface {
	EncodedMap() *usecases.EncodedMap
	Road(id int) (*usecases.RoadView, error)
	NearbyLanes(x, y, radius float64) []spatialindex.LaneHit
	Objects() []simulator.ObjectState
}
