package roadnetwork

import (
	"errors"
	"fmt"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

// arena indices. every cross-entity reference in the map is one of these.
type (
	RoadIndex       uint32
	JunctionIndex   uint32
	ConnectionIndex uint32
	SectionIndex    uint32
	LaneIndex       uint32
)

// NoJunction marks a road that is not part of a junction.
const NoJunction = -1

var (
	ErrLaneNotFound    = errors.New("lane not found in lane section")
	ErrUnknownLaneType = errors.New("unknown lane type")
	ErrValidation      = errors.New("validation error")
)

type LaneType uint8

const (
	Sidewalk LaneType = iota
	Shoulder
	Driving
	Restricted
	Median
	Parking
	None
)

var laneTypeNames = [...]string{
	Sidewalk:   "sidewalk",
	Shoulder:   "shoulder",
	Driving:    "driving",
	Restricted: "restricted",
	Median:     "median",
	Parking:    "parking",
	None:       "none",
}

func (lt LaneType) String() string {
	if int(lt) < len(laneTypeNames) {
		return laneTypeNames[lt]
	}
	return fmt.Sprintf("LaneType(%d)", lt)
}

// ParseLaneType maps an OpenDRIVE lane type attribute onto the closed LaneType set.
func ParseLaneType(s string) (LaneType, error) {
	for lt, name := range laneTypeNames {
		if name == s {
			return LaneType(lt), nil
		}
	}
	return None, util.WrapErrorf(ErrUnknownLaneType, ErrValidation, "lane type %q", s)
}

// LaneLink maps a lane on a junction's incoming road to a lane on its connecting road.
type LaneLink struct {
	From int
	To   int
}
