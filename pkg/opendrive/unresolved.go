package opendrive

import "fmt"

type UnresolvedKind uint8

const (
	// road link elementId is neither a road nor a junction
	UnresolvedLinkTarget UnresolvedKind = iota
	// junction connection names a connecting road that is not in the map
	UnresolvedConnectingRoad
	// junction has no connection for the (incoming, connecting) road pair
	UnresolvedJunctionConnection
	// linked lane id does not exist in the adjacent lane section
	UnresolvedLane
)

func (k UnresolvedKind) String() string {
	switch k {
	case UnresolvedLinkTarget:
		return "link target"
	case UnresolvedConnectingRoad:
		return "connecting road"
	case UnresolvedJunctionConnection:
		return "junction connection"
	case UnresolvedLane:
		return "lane"
	default:
		return fmt.Sprintf("UnresolvedKind(%d)", k)
	}
}

// UnresolvedReference is a link in the document that did not produce an edge. These are expected
// for maps cut out of a larger network and are never errors.
type UnresolvedReference struct {
	Kind      UnresolvedKind
	Direction Direction
	RoadID    int
	// referenced road/junction id; for UnresolvedLane the road id of the adjacent section
	ElementID int
	// lane id on this road; only for lane level references
	LaneID int
	// lane id looked up in the adjacent section
	TargetLaneID int
}

func (u UnresolvedReference) String() string {
	switch {
	case u.Kind == UnresolvedLane:
		return fmt.Sprintf("road %d lane %d %s: lane %d not found in road %d", u.RoadID, u.LaneID, u.Direction,
			u.TargetLaneID, u.ElementID)
	case u.LaneID != 0:
		return fmt.Sprintf("road %d lane %d %s: no %s to road %d", u.RoadID, u.LaneID, u.Direction, u.Kind,
			u.ElementID)
	default:
		return fmt.Sprintf("road %d %s: %s %d not found", u.RoadID, u.Direction, u.Kind, u.ElementID)
	}
}
