package opendrive

import (
	"github.com/beevik/etree"
)

// parseJunctions registers junctions, their connections and the lane links of each connection.
func (p *Parser) parseJunctions(odr *etree.Element) error {
	for _, odrJunction := range odr.SelectElements("junction") {
		id, err := intAttr(odrJunction, "id")
		if err != nil {
			return err
		}
		junction := p.builder.AddJunction(id)

		for _, odrConnection := range odrJunction.SelectElements("connection") {
			incoming, err := intAttr(odrConnection, "incomingRoad")
			if err != nil {
				return err
			}
			connecting, err := intAttr(odrConnection, "connectingRoad")
			if err != nil {
				return err
			}
			connection := p.builder.AddJunctionConnection(junction, incoming, connecting)

			for _, odrLaneLink := range odrConnection.SelectElements("laneLink") {
				from, err := intAttr(odrLaneLink, "from")
				if err != nil {
					return err
				}
				to, err := intAttr(odrLaneLink, "to")
				if err != nil {
					return err
				}
				p.builder.AddLaneLink(connection, from, to)
			}
		}
	}
	return nil
}
