package opendrive

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const odrHeader = `<?xml version="1.0" standalone="yes"?>
<OpenDRIVE>
    <header revMajor="1" revMinor="4" name="test" version="1.00"/>
`

func odrDocument(body string) string {
	return odrHeader + body + "\n</OpenDRIVE>\n"
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseString(t *testing.T, doc string) (*roadnetwork.Map, *Parser) {
	t.Helper()
	p := NewParser(zap.NewNop())
	m, err := p.Parse(writeFile(t, "map.xodr", doc))
	require.NoError(t, err)
	return m, p
}

func mustRoad(t *testing.T, m *roadnetwork.Map, id int) *roadnetwork.Road {
	t.Helper()
	r, ok := m.FindRoadByID(id)
	require.True(t, ok, "road %d not found", id)
	return r
}

// laneOf returns lane id of the i-th lane section of road.
func laneOf(t *testing.T, m *roadnetwork.Map, road, section, id int) *roadnetwork.Lane {
	t.Helper()
	r := mustRoad(t, m, road)
	require.Less(t, section, len(r.GetSections()))
	idx, err := m.GetSection(r.GetSections()[section]).Lane(id)
	require.NoError(t, err)
	return m.GetLane(idx)
}

func roadIDs(m *roadnetwork.Map, roads []roadnetwork.RoadIndex) []int {
	ids := make([]int, 0, len(roads))
	for _, r := range roads {
		ids = append(ids, m.GetRoad(r).GetID())
	}
	return ids
}

// laneRefs renders lanes as road/section-offset/lane triples for comparison.
type laneRef struct {
	Road    int
	SOffset float64
	Lane    int
}

func laneRefs(m *roadnetwork.Map, lanes []roadnetwork.LaneIndex) []laneRef {
	refs := make([]laneRef, 0, len(lanes))
	for _, l := range lanes {
		lane := m.GetLane(l)
		refs = append(refs, laneRef{
			Road:    m.RoadOfLane(l).GetID(),
			SOffset: m.GetSection(lane.GetSection()).GetSOffset(),
			Lane:    lane.GetID(),
		})
	}
	return refs
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
