package opendrive

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// road 1 -> junction 100 (connecting road 2) -> road 3 (two lane sections) -> road 4 -> road 1.
// road 1 declares no predecessor, so the link from road 4 is one-way.
// road 5 points at an element outside the map.
const junctionNetwork = `
    <road name="r1" length="10" id="1" junction="-1">
        <link>
            <successor elementType="junction" elementId="100"/>
        </link>
        <planView>
            <geometry s="0" x="0" y="0" hdg="0" length="10"><line/></geometry>
        </planView>
        <lanes>
            <laneSection s="0">
                <left>
                    <lane id="1" type="driving" level="false"><width sOffset="0" a="3.5" b="0" c="0" d="0"/></lane>
                </left>
                <center>
                    <lane id="0" type="driving" level="false"/>
                </center>
                <right>
                    <lane id="-1" type="driving" level="false"><width sOffset="0" a="3.5" b="0" c="0" d="0"/></lane>
                    <lane id="-2" type="sidewalk" level="false"><width sOffset="0" a="2" b="0" c="0" d="0"/></lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <road name="r2" length="5" id="2" junction="100">
        <link>
            <predecessor elementType="road" elementId="1" contactPoint="end"/>
            <successor elementType="road" elementId="3" contactPoint="start"/>
        </link>
        <planView>
            <geometry s="0" x="10" y="0" hdg="0" length="5"/>
        </planView>
        <lanes>
            <laneSection s="0">
                <right>
                    <lane id="-1" type="driving" level="false">
                        <link><predecessor id="-1"/><successor id="-1"/></link>
                        <width sOffset="0" a="3.5" b="0" c="0" d="0"/>
                    </lane>
                    <lane id="-2" type="sidewalk" level="false">
                        <link><predecessor id="-2"/><successor id="-2"/></link>
                        <width sOffset="0" a="2" b="0" c="0" d="0"/>
                    </lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <road name="r3" length="5" id="3" junction="-1">
        <link>
            <predecessor elementType="junction" elementId="100"/>
            <successor elementType="road" elementId="4" contactPoint="start"/>
        </link>
        <planView>
            <geometry s="0" x="15" y="0" hdg="0" length="5"><arc curvature="0.1"/></geometry>
        </planView>
        <lanes>
            <laneSection s="0">
                <right>
                    <lane id="-1" type="driving" level="false"><width sOffset="0" a="3.5" b="0" c="0" d="0"/></lane>
                </right>
            </laneSection>
            <laneSection s="2.5">
                <right>
                    <lane id="-1" type="driving" level="false">
                        <link><predecessor id="-1"/></link>
                        <width sOffset="0" a="3.5" b="0" c="0" d="0"/>
                    </lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <road name="r4" length="3" id="4" junction="-1">
        <link>
            <predecessor elementType="road" elementId="3" contactPoint="end"/>
            <successor elementType="road" elementId="1" contactPoint="start"/>
        </link>
        <planView>
            <geometry s="0" x="20" y="1" hdg="1.5" length="3"/>
        </planView>
        <lanes>
            <laneSection s="0">
                <right>
                    <lane id="-1" type="driving" level="false">
                        <link><predecessor id="-1"/><successor id="-1"/></link>
                        <width sOffset="0" a="3.5" b="0" c="0" d="0"/>
                    </lane>
                    <lane id="-2" type="shoulder" level="false"><width sOffset="0" a="1" b="0" c="0" d="0"/></lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <road name="r5" length="2" id="5" junction="-1">
        <link>
            <predecessor elementType="road" elementId="999"/>
        </link>
        <planView>
            <geometry s="0" x="-5" y="0" hdg="0" length="2"/>
        </planView>
        <lanes>
            <laneSection s="0">
                <right>
                    <lane id="-1" type="driving" level="false"><width sOffset="0" a="3" b="0" c="0" d="0"/></lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <junction id="100" name="j">
        <connection id="0" incomingRoad="1" connectingRoad="2" contactPoint="start">
            <laneLink from="-1" to="-1"/>
            <laneLink from="-2" to="-2"/>
        </connection>
        <connection id="1" incomingRoad="3" connectingRoad="2" contactPoint="end">
            <laneLink from="-1" to="-1"/>
        </connection>
    </junction>
`

func TestParseRoadConnections(t *testing.T) {
	m, _ := parseString(t, odrDocument(junctionNetwork))

	require.Equal(t, 5, m.NumberOfRoads())
	require.Equal(t, 1, m.NumberOfJunctions())

	testCases := []struct {
		name             string
		road             int
		wantPredecessors []int
		wantSuccessors   []int
	}{
		{name: "successor through junction", road: 1, wantPredecessors: []int{}, wantSuccessors: []int{2}},
		{name: "junction member links roads directly", road: 2, wantPredecessors: []int{1}, wantSuccessors: []int{3}},
		{name: "predecessor through junction", road: 3, wantPredecessors: []int{2}, wantSuccessors: []int{4}},
		{name: "plain road links", road: 4, wantPredecessors: []int{3}, wantSuccessors: []int{1}},
		{name: "dangling link adds nothing", road: 5, wantPredecessors: []int{}, wantSuccessors: []int{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := mustRoad(t, m, tt.road)
			assert.Equal(t, tt.wantPredecessors, roadIDs(m, r.GetPredecessors()))
			assert.Equal(t, tt.wantSuccessors, roadIDs(m, r.GetSuccessors()))
		})
	}
}

func TestParseLaneSectionConnections(t *testing.T) {
	m, _ := parseString(t, odrDocument(junctionNetwork))

	section := func(road, i int) roadnetwork.SectionIndex {
		return mustRoad(t, m, road).GetSections()[i]
	}

	// single section road between two roads
	r4 := m.GetSection(section(4, 0))
	assert.Equal(t, []roadnetwork.SectionIndex{section(3, 1)}, r4.GetPredecessors())
	assert.Equal(t, []roadnetwork.SectionIndex{section(1, 0)}, r4.GetSuccessors())

	// first and last section of a two section road
	first := m.GetSection(section(3, 0))
	last := m.GetSection(section(3, 1))
	assert.Equal(t, []roadnetwork.SectionIndex{section(2, 0)}, first.GetPredecessors())
	assert.Equal(t, []roadnetwork.SectionIndex{section(3, 1)}, first.GetSuccessors())
	assert.Equal(t, []roadnetwork.SectionIndex{section(3, 0)}, last.GetPredecessors())
	assert.Equal(t, []roadnetwork.SectionIndex{section(4, 0)}, last.GetSuccessors())
	assert.Equal(t, 2.5, last.GetSOffset())

	// junction member road
	j := m.GetSection(section(2, 0))
	assert.Equal(t, []roadnetwork.SectionIndex{section(1, 0)}, j.GetPredecessors())
	assert.Equal(t, []roadnetwork.SectionIndex{section(3, 0)}, j.GetSuccessors())
}

// road 10 (three sections) -> junction 200 (connecting road 20, three sections) -> road 30.
const multiSectionNetwork = `
    <road id="10" junction="-1">
        <link><successor elementType="junction" elementId="200"/></link>
        <planView><geometry s="0" x="0" y="0" hdg="0" length="9"/></planView>
        <lanes>
            <laneSection s="0"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
            <laneSection s="3"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
            <laneSection s="6"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
        </lanes>
    </road>
    <road id="20" junction="200">
        <link>
            <predecessor elementType="road" elementId="10"/>
            <successor elementType="road" elementId="30"/>
        </link>
        <planView><geometry s="0" x="9" y="0" hdg="0" length="6"/></planView>
        <lanes>
            <laneSection s="0"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
            <laneSection s="2"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
            <laneSection s="4"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
        </lanes>
    </road>
    <road id="30" junction="-1">
        <link><predecessor elementType="junction" elementId="200"/></link>
        <planView><geometry s="0" x="15" y="0" hdg="0" length="4"/></planView>
        <lanes>
            <laneSection s="0"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
        </lanes>
    </road>
    <junction id="200">
        <connection id="0" incomingRoad="10" connectingRoad="20"/>
        <connection id="1" incomingRoad="30" connectingRoad="20"/>
    </junction>
`

func TestParseMultiSectionConnections(t *testing.T) {
	m, p := parseString(t, odrDocument(multiSectionNetwork))
	require.Empty(t, p.Unresolved())

	sections := func(road int) []roadnetwork.SectionIndex {
		s := mustRoad(t, m, road).GetSections()
		require.Len(t, s, map[int]int{10: 3, 20: 3, 30: 1}[road])
		return s
	}
	r10, r20, r30 := sections(10), sections(20), sections(30)
	none := []roadnetwork.SectionIndex{}

	testCases := []struct {
		name             string
		section          roadnetwork.SectionIndex
		wantPredecessors []roadnetwork.SectionIndex
		wantSuccessors   []roadnetwork.SectionIndex
	}{
		{
			name:             "first section of a plain road without predecessor",
			section:          r10[0],
			wantPredecessors: none,
			wantSuccessors:   []roadnetwork.SectionIndex{r10[1]},
		},
		{
			name:             "interior section links only its neighbours",
			section:          r10[1],
			wantPredecessors: []roadnetwork.SectionIndex{r10[0]},
			wantSuccessors:   []roadnetwork.SectionIndex{r10[2]},
		},
		{
			name:             "last section continues into the connecting road",
			section:          r10[2],
			wantPredecessors: []roadnetwork.SectionIndex{r10[1]},
			wantSuccessors:   []roadnetwork.SectionIndex{r20[0]},
		},
		{
			name:             "first section of junction member road",
			section:          r20[0],
			wantPredecessors: []roadnetwork.SectionIndex{r10[2]},
			wantSuccessors:   []roadnetwork.SectionIndex{r30[0]},
		},
		{
			name:             "interior section of junction member road takes road links",
			section:          r20[1],
			wantPredecessors: []roadnetwork.SectionIndex{r10[2]},
			wantSuccessors:   []roadnetwork.SectionIndex{r30[0]},
		},
		{
			name:             "last section of junction member road",
			section:          r20[2],
			wantPredecessors: []roadnetwork.SectionIndex{r10[2]},
			wantSuccessors:   []roadnetwork.SectionIndex{r30[0]},
		},
		{
			name:             "single section road after the junction",
			section:          r30[0],
			wantPredecessors: []roadnetwork.SectionIndex{r20[2]},
			wantSuccessors:   none,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			section := m.GetSection(tt.section)
			assert.ElementsMatch(t, tt.wantPredecessors, section.GetPredecessors())
			assert.ElementsMatch(t, tt.wantSuccessors, section.GetSuccessors())
		})
	}
}

func TestParseLaneConnections(t *testing.T) {
	m, _ := parseString(t, odrDocument(junctionNetwork))

	testCases := []struct {
		name             string
		road, section    int
		lane             int
		wantPredecessors []laneRef
		wantSuccessors   []laneRef
	}{
		{
			name: "successor resolved through junction lane link",
			road: 1, section: 0, lane: -1,
			wantPredecessors: []laneRef{},
			wantSuccessors:   []laneRef{{Road: 2, SOffset: 0, Lane: -1}},
		},
		{
			name: "left driving lane without lane link stays unlinked",
			road: 1, section: 0, lane: 1,
			wantPredecessors: []laneRef{},
			wantSuccessors:   []laneRef{},
		},
		{
			name: "explicit links on connecting road",
			road: 2, section: 0, lane: -1,
			wantPredecessors: []laneRef{{Road: 1, SOffset: 0, Lane: -1}},
			wantSuccessors:   []laneRef{{Road: 3, SOffset: 0, Lane: -1}},
		},
		{
			name: "predecessor resolved through junction, successor in the same road",
			road: 3, section: 0, lane: -1,
			wantPredecessors: []laneRef{{Road: 2, SOffset: 0, Lane: -1}},
			wantSuccessors:   []laneRef{},
		},
		{
			name: "explicit predecessor inside the road",
			road: 3, section: 1, lane: -1,
			wantPredecessors: []laneRef{{Road: 3, SOffset: 0, Lane: -1}},
			wantSuccessors:   []laneRef{},
		},
		{
			name: "single section road with explicit links",
			road: 4, section: 0, lane: -1,
			wantPredecessors: []laneRef{{Road: 3, SOffset: 2.5, Lane: -1}},
			wantSuccessors:   []laneRef{{Road: 1, SOffset: 0, Lane: -1}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			lane := laneOf(t, m, tt.road, tt.section, tt.lane)
			assert.Equal(t, tt.wantPredecessors, laneRefs(m, lane.GetPredecessors()))
			assert.Equal(t, tt.wantSuccessors, laneRefs(m, lane.GetSuccessors()))
		})
	}
}

func TestParseNonDrivingLanesNeverLinked(t *testing.T) {
	m, _ := parseString(t, odrDocument(junctionNetwork))

	m.ForEachLane(func(l *roadnetwork.Lane) {
		if l.IsDriving() {
			return
		}
		assert.Empty(t, l.GetPredecessors(), "lane %d of type %s", l.GetID(), l.GetType())
		assert.Empty(t, l.GetSuccessors(), "lane %d of type %s", l.GetID(), l.GetType())
	})
	assert.Equal(t, roadnetwork.Sidewalk, laneOf(t, m, 2, 0, -2).GetType())
	assert.Equal(t, roadnetwork.Shoulder, laneOf(t, m, 4, 0, -2).GetType())
}

func TestParseGeometry(t *testing.T) {
	m, _ := parseString(t, odrDocument(junctionNetwork))

	r1 := mustRoad(t, m, 1)
	require.Len(t, r1.GetPoints(), 11)
	assert.InDelta(t, 10, r1.GetPoints()[10].X, 1e-9)

	right := laneOf(t, m, 1, 0, -1)
	assert.Equal(t, 3.5, right.GetWidth())
	for _, p := range right.GetBoundaryPoints() {
		assert.InDelta(t, -3.5, p.Y, 1e-9)
	}
	for _, p := range right.GetPoints() {
		assert.InDelta(t, -1.75, p.Y, 1e-9)
	}

	// lanes are offset by their own width only
	sidewalk := laneOf(t, m, 1, 0, -2)
	assert.InDelta(t, -2, sidewalk.GetBoundaryPoints()[0].Y, 1e-9)

	left := laneOf(t, m, 1, 0, 1)
	assert.InDelta(t, 1.75, left.GetPoints()[0].Y, 1e-9)

	// arc road: center (15, 10), radius 10, right lane boundary radius 13.5
	r3 := mustRoad(t, m, 3)
	require.Len(t, r3.GetPoints(), 22)
	center := geometry.NewPoint(15, 10)
	for _, p := range r3.GetPoints() {
		assert.InDelta(t, 10, p.Distance(center), 1e-6)
	}
	for _, p := range laneOf(t, m, 3, 0, -1).GetBoundaryPoints() {
		assert.InDelta(t, 13.5, p.Distance(center), 1e-6)
	}
	// every lane section samples the whole plan view
	assert.Equal(t, laneOf(t, m, 3, 0, -1).GetPoints(), laneOf(t, m, 3, 1, -1).GetPoints())
}

func TestParseFlatArc(t *testing.T) {
	doc := odrDocument(`
    <road id="1" junction="-1">
        <planView><geometry s="0" x="2" y="0" hdg="0" length="4.5"><arc curvature="0"/></geometry></planView>
        <lanes>
            <laneSection s="0"><right><lane id="-1" type="driving"><width sOffset="0" a="3"/></lane></right></laneSection>
        </lanes>
    </road>`)

	m, _ := parseString(t, doc)
	r := mustRoad(t, m, 1)
	assert.Equal(t, geometry.SampleStraight(2, 0, 0, 4.5, 0), r.GetPoints())
	assert.Equal(t, geometry.SampleStraight(2, 0, 0, 4.5, -1.5), laneOf(t, m, 1, 0, -1).GetPoints())
}

func TestParseUnresolvedReferences(t *testing.T) {
	_, p := parseString(t, odrDocument(junctionNetwork))

	unresolved := p.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, UnresolvedReference{
		Kind:      UnresolvedLinkTarget,
		Direction: Predecessor,
		RoadID:    5,
		ElementID: 999,
	}, unresolved[0])
	assert.Equal(t, "road 5 predecessor: link target 999 not found", unresolved[0].String())

	major, minor := p.Revision()
	assert.Equal(t, 1, major)
	assert.Equal(t, 4, minor)
}

func TestParseMissingLaneAndConnection(t *testing.T) {
	doc := odrDocument(`
    <road id="1" junction="-1">
        <link><successor elementType="junction" elementId="7"/></link>
        <planView><geometry s="0" x="0" y="0" hdg="0" length="2"/></planView>
        <lanes><laneSection s="0"><right>
            <lane id="-1" type="driving"><width sOffset="0" a="3"/></lane>
        </right></laneSection></lanes>
    </road>
    <road id="2" junction="7">
        <link><predecessor elementType="road" elementId="1"/></link>
        <planView><geometry s="0" x="2" y="0" hdg="0" length="2"/></planView>
        <lanes><laneSection s="0"><right>
            <lane id="-1" type="driving">
                <link><predecessor id="-3"/></link>
                <width sOffset="0" a="3"/>
            </lane>
        </right></laneSection></lanes>
    </road>
    <junction id="7">
        <connection incomingRoad="1" connectingRoad="2">
            <laneLink from="-1" to="-4"/>
        </connection>
        <connection incomingRoad="1" connectingRoad="8"/>
    </junction>`)

	m, p := parseString(t, doc)
	assert.Equal(t, []int{2}, roadIDs(m, mustRoad(t, m, 1).GetSuccessors()))
	assert.Empty(t, laneOf(t, m, 1, 0, -1).GetSuccessors())
	assert.Empty(t, laneOf(t, m, 2, 0, -1).GetPredecessors())

	kinds := make([]UnresolvedKind, 0)
	for _, u := range p.Unresolved() {
		kinds = append(kinds, u.Kind)
	}
	assert.ElementsMatch(t, []UnresolvedKind{UnresolvedConnectingRoad, UnresolvedLane, UnresolvedLane}, kinds)
}

func TestParseErrors(t *testing.T) {
	lane := func(laneType string) string {
		return `<lane id="-1" type="` + laneType + `"><width sOffset="0" a="3"/></lane>`
	}
	road := func(geometry, lanes string) string {
		return `<road id="1" junction="-1"><planView>` + geometry + `</planView>` + lanes + `</road>`
	}
	sections := func(lanes string) string {
		return `<lanes><laneSection s="0"><right>` + lanes + `</right></laneSection></lanes>`
	}
	line := `<geometry s="0" x="0" y="0" hdg="0" length="4"/>`

	testCases := []struct {
		name    string
		content string
		wantErr []error
	}{
		{
			name:    "malformed xml",
			content: `<OpenDRIVE><header revMajor="1"`,
			wantErr: []error{ErrLoad},
		},
		{
			name:    "empty document",
			content: ``,
			wantErr: []error{ErrLoad},
		},
		{
			name:    "wrong root element",
			content: `<?xml version="1.0"?><osm version="0.6"></osm>`,
			wantErr: []error{ErrStructure, ErrLoad},
		},
		{
			name:    "missing header",
			content: `<OpenDRIVE>` + road(line, sections(lane("driving"))) + `</OpenDRIVE>`,
			wantErr: []error{ErrStructure},
		},
		{
			name:    "unsupported revision",
			content: `<OpenDRIVE><header revMajor="2" revMinor="0"/></OpenDRIVE>`,
			wantErr: []error{ErrStructure},
		},
		{
			name:    "unknown lane type",
			content: odrDocument(road(line, sections(lane("bikeway")))),
			wantErr: []error{ErrValidation, roadnetwork.ErrUnknownLaneType},
		},
		{
			name: "spiral geometry",
			content: odrDocument(road(`<geometry s="0" x="0" y="0" hdg="0" length="4">`+
				`<spiral curvStart="0" curvEnd="0.1"/></geometry>`, sections(lane("driving")))),
			wantErr: []error{ErrValidation, geometry.ErrUnsupportedGeometry},
		},
		{
			name:    "road without plan view",
			content: odrDocument(`<road id="1" junction="-1">` + sections(lane("driving")) + `</road>`),
			wantErr: []error{ErrStructure},
		},
		{
			name:    "road without lanes",
			content: odrDocument(road(line, "")),
			wantErr: []error{ErrStructure},
		},
		{
			name:    "road id is not a number",
			content: odrDocument(`<road id="a1" junction="-1"><planView/>` + sections(lane("driving")) + `</road>`),
			wantErr: []error{ErrStructure},
		},
		{
			name:    "lane without width",
			content: odrDocument(road(line, sections(`<lane id="-1" type="driving"/>`))),
			wantErr: []error{ErrStructure},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(zap.NewNop())
			m, err := p.Parse(writeFile(t, "map.xodr", tt.content))
			assert.Nil(t, m)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestParseFileNotFound(t *testing.T) {
	p := NewParser(zap.NewNop())
	m, err := p.Parse(filepath.Join(t.TempDir(), "missing.xodr"))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrLoad)
}

func TestParseBzip2(t *testing.T) {
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(odrDocument(junctionNetwork)))
	require.NoError(t, err)
	require.NoError(t, bz.Close())

	path := filepath.Join(t.TempDir(), "map.xodr.bz2")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	m, err := NewParser(zap.NewNop()).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 5, m.NumberOfRoads())
}

func TestParseReader(t *testing.T) {
	m, err := NewParser(zap.NewNop()).ParseReader(strings.NewReader(odrDocument(junctionNetwork)))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, roadIDs(m, mustRoad(t, m, 1).GetSuccessors()))
}

func TestPipelineOrder(t *testing.T) {
	p := NewParser(zap.NewNop())
	names := make([]string, 0)
	for _, ps := range p.pipeline() {
		names = append(names, ps.name)
	}
	assert.Equal(t, []string{
		"roads",
		"junctions",
		"road connections",
		"lane sections",
		"lane section connections",
		"lanes",
		"lane connections",
	}, names)
}

func TestParseRoundaboutCycle(t *testing.T) {
	// three arcs closing a circle of radius 10, each linked to the next
	var body strings.Builder
	for i := 0; i < 3; i++ {
		hdg := float64(i) * 2 * math.Pi / 3
		x := 10 * math.Sin(hdg)
		y := 10 - 10*math.Cos(hdg)
		body.WriteString(`<road id="` + itoa(i+1) + `" junction="-1"><link>` +
			`<predecessor elementType="road" elementId="` + itoa((i+2)%3+1) + `"/>` +
			`<successor elementType="road" elementId="` + itoa((i+1)%3+1) + `"/></link>` +
			`<planView><geometry s="0" x="` + ftoa(x) + `" y="` + ftoa(y) + `" hdg="` + ftoa(hdg) +
			`" length="` + ftoa(2*math.Pi*10/3) + `"><arc curvature="0.1"/></geometry></planView>` +
			`<lanes><laneSection s="0"><right><lane id="-1" type="driving">` +
			`<link><predecessor id="-1"/><successor id="-1"/></link><width sOffset="0" a="3"/>` +
			`</lane></right></laneSection></lanes></road>`)
	}
	m, _ := parseString(t, odrDocument(body.String()))

	// walking successors from road 1 comes back to it after three steps
	lane := laneOf(t, m, 1, 0, -1)
	start := lane.GetIndex()
	cur := start
	for i := 0; i < 3; i++ {
		succ := m.GetLane(cur).GetSuccessors()
		require.Len(t, succ, 1)
		cur = succ[0]
	}
	assert.Equal(t, start, cur)

	last := mustRoad(t, m, 3).GetPoints()
	first := mustRoad(t, m, 1).GetPoints()
	assert.InDelta(t, 0, last[len(last)-1].Distance(first[0]), 1e-6)
}
