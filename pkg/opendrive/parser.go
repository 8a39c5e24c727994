package opendrive

import (
	"io"
	"time"

	"github.com/beevik/etree"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"go.uber.org/zap"
)

// pass is one stage of the construction pipeline. it reads the (immutable) document and
// everything earlier passes wrote into the builder.
type pass struct {
	name string
	run  func(odr *etree.Element) error
}

/*
Parser. builds a roadnetwork.Map from an OpenDRIVE document.

construction is a fixed sequence of passes, each depending on the state written by the previous
ones:

	roads -> junctions -> road links -> lane sections -> lane section links -> lanes -> lane links

a Parser is single-use per Parse call and not safe for concurrent use.
*/
type Parser struct {
	log      *zap.Logger
	validate *validator.Validate
	trans    ut.Translator

	builder    *roadnetwork.MapBuilder
	header     header
	unresolved []UnresolvedReference
}

func NewParser(log *zap.Logger) *Parser {
	validate, trans := util.NewValidator()
	return &Parser{
		log:      log,
		validate: validate,
		trans:    trans,
	}
}

// pipeline returns the passes in the only order they may run in.
func (p *Parser) pipeline() []pass {
	return []pass{
		{name: "roads", run: p.parseRoads},
		{name: "junctions", run: p.parseJunctions},
		{name: "road connections", run: p.roadConnections},
		{name: "lane sections", run: p.parseLaneSections},
		{name: "lane section connections", run: p.laneSectionConnections},
		{name: "lanes", run: p.parseLanes},
		{name: "lane connections", run: p.laneConnections},
	}
}

// Parse loads the OpenDRIVE file at path and builds the road network from it.
// On error no map is returned.
func (p *Parser) Parse(path string) (*roadnetwork.Map, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc)
}

func (p *Parser) ParseReader(r io.Reader) (*roadnetwork.Map, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc)
}

func (p *Parser) ParseDocument(doc *etree.Document) (*roadnetwork.Map, error) {
	p.builder = roadnetwork.NewMapBuilder()
	p.unresolved = make([]UnresolvedReference, 0)

	odr, err := p.checkDocument(doc)
	if err != nil {
		return nil, err
	}
	p.log.Info("parsing opendrive document", zap.Int("revMajor", p.header.RevMajor),
		zap.Int("revMinor", p.header.RevMinor))

	for _, ps := range p.pipeline() {
		start := time.Now()
		if err := ps.run(odr); err != nil {
			return nil, err
		}
		p.log.Debug("opendrive pass done", zap.String("pass", ps.name),
			zap.Duration("elapsed", time.Since(start)))
	}

	m := p.builder.Map()
	p.log.Info("opendrive road network built",
		zap.Int("roads", m.NumberOfRoads()),
		zap.Int("junctions", m.NumberOfJunctions()),
		zap.Int("laneSections", m.NumberOfSections()),
		zap.Int("lanes", m.NumberOfLanes()),
		zap.Int("unresolvedReferences", len(p.unresolved)))
	return m, nil
}

// Unresolved lists the references of the last Parse call that did not produce an edge.
func (p *Parser) Unresolved() []UnresolvedReference {
	return p.unresolved
}

// Revision returns the revMajor/revMinor header values of the last parsed document.
func (p *Parser) Revision() (int, int) {
	return p.header.RevMajor, p.header.RevMinor
}

func (p *Parser) addUnresolved(ref UnresolvedReference) {
	p.unresolved = append(p.unresolved, ref)
}
