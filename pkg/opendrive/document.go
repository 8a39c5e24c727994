package opendrive

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/dsnet/compress/bzip2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

const (
	elemRoot   = "OpenDRIVE"
	elemHeader = "header"

	supportedRevMajor = 1
)

type header struct {
	RevMajor int `validate:"eq=1"`
	RevMinor int `validate:"gte=0"`
}

// LoadDocument reads an OpenDRIVE file. Files ending in .bz2 are decompressed on the fly.
func LoadDocument(path string) (*etree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, util.WrapErrorf(err, ErrNotFound, "opendrive file %s", path)
		}
		return nil, util.WrapErrorf(err, ErrLoad, "open opendrive file %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, ErrLoad, "bzip2 reader for %s", path)
		}
		defer bz.Close()
		r = bz
	}
	return ReadDocument(r)
}

func ReadDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, util.WrapErrorf(err, ErrLoad, "parse opendrive xml")
	}
	if doc.Root() == nil {
		return nil, util.WrapErrorf(nil, ErrLoad, "opendrive document has no root element")
	}
	return doc, nil
}

// checkDocument returns the OpenDRIVE root element after checking the root and header.
func (p *Parser) checkDocument(doc *etree.Document) (*etree.Element, error) {
	odr := doc.Root()
	if odr == nil || odr.Tag != elemRoot {
		return nil, util.WrapErrorf(nil, ErrStructure, "%s element not found", elemRoot)
	}
	odrHeader := odr.SelectElement(elemHeader)
	if odrHeader == nil {
		return nil, util.WrapErrorf(nil, ErrStructure, "%s element not found", elemHeader)
	}

	var (
		h   header
		err error
	)
	if h.RevMajor, err = intAttrOr(odrHeader, "revMajor", 0); err != nil {
		return nil, err
	}
	if h.RevMinor, err = intAttrOr(odrHeader, "revMinor", 0); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(h); err != nil {
		return nil, util.WrapErrorf(err, ErrStructure, "unsupported opendrive revision %d.%d (want %d.x): %v",
			h.RevMajor, h.RevMinor, supportedRevMajor, util.TranslateError(err, p.trans))
	}
	p.header = h
	return odr, nil
}

func requireElement(parent *etree.Element, tag string) (*etree.Element, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return nil, util.WrapErrorf(nil, ErrStructure, "<%s> has no <%s> element",
			parent.Tag, tag)
	}
	return el, nil
}

func intAttr(el *etree.Element, name string) (int, error) {
	attr := el.SelectAttr(name)
	if attr == nil {
		return 0, util.WrapErrorf(nil, ErrStructure, "<%s> attribute %q missing", el.Tag, name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil {
		return 0, util.WrapErrorf(err, ErrStructure, "<%s> attribute %q", el.Tag, name)
	}
	return v, nil
}

func intAttrOr(el *etree.Element, name string, def int) (int, error) {
	if el.SelectAttr(name) == nil {
		return def, nil
	}
	return intAttr(el, name)
}

func floatAttr(el *etree.Element, name string) (float64, error) {
	attr := el.SelectAttr(name)
	if attr == nil {
		return 0, util.WrapErrorf(nil, ErrStructure, "<%s> attribute %q missing", el.Tag, name)
	}
	v, err := util.StringToFloat64(strings.TrimSpace(attr.Value))
	if err != nil {
		return 0, util.WrapErrorf(err, ErrStructure, "<%s> attribute %q", el.Tag, name)
	}
	return v, nil
}

func floatAttrOr(el *etree.Element, name string, def float64) (float64, error) {
	if el.SelectAttr(name) == nil {
		return def, nil
	}
	return floatAttr(el, name)
}
