package opendrive

import (
	"errors"
	"fmt"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
)

// error codes returned by Parse. every returned error is a *util.Error carrying one of them.
var (
	// input file does not exist
	ErrNotFound = util.ErrNotFound
	// input exists but is not well-formed xml
	ErrLoad = errors.New("opendrive document could not be loaded")
	// a required element or attribute is absent or malformed. also matches ErrLoad.
	ErrStructure = fmt.Errorf("%w: invalid document structure", ErrLoad)
	// an enumerated value (lane type, geometry kind) is outside the supported set
	ErrValidation = roadnetwork.ErrValidation
)
