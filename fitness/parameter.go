package fitness

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownToken is wrapped by every enum parse failure
var ErrUnknownToken = errors.New("unknown token")

// Parameter selects the measured quantity of a palette
type Parameter int

const (
	// Chroma of each free color
	Chroma Parameter = iota
	// Luminance of each free color
	Luminance
	// FixedDistance between every fixed and every free color
	FixedDistance
	// FreeDistance between every distinct pair of free colors
	FreeDistance
)

var parameterNames = [...]string{
	Chroma:        "chroma",
	Luminance:     "luminance",
	FixedDistance: "fixeddist",
	FreeDistance:  "freedist",
}

// Parameters lists every Parameter in declaration order
var Parameters = []Parameter{Chroma, Luminance, FixedDistance, FreeDistance}

func (p Parameter) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Parameter(%d)", int(p))
	}
	return parameterNames[p]
}

// ParseParameter maps a token to a Parameter
func ParseParameter(token string) (Parameter, error) {
	for i, name := range parameterNames {
		if name == token {
			return Parameter(i), nil
		}
	}
	return 0, fmt.Errorf("%w: expected chroma, luminance, freedist or fixeddist, got %q", ErrUnknownToken, token)
}

// Valid reports whether p is a declared Parameter
func (p Parameter) Valid() bool {
	return p >= 0 && int(p) < len(parameterNames)
}

// FitnessData maps each Parameter to the aggregates of its sample
type FitnessData map[Parameter]StatValues

// Value returns the selected aggregate, NaN when the parameter is absent
func (d FitnessData) Value(p Parameter, s Stat) float64 {
	v, ok := d[p]
	if !ok {
		return math.NaN()
	}
	return v.Get(s)
}
