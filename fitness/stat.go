package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stat selects one aggregate of a sample
type Stat int

const (
	Mean Stat = iota
	StdDev
	Min
	Max
)

var statNames = [...]string{
	Mean:   "mean",
	StdDev: "stddev",
	Min:    "min",
	Max:    "max",
}

// Stats lists every Stat in declaration order
var Stats = []Stat{Mean, StdDev, Min, Max}

func (s Stat) String() string {
	if s < 0 || int(s) >= len(statNames) {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat maps a token to a Stat
func ParseStat(token string) (Stat, error) {
	for i, name := range statNames {
		if name == token {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: expected mean, stddev, min or max, got %q", ErrUnknownToken, token)
}

// Valid reports whether s is a declared Stat
func (s Stat) Valid() bool {
	return s >= 0 && int(s) < len(statNames)
}

// StatValues holds the aggregates of one sample
type StatValues struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// NewStatValues reduces a sample. StdDev is the population standard deviation.
// An empty sample yields NaN for every aggregate.
func NewStatValues(sample []float64) StatValues {
	if len(sample) == 0 {
		nan := math.NaN()
		return StatValues{Mean: nan, StdDev: nan, Min: nan, Max: nan}
	}

	mean, variance := stat.PopMeanVariance(sample, nil)
	return StatValues{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    floats.Min(sample),
		Max:    floats.Max(sample),
	}
}

// Get returns the aggregate selected by s
func (v StatValues) Get(s Stat) float64 {
	switch s {
	case Mean:
		return v.Mean
	case StdDev:
		return v.StdDev
	case Min:
		return v.Min
	case Max:
		return v.Max
	}
	return math.NaN()
}
