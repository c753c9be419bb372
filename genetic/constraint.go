package genetic

import "math/rand/v2"

// Bounds defines the legal closed range of one gene
type Bounds struct {
	Min, Max float64
}

// Clamp limits v to the bounds
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Contains reports whether v lies within the bounds
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Perturb adds zero-mean Gaussian noise with the given standard deviation
// and clamps the result back into bounds
func (b Bounds) Perturb(v, sigma float64, rng *rand.Rand) float64 {
	return b.Clamp(v + rng.NormFloat64()*sigma)
}
