package genetic

import (
	"fmt"
	"math/rand/v2"
)

// Mutation policy names
const (
	MutationRate    = "rate"
	MutationWeakest = "weakest"
)

// RateMutation mutates each child independently with probability Rate
type RateMutation struct {
	Rate float64
}

func (m RateMutation) Mutate(_, _ int, rng *rand.Rand) bool {
	return rng.Float64() < m.Rate
}

// WeakestMutation always mutates the last Count children bred in a generation.
// Parents are drawn from the ranked pool, so the tail of breeding order is
// treated as the weakest slots. Draws nothing from rng.
type WeakestMutation struct {
	Count int
}

func (m WeakestMutation) Mutate(slot, children int, _ *rand.Rand) bool {
	return slot >= children-m.Count
}

// NewMutationPolicy builds the policy registered under name.
// rate feeds RateMutation; for WeakestMutation it is the fraction of child
// slots mutated, rounded to the nearest count.
func NewMutationPolicy(name string, rate float64, children int) (MutationPolicy, error) {
	if rate < 0 || rate > 1 {
		return nil, &ConfigError{Field: "mutation_rate", Reason: fmt.Sprintf("must be within [0,1], got %g", rate)}
	}
	switch name {
	case "", MutationRate:
		return RateMutation{Rate: rate}, nil
	case MutationWeakest:
		return WeakestMutation{Count: int(rate*float64(children) + 0.5)}, nil
	}
	return nil, &ConfigError{Field: "mutation_policy", Reason: "unknown policy " + name}
}
