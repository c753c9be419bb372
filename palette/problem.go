package palette

import (
	"math/rand/v2"

	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/genetic"
)

// Problem adapts a fitness.Description to the genetic engine.
// The description is treated as immutable while the Problem is active.
type Problem struct {
	Description *fitness.Description
}

// NewProblem snapshots d so later edits by the caller cannot leak into a generation
func NewProblem(d *fitness.Description) Problem {
	return Problem{Description: d.Clone()}
}

// Random draws a scheme with the description's free color count
func (p Problem) Random(rng *rand.Rand) ColorScheme {
	return RandomScheme(p.Description.FreeColorCount, rng)
}

// Fitness scores s; pure and deterministic
func (p Problem) Fitness(s ColorScheme) float64 {
	return p.Description.Fitness(s.FitnessData(p.Description))
}

// Breakdown lists each target's value and contribution for s
func (p Problem) Breakdown(s ColorScheme) []fitness.Contribution {
	return p.Description.Breakdown(s.FitnessData(p.Description))
}

// Population is the engine population specialized to palettes
type Population = genetic.Population[ColorScheme, Problem]

// Generation is the per-generation summary specialized to palettes
type Generation = genetic.Generation[ColorScheme]

// NewPopulation builds a palette population for d
func NewPopulation(d *fitness.Description, cfg genetic.Config, rng *rand.Rand) (*Population, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return genetic.NewPopulation[ColorScheme](NewProblem(d), cfg, rng)
}
