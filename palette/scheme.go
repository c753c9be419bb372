package palette

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/genetic"
	"github.com/lixenwraith/hueforge/parameter"
)

// Legal ranges of the normalized Lab axes
var (
	lightnessBounds = genetic.Bounds{Min: 0, Max: 1}
	chromaticBounds = genetic.Bounds{Min: -1, Max: 1}
)

// ColorScheme is the palette genotype: the evolved free colors.
// Fixed colors belong to the problem description.
type ColorScheme struct {
	FreeColors []color.Lab
}

// NewColorScheme wraps colors without copying
func NewColorScheme(colors ...color.Lab) ColorScheme {
	return ColorScheme{FreeColors: colors}
}

// RandomScheme draws n colors uniformly from the sRGB cube
func RandomScheme(n int, rng *rand.Rand) ColorScheme {
	colors := make([]color.Lab, n)
	for i := range colors {
		colors[i] = color.FromRGB(rng.Float64(), rng.Float64(), rng.Float64())
	}
	return ColorScheme{FreeColors: colors}
}

// Mutated perturbs every axis of every color with Gaussian noise of
// standard deviation 0.02*strength and clamps to the axis range.
// The result may leave the sRGB gamut; distance projects it back.
func (s ColorScheme) Mutated(strength float64, rng *rand.Rand) ColorScheme {
	sigma := parameter.GAMutationSigma * strength
	out := make([]color.Lab, len(s.FreeColors))
	for i, c := range s.FreeColors {
		out[i] = color.Lab{
			L: lightnessBounds.Perturb(c.L, sigma, rng),
			A: chromaticBounds.Perturb(c.A, sigma, rng),
			B: chromaticBounds.Perturb(c.B, sigma, rng),
		}
	}
	return ColorScheme{FreeColors: out}
}

// Crossover sorts both parents by hue independently and returns the
// per-axis midpoints of positionally paired colors
func (s ColorScheme) Crossover(other ColorScheme, _ *rand.Rand) ColorScheme {
	a := sortedByHue(s.FreeColors)
	b := sortedByHue(other.FreeColors)

	n := min(len(a), len(b))
	out := make([]color.Lab, n)
	for i := 0; i < n; i++ {
		out[i] = color.Midpoint(a[i], b[i])
	}
	return ColorScheme{FreeColors: out}
}

// Clone returns a deep copy
func (s ColorScheme) Clone() ColorScheme {
	return ColorScheme{FreeColors: slices.Clone(s.FreeColors)}
}

// Sorted returns the colors ordered by hue, then lightness, for display
func (s ColorScheme) Sorted() []color.Lab {
	out := slices.Clone(s.FreeColors)
	slices.SortStableFunc(out, func(x, y color.Lab) int {
		return cmp.Or(cmp.Compare(x.Hue(), y.Hue()), cmp.Compare(x.L, y.L))
	})
	return out
}

// Hex returns the displayable hex codes in genotype order
func (s ColorScheme) Hex() []string {
	out := make([]string, len(s.FreeColors))
	for i, c := range s.FreeColors {
		out[i] = c.Hex()
	}
	return out
}

func sortedByHue(colors []color.Lab) []color.Lab {
	out := slices.Clone(colors)
	slices.SortStableFunc(out, func(x, y color.Lab) int {
		return cmp.Compare(x.Hue(), y.Hue())
	})
	return out
}

// FitnessData builds the four parameter samples against d and reduces each.
// FreeDistance covers every pair i<j once; FixedDistance every fixed x free pair.
func (s ColorScheme) FitnessData(d *fitness.Description) fitness.FitnessData {
	n := len(s.FreeColors)

	chroma := make([]float64, n)
	luminance := make([]float64, n)
	for i, c := range s.FreeColors {
		chroma[i] = c.Chroma()
		luminance[i] = c.Lightness()
	}

	// Project once; distance on clamped inputs is DeltaE
	free := make([]color.Lab, n)
	for i, c := range s.FreeColors {
		free[i] = c.Clamped()
	}

	fixedDist := make([]float64, 0, len(d.FixedColors)*n)
	for _, f := range d.FixedColors {
		fc := f.Clamped()
		for _, c := range free {
			fixedDist = append(fixedDist, color.DeltaE(fc, c))
		}
	}

	freeDist := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			freeDist = append(freeDist, color.DeltaE(free[i], free[j]))
		}
	}

	return fitness.FitnessData{
		fitness.Chroma:        fitness.NewStatValues(chroma),
		fitness.Luminance:     fitness.NewStatValues(luminance),
		fitness.FixedDistance: fitness.NewStatValues(fixedDist),
		fitness.FreeDistance:  fitness.NewStatValues(freeDist),
	}
}
