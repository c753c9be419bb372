// Package filter simulates dichromatic color vision for palette previews
package filter

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/hueforge/color"
)

// Filter transforms a color as seen under some vision condition
type Filter interface {
	Transform(c color.Lab) color.Lab
	Name() string
}

// linearScale is the fixed-point unit of the red-green coefficients
const linearScale = 32768.0

// RedGreen projects linear RGB onto the plane seen by a red-green
// dichromat (Viénot, Brettel and Mollon 1999). Simulated red and green
// are identical; K1..K3 are in units of 1/32768.
type RedGreen struct {
	name       string
	K1, K2, K3 float64
}

// Deutan simulates deuteranopia
func Deutan() *RedGreen {
	return &RedGreen{name: "deutan", K1: 9591, K2: 23173, K3: -730}
}

// Protan simulates protanopia
func Protan() *RedGreen {
	return &RedGreen{name: "protan", K1: 3683, K2: 29084, K3: 131}
}

func (f *RedGreen) Name() string { return f.name }

// Transform works on the displayable projection of c in linear RGB
func (f *RedGreen) Transform(c color.Lab) color.Lab {
	r, g, b := c.Displayable().LinearRgb()

	rg := (f.K1*r + f.K2*g) / linearScale
	bb := (f.K3*r - f.K3*g + linearScale*b) / linearScale

	out := colorful.LinearRgb(unit(rg), unit(rg), unit(bb))
	return color.FromRGB(out.R, out.G, out.B)
}

func unit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Identity leaves colors unchanged
type Identity struct{}

func (Identity) Transform(c color.Lab) color.Lab { return c }
func (Identity) Name() string                    { return "none" }

// Names lists the accepted filter names
var Names = []string{"none", "deutan", "protan"}

// ByName resolves a filter name; the empty string means none
func ByName(name string) (Filter, error) {
	switch name {
	case "", "none":
		return Identity{}, nil
	case "deutan":
		return Deutan(), nil
	case "protan":
		return Protan(), nil
	}
	return nil, fmt.Errorf("unknown filter %q (expected one of %v)", name, Names)
}

// Apply transforms every color with f
func Apply(f Filter, colors []color.Lab) []color.Lab {
	out := make([]color.Lab, len(colors))
	for i, c := range colors {
		out[i] = f.Transform(c)
	}
	return out
}
