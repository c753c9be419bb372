package filter

import (
	"math"
	"testing"

	"github.com/lixenwraith/hueforge/color"
)

func TestRedGreen_GraysStayGray(t *testing.T) {
	for _, f := range []Filter{Deutan(), Protan()} {
		for _, hex := range []string{"#000000", "#404040", "#808080", "#c0c0c0", "#ffffff"} {
			in := color.MustHex(hex)
			out := f.Transform(in)
			if d := color.DeltaE(in, out); d > 1 {
				t.Errorf("%s: gray %s moved by %.3f", f.Name(), hex, d)
			}
		}
	}
}

func TestRedGreen_RedAndGreenCollapse(t *testing.T) {
	red := color.MustHex("#ff0000")
	green := color.MustHex("#00ff00")
	normal := color.DeltaE(red, green)

	for _, f := range []Filter{Deutan(), Protan()} {
		r, g := f.Transform(red), f.Transform(green)

		// Simulated red and green channels are identical
		for _, c := range []color.Lab{r, g} {
			cr, cg, _ := c.Displayable().LinearRgb()
			if math.Abs(cr-cg) > 1e-3 {
				t.Errorf("%s: expected equal red/green channels, got %v %v", f.Name(), cr, cg)
			}
		}

		// Mostly the lightness difference survives
		if d := color.Distance(r, g); d >= normal*0.75 {
			t.Errorf("%s: red/green distance %.2f not reduced from %.2f", f.Name(), d, normal)
		}
	}
}

func TestRedGreen_OutputDisplayable(t *testing.T) {
	colors := []color.Lab{
		{L: 0.5, A: 1, B: -1},
		{L: 1, A: 1, B: 1},
		{L: 0, A: -1, B: 1},
		color.MustHex("#1e90ff"),
	}
	for _, f := range []Filter{Deutan(), Protan()} {
		for _, c := range Apply(f, colors) {
			if color.DeltaE(c, c.Clamped()) > 1e-6 {
				t.Errorf("%s produced out-of-gamut color %v", f.Name(), c)
			}
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "none", false},
		{"none", "none", false},
		{"deutan", "deutan", false},
		{"protan", "protan", false},
		{"tritan", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if f.Name() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, f.Name())
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	c := color.Lab{L: 0.3, A: 0.2, B: -0.1}
	if got := (Identity{}).Transform(c); got != c {
		t.Errorf("identity changed %v to %v", c, got)
	}
}
