package config

import (
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/hueforge/command"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/runner"
)

// Palette is the [palette] table of an exported result
type Palette struct {
	Colors      []string  `toml:"colors"`
	Fitness     float64   `toml:"fitness"`
	Seed        uint64    `toml:"seed"`
	Run         int       `toml:"run"`
	Generations int       `toml:"generations"`
	ID          string    `toml:"id,omitempty"`
	Exported    time.Time `toml:"exported"`
}

// Exported is a result file: the palette plus the configuration that
// reproduces it. It loads back as a regular configuration.
type Exported struct {
	Palette Palette `toml:"palette"`
	File
}

// FromDescription returns the problem table and target lines for d
func FromDescription(d *fitness.Description) (Problem, []Target) {
	p := Problem{
		FreeColors:  d.FreeColorCount,
		FixedColors: make([]string, len(d.FixedColors)),
	}
	for i, c := range d.FixedColors {
		p.FixedColors[i] = c.Hex()
	}

	ordered := d.OrderedTargets()
	targets := make([]Target, len(ordered))
	for i, t := range ordered {
		targets[i] = Target{Line: command.Format(t)}
	}
	return p, targets
}

// Export describes res with the run settings of f. The final description of
// the run replaces the problem and targets of f.
func Export(f File, res runner.Result) Exported {
	out := Exported{
		Palette: Palette{
			Colors:      make([]string, 0, len(res.Best.Data.FreeColors)),
			Fitness:     res.Best.Score,
			Seed:        res.Seed,
			Run:         res.Run,
			Generations: res.Generations,
			ID:          res.ID,
			Exported:    time.Now().UTC().Truncate(time.Second),
		},
		File: f,
	}
	for _, c := range res.Best.Data.Sorted() {
		out.Palette.Colors = append(out.Palette.Colors, c.Hex())
	}
	if res.Description != nil {
		out.Problem, out.Targets = FromDescription(res.Description)
	}
	return out
}

// Encode writes e as TOML
func (e Exported) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(e)
}
