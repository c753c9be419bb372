// Package preview renders palettes and fitness breakdowns for the terminal
package preview

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/filter"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/palette"
)

const swatchWidth = 9

var (
	styleLabel  = lipgloss.NewStyle().Bold(true).Width(7)
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
)

// Options control how a palette is drawn
type Options struct {
	// Color enables ANSI styling; without it swatches are shown as hex codes only
	Color bool
	// Filter simulates a vision condition on every drawn swatch; nil draws as is
	Filter filter.Filter
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (o Options) shown(c color.Lab) color.Lab {
	if o.Filter == nil {
		return c
	}
	return o.Filter.Transform(c)
}

// contrast picks black or white text for a background
func contrast(bg color.Lab) lipgloss.Color {
	if bg.L > 0.55 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#ffffff")
}

func swatch(c color.Lab, opts Options) string {
	label := c.Hex()
	if !opts.Color {
		return fmt.Sprintf("%-*s", swatchWidth, label)
	}
	bg := opts.shown(c).Clamped()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg.Hex())).
		Foreground(contrast(bg)).
		Width(swatchWidth).
		Align(lipgloss.Center).
		Render(label)
}

func row(label string, colors []color.Lab, opts Options) string {
	cells := make([]string, 0, len(colors)+1)
	if opts.Color {
		cells = append(cells, styleLabel.Render(label))
	} else {
		cells = append(cells, fmt.Sprintf("%-7s", label))
	}
	for _, c := range colors {
		cells = append(cells, swatch(c, opts))
	}
	return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " ")
}

// sampleGrid draws every free color as text on every background: fixed
// colors when present, else the free colors themselves
func sampleGrid(free, fixed []color.Lab, opts Options) string {
	backgrounds := fixed
	if len(backgrounds) == 0 {
		backgrounds = free
	}

	lines := make([]string, 0, len(backgrounds))
	for _, bg := range backgrounds {
		b := lipgloss.Color(opts.shown(bg).Clamped().Hex())
		cells := make([]string, 0, len(free))
		for _, fg := range free {
			cells = append(cells, lipgloss.NewStyle().
				Background(b).
				Foreground(lipgloss.Color(opts.shown(fg).Clamped().Hex())).
				Width(swatchWidth).
				Align(lipgloss.Center).
				Render("Aa#"+fg.Hex()[1:4]))
		}
		lines = append(lines, styleLabel.Render("")+lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Palette renders the fixed colors, the free colors sorted by hue then
// lightness, and in color mode a foreground-on-background sample grid
func Palette(s palette.ColorScheme, d *fitness.Description, opts Options) string {
	free := s.Sorted()
	parts := make([]string, 0, 3)

	if len(d.FixedColors) > 0 {
		parts = append(parts, row("fixed", d.FixedColors, opts))
	}
	parts = append(parts, row("free", free, opts))
	if opts.Color && len(free) > 0 {
		parts = append(parts, sampleGrid(free, d.FixedColors, opts))
	}
	if opts.Filter != nil {
		if _, none := opts.Filter.(filter.Identity); !none {
			note := "simulated: " + opts.Filter.Name()
			if opts.Color {
				note = styleDim.Render(note)
			}
			parts = append(parts, note)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", v)
}

// WriteFitnessTable writes one row per target with its measured value and
// contribution, then the total
func WriteFitnessTable(w io.Writer, s palette.ColorScheme, d *fitness.Description) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "target\tvalue\tscore\t\n")

	total := 0.0
	for _, c := range palette.NewProblem(d).Breakdown(s) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.Target, formatValue(c.Value), formatValue(c.Score))
		total += c.Score
	}
	fmt.Fprintf(tw, "total\t\t%s\t\n", formatValue(total))
	return tw.Flush()
}

// FitnessTable is WriteFitnessTable to a string; the header is bold in color mode
func FitnessTable(s palette.ColorScheme, d *fitness.Description, opts Options) string {
	var b strings.Builder
	_ = WriteFitnessTable(&b, s, d)

	out := strings.TrimRight(b.String(), "\n")
	if !opts.Color {
		return out
	}
	header, rest, _ := strings.Cut(out, "\n")
	return styleHeader.Render(header) + "\n" + rest
}

// Generation is a one-line progress summary
func Generation(g palette.Generation) string {
	return fmt.Sprintf("gen %5d  best %s  mean %s  sd %s  %s",
		g.Number, formatValue(g.Best.Score), formatValue(g.Mean), formatValue(g.StdDev),
		strings.Join(g.Best.Data.Hex(), " "))
}
