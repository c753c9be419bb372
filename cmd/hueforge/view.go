package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/command"
	"github.com/lixenwraith/hueforge/filter"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/preview"
	"github.com/lixenwraith/hueforge/runner"
)

const (
	swatchWidth = 9
	labelWidth  = 7
	maxHistory  = 32
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true).Foreground(tcell.NewRGBColor(122, 162, 247))
	styleDim     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 120, 140))
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleOK      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// submitter is the part of the runner the view drives
type submitter interface {
	Submit(a command.Action) error
}

// view is the interactive screen state. It is only touched by the UI loop.
type view struct {
	screen tcell.Screen
	runs   int

	descr    *fitness.Description
	latest   *runner.Progress
	finished []runner.Result
	complete bool

	filterIdx int
	filter    filter.Filter

	input    []rune
	history  []string
	histPos  int
	message  string
	msgStyle tcell.Style
}

func newView(screen tcell.Screen, d *fitness.Description, f filter.Filter, runs int) *view {
	v := &view{
		screen: screen,
		runs:   runs,
		descr:  d,
		filter: f,
	}
	for i, name := range filter.Names {
		if name == f.Name() {
			v.filterIdx = i
		}
	}
	return v
}

func (v *view) progress(p runner.Progress) {
	v.latest = &p
	v.descr = p.Description
}

func (v *view) runFinished(r runner.Result) {
	v.finished = append(v.finished, r)
	v.setMessage(fmt.Sprintf("run %d finished: %s", r.Run, formatScore(r.Best.Score)), styleOK)
}

func (v *view) runsDone(err error) {
	v.complete = true
	if err != nil {
		v.setMessage("stopped: "+err.Error(), styleError)
		return
	}
	v.setMessage("all runs finished, esc to quit", styleOK)
}

func (v *view) setMessage(msg string, style tcell.Style) {
	v.message = msg
	v.msgStyle = style
}

// handleKey applies one key press; it reports whether the user asked to quit
func (v *view) handleKey(ev *tcell.EventKey, r submitter) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		return v.submit(r)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.input) > 0 {
			v.input = v.input[:len(v.input)-1]
		}
	case tcell.KeyCtrlU:
		v.input = v.input[:0]
	case tcell.KeyCtrlF:
		v.cycleFilter()
	case tcell.KeyUp:
		if v.histPos > 0 {
			v.histPos--
			v.input = []rune(v.history[v.histPos])
		}
	case tcell.KeyDown:
		if v.histPos < len(v.history)-1 {
			v.histPos++
			v.input = []rune(v.history[v.histPos])
		} else {
			v.histPos = len(v.history)
			v.input = v.input[:0]
		}
	case tcell.KeyRune:
		v.input = append(v.input, ev.Rune())
	}
	return false
}

func (v *view) submit(r submitter) bool {
	line := strings.TrimSpace(string(v.input))
	if line == "" {
		return false
	}
	if line == "quit" || line == "exit" {
		return true
	}

	v.remember(line)
	v.input = v.input[:0]

	if v.complete {
		v.setMessage("no run in progress", styleError)
		return false
	}

	a, err := command.Parse(line)
	if err != nil {
		v.setMessage(err.Error(), styleError)
		return false
	}
	if err := r.Submit(a); err != nil {
		v.setMessage(err.Error(), styleError)
		return false
	}
	v.setMessage("queued: "+a.String(), styleDim)
	return false
}

func (v *view) remember(line string) {
	if n := len(v.history); n == 0 || v.history[n-1] != line {
		v.history = append(v.history, line)
		if len(v.history) > maxHistory {
			v.history = v.history[1:]
		}
	}
	v.histPos = len(v.history)
}

func (v *view) cycleFilter() {
	v.filterIdx = (v.filterIdx + 1) % len(filter.Names)
	f, err := filter.ByName(filter.Names[v.filterIdx])
	if err != nil {
		v.setMessage(err.Error(), styleError)
		return
	}
	v.filter = f
	v.setMessage("filter: "+f.Name(), styleDim)
}

func (v *view) draw() {
	s := v.screen
	s.Clear()
	w, h := s.Size()

	y := 0
	header := fmt.Sprintf("hueforge  %d free, %d fixed, %d targets  filter %s",
		v.descr.FreeColorCount, len(v.descr.FixedColors), len(v.descr.Targets), v.filter.Name())
	drawText(s, 0, y, w, styleTitle, header)
	y += 2

	if v.latest == nil {
		drawText(s, 0, y, w, styleDim, "waiting for the first generation...")
	} else {
		y = v.drawProgress(y, w)
	}

	y = v.drawFinished(y+1, w)

	drawText(s, 0, h-3, w, styleDim, "enter: submit  up/down: history  ^F: filter  esc: quit")
	drawText(s, 0, h-2, w, v.msgStyle, v.message)

	prompt := "> " + string(v.input)
	drawText(s, 0, h-1, w, styleDefault, prompt)
	s.ShowCursor(min(len([]rune(prompt)), w-1), h-1)
	s.Show()
}

func (v *view) drawProgress(y, w int) int {
	p := v.latest
	g := p.Generation
	run := fmt.Sprintf("run %d/%d  ", p.Run+1, v.runs)
	drawText(v.screen, 0, y, w, styleDefault, run+preview.Generation(g))
	y++
	drawText(v.screen, 0, y, w, styleDim, fmt.Sprintf("heat %.3f", p.Heat))
	y += 2

	if len(p.Description.FixedColors) > 0 {
		v.drawSwatches(y, w, "fixed", p.Description.FixedColors)
		y++
	}
	v.drawSwatches(y, w, "free", g.Best.Data.Sorted())
	y += 2

	var buf bytes.Buffer
	_ = preview.WriteFitnessTable(&buf, g.Best.Data, p.Description)
	for i, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		style := styleDefault
		if i == 0 {
			style = style.Bold(true)
		}
		drawText(v.screen, 0, y, w, style, line)
		y++
	}
	return y
}

func (v *view) drawFinished(y, w int) int {
	for _, r := range v.finished {
		drawText(v.screen, 0, y, w, styleDim,
			fmt.Sprintf("run %d  %s  %s", r.Run+1, formatScore(r.Best.Score), strings.Join(r.Best.Data.Hex(), " ")))
		y++
	}
	return y
}

func (v *view) drawSwatches(y, w int, label string, colors []color.Lab) {
	x := drawText(v.screen, 0, y, w, styleDim, fmt.Sprintf("%-*s", labelWidth, label))
	for _, c := range colors {
		if x+swatchWidth > w {
			return
		}
		shown := v.filter.Transform(c).Clamped()
		r, g, b := shown.RGB255()
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		if shown.L > 0.55 {
			style = style.Foreground(tcell.ColorBlack)
		} else {
			style = style.Foreground(tcell.ColorWhite)
		}
		x = drawText(v.screen, x, y, w, style, fmt.Sprintf(" %-*s", swatchWidth-1, c.Hex()))
	}
}

// drawText writes s from x, clipped at width, and returns the next column
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	for _, r := range text {
		if x >= width {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
