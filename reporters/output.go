package reporters

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/antoninbas/baseline/internal/format"
)

type style int

const (
	styleNone style = iota
	stylePending
	styleFaster
	styleSlower
	styleFastest
	styleSlowest
)

var styleAttributes = map[style]color.Attribute{
	stylePending: color.FgCyan,
	styleFaster:  color.FgGreen,
	styleSlower:  color.FgRed,
	styleFastest: color.FgGreen,
	styleSlowest: color.FgRed,
}

// output is the terminal plumbing shared by the line-oriented reporters.
type output struct {
	w      io.Writer
	tty    bool
	colors bool
}

func newOutput(w io.Writer, colors *bool) *output {
	o := &output{w: w, tty: isTerminal(w)}
	if colors != nil {
		o.colors = *colors
	} else {
		o.colors = o.tty
	}
	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (o *output) paint(s style, text string) string {
	attr, ok := styleAttributes[s]
	if !ok || !o.colors {
		return text
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(text)
}

func (o *output) write(text string) {
	fmt.Fprint(o.w, text)
}

func (o *output) writeLine(text string) {
	fmt.Fprintln(o.w, text)
}

func (o *output) newLine() {
	fmt.Fprintln(o.w)
}

// carriageReturn moves back to the start of the line so that progress can
// be overwritten. Terminals also get the line cleared.
func (o *output) carriageReturn() {
	if o.tty {
		o.write("\x1b[2K\x1b[0G")
		return
	}
	o.write("\r")
}

// tally counts test outcomes for the closing summary.
type tally struct {
	tests   int
	pending int
	faster  int
	slower  int
}

func (t *tally) summary(o *output) string {
	msg := fmt.Sprintf("Completed %d tests", t.tests)
	if t.pending > 0 {
		msg += ", " + o.paint(stylePending, fmt.Sprintf("%d pending", t.pending))
	}
	if t.faster > 0 {
		msg += ", " + o.paint(styleFaster, fmt.Sprintf("%d faster", t.faster))
	}
	if t.slower > 0 {
		msg += ", " + o.paint(styleSlower, fmt.Sprintf("%d slower", t.slower))
	}
	return msg + "."
}

// changeLine renders a test that changed against baseline and counts it.
func (t *tally) changeLine(o *output, hz, rme, change float64) string {
	text := format.Result(hz, rme) + " (" + format.Change(change) + ")"
	if change > 0 {
		t.faster++
		return o.paint(styleFaster, text)
	}
	t.slower++
	return o.paint(styleSlower, text)
}
