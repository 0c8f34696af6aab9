package reporters

import (
	"fmt"
	"io"
	"time"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/internal/format"
)

// Default prints every suite and test, indented by nesting, with live
// sampling progress and the change against baseline.
type Default struct {
	out    *output
	depth  int
	counts tally
}

var _ bench.Reporter = &Default{}

// NewDefault returns a Default reporter writing to w. A nil colors enables
// colors when w is a terminal.
func NewDefault(w io.Writer, colors *bool) *Default {
	return &Default{out: newOutput(w, colors)}
}

func (r *Default) Start(baseline time.Time) {
	if baseline.IsZero() {
		return
	}
	r.out.writeLine(fmt.Sprintf("Tests will be compared to baseline established on %s at %s.",
		baseline.Format("2006-01-02"), baseline.Format("15:04:05")))
	r.out.newLine()
}

func (r *Default) End() {
	r.out.newLine()
	r.out.writeLine(r.counts.summary(r.out))
}

func (r *Default) SuiteStart(s *bench.Suite) {
	if s.Title == "" {
		return
	}
	r.out.writeLine(format.Indent(r.depth) + s.Title)
	r.depth++
}

func (r *Default) SuiteEnd(s *bench.Suite) {
	if s.Title == "" {
		return
	}
	r.depth--
	r.out.newLine()
}

func (r *Default) TestStart(*bench.Test) {}

func (r *Default) Pending(t *bench.Test) {
	r.out.writeLine(r.out.paint(stylePending, format.Indent(r.depth)+t.Title))
	r.counts.pending++
}

func (r *Default) Cycle(t *bench.Test) {
	r.out.carriageReturn()
	r.out.write(format.Indent(r.depth) + format.Cycle(t.Title, t.Hz, t.Cycles))
}

func (r *Default) TestEnd(t *bench.Test, change float64, changed bool) {
	r.counts.tests++
	// Comparison groups are printed once ranked.
	if p := t.Parent(); p != nil && p.Comparison {
		return
	}
	r.writeName(t)
	if !changed {
		r.out.writeLine(format.Result(t.Hz, t.RME))
		return
	}
	r.out.writeLine(r.counts.changeLine(r.out, t.Hz, t.RME, change))
}

func (r *Default) Rank(t *bench.Test, rank int, percentSlower float64, known bool) {
	s, text := styleNone, ""
	switch {
	case rank == 1:
		s, text = styleFastest, "fastest"
	case rank == -1:
		s = styleSlowest
	}
	if rank != 1 && known && percentSlower != 0 {
		text = format.Number(percentSlower) + "% slower"
	}
	r.writeName(t)
	r.out.writeLine(r.out.paint(s, format.Result(t.Hz, t.RME)+" ("+text+")"))
}

func (r *Default) writeName(t *bench.Test) {
	r.out.carriageReturn()
	r.out.write(format.Indent(r.depth) + t.Title + ": ")
}
