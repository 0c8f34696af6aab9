package reporters

import (
	"io"
	"time"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/internal/format"
)

// Minimal only prints the tests whose throughput changed against baseline,
// preceded by the titles of their enclosing suites.
type Minimal struct {
	out    *output
	open   []*openSuite
	counts tally
}

type openSuite struct {
	suite   *bench.Suite
	printed bool
}

var _ bench.Reporter = &Minimal{}

// NewMinimal returns a Minimal reporter writing to w.
func NewMinimal(w io.Writer, colors *bool) *Minimal {
	return &Minimal{out: newOutput(w, colors)}
}

func (r *Minimal) Start(time.Time) {
	r.out.newLine()
}

func (r *Minimal) End() {
	r.out.carriageReturn()
	if r.counts.faster > 0 || r.counts.slower > 0 {
		r.out.writeLine("         ")
	}
	r.out.writeLine(r.counts.summary(r.out))
	r.out.newLine()
}

func (r *Minimal) SuiteStart(s *bench.Suite) {
	if s.Title != "" {
		r.open = append(r.open, &openSuite{suite: s})
	}
}

func (r *Minimal) SuiteEnd(s *bench.Suite) {
	if s.Title != "" && len(r.open) > 0 {
		r.open = r.open[:len(r.open)-1]
	}
}

func (r *Minimal) TestStart(*bench.Test) {}

func (r *Minimal) Pending(*bench.Test) {
	r.counts.pending++
}

func (r *Minimal) Cycle(t *bench.Test) {
	r.out.carriageReturn()
	r.out.write(format.Cycle(t.Title, t.Hz, t.Cycles))
}

func (r *Minimal) TestEnd(t *bench.Test, change float64, changed bool) {
	r.counts.tests++
	if p := t.Parent(); !changed || (p != nil && p.Comparison) {
		return
	}
	r.out.carriageReturn()
	for i, s := range r.open {
		if s.printed {
			continue
		}
		r.out.writeLine(format.Indent(i) + s.suite.Title)
		s.printed = true
	}
	r.out.write(format.Indent(len(r.open)) + t.Title + ": ")
	r.out.writeLine(r.counts.changeLine(r.out, t.Hz, t.RME, change))
}

func (r *Minimal) Rank(*bench.Test, int, float64, bool) {}
