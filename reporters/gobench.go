package reporters

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/tools/benchmark/parse"

	"github.com/antoninbas/baseline/bench"
)

// GoBench writes one line per completed test in the format of
// `go test -bench`, so that runs can be fed to benchstat.
type GoBench struct {
	w io.Writer
}

var _ bench.Reporter = &GoBench{}

// NewGoBench returns a GoBench reporter writing to w.
func NewGoBench(w io.Writer) *GoBench {
	return &GoBench{w: w}
}

func (r *GoBench) Start(time.Time)                      {}
func (r *GoBench) End()                                 {}
func (r *GoBench) SuiteStart(*bench.Suite)              {}
func (r *GoBench) SuiteEnd(*bench.Suite)                {}
func (r *GoBench) TestStart(*bench.Test)                {}
func (r *GoBench) Pending(*bench.Test)                  {}
func (r *GoBench) Cycle(*bench.Test)                    {}
func (r *GoBench) Rank(*bench.Test, int, float64, bool) {}

func (r *GoBench) TestEnd(t *bench.Test, _ float64, _ bool) {
	fmt.Fprintln(r.w, Benchmark(t).String())
}

// Benchmark converts a measured test to a go benchmark result: N is the
// number of operations sampled and NsPerOp the sample mean.
func Benchmark(t *bench.Test) *parse.Benchmark {
	return &parse.Benchmark{
		Name:     benchmarkName(t.Path()),
		N:        t.Count * len(t.Sample),
		NsPerOp:  t.Mean * float64(time.Second),
		Measured: parse.NsPerOp,
	}
}

// benchmarkName joins path the way go test names sub-benchmarks.
func benchmarkName(path []string) string {
	parts := make([]string, len(path))
	for i, title := range path {
		parts[i] = strings.Join(strings.Fields(title), "_")
	}
	return "Benchmark" + strings.Join(parts, "/")
}
