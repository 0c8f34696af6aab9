package baseline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/reporters"
	"github.com/antoninbas/baseline/results"
	"github.com/antoninbas/baseline/timer"
)

// opClock advances by one millisecond per operation counted with add, plus
// a tick per measurement.
type opClock struct {
	mu  sync.Mutex
	ops int
}

func (c *opClock) add(n int) {
	c.mu.Lock()
	c.ops += n
	c.mu.Unlock()
}

func (c *opClock) Start() timer.Mark {
	c.mu.Lock()
	defer c.mu.Unlock()
	return timer.Mark(c.ops)
}

func (c *opClock) Stop(start timer.Mark) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.ops-int(start))*0.001 + 1e-7
}

type programFixture struct {
	clock     *opClock
	cost      int
	calls     int
	out       bytes.Buffer
	path      string
	threshold *float64
}

func newProgramFixture(t *testing.T) *programFixture {
	return &programFixture{
		clock: &opClock{},
		cost:  1,
		path:  filepath.Join(t.TempDir(), "baseline.json"),
	}
}

func (f *programFixture) run(update bool) (int, error) {
	f.out.Reset()
	opts := Options{
		MaxTime:      time.Nanosecond,
		BaselinePath: f.path,
		Update:       update,
		Threshold:    f.threshold,
		Commit:       "cafebabe",
		Reporter:     reporters.NewMinimal(&f.out, new(bool)),
		Timer:        timer.New(f.clock),
	}
	return NewProgram(opts, f.define).Run(context.Background())
}

func (f *programFixture) define(b *bench.Builder) {
	b.Suite("math", func() {
		b.Test("work", func() {
			f.calls++
			f.clock.add(f.cost)
		})
		b.TestSkip("later", nil)
	})
}

func TestProgramRecordsThenCompares(t *testing.T) {
	f := newProgramFixture(t)

	slower, err := f.run(false)
	require.NoError(t, err)
	assert.Equal(t, 0, slower)

	recorded, err := results.Load(f.path)
	require.NoError(t, err)
	require.NotNil(t, recorded)
	doc := recorded.Document()
	assert.Equal(t, "cafebabe", doc.Commit)
	assert.Equal(t, results.FormatVersion, doc.Version)
	require.Contains(t, doc.Suites, "math")
	work := doc.Suites["math"].Tests["work"]
	assert.Equal(t, []float64{1000, 1000, 1000, 1000, 1000}, work.Sample())
	assert.NotContains(t, doc.Suites["math"].Tests, "later")

	before, err := os.ReadFile(f.path)
	require.NoError(t, err)

	f.cost = 3
	slower, err = f.run(false)
	require.NoError(t, err)
	assert.Equal(t, 1, slower)
	assert.Contains(t, f.out.String(), "math\n")
	assert.Contains(t, f.out.String(), "work: 333 ops/sec")
	assert.Contains(t, f.out.String(), "(67% slower than baseline)")
	assert.Contains(t, f.out.String(), "Completed 1 tests, 1 pending, 1 slower.")

	after, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "an existing baseline is kept")

	slower, err = f.run(true)
	require.NoError(t, err)
	assert.Equal(t, 1, slower)
	updated, err := results.Load(f.path)
	require.NoError(t, err)
	assert.Equal(t, []float64{333, 333, 333, 333, 333}, updated.Document().Suites["math"].Tests["work"].Sample())

	f.cost = 3
	slower, err = f.run(false)
	require.NoError(t, err)
	assert.Equal(t, 0, slower)
}

func TestProgramZeroThreshold(t *testing.T) {
	f := newProgramFixture(t)
	doc := `{"timestamp": 1, "version": "1.0.0", "suites": {"math": {"tests": {"work": [1040, 1040, 1040, 1040, 1040]}}}}`
	require.NoError(t, os.WriteFile(f.path, []byte(doc), 0o644))

	slower, err := f.run(false)
	require.NoError(t, err)
	assert.Equal(t, 0, slower, "a 4% drop is below the default threshold")

	zero := 0.0
	f.threshold = &zero
	slower, err = f.run(false)
	require.NoError(t, err)
	assert.Equal(t, 1, slower)
	assert.Contains(t, f.out.String(), "(4% slower than baseline)")
}

func TestProgramWithoutBaselinePath(t *testing.T) {
	f := newProgramFixture(t)
	f.path = ""

	slower, err := f.run(true)
	require.NoError(t, err)
	assert.Equal(t, 0, slower)
	assert.Positive(t, f.calls)
}

func TestProgramInvalidBaseline(t *testing.T) {
	f := newProgramFixture(t)
	require.NoError(t, os.WriteFile(f.path, []byte(`{"tests": []}`), 0o644))

	_, err := f.run(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), f.path)
	assert.Zero(t, f.calls, "nothing runs when the baseline cannot be loaded")
}

func TestProgramInvalidDeclarations(t *testing.T) {
	p := NewProgram(Options{Reporter: bench.NopReporter{}}, func(b *bench.Builder) {
		b.Test("bad", "not a function")
	})
	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, bench.ErrUnsupportedAction)
}

func TestNewProgramDefaults(t *testing.T) {
	p := NewProgram(Options{}, nil)
	assert.Equal(t, bench.DefaultMaxTime, p.opts.MaxTime)
	assert.Equal(t, float64(DefaultThreshold), *p.opts.Threshold)
	assert.Equal(t, float64(bench.DefaultConfidence), p.opts.Confidence)
	assert.IsType(t, &reporters.Default{}, p.opts.Reporter)
	assert.NotNil(t, p.opts.Timer)
}
