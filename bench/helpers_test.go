package bench

import (
	"fmt"
	"sync"
	"time"

	"github.com/antoninbas/baseline/timer"
)

// fixedClock reports the same elapsed time for every measurement.
type fixedClock struct {
	elapsed float64
}

func (c *fixedClock) Start() timer.Mark       { return 0 }
func (c *fixedClock) Stop(timer.Mark) float64 { return c.elapsed }

// opClock advances by perOp seconds for every operation counted in ops,
// plus one tick per measurement so that empty round trips stay positive.
type opClock struct {
	mu    sync.Mutex
	ops   int
	perOp float64
}

const opClockTick = 1e-7

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
	return float64(c.ops-int(start))*c.perOp + opClockTick
}

// newFixedEvaluator returns an evaluator whose minimum cycle time is the
// 50ms floor and whose cycles all last elapsed seconds.
func newFixedEvaluator(elapsed float64, reporter Reporter) (*Evaluator, *fixedClock) {
	clock := &fixedClock{elapsed: 1e-6}
	e := NewEvaluator(timer.New(clock), reporter)
	clock.elapsed = elapsed
	e.MaxTime = 0
	return e, clock
}

// recorder logs reporter events in order.
type recorder struct {
	mu     sync.Mutex
	events []string
	ranks  map[string]rankEvent
	ends   map[string]endEvent
	start  time.Time
}

type rankEvent struct {
	rank          int
	percentSlower float64
	known         bool
}

type endEvent struct {
	change  float64
	changed bool
}

func newRecorder() *recorder {
	return &recorder{ranks: map[string]rankEvent{}, ends: map[string]endEvent{}}
}

func (r *recorder) log(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Start(baseline time.Time) {
	r.start = baseline
	r.log("start")
}

func (r *recorder) End()                { r.log("end") }
func (r *recorder) SuiteStart(s *Suite) { r.log("suiteStart:%s", s.Title) }
func (r *recorder) SuiteEnd(s *Suite)   { r.log("suiteEnd:%s", s.Title) }
func (r *recorder) TestStart(t *Test)   { r.log("testStart:%s", t.Title) }
func (r *recorder) Pending(t *Test)     { r.log("pending:%s", t.Title) }
func (r *recorder) Cycle(t *Test)       {}

func (r *recorder) TestEnd(t *Test, change float64, changed bool) {
	r.ends[t.Title] = endEvent{change: change, changed: changed}
	r.log("testEnd:%s", t.Title)
}

func (r *recorder) Rank(t *Test, rank int, percentSlower float64, known bool) {
	r.ranks[t.Title] = rankEvent{rank: rank, percentSlower: percentSlower, known: known}
	r.log("rank:%s", t.Title)
}

// fakeBaseline returns a fixed comparison for every test.
type fakeBaseline struct {
	recorded time.Time
	changes  map[string]float64
}

func (b *fakeBaseline) Timestamp() time.Time { return b.recorded }

func (b *fakeBaseline) Compare(t *Test, confidence float64) (float64, bool, error) {
	change, ok := b.changes[t.Title]
	return change, ok, nil
}
