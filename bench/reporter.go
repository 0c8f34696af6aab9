package bench

import "time"

// Reporter receives lifecycle events from a Runner.
type Reporter interface {
	// Start is called before anything runs. baseline is the time the
	// baseline being compared against was recorded, or zero.
	Start(baseline time.Time)
	// End is called after a run completes without error.
	End()
	SuiteStart(s *Suite)
	SuiteEnd(s *Suite)
	TestStart(t *Test)
	// Pending is called instead of TestStart/TestEnd for skipped tests.
	Pending(t *Test)
	// Cycle is called after every sample point of an evaluation.
	Cycle(t *Test)
	// TestEnd is called after a test and its hooks ran. When changed is
	// true, percentChange is the significant change from baseline.
	TestEnd(t *Test, percentChange float64, changed bool)
	// Rank is called for each successful test of a comparison group:
	// rank 1 is fastest, -1 slowest, 0 in-between. percentSlower is the
	// distance from the fastest when known.
	Rank(t *Test, rank int, percentSlower float64, known bool)
}

// NopReporter ignores every event. Embed it to implement only some events.
type NopReporter struct{}

func (NopReporter) Start(time.Time)                {}
func (NopReporter) End()                           {}
func (NopReporter) SuiteStart(*Suite)              {}
func (NopReporter) SuiteEnd(*Suite)                {}
func (NopReporter) TestStart(*Test)                {}
func (NopReporter) Pending(*Test)                  {}
func (NopReporter) Cycle(*Test)                    {}
func (NopReporter) TestEnd(*Test, float64, bool)   {}
func (NopReporter) Rank(*Test, int, float64, bool) {}
