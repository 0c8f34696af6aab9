// Package timer provides the clock abstraction measurements are taken with.
package timer

import (
	"math"
	"sync"
	"time"

	"github.com/antoninbas/baseline/stats"
)

// resolutionRounds is the maximum number of empty start/stop round trips
// averaged to estimate a clock's resolution.
const resolutionRounds = 30

// Mark is an opaque value returned by Clock.Start and handed back to
// Clock.Stop.
type Mark int64

// Clock is a monotonic time source.
type Clock interface {
	// Start begins a measurement.
	Start() Mark
	// Stop ends the measurement begun at start and returns the elapsed
	// time in seconds.
	Stop(start Mark) float64
}

// Timer wraps a Clock and memoizes its measured resolution.
type Timer struct {
	Clock

	once       sync.Once
	resolution float64
}

// New returns a Timer for c.
func New(c Clock) *Timer {
	return &Timer{Clock: c}
}

// NewMonotonic returns a Timer backed by the process monotonic clock.
func NewMonotonic() *Timer {
	return New(Monotonic{})
}

// Resolution returns the smallest duration, in seconds, the clock can
// measure: the mean of up to 30 empty round trips. A round trip that reads
// as zero or negative makes the resolution infinite. The value is computed
// on first use and cached.
func (t *Timer) Resolution() float64 {
	t.once.Do(func() {
		sample := make([]float64, 0, resolutionRounds)
		for k := 0; k < resolutionRounds; k++ {
			measured := t.Stop(t.Start())
			if measured <= 0 {
				sample = append(sample, math.Inf(1))
				break
			}
			sample = append(sample, measured)
		}
		t.resolution = stats.Mean(sample)
	})
	return t.resolution
}

var epoch = time.Now()

// Monotonic is a Clock reading the runtime's monotonic clock with
// nanosecond precision.
type Monotonic struct{}

// Start implements Clock.
func (Monotonic) Start() Mark {
	return Mark(time.Since(epoch))
}

// Stop implements Clock.
func (Monotonic) Stop(start Mark) float64 {
	return (time.Since(epoch) - time.Duration(start)).Seconds()
}
