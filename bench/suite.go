package bench

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Suite is a named collection of tests, nested suites and lifecycle hooks.
// The root suite of a tree has an empty title.
type Suite struct {
	Title string
	// Comparison marks the suite as a group whose tests are ranked against
	// each other rather than against a baseline.
	Comparison bool

	Tests  []*Test
	Suites []*Suite

	Before     []*Runnable
	After      []*Runnable
	BeforeEach []*Runnable
	AfterEach  []*Runnable

	parent  *Suite
	pending bool
}

// NewSuite returns an empty suite.
func NewSuite(title string) *Suite {
	return &Suite{Title: title}
}

// Parent returns the enclosing suite, or nil for a root suite.
func (s *Suite) Parent() *Suite { return s.parent }

// Pending reports whether the suite or any of its ancestors is marked
// pending. It is looked up on every call.
func (s *Suite) Pending() bool {
	for p := s; p != nil; p = p.parent {
		if p.pending {
			return true
		}
	}
	return false
}

// SetPending marks the suite, and therefore everything below it, as pending.
func (s *Suite) SetPending(pending bool) { s.pending = pending }

// Depth is the number of named ancestors, counting the suite itself.
func (s *Suite) Depth() int {
	depth := 0
	for p := s; p != nil && p.parent != nil; p = p.parent {
		depth++
	}
	return depth
}

// AddSuite appends child. A suite can only be added once.
func (s *Suite) AddSuite(child *Suite) {
	if child.parent != nil {
		panic(fmt.Sprintf("suite %q already belongs to suite %q", child.Title, child.parent.Title))
	}
	child.parent = s
	s.Suites = append(s.Suites, child)
}

// AddTest appends t. A test can only be added once.
func (s *Suite) AddTest(t *Test) {
	if t.parent != nil {
		panic(fmt.Sprintf("test %q already belongs to suite %q", t.Title, t.parent.Title))
	}
	t.parent = s
	s.Tests = append(s.Tests, t)
}

// AddBefore registers a hook run once before the suite's tests.
func (s *Suite) AddBefore(fn any, timeout time.Duration) error {
	return s.addHook(&s.Before, fn, timeout)
}

// AddAfter registers a hook run once after the suite's tests and nested
// suites.
func (s *Suite) AddAfter(fn any, timeout time.Duration) error {
	return s.addHook(&s.After, fn, timeout)
}

// AddBeforeEach registers a hook run before each of the suite's tests.
func (s *Suite) AddBeforeEach(fn any, timeout time.Duration) error {
	return s.addHook(&s.BeforeEach, fn, timeout)
}

// AddAfterEach registers a hook run after each of the suite's tests.
func (s *Suite) AddAfterEach(fn any, timeout time.Duration) error {
	return s.addHook(&s.AfterEach, fn, timeout)
}

func (s *Suite) addHook(hooks *[]*Runnable, fn any, timeout time.Duration) error {
	r, err := NewRunnable(fn)
	if err != nil {
		return fmt.Errorf("hook in suite %q: %w", s.Title, err)
	}
	r.Timeout = timeout
	*hooks = append(*hooks, r)
	return nil
}

// TestCount is the number of tests that will be executed in the subtree.
func (s *Suite) TestCount() int {
	if s.Pending() {
		return 0
	}
	count := 0
	for _, t := range s.Tests {
		if !t.Pending() {
			count++
		}
	}
	for _, child := range s.Suites {
		count += child.TestCount()
	}
	return count
}

// Successful returns the direct tests that completed at least one cycle
// with a finite throughput.
func (s *Suite) Successful() []*Test {
	var tests []*Test
	for _, t := range s.Tests {
		if t.Cycles > 0 && !math.IsInf(t.Hz, 0) && !math.IsNaN(t.Hz) {
			tests = append(tests, t)
		}
	}
	return tests
}

// Fastest returns the successful tests statistically tied with the one
// having the lowest mean plus margin of error.
func (s *Suite) Fastest() []*Test {
	return s.extreme(true)
}

// Slowest returns the successful tests statistically tied with the one
// having the highest mean plus margin of error.
func (s *Suite) Slowest() []*Test {
	return s.extreme(false)
}

func (s *Suite) extreme(fastest bool) []*Test {
	sorted := s.Successful()
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Mean+sorted[i].MOE, sorted[j].Mean+sorted[j].MOE
		if fastest {
			return a < b
		}
		return a > b
	})
	var tied []*Test
	for _, t := range sorted {
		if sorted[0].Compare(t) == 0 {
			tied = append(tied, t)
		}
	}
	return tied
}
