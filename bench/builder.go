package bench

import (
	"errors"
	"time"
)

// Builder declares a suite tree. Suite blocks nest: tests and hooks
// declared while a block runs belong to the innermost open suite.
//
//	b := bench.NewBuilder(0)
//	b.Compare("search", func() {
//		b.Test("strings.Index", func() { strings.Index(s, "world") })
//		b.Test("regexp", func() { re.MatchString(s) })
//	})
//	root, err := b.Build()
type Builder struct {
	timeout time.Duration
	root    *Suite
	open    []*Suite
	errs    []error
}

// NewBuilder returns a Builder whose tests and hooks use timeout for
// asynchronous actions. Zero means DefaultTimeout.
func NewBuilder(timeout time.Duration) *Builder {
	root := NewSuite("")
	return &Builder{
		timeout: timeout,
		root:    root,
		open:    []*Suite{root},
	}
}

// Build returns the root suite, or the declaration errors encountered.
func (b *Builder) Build() (*Suite, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return b.root, nil
}

func (b *Builder) current() *Suite {
	return b.open[len(b.open)-1]
}

// Suite declares a nested suite and runs block to populate it.
func (b *Builder) Suite(title string, block func()) *Suite {
	s := NewSuite(title)
	b.current().AddSuite(s)
	b.open = append(b.open, s)
	defer func() { b.open = b.open[:len(b.open)-1] }()
	if block != nil {
		block()
	}
	return s
}

// SuiteSkip declares a pending suite. Nothing under it runs.
func (b *Builder) SuiteSkip(title string, block func()) *Suite {
	s := b.Suite(title, block)
	s.SetPending(true)
	return s
}

// Compare declares a comparison group whose tests are ranked against each
// other.
func (b *Builder) Compare(title string, block func()) *Suite {
	s := b.Suite(title, block)
	s.Comparison = true
	return s
}

// CompareSkip declares a pending comparison group.
func (b *Builder) CompareSkip(title string, block func()) *Suite {
	s := b.SuiteSkip(title, block)
	s.Comparison = true
	return s
}

// Test declares a test repeating fn. A nil fn declares a placeholder.
func (b *Builder) Test(title string, fn any) *Test {
	return b.addTest(NewTest(title, fn))
}

// TestSkip declares a pending test.
func (b *Builder) TestSkip(title string, fn any) *Test {
	t := b.Test(title, fn)
	if t != nil {
		t.SetPending(true)
	}
	return t
}

// TestN declares a test whose action runs its own loop of n operations.
func (b *Builder) TestN(title string, fn any) *Test {
	return b.addTest(NewLoopTest(title, fn))
}

func (b *Builder) addTest(t *Test, err error) *Test {
	if err != nil {
		b.errs = append(b.errs, err)
		return nil
	}
	t.SetTimeout(b.timeout)
	b.current().AddTest(t)
	return t
}

// Before registers a hook run once before the innermost suite's tests.
func (b *Builder) Before(fn any) {
	b.hook(b.current().AddBefore(fn, b.timeout))
}

// After registers a hook run once when the innermost suite completes.
func (b *Builder) After(fn any) {
	b.hook(b.current().AddAfter(fn, b.timeout))
}

// BeforeEach registers a hook run before every test of the innermost suite.
func (b *Builder) BeforeEach(fn any) {
	b.hook(b.current().AddBeforeEach(fn, b.timeout))
}

// AfterEach registers a hook run after every test of the innermost suite.
func (b *Builder) AfterEach(fn any) {
	b.hook(b.current().AddAfterEach(fn, b.timeout))
}

func (b *Builder) hook(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}
