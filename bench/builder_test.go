package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderNesting(t *testing.T) {
	b := NewBuilder(0)
	b.Test("top", func() {})
	outer := b.Suite("outer", func() {
		b.Before(func() {})
		b.Compare("group", func() {
			b.BeforeEach(func() {})
			b.Test("a", func() {})
			b.TestN("b", func(n int) {})
		})
		b.AfterEach(func() {})
		b.Test("c", func() {})
	})
	root, err := b.Build()
	require.NoError(t, err)

	require.Len(t, root.Tests, 1)
	require.Len(t, root.Suites, 1)
	assert.Same(t, outer, root.Suites[0])
	assert.Len(t, outer.Before, 1)
	assert.Len(t, outer.AfterEach, 1)
	assert.Len(t, outer.Tests, 1)
	assert.Equal(t, "c", outer.Tests[0].Title)

	group := outer.Suites[0]
	assert.True(t, group.Comparison)
	assert.Len(t, group.BeforeEach, 1)
	assert.Empty(t, group.Before)
	require.Len(t, group.Tests, 2)
	assert.Equal(t, "outer group b", group.Tests[1].FullTitle())
	assert.Equal(t, 4, root.TestCount())
}

func TestBuilderSkips(t *testing.T) {
	b := NewBuilder(0)
	skipped := b.SuiteSkip("skipped", func() {
		b.Test("inside", func() {})
	})
	group := b.CompareSkip("group", nil)
	test := b.TestSkip("test", func() {})
	root, err := b.Build()
	require.NoError(t, err)

	assert.True(t, skipped.Pending())
	assert.True(t, skipped.Tests[0].Parent().Pending())
	assert.True(t, group.Pending())
	assert.True(t, group.Comparison)
	assert.True(t, test.Pending())
	assert.Equal(t, 0, root.TestCount())
}

func TestBuilderAppliesTimeout(t *testing.T) {
	b := NewBuilder(3 * time.Second)
	test := b.Test("async", func(done Done) { done(nil) })
	b.Before(func(done Done) { done(nil) })
	root, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, test.Timeout())
	assert.Equal(t, 3*time.Second, root.Before[0].Timeout)

	defaults := NewBuilder(0).Test("default", func() {})
	assert.Equal(t, DefaultTimeout, defaults.Timeout())
}

func TestBuilderCollectsErrors(t *testing.T) {
	b := NewBuilder(0)
	assert.Nil(t, b.Test("bad test", 1))
	assert.Nil(t, b.TestN("bad loop", func() {}))
	b.Suite("suite", func() {
		b.After("not a function")
	})
	root, err := b.Build()
	assert.Nil(t, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAction)
	assert.Contains(t, err.Error(), `test "bad test"`)
	assert.Contains(t, err.Error(), `test "bad loop"`)
	assert.Contains(t, err.Error(), `hook in suite "suite"`)
}
