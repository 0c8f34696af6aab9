package baseline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoninbas/baseline/reporters"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestApplyDefaults(t *testing.T) {
	flags := &Configuration{Threshold: floatPtr(3), Colors: boolPtr(false)}
	file := &Configuration{MaxTime: "5s", Threshold: floatPtr(7), Reporter: "minimal", Update: boolPtr(true)}

	c := flags.applyDefaults(file).applyDefaults(defaultConfiguration())
	assert.Equal(t, &Configuration{
		MaxTime:    "5s",
		Timeout:    "1m0s",
		Threshold:  floatPtr(3),
		Confidence: 95,
		Reporter:   "minimal",
		Update:     boolPtr(true),
		Colors:     boolPtr(false),
	}, c)
}

func TestLoadConfiguration(t *testing.T) {
	c, err := loadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, &Configuration{}, c)

	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxTime: 500ms\nthreshold: 15\nbaseline: out.json\nupdate: true\ncolors: false\n"), 0o644))
	c, err = loadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, &Configuration{
		MaxTime:   "500ms",
		Threshold: floatPtr(15),
		Baseline:  "out.json",
		Update:    boolPtr(true),
		Colors:    boolPtr(false),
	}, c)

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("threshold: 0\n"), 0o644))
	c, err = loadConfiguration(zero)
	require.NoError(t, err)
	require.NotNil(t, c.Threshold, "an explicit zero is kept")
	assert.Equal(t, 0.0, *c.Threshold)
	assert.Equal(t, 0.0, *c.applyDefaults(defaultConfiguration()).Threshold)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("maxtime: 1s\n"), 0o644))
	_, err = loadConfiguration(bad)
	assert.Error(t, err, "unknown keys are rejected")

	_, err = loadConfiguration(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		value     string
		unit      time.Duration
		expect    time.Duration
		expectErr bool
	}{
		{value: "2", unit: time.Second, expect: 2 * time.Second},
		{value: "0.5", unit: time.Second, expect: 500 * time.Millisecond},
		{value: "60000", unit: time.Millisecond, expect: time.Minute},
		{value: "1m30s", unit: time.Millisecond, expect: 90 * time.Second},
		{value: "soon", unit: time.Second, expectErr: true},
	}
	for _, tCase := range testCases {
		d, err := parseDuration(tCase.value, tCase.unit)
		if tCase.expectErr {
			assert.Error(t, err, tCase.value)
			continue
		}
		require.NoError(t, err, tCase.value)
		assert.Equal(t, tCase.expect, d, tCase.value)
	}
}

func TestConfigurationOptions(t *testing.T) {
	var buf bytes.Buffer
	c := defaultConfiguration()
	c.Baseline = "baseline.json"
	c.Reporter = "table"

	opts, err := c.options(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, opts.MaxTime)
	assert.Equal(t, time.Minute, opts.Timeout)
	assert.Equal(t, 10.0, *opts.Threshold)
	assert.Equal(t, 95.0, opts.Confidence)
	assert.Equal(t, "baseline.json", opts.BaselinePath)
	assert.False(t, opts.Update)
	assert.IsType(t, &reporters.Table{}, opts.Reporter)

	c.Reporter = "fancy"
	_, err = c.options(&buf)
	assert.ErrorIs(t, err, reporters.ErrUnknownReporter)

	c = defaultConfiguration()
	c.Confidence = 100
	_, err = c.options(&buf)
	assert.Error(t, err)

	c = defaultConfiguration()
	c.MaxTime = "forever"
	_, err = c.options(&buf)
	assert.ErrorContains(t, err, "maxTime")
}
