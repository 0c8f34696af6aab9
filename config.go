package baseline

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/reporters"
)

// DefaultThreshold is the smallest percent change from baseline reported
// by the command line.
const DefaultThreshold = 10

func defaultConfiguration() *Configuration {
	update := false
	threshold := float64(DefaultThreshold)
	return &Configuration{
		MaxTime:    bench.DefaultMaxTime.String(),
		Timeout:    bench.DefaultTimeout.String(),
		Threshold:  &threshold,
		Confidence: bench.DefaultConfidence,
		Reporter:   "default",
		Update:     &update,
	}
}

func loadConfiguration(path string) (*Configuration, error) {
	c := &Configuration{}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("unable to parse configuration %q: %w", path, err)
	}
	return c, nil
}

func (c *Configuration) applyDefaults(d *Configuration) *Configuration {
	if c.MaxTime == "" {
		c.MaxTime = d.MaxTime
	}
	if c.Timeout == "" {
		c.Timeout = d.Timeout
	}
	if c.Threshold == nil {
		c.Threshold = d.Threshold
	}
	if c.Confidence == 0 {
		c.Confidence = d.Confidence
	}
	if c.Reporter == "" {
		c.Reporter = d.Reporter
	}
	if c.Baseline == "" {
		c.Baseline = d.Baseline
	}
	if c.Update == nil {
		c.Update = d.Update
	}
	if c.Colors == nil {
		c.Colors = d.Colors
	}
	return c
}

// options turns a fully defaulted configuration into program options
// reporting to w.
func (c *Configuration) options(w io.Writer) (Options, error) {
	maxTime, err := parseDuration(c.MaxTime, time.Second)
	if err != nil {
		return Options{}, fmt.Errorf("invalid maxTime: %w", err)
	}
	timeout, err := parseDuration(c.Timeout, time.Millisecond)
	if err != nil {
		return Options{}, fmt.Errorf("invalid timeout: %w", err)
	}
	if c.Confidence <= 0 || c.Confidence >= 100 {
		return Options{}, fmt.Errorf("confidence must be between 0 and 100, got %v", c.Confidence)
	}
	reporter, err := reporters.New(c.Reporter, w, c.Colors)
	if err != nil {
		return Options{}, err
	}
	return Options{
		MaxTime:      maxTime,
		Timeout:      timeout,
		Threshold:    c.Threshold,
		Confidence:   c.Confidence,
		BaselinePath: c.Baseline,
		Update:       c.Update != nil && *c.Update,
		Reporter:     reporter,
	}, nil
}

// parseDuration accepts a duration string, or a bare number counted in
// unit.
func parseDuration(s string, unit time.Duration) (time.Duration, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(unit)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}
