// Package results persists measured samples as a baseline document and
// compares fresh measurements against it.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"k8s.io/klog/v2"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/stats"
)

// SuiteResults mirrors a suite by title: its direct tests and its nested
// suites.
type SuiteResults struct {
	Tests  map[string]Entry         `json:"tests,omitempty"`
	Suites map[string]*SuiteResults `json:"suites,omitempty"`
}

// Document is the JSON form of a baseline file.
type Document struct {
	// Timestamp is when the document was recorded, in milliseconds since
	// the Unix epoch.
	Timestamp int64 `json:"timestamp"`
	// Version is the format version. Empty in legacy documents.
	Version string `json:"version,omitempty"`
	// Commit is the source revision the measurements were taken at.
	Commit string `json:"commit,omitempty"`

	SuiteResults
}

// lookup returns the entry stored under path, the titles from the
// outermost named suite down to a test.
func (s *SuiteResults) lookup(path []string) (Entry, bool) {
	if len(path) == 0 {
		return Entry{}, false
	}
	current := s
	for _, title := range path[:len(path)-1] {
		current = current.Suites[title]
		if current == nil {
			return Entry{}, false
		}
	}
	e, ok := current.Tests[path[len(path)-1]]
	return e, ok
}

// Results is a loaded or freshly recorded baseline. It implements
// bench.Baseline.
type Results struct {
	doc    *Document
	random *stats.Random
}

var _ bench.Baseline = &Results{}

// New wraps doc.
func New(doc *Document) *Results {
	return &Results{doc: doc}
}

// FromSuite records the samples of every executed test under suite.
// Pending suites and comparison groups are left out.
func FromSuite(suite *bench.Suite, recorded time.Time) *Results {
	doc := &Document{
		Timestamp:    recorded.UnixMilli(),
		Version:      FormatVersion,
		SuiteResults: *suiteResults(suite),
	}
	return New(doc)
}

func suiteResults(suite *bench.Suite) *SuiteResults {
	results := &SuiteResults{}
	if len(suite.Tests) > 0 {
		results.Tests = map[string]Entry{}
		for _, t := range suite.Tests {
			if t.Pending() || len(t.Sample) == 0 {
				continue
			}
			hz := make([]float64, 0, len(t.Sample))
			for _, period := range t.Sample {
				// JSON cannot carry infinities.
				if v := Round(1 / period); !math.IsInf(v, 0) && !math.IsNaN(v) {
					hz = append(hz, v)
				}
			}
			results.Tests[t.Title] = SampleEntry(hz)
		}
	}
	if len(suite.Suites) > 0 {
		results.Suites = map[string]*SuiteResults{}
		for _, child := range suite.Suites {
			if child.Pending() || child.Comparison {
				continue
			}
			results.Suites[child.Title] = suiteResults(child)
		}
	}
	return results
}

// Load reads the baseline document at path. A missing file, or an empty
// path, is not an error: it returns a nil Results.
func Load(path string) (*Results, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		klog.V(2).InfoS("No baseline found", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read baseline %q: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid baseline %q: %w", path, err)
	}
	return r, nil
}

// Parse decodes a baseline document after validating it.
func Parse(data []byte) (*Results, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	if doc.Version != "" && !versionRequired(supportedVersions, doc.Version) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	return New(doc), nil
}

// Save writes the document to path.
func (r *Results) Save(path string) error {
	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write baseline %q: %w", path, err)
	}
	return nil
}

// Document returns the underlying document.
func (r *Results) Document() *Document { return r.doc }

// Timestamp returns when the document was recorded.
func (r *Results) Timestamp() time.Time {
	return time.UnixMilli(r.doc.Timestamp)
}

// Compare returns the percent change in throughput of t against its stored
// entry. A stored sample is bootstrapped to the size of t's sample; t's
// throughput is compared with the central confidence-percent interval of
// the resulting distribution and 0 is returned when it falls inside.
func (r *Results) Compare(t *bench.Test, confidence float64) (float64, bool, error) {
	entry, ok := r.doc.lookup(t.Path())
	if !ok {
		return 0, false, nil
	}
	if entry.Kind() == KindLegacy {
		return percentChange(entry.Scalar(), t.AdjustedHz()), true, nil
	}

	random := r.random
	if random == nil {
		random = stats.NewRandom(nil)
	}
	distribution, err := random.Resample(entry.Sample(), len(t.Sample))
	if err != nil {
		return 0, false, err
	}
	n := len(distribution)
	if n == 0 {
		return 0, false, nil
	}

	offset := float64(n) * (100 - confidence) / 100
	lower := distribution[clamp(int(math.Ceil(offset)), n)]
	upper := distribution[clamp(int(math.Floor(float64(n)-(offset+1))), n)]

	hz := Round(t.Hz)
	switch {
	case hz < lower:
		return percentChange(lower, hz), true, nil
	case hz > upper:
		return percentChange(upper, hz), true, nil
	}
	return 0, true, nil
}

// Round keeps two decimals of a throughput below 1 and rounds larger ones
// to the nearest integer.
func Round(hz float64) float64 {
	if hz < 1 {
		return math.Round(hz*100) / 100
	}
	return math.Round(hz)
}

func percentChange(previous, current float64) float64 {
	return (current - previous) / previous * 100
}

func clamp(i, n int) int {
	return min(max(i, 0), n-1)
}
