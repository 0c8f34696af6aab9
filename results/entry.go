package results

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tells which persisted format an Entry was stored in.
type Kind int

const (
	// KindSample is a sample of per-cycle throughputs.
	KindSample Kind = iota
	// KindLegacy is a single margin-adjusted throughput, written by older
	// versions of the harness.
	KindLegacy
)

// Entry is the persisted baseline of one test. The format is resolved once,
// when the document is decoded.
type Entry struct {
	kind   Kind
	scalar float64
	sample []float64
}

// SampleEntry returns an entry holding per-cycle throughputs.
func SampleEntry(hz []float64) Entry {
	if hz == nil {
		hz = []float64{}
	}
	return Entry{kind: KindSample, sample: hz}
}

// LegacyEntry returns an entry holding a single adjusted throughput.
func LegacyEntry(adjustedHz float64) Entry {
	return Entry{kind: KindLegacy, scalar: adjustedHz}
}

// Kind returns the entry's format.
func (e Entry) Kind() Kind { return e.kind }

// Sample returns the stored throughputs of a KindSample entry.
func (e Entry) Sample() []float64 { return e.sample }

// Scalar returns the stored throughput of a KindLegacy entry.
func (e Entry) Scalar() float64 { return e.scalar }

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.kind == KindLegacy {
		return json.Marshal(e.scalar)
	}
	if e.sample == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.sample)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var sample []float64
		if err := json.Unmarshal(trimmed, &sample); err != nil {
			return fmt.Errorf("unable to decode sample: %w", err)
		}
		*e = SampleEntry(sample)
		return nil
	}
	var scalar float64
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return fmt.Errorf("test entry must be a number or an array of numbers: %w", err)
	}
	*e = LegacyEntry(scalar)
	return nil
}
