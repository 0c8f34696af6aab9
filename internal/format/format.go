// Package format renders measurements for terminal output.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Number renders v with thousands separators. Values below 1 keep two
// decimals, larger ones are rounded to an integer.
func Number(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return strconv.FormatFloat(v, 'f', -1, 64)
	case math.Abs(v) < 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return humanize.Commaf(math.Round(v))
}

// Result renders a throughput and its relative margin of error, as in
// "1,234 ops/sec ±0.56%".
func Result(hz, rme float64) string {
	return fmt.Sprintf("%s ops/sec ±%.2f%%", Number(hz), rme)
}

// Cycle renders sampling progress for a test.
func Cycle(title string, hz float64, cycles int) string {
	return fmt.Sprintf("%s x %s ops/sec (%d runs sampled)", title, Number(hz), cycles)
}

// Change renders a percent change against baseline.
func Change(percent float64) string {
	if percent > 0 {
		return fmt.Sprintf("%s%% faster than baseline", Number(percent))
	}
	return fmt.Sprintf("%s%% slower than baseline", Number(math.Abs(percent)))
}

// Indent returns two spaces per level.
func Indent(depth int) string {
	return strings.Repeat("  ", max(depth, 0))
}
