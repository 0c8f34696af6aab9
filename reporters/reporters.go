// Package reporters renders the events of a benchmark run.
package reporters

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/antoninbas/baseline/bench"
)

// ErrUnknownReporter is returned by New for a name Names does not list.
var ErrUnknownReporter = errors.New("unknown reporter")

var factories = map[string]func(w io.Writer, colors *bool) bench.Reporter{
	"default": func(w io.Writer, colors *bool) bench.Reporter { return NewDefault(w, colors) },
	"minimal": func(w io.Writer, colors *bool) bench.Reporter { return NewMinimal(w, colors) },
	"table":   func(w io.Writer, colors *bool) bench.Reporter { return NewTable(w, colors) },
	"gobench": func(w io.Writer, _ *bool) bench.Reporter { return NewGoBench(w) },
}

// New returns the reporter registered under name. A nil colors picks
// colors automatically.
func New(name string, w io.Writer, colors *bool) (bench.Reporter, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, available: %v", ErrUnknownReporter, name, Names())
	}
	return factory(w, colors), nil
}

// Names lists the available reporters, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
