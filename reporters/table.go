package reporters

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/internal/format"
)

// Table collects every test and renders a single summary table once the
// run ends.
type Table struct {
	w        io.Writer
	colors   bool
	baseline time.Time
	rows     []*tableRow
	index    map[*bench.Test]*tableRow
}

type tableRow struct {
	name    string
	hz      string
	rme     string
	samples string
	change  string
	color   tablewriter.Colors
}

var _ bench.Reporter = &Table{}

// NewTable returns a Table reporter writing to w.
func NewTable(w io.Writer, colors *bool) *Table {
	return &Table{
		w:      w,
		colors: newOutput(w, colors).colors,
		index:  map[*bench.Test]*tableRow{},
	}
}

func (r *Table) Start(baseline time.Time) {
	r.baseline = baseline
	r.rows = nil
	clear(r.index)
}

func (r *Table) End() {
	table := tablewriter.NewWriter(r.w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetRowLine(true)
	table.SetHeader([]string{"Name", "Ops/sec", "RME", "Samples", "Change"})
	for _, row := range r.rows {
		colors := []tablewriter.Colors{{}, {}, {}, {}, {}}
		if r.colors {
			colors[4] = row.color
		}
		table.Rich([]string{row.name, row.hz, row.rme, row.samples, row.change}, colors)
	}

	title := "Result"
	if !r.baseline.IsZero() {
		title = fmt.Sprintf("Result (baseline of %s)", r.baseline.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(r.w, "\n"+title)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", len(title)))
	table.Render()
	fmt.Fprintln(r.w)
}

func (r *Table) SuiteStart(*bench.Suite) {}
func (r *Table) SuiteEnd(*bench.Suite)   {}
func (r *Table) TestStart(*bench.Test)   {}
func (r *Table) Cycle(*bench.Test)       {}

func (r *Table) Pending(t *bench.Test) {
	r.rows = append(r.rows, &tableRow{
		name:   t.FullTitle(),
		hz:     "-",
		rme:    "-",
		change: "pending",
		color:  tablewriter.Colors{tablewriter.FgCyanColor},
	})
}

func (r *Table) TestEnd(t *bench.Test, change float64, changed bool) {
	row := &tableRow{
		name:    t.FullTitle(),
		hz:      format.Number(t.Hz),
		rme:     fmt.Sprintf("±%.2f%%", t.RME),
		samples: strconv.Itoa(len(t.Sample)),
		change:  "-",
	}
	switch {
	case !changed:
	case change > 0:
		row.change = fmt.Sprintf("+%s%%", format.Number(change))
		row.color = tablewriter.Colors{tablewriter.Bold, tablewriter.FgGreenColor}
	default:
		row.change = fmt.Sprintf("-%s%%", format.Number(-change))
		row.color = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiRedColor}
	}
	r.rows = append(r.rows, row)
	r.index[t] = row
}

func (r *Table) Rank(t *bench.Test, rank int, percentSlower float64, known bool) {
	row, ok := r.index[t]
	if !ok {
		return
	}
	switch {
	case rank == 1:
		row.change = "fastest"
		row.color = tablewriter.Colors{tablewriter.Bold, tablewriter.FgGreenColor}
	case known:
		row.change = format.Number(percentSlower) + "% slower"
		if rank == -1 {
			row.color = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiRedColor}
		}
	}
}
