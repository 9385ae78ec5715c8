package compare

import (
	"fmt"
	"strings"

	"github.com/clfbench/clfbench/pkg/errors"
)

// CVTimeColumn is the reserved results column holding per-candidate
// cross-validation wall-clock time in seconds.
const CVTimeColumn = "cv_time"

// Results is the table produced by a comparison run: one row per
// candidate in registry order, one column per scorer plus CVTimeColumn.
// A Results value is immutable once built.
type Results struct {
	candidates []string
	columns    []string
	values     map[string]map[string]float64
}

func newResults(candidates, columns []string, values map[string]map[string]float64) *Results {
	return &Results{
		candidates: candidates,
		columns:    columns,
		values:     values,
	}
}

// Candidates returns the row names in run order.
func (r *Results) Candidates() []string {
	out := make([]string, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Columns returns the column names: scorer names in configuration order
// followed by CVTimeColumn.
func (r *Results) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// HasColumn reports whether the table has a column with the given name.
func (r *Results) HasColumn(name string) bool {
	for _, c := range r.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Value returns one cell of the table.
func (r *Results) Value(candidate, column string) (float64, error) {
	row, ok := r.values[candidate]
	if !ok {
		return 0, errors.Newf("unknown candidate '%s'", candidate)
	}
	if !r.HasColumn(column) {
		return 0, errors.NewUnknownMetricError(column, r.Columns())
	}
	return row[column], nil
}

// Column returns one column of the table in candidate order.
func (r *Results) Column(name string) ([]float64, error) {
	if !r.HasColumn(name) {
		return nil, errors.NewUnknownMetricError(name, r.Columns())
	}
	out := make([]float64, len(r.candidates))
	for i, cand := range r.candidates {
		out[i] = r.values[cand][name]
	}
	return out, nil
}

// String renders the table as fixed-width text, one candidate per line.
func (r *Results) String() string {
	nameWidth := len("candidate")
	for _, cand := range r.candidates {
		if len(cand) > nameWidth {
			nameWidth = len(cand)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", nameWidth, "candidate")
	for _, col := range r.columns {
		fmt.Fprintf(&b, "  %15s", col)
	}
	b.WriteByte('\n')

	for _, cand := range r.candidates {
		fmt.Fprintf(&b, "%-*s", nameWidth, cand)
		for _, col := range r.columns {
			fmt.Fprintf(&b, "  %15.6f", r.values[cand][col])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
