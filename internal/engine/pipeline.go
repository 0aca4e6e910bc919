package engine

import (
	"github.com/pkg/errors"
)

// Result carries every table a pipeline run produces.
type Result struct {
	Rows    *RowTable    // as parsed
	Columns *ColumnTable // as parsed

	SelectedRows    *RowTable
	SelectedColumns *ColumnTable

	// LabeledRows is SelectedRows with display labels applied.
	LabeledRows *RowTable
}

// Run parses the export at path, selects c from both views and applies labels
// to the selected row view. Any parse failure aborts the run.
func Run(path string, opts *LoadOptions, c Criteria, labels map[string]string) (*Result, error) {
	rt, ct, err := LoadFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return Process(rt, ct, c, labels), nil
}

// Process runs the selection and labelling stages on already parsed tables.
func Process(rt *RowTable, ct *ColumnTable, c Criteria, labels map[string]string) *Result {
	srt, sct := Select(rt, ct, c)
	return &Result{
		Rows:            rt,
		Columns:         ct,
		SelectedRows:    srt,
		SelectedColumns: sct,
		LabeledRows:     Rename(srt, labels),
	}
}
