package engine

// Fixed column names of a World Bank indicator export.
const (
	ColCountryName   = "Country Name"
	ColCountryCode   = "Country Code"
	ColIndicatorName = "Indicator Name"
	ColIndicatorCode = "Indicator Code"
)

var requiredColumns = []string{ColCountryName, ColCountryCode, ColIndicatorName, ColIndicatorCode}

// RawRecord is one (country, indicator) row. Values[i] belongs to the
// owning table's Years[i].
type RawRecord struct {
	CountryName   string
	CountryCode   string
	IndicatorName string
	IndicatorCode string
	Values        []float64
}

// RowTable holds data with years as columns.
type RowTable struct {
	Years []string
	Rows  []RawRecord
}

// Len returns the number of rows.
func (rt *RowTable) Len() int { return len(rt.Rows) }

// Value returns the row's value for year.
func (rt *RowTable) Value(row int, year string) (float64, bool) {
	idx := yearIndex(rt.Years, year)
	if idx < 0 || row < 0 || row >= len(rt.Rows) {
		return 0, false
	}
	return rt.Rows[row].Values[idx], true
}

// Key addresses a ColumnTable column.
type Key struct {
	Country   string
	Indicator string
}

// ColumnTable holds data with years as rows and (country, indicator) as the
// column address. Columns[j][i] is the value of Keys[j] in Years[i].
type ColumnTable struct {
	Years   []string
	Keys    []Key
	Columns [][]float64

	index map[Key]int
}

func newColumnTable(years []string) *ColumnTable {
	return &ColumnTable{
		Years: years,
		index: make(map[Key]int),
	}
}

// put stores a column. An existing key keeps its position but takes the new values.
func (ct *ColumnTable) put(k Key, values []float64) {
	if j, ok := ct.index[k]; ok {
		ct.Columns[j] = values
		return
	}
	ct.index[k] = len(ct.Keys)
	ct.Keys = append(ct.Keys, k)
	ct.Columns = append(ct.Columns, values)
}

// NumColumns returns the number of addressable columns.
func (ct *ColumnTable) NumColumns() int { return len(ct.Keys) }

// Has reports whether k is an addressable column.
func (ct *ColumnTable) Has(k Key) bool {
	_, ok := ct.index[k]
	return ok
}

// Column returns the values of k indexed by Years.
func (ct *ColumnTable) Column(k Key) ([]float64, bool) {
	j, ok := ct.index[k]
	if !ok {
		return nil, false
	}
	return ct.Columns[j], true
}

// At returns the cell at (year, k).
func (ct *ColumnTable) At(year string, k Key) (float64, bool) {
	col, ok := ct.Column(k)
	if !ok {
		return 0, false
	}
	i := yearIndex(ct.Years, year)
	if i < 0 {
		return 0, false
	}
	return col[i], true
}

// RenameIndicators returns a copy whose indicator key level is rewritten by
// mapping. Unmapped names pass through.
func (ct *ColumnTable) RenameIndicators(mapping map[string]string) *ColumnTable {
	out := newColumnTable(ct.Years)
	for j, k := range ct.Keys {
		if label, ok := mapping[k.Indicator]; ok {
			k.Indicator = label
		}
		out.put(k, ct.Columns[j])
	}
	return out
}
