package engine

import "golang.org/x/exp/slices"

// Reshape indexes rt on (Country Name, Indicator Name), drops the code columns
// and transposes so years become the row axis. Duplicate keys keep the
// last-seen row's values.
func Reshape(rt *RowTable) *ColumnTable {
	ct := newColumnTable(slices.Clone(rt.Years))
	for _, r := range rt.Rows {
		ct.put(Key{Country: r.CountryName, Indicator: r.IndicatorName}, slices.Clone(r.Values))
	}
	return ct
}

func yearIndex(years []string, year string) int {
	return slices.Index(years, year)
}
