package engine

// Criteria selects a set of countries and a set of indicators. The same
// criteria filter both table views.
type Criteria struct {
	Countries  []string
	Indicators []string
}

func (c Criteria) sets() (countries, indicators map[string]struct{}) {
	countries = make(map[string]struct{}, len(c.Countries))
	for _, s := range c.Countries {
		countries[s] = struct{}{}
	}
	indicators = make(map[string]struct{}, len(c.Indicators))
	for _, s := range c.Indicators {
		indicators[s] = struct{}{}
	}
	return countries, indicators
}

func (c Criteria) match(country, indicator string, countries, indicators map[string]struct{}) bool {
	if _, ok := countries[country]; !ok {
		return false
	}
	_, ok := indicators[indicator]
	return ok
}

// Select filters rt to rows whose country AND indicator are requested, and
// slices ct to the requested country x indicator columns. Pairs that have no
// column in ct are omitted rather than emitted as empty columns, so both
// results describe the same subset. Names absent from the data select
// nothing; they are not an error. Neither input is modified, but the results
// share Years, row Values and column slices with the inputs and must not be
// written through.
func Select(rt *RowTable, ct *ColumnTable, c Criteria) (*RowTable, *ColumnTable) {
	countries, indicators := c.sets()

	rows := &RowTable{Years: rt.Years}
	for _, r := range rt.Rows {
		if c.match(r.CountryName, r.IndicatorName, countries, indicators) {
			rows.Rows = append(rows.Rows, r)
		}
	}

	cols := newColumnTable(ct.Years)
	for j, k := range ct.Keys {
		if c.match(k.Country, k.Indicator, countries, indicators) {
			cols.put(k, ct.Columns[j])
		}
	}
	return rows, cols
}
