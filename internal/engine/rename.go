package engine

// Rename returns a copy of rt with each Indicator Name replaced by its label in
// mapping. Names without a label are kept as they are. The copy shares Years
// and each row's Values with rt; treat both as read-only.
func Rename(rt *RowTable, mapping map[string]string) *RowTable {
	out := &RowTable{Years: rt.Years}
	if rt.Rows == nil {
		return out
	}
	out.Rows = make([]RawRecord, len(rt.Rows))
	for i, r := range rt.Rows {
		if label, ok := mapping[r.IndicatorName]; ok {
			r.IndicatorName = label
		}
		out.Rows[i] = r
	}
	return out
}
