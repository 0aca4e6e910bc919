package engine

import (
	"math"
	"sort"

	"wdi/internal/models"

	"golang.org/x/exp/slices"
)

// Describe summarizes every column of ct over its years: count, mean, sample
// std, min, quartiles and max. Std is 0 below two observations and an empty
// column reports zeros, keeping summaries JSON encodable.
func Describe(ct *ColumnTable) []models.ColumnSummary {
	out := make([]models.ColumnSummary, 0, len(ct.Keys))
	for j, k := range ct.Keys {
		s := summarize(ct.Columns[j])
		s.Country = k.Country
		s.Indicator = k.Indicator
		out = append(out, s)
	}
	return out
}

func summarize(values []float64) models.ColumnSummary {
	n := len(values)
	s := models.ColumnSummary{Count: n}
	if n == 0 {
		return s
	}

	sorted := slices.Clone(values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(n)

	if n > 1 {
		sumSq := 0.0
		for _, v := range sorted {
			d := v - s.Mean
			sumSq += d * d
		}
		s.Std = math.Sqrt(sumSq / float64(n-1))
	}

	s.Min = sorted[0]
	s.Max = sorted[n-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// PivotYear lays out year's values of rt as one row per country and one value
// per indicator. Each (country, indicator) pair must occur at most once.
func PivotYear(rt *RowTable, year string) (*models.BarChart, error) {
	idx := yearIndex(rt.Years, year)
	if idx < 0 {
		return nil, &SchemaError{Missing: []string{year}}
	}

	// 1. Index countries and indicators in order of first appearance
	chart := &models.BarChart{Year: year, Indicators: []string{}, Rows: []models.BarRow{}}
	countryRow := make(map[string]int)
	seenIndicator := make(map[string]bool)

	for _, r := range rt.Rows {
		ci, ok := countryRow[r.CountryName]
		if !ok {
			ci = len(chart.Rows)
			countryRow[r.CountryName] = ci
			chart.Rows = append(chart.Rows, models.BarRow{Country: r.CountryName, Values: map[string]float64{}})
		}
		if !seenIndicator[r.IndicatorName] {
			seenIndicator[r.IndicatorName] = true
			chart.Indicators = append(chart.Indicators, r.IndicatorName)
		}

		// 2. A repeated pair has no single cell value
		cell := chart.Rows[ci].Values
		if _, dup := cell[r.IndicatorName]; dup {
			return nil, &AmbiguityError{Year: year, Country: r.CountryName, Indicator: r.IndicatorName}
		}
		cell[r.IndicatorName] = r.Values[idx]
	}

	// 3. Stable output
	sort.Strings(chart.Indicators)
	sort.SliceStable(chart.Rows, func(i, j int) bool { return chart.Rows[i].Country < chart.Rows[j].Country })
	return chart, nil
}

// LineChart slices ct to one indicator across all of its countries, between
// the years from and to inclusive. An empty bound leaves that side open.
func LineChart(ct *ColumnTable, indicator, from, to string) (*models.LineChart, error) {
	lo, hi := 0, len(ct.Years)-1
	var missing []string
	if from != "" {
		if lo = yearIndex(ct.Years, from); lo < 0 {
			missing = append(missing, from)
		}
	}
	if to != "" {
		if hi = yearIndex(ct.Years, to); hi < 0 {
			missing = append(missing, to)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	chart := &models.LineChart{Indicator: indicator, Years: []string{}, Series: []models.LineSeries{}}
	if lo > hi {
		return chart, nil
	}
	chart.Years = slices.Clone(ct.Years[lo : hi+1])
	for j, k := range ct.Keys {
		if k.Indicator != indicator {
			continue
		}
		chart.Series = append(chart.Series, models.LineSeries{
			Country: k.Country,
			Values:  slices.Clone(ct.Columns[j][lo : hi+1]),
		})
	}
	return chart, nil
}
