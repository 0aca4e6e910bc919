package models

// ColumnSummary is one column of a describe() style report.
type ColumnSummary struct {
	Country   string  `json:"country"`
	Indicator string  `json:"indicator"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Q25       float64 `json:"25%"`
	Median    float64 `json:"50%"`
	Q75       float64 `json:"75%"`
	Max       float64 `json:"max"`
}

// BarChart is a single year pivoted to country -> indicator -> value.
type BarChart struct {
	Year       string   `json:"year"`
	Indicators []string `json:"indicators"`
	Rows       []BarRow `json:"rows"`
}

type BarRow struct {
	Country string             `json:"country"`
	Values  map[string]float64 `json:"values"`
}

// LineChart is one indicator across countries over a range of years.
type LineChart struct {
	Indicator string       `json:"indicator"`
	Years     []string     `json:"years"`
	Series    []LineSeries `json:"series"`
}

type LineSeries struct {
	Country string    `json:"country"`
	Values  []float64 `json:"values"`
}

type RowView struct {
	Country       string             `json:"country_name"`
	CountryCode   string             `json:"country_code"`
	Indicator     string             `json:"indicator_name"`
	IndicatorCode string             `json:"indicator_code"`
	Values        map[string]float64 `json:"values"`
}

type ColumnView struct {
	Country   string    `json:"country"`
	Indicator string    `json:"indicator"`
	Values    []float64 `json:"values"`
}

type ColumnTableView struct {
	Years   []string     `json:"years"`
	Columns []ColumnView `json:"columns"`
}
