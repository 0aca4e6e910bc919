// Package catalog holds the indicator labels and the default selection used
// when the caller does not supply its own.
package catalog

import "wdi/internal/engine"

// Entry maps a World Bank indicator name to its display label.
type Entry struct {
	Name  string
	Label string
}

// Catalog is an ordered list of indicator labels.
type Catalog []Entry

// Default lists the indicators charted by the reference analysis.
var Default = Catalog{
	{Name: "Urban population (% of total population)", Label: "Urban Population"},
	{Name: "CO2 emissions (kt)", Label: "CO2 Emissions"},
	{Name: "Electric power consumption (kWh per capita)", Label: "Electric Power Consumption"},
	{Name: "Forest area (% of land area)", Label: "Forest Area"},
	{Name: "Agricultural land (% of land area)", Label: "Agricultural Land"},
	{Name: "Population growth (annual %)", Label: "Population Growth"},
}

// DefaultCountries are the countries compared by the reference analysis.
var DefaultCountries = []string{
	"China",
	"India",
	"United States",
	"United Kingdom",
	"Germany",
	"Brazil",
	"Pakistan",
}

// Names returns the long indicator names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name
	}
	return names
}

// Labels returns the name -> label mapping.
func (c Catalog) Labels() map[string]string {
	m := make(map[string]string, len(c))
	for _, e := range c {
		m[e.Name] = e.Label
	}
	return m
}

// Label returns the display label for name, or name itself when unmapped.
func (c Catalog) Label(name string) string {
	for _, e := range c {
		if e.Name == name {
			return e.Label
		}
	}
	return name
}

// Criteria selects every catalog indicator for countries.
func (c Catalog) Criteria(countries []string) engine.Criteria {
	return engine.Criteria{Countries: countries, Indicators: c.Names()}
}
