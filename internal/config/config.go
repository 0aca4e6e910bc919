package config

import (
	"strings"

	"wdi/internal/catalog"
	"wdi/internal/engine"

	"github.com/pkg/errors"
)

// Config holds runtime settings for the server and the describe command.
type Config struct {
	DataFile   string
	Addr       string
	RateLimit  float64 // Requests per second per client, 0 disables limiting
	Load       engine.LoadOptions
	Countries  []string
	Indicators []string
}

// Default returns the settings used when no flag overrides them.
func Default() *Config {
	return &Config{
		DataFile:   "API_19_DS2_en_csv_v2.csv",
		Addr:       ":8080",
		RateLimit:  20,
		Load:       *engine.DefaultLoadOptions(),
		Countries:  append([]string(nil), catalog.DefaultCountries...),
		Indicators: catalog.Default.Names(),
	}
}

// Criteria returns the configured selection.
func (c *Config) Criteria() engine.Criteria {
	return engine.Criteria{Countries: c.Countries, Indicators: c.Indicators}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataFile) == "":
		return errors.New("data file is not set")
	case c.Load.SkipRows < 0:
		return errors.Errorf("skip rows must not be negative, got %d", c.Load.SkipRows)
	case c.Load.TrailerColumns < 0:
		return errors.Errorf("trailer columns must not be negative, got %d", c.Load.TrailerColumns)
	case c.RateLimit < 0:
		return errors.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	case len(c.Countries) == 0:
		return errors.New("no countries selected")
	case len(c.Indicators) == 0:
		return errors.New("no indicators selected")
	}
	return nil
}
