package engine

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed or truncated source.
type ParseError struct {
	Line   int
	Column string
	Msg    string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("parse error: line %d, column %q: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("parse error: line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

// SchemaError reports required columns (or a requested year) absent from a table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "schema error: missing " + strings.Join(e.Missing, ", ")
}

// AmbiguityError reports a pivot key that occurs more than once.
type AmbiguityError struct {
	Year      string
	Country   string
	Indicator string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous pivot for year %s: duplicate entry (%s, %s)", e.Year, e.Country, e.Indicator)
}
