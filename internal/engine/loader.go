package engine

import (
	"bufio"
	"encoding/csv"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadOptions controls how a World Bank export is read.
type LoadOptions struct {
	SkipRows       int     // Metadata lines before the header
	TrailerColumns int     // Non-data columns dropped from the end of every row
	FillValue      float64 // Replaces empty or missing cells
	Delimiter      rune
}

// DefaultLoadOptions matches the layout of a World Development Indicators download.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		SkipRows:       4,
		TrailerColumns: 3,
		FillValue:      0,
		Delimiter:      ',',
	}
}

// LoadFile parses the export at path.
func LoadFile(path string, opts *LoadOptions) (*RowTable, *ColumnTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open source")
	}
	defer f.Close()

	return Parse(f, opts)
}

// Parse reads a World Bank export into its row view and its column view.
// Missing values are filled with opts.FillValue, so "no data" reads as zero
// under the default options.
func Parse(r io.Reader, opts *LoadOptions) (*RowTable, *ColumnTable, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}
	start := time.Now()

	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	// Physical lines, blank ones included: csv.Reader would silently skip those.
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, nil, &ParseError{Msg: "source has " + strconv.Itoa(i) + " lines, expected at least " + strconv.Itoa(opts.SkipRows) + " header lines"}
			}
			return nil, nil, errors.Wrap(err, "skip metadata")
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &ParseError{Line: opts.SkipRows + 1, Msg: "missing header row"}
	}
	if err != nil {
		return nil, nil, &ParseError{Line: opts.SkipRows + 1, Msg: err.Error()}
	}
	if len(header) < opts.TrailerColumns {
		return nil, nil, &ParseError{
			Line: opts.SkipRows + 1,
			Msg:  "header has " + strconv.Itoa(len(header)) + " columns, fewer than " + strconv.Itoa(opts.TrailerColumns) + " trailing columns",
		}
	}
	header = header[:len(header)-opts.TrailerColumns]

	lay, err := layoutOf(header)
	if err != nil {
		return nil, nil, err
	}

	rt := &RowTable{Years: lay.years}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, nil, &ParseError{Line: csvErr.Line + opts.SkipRows, Msg: csvErr.Err.Error()}
			}
			return nil, nil, errors.Wrap(err, "read row")
		}
		line, _ := reader.FieldPos(0)
		line += opts.SkipRows

		row := RawRecord{
			CountryName:   field(record, lay.country),
			CountryCode:   field(record, lay.countryCode),
			IndicatorName: field(record, lay.indicator),
			IndicatorCode: field(record, lay.indicatorCode),
			Values:        make([]float64, len(lay.yearCols)),
		}
		for i, col := range lay.yearCols {
			v, ok, err := parseCell(field(record, col))
			if err != nil {
				return nil, nil, &ParseError{Line: line, Column: header[col], Msg: err.Error()}
			}
			if !ok {
				v = opts.FillValue
			}
			row.Values[i] = v
		}
		rt.Rows = append(rt.Rows, row)
	}

	ct := Reshape(rt)
	log.Printf("Load Complete. Rows: %d. Columns: %d. Time: %v", rt.Len(), ct.NumColumns(), time.Since(start))
	return rt, ct, nil
}

type layout struct {
	country, countryCode, indicator, indicatorCode int
	yearCols                                       []int
	years                                          []string
}

func layoutOf(header []string) (*layout, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	lay := &layout{
		country:       pos[ColCountryName],
		countryCode:   pos[ColCountryCode],
		indicator:     pos[ColIndicatorName],
		indicatorCode: pos[ColIndicatorCode],
	}
	for i, h := range header {
		switch i {
		case lay.country, lay.countryCode, lay.indicator, lay.indicatorCode:
			continue
		}
		lay.yearCols = append(lay.yearCols, i)
		lay.years = append(lay.years, h)
	}
	return lay, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

// missingMarkers are the read_csv default NA values plus the World Bank "..".
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true, "..": true,
}

// parseCell reports ok=false for cells that count as missing, NaN included.
func parseCell(s string) (float64, bool, error) {
	if missingMarkers[s] {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, errors.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}
