package engine

import (
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/pkg/errors"
)

// YearField names the index column of an exported ColumnTable.
const YearField = "Year"

// Field metadata keys carrying a column's two-level address.
const (
	MetaCountry   = "country"
	MetaIndicator = "indicator"
)

// Schema describes ct as Arrow: a string year column followed by one float64
// field per key. Field names join country and indicator; the metadata keeps
// the two levels apart.
func (ct *ColumnTable) Schema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(ct.Keys)+1)
	fields = append(fields, arrow.Field{Name: YearField, Type: arrow.BinaryTypes.String})
	for _, k := range ct.Keys {
		fields = append(fields, arrow.Field{
			Name:     k.Country + " | " + k.Indicator,
			Type:     arrow.PrimitiveTypes.Float64,
			Metadata: arrow.NewMetadata([]string{MetaCountry, MetaIndicator}, []string{k.Country, k.Indicator}),
		})
	}
	return arrow.NewSchema(fields, nil)
}

// Record builds an Arrow record with one row per year. The caller releases it.
func (ct *ColumnTable) Record(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	b := array.NewRecordBuilder(mem, ct.Schema())
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues(ct.Years, nil)
	for j := range ct.Keys {
		b.Field(j+1).(*array.Float64Builder).AppendValues(ct.Columns[j], nil)
	}
	return b.NewRecord()
}

// WriteArrow streams ct to w in the Arrow IPC stream format.
func (ct *ColumnTable) WriteArrow(w io.Writer, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rec := ct.Record(mem)
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return errors.Wrap(err, "write arrow record")
	}
	return errors.Wrap(wr.Close(), "close arrow stream")
}

// ColumnTableFromRecord rebuilds a ColumnTable from a record produced by Record.
func ColumnTableFromRecord(rec arrow.Record) (*ColumnTable, error) {
	schema := rec.Schema()
	if rec.NumCols() == 0 || schema.Field(0).Name != YearField {
		return nil, &SchemaError{Missing: []string{YearField}}
	}
	yearCol, ok := rec.Column(0).(*array.String)
	if !ok {
		return nil, errors.Errorf("column %s has type %s", YearField, schema.Field(0).Type)
	}

	years := make([]string, yearCol.Len())
	for i := range years {
		years[i] = yearCol.Value(i)
	}
	ct := newColumnTable(years)

	for j := 1; j < int(rec.NumCols()); j++ {
		f := schema.Field(j)
		country, indicator := metaValue(f.Metadata, MetaCountry), metaValue(f.Metadata, MetaIndicator)
		col, ok := rec.Column(j).(*array.Float64)
		if !ok {
			return nil, errors.Errorf("column %s has type %s", f.Name, f.Type)
		}
		ct.put(Key{Country: country, Indicator: indicator}, append([]float64(nil), col.Float64Values()...))
	}
	return ct, nil
}

func metaValue(md arrow.Metadata, key string) string {
	if i := md.FindKey(key); i >= 0 {
		return md.Values()[i]
	}
	return ""
}
