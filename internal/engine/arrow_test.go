package engine

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"gotest.tools/assert"
)

func TestColumnTableRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	_, ct := parseGrid(t, gridCSV)
	rec := ct.Record(mem)
	defer rec.Release()

	assert.Equal(t, rec.NumRows(), int64(2))
	assert.Equal(t, rec.NumCols(), int64(5))
	assert.Equal(t, rec.ColumnName(0), YearField)
	assert.Equal(t, rec.ColumnName(1), "A | X")

	years := rec.Column(0).(*array.String)
	assert.Equal(t, years.Value(1), "2019")
	assert.Equal(t, rec.Column(4).(*array.Float64).Value(0), 5.0)
}

func TestColumnTableArrowRoundTrip(t *testing.T) {
	_, ct := parseGrid(t, sampleCSV)

	var buf bytes.Buffer
	assert.NilError(t, ct.WriteArrow(&buf, nil))

	rdr, err := ipc.NewReader(&buf)
	assert.NilError(t, err)
	defer rdr.Release()

	assert.Assert(t, rdr.Next())
	back, err := ColumnTableFromRecord(rdr.Record())
	assert.NilError(t, err)

	if !reflect.DeepEqual(back.Keys, ct.Keys) {
		t.Errorf("Keys: expected %v, got %v", ct.Keys, back.Keys)
	}
	if !reflect.DeepEqual(back.Columns, ct.Columns) {
		t.Errorf("Columns: expected %v, got %v", ct.Columns, back.Columns)
	}
	assert.DeepEqual(t, back.Years, ct.Years)
}

func TestColumnTableEmptyRecord(t *testing.T) {
	ct := newColumnTable([]string{"2000"})
	rec := ct.Record(nil)
	defer rec.Release()

	assert.Equal(t, rec.NumCols(), int64(1))
	assert.Equal(t, rec.NumRows(), int64(1))
}
