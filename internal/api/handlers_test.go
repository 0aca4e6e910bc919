package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wdi/internal/engine"
	"wdi/internal/models"

	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/labstack/echo/v4"
	"gotest.tools/assert"
)

const testCSV = `m
m
m
m
Country Name,Country Code,Indicator Name,Indicator Code,2018,2019,t1,t2,t3
A,AA,Forest area (% of land area),AG.LND.FRST.ZS,10,11,,,
A,AA,CO2 emissions (kt),EN.ATM.CO2E.KT,100,110,,,
B,BB,Forest area (% of land area),AG.LND.FRST.ZS,20,21,,,
C,CC,Forest area (% of land area),AG.LND.FRST.ZS,30,31,,,
`

func newTestServer(t *testing.T, loaded bool) (*echo.Echo, *Handler) {
	t.Helper()
	h := NewHandler(nil)
	if loaded {
		rt, ct, err := engine.Parse(strings.NewReader(testCSV), nil)
		assert.NilError(t, err)
		h.SetData(engine.Process(rt, ct, engine.Criteria{
			Countries:  []string{"A", "B"},
			Indicators: []string{"Forest area (% of land area)", "CO2 emissions (kt)"},
		}, map[string]string{"Forest area (% of land area)": "Forest Area"}))
	}
	e := echo.New()
	h.RegisterRoutes(e)
	return e, h
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoadingReturns503(t *testing.T) {
	e, h := newTestServer(t, false)

	for _, path := range []string{"/api/rows", "/api/columns", "/api/summary", "/api/chart/bar?year=2018", "/api/export/arrow"} {
		if rec := get(e, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rec.Code)
		}
	}

	var health map[string]bool
	rec := get(e, "/api/health")
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, health["ready"], false)

	h.SetData(engine.Process(&engine.RowTable{}, engine.Reshape(&engine.RowTable{}), engine.Criteria{}, nil))
	rec = get(e, "/api/health")
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, health["ready"], true)
}

func TestGetRows(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(e, "/api/rows?limit=2&offset=1")
	assert.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Data  []models.RowView `json:"data"`
		Total int              `json:"total"`
	}
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, body.Total, 3)
	assert.Equal(t, len(body.Data), 2)
	assert.Equal(t, body.Data[0].Indicator, "CO2 emissions (kt)")
	assert.Equal(t, body.Data[1].Country, "B")
	assert.Equal(t, body.Data[1].Indicator, "Forest Area")
	assert.Equal(t, body.Data[1].Values["2019"], 21.0)

	rec = get(e, "/api/rows?offset=10")
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Data), 0)
}

func TestGetColumnsAndSummary(t *testing.T) {
	e, _ := newTestServer(t, true)

	var view models.ColumnTableView
	rec := get(e, "/api/columns")
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, len(view.Columns), 3)
	assert.DeepEqual(t, view.Years, []string{"2018", "2019"})

	var summary []models.ColumnSummary
	rec = get(e, "/api/summary")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, len(summary), 3)
	assert.Equal(t, summary[0].Mean, 10.5)
	// Column view keeps the long names
	assert.Equal(t, summary[0].Indicator, "Forest area (% of land area)")
}

func TestGetBarChart(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(e, "/api/chart/bar?year=2019")
	assert.Equal(t, rec.Code, http.StatusOK)

	var chart models.BarChart
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, len(chart.Rows), 2)
	assert.Equal(t, chart.Rows[0].Values["Forest Area"], 11.0)

	assert.Equal(t, get(e, "/api/chart/bar").Code, http.StatusBadRequest)
	assert.Equal(t, get(e, "/api/chart/bar?year=1900").Code, http.StatusBadRequest)
}

func TestGetLineChart(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(e, "/api/chart/line?indicator=Forest+area+%28%25+of+land+area%29&from=2019")
	assert.Equal(t, rec.Code, http.StatusOK)

	var chart models.LineChart
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.DeepEqual(t, chart.Years, []string{"2019"})
	assert.Equal(t, len(chart.Series), 2)

	assert.Equal(t, get(e, "/api/chart/line").Code, http.StatusBadRequest)
	assert.Equal(t, get(e, "/api/chart/line?indicator=x&to=3000").Code, http.StatusBadRequest)
}

func TestGetArrow(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(e, "/api/export/arrow")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get(echo.HeaderContentType), arrowStreamMIME)

	rdr, err := ipc.NewReader(rec.Body)
	assert.NilError(t, err)
	defer rdr.Release()
	assert.Assert(t, rdr.Next())
	assert.Equal(t, rdr.Record().NumCols(), int64(4))
}

func TestGetRowsHugeLimit(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(e, "/api/rows?limit=9223372036854775807&offset=1")
	assert.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Data []models.RowView `json:"data"`
	}
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Data), 2)
}

func TestGetBarChartAmbiguous(t *testing.T) {
	rt, ct, err := engine.Parse(strings.NewReader(testCSV), nil)
	assert.NilError(t, err)

	// Two indicators labelled alike collide in the pivot
	h := NewHandler(engine.Process(rt, ct, engine.Criteria{
		Countries:  []string{"A"},
		Indicators: []string{"Forest area (% of land area)", "CO2 emissions (kt)"},
	}, map[string]string{
		"Forest area (% of land area)": "Environment",
		"CO2 emissions (kt)":           "Environment",
	}))
	e := echo.New()
	h.RegisterRoutes(e)

	rec := get(e, "/api/chart/bar?year=2018")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rec.Body.String(), "ambiguous"), rec.Body.String())
}
