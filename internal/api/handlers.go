package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"

	"wdi/internal/engine"
	"wdi/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const arrowStreamMIME = "application/vnd.apache.arrow.stream"

type Handler struct {
	mu   sync.RWMutex
	data *engine.Result
}

// NewHandler accepts nil data; routes answer 503 until SetData is called.
func NewHandler(data *engine.Result) *Handler {
	return &Handler{data: data}
}

func (h *Handler) SetData(data *engine.Result) {
	h.mu.Lock()
	h.data = data
	h.mu.Unlock()
}

func (h *Handler) current() (*engine.Result, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.data == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "data is still loading")
	}
	return h.data, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/rows", h.GetRows)
	api.GET("/columns", h.GetColumns)
	api.GET("/summary", h.GetSummary)
	api.GET("/chart/bar", h.GetBarChart)
	api.GET("/chart/line", h.GetLineChart)
	api.GET("/export/arrow", h.GetArrow)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// httpError maps pipeline errors to client errors.
func httpError(err error) error {
	var schemaErr *engine.SchemaError
	var ambErr *engine.AmbiguityError
	switch {
	case errors.As(err, &schemaErr):
		return echo.NewHTTPError(http.StatusBadRequest, schemaErr.Error())
	case errors.As(err, &ambErr):
		return echo.NewHTTPError(http.StatusBadRequest, ambErr.Error())
	}
	return err
}

func (h *Handler) GetHealth(c echo.Context) error {
	h.mu.RLock()
	ready := h.data != nil
	h.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]bool{"ready": ready})
}

// labelled rows, paginated
func (h *Handler) GetRows(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	rt := data.LabeledRows
	total := rt.Len()
	limit, offset := getPaginationParams(c, total)

	rows := []models.RowView{}
	if offset < total {
		end := total
		if limit < total-offset {
			end = offset + limit
		}
		for _, r := range rt.Rows[offset:end] {
			values := make(map[string]float64, len(rt.Years))
			for i, y := range rt.Years {
				values[y] = r.Values[i]
			}
			rows = append(rows, models.RowView{
				Country:       r.CountryName,
				CountryCode:   r.CountryCode,
				Indicator:     r.IndicatorName,
				IndicatorCode: r.IndicatorCode,
				Values:        values,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   rows,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetColumns(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	ct := data.SelectedColumns
	view := models.ColumnTableView{Years: ct.Years, Columns: make([]models.ColumnView, 0, ct.NumColumns())}
	if view.Years == nil {
		view.Years = []string{}
	}
	for j, k := range ct.Keys {
		view.Columns = append(view.Columns, models.ColumnView{Country: k.Country, Indicator: k.Indicator, Values: ct.Columns[j]})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetSummary(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.Describe(data.SelectedColumns))
}

// bar chart for ?year=
func (h *Handler) GetBarChart(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	year := c.QueryParam("year")
	if year == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	chart, err := engine.PivotYear(data.LabeledRows, year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chart)
}

// line chart for ?indicator=&from=&to=
func (h *Handler) GetLineChart(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	indicator := c.QueryParam("indicator")
	if indicator == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "indicator is required")
	}
	chart, err := engine.LineChart(data.SelectedColumns, indicator, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chart)
}

func (h *Handler) GetArrow(c echo.Context) error {
	data, err := h.current()
	if err != nil {
		return err
	}
	// Encode fully before a status is committed
	var buf bytes.Buffer
	if err := data.SelectedColumns.WriteArrow(&buf, nil); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, arrowStreamMIME, buf.Bytes())
}
