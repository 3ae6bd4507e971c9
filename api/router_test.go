package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/repository"
	"github.com/Domenick1991/flightdata/internal/repository/repotest"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/Domenick1991/flightdata/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) Stats(ctx context.Context) ([]usage.QueryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usage.QueryStats), args.Error(1)
}

func newTestRouter(t *testing.T, opts ...RouterOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewFlightRepository(repotest.NewStore(t, repotest.Delta()))
	return NewRouter(flights.NewFlightService(repo, 20), opts...)
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeRows(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	return rows
}

func TestRouter_EndToEnd(t *testing.T) {
	engine := newTestRouter(t)

	for _, target := range []string{"/api/flight/1", "/api/flight/date?day=5&month=6&year=2020", "/api/flight/delay/?airline=Delta"} {
		w := serve(engine, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		rows := decodeRows(t, w)
		require.Len(t, rows, 1, target)
		assert.Equal(t, 1.0, rows[0]["FLIGHT_ID"], target)
		assert.Equal(t, "Delta", rows[0]["AIRLINE"], target)
		assert.Equal(t, 25.0, rows[0]["DELAY"], target)
	}

	w := serve(engine, "/api/flight/delay/?airline=Delta&airport=JFK")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Routes(t *testing.T) {
	engine := newTestRouter(t)

	w := serve(engine, "/api/flight/delay/?airport=jfk")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeRows(t, w), 1)

	w = serve(engine, "/api/flight/routes")
	require.Equal(t, http.StatusOK, w.Code)
	routes := decodeRows(t, w)
	require.Len(t, routes, 1)
	assert.Equal(t, "New York", routes[0]["ORIGIN_CITY"])
	assert.Equal(t, 1.0, routes[0]["FREQUENCY"])
	assert.Equal(t, 100.0, routes[0]["DELAY_PERCENTAGE"])

	w = serve(engine, "/api/flight/routes?offset=1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(engine, "/api/flight/2")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(engine, "/api/flight/date?day=32&month=6&year=2020")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(engine, "/api/flight/date?day=&month=6&year=2020")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing date parameters"}`, w.Body.String())
}

func TestRouter_DelayPercentage(t *testing.T) {
	engine := newTestRouter(t)

	w := serve(engine, "/api/flight/delay/percentage/?category=airline")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"AIRLINE":"Delta","DELAY_PERCENTAGE":100}]`, w.Body.String())

	w = serve(engine, "/api/flight/delay/percentage/?category=hour")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"HOUR":8,"DELAY_PERCENTAGE":100}]`, w.Body.String())

	w = serve(engine, "/api/flight/delay/percentage/?category=airports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"ORIGIN_AIRPORT":"JFK","DESTINATION_AIRPORT":"LAX","DELAY_PERCENTAGE":100}]`, w.Body.String())

	w = serve(engine, "/api/flight/delay/percentage/?category=weekday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid category. Valid categories: airline, hour, airports"}`, w.Body.String())
}

func TestRouter_DelayRoutesRedirectWithoutSlash(t *testing.T) {
	engine := newTestRouter(t)

	for _, path := range []string{"/api/flight/delay", "/api/flight/delay/percentage"} {
		w := serve(engine, path+"?airline=Delta")
		assert.Equal(t, http.StatusMovedPermanently, w.Code, path)
		assert.Equal(t, path+"/?airline=Delta", w.Header().Get("Location"), path)
	}
}

func TestRouter_Health(t *testing.T) {
	engine := newTestRouter(t)

	w := serve(engine, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(logging.RequestIDHeader))
}

func TestRouter_Unavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewRouter(flights.NewFlightService(nil, 20))

	w := serve(engine, "/api/health")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Database unavailable"}`, w.Body.String())

	for _, target := range []string{
		"/api/flight/1",
		"/api/flight/date?day=5&month=6&year=2020",
		"/api/flight/routes",
		"/api/flight/delay/?airline=Delta",
		"/api/flight/delay/percentage/?category=hour",
	} {
		w := serve(engine, target)
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.JSONEq(t, `{"error":"Database not available"}`, w.Body.String(), target)
	}
}

func TestRouter_Stats(t *testing.T) {
	stats := &MockStatsReader{}
	stats.On("Stats", mock.Anything).Return([]usage.QueryStats{{Query: "flight_by_id", Counters: usage.Counters{Calls: 3, Rows: 3}}}, nil).Once()
	engine := newTestRouter(t, WithStats(stats))

	w := serve(engine, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"query":"flight_by_id","calls":3,"rows":3,"errors":0}]`, w.Body.String())

	stats.On("Stats", mock.Anything).Return(nil, errors.New("redis down")).Once()
	w = serve(engine, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_StatsDisabled(t *testing.T) {
	w := serve(newTestRouter(t), "/api/stats")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DocsAndMetrics(t *testing.T) {
	engine := newTestRouter(t)

	w := serve(engine, "/static/swagger.json")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/api/flight/delay/percentage/")

	w = serve(engine, "/api/docs/index.html")
	assert.Equal(t, http.StatusOK, w.Code)

	serve(engine, "/api/flight/1")
	w = serve(engine, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flightdata_api_requests_total")
	assert.Contains(t, w.Body.String(), `query="flight_by_id"`)
}
