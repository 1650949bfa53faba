package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"entity-graph/backend/internal/dataset"
	"entity-graph/backend/internal/graph"
	"entity-graph/backend/internal/metrics"
)

func row(e1, t1, p1, e2, t2, p2 string) dataset.Record {
	return dataset.Record{
		Entity1: e1, Entity1Type: t1, Entity1Parent: p1,
		Entity2: e2, Entity2Type: t2, Entity2Parent: p2,
	}
}

func setupRouter(t *testing.T, records []dataset.Record, m *metrics.Metrics) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	deriver := graph.NewDeriver(dataset.NewStore(records))
	return NewRouter(RouterConfig{
		Handler:        NewHandler(deriver),
		Logger:         zap.NewNop(),
		Metrics:        m,
		AllowedOrigins: []string{"*"},
	})
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSingleRowScenario(t *testing.T) {
	router := setupRouter(t, []dataset.Record{row("a", "X", "P1", "b", "Y", "P2")}, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/api/graph/", `{"nodes":["P1","P2"],"edges":[{"source":"P1","target":"P2"}]}`},
		{"/api/child-nodes/P1/", `["a/X","b/Y"]`},
		{"/api/parent-connected-nodes/P1/", `["P2"]`},
		{"/api/parent-connected-nodes/P2/", `["P1"]`},
		{"/api/dataset/", `[{"Entity1":"a","Entity1_Type":"X","Entity1_Parent":"P1","Entity2":"b","Entity2_Type":"Y","Entity2_Parent":"P2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(router, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestEmptyResultsAreArrays(t *testing.T) {
	router := setupRouter(t, []dataset.Record{row("a", "X", "P1", "b", "Y", "P2")}, nil)

	for _, path := range []string{
		"/api/child-nodes/unknown/",
		"/api/parent-connected-nodes/unknown/",
	} {
		w := get(router, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "[]", w.Body.String(), path)
	}
}

func TestEmptyDataset(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := get(router, "/api/dataset/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = get(router, "/api/graph/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, w.Body.String())
}

func TestGraph_EdgeCountMatchesRecords(t *testing.T) {
	records := []dataset.Record{
		row("a", "X", "P1", "b", "Y", "P2"),
		row("a", "X", "P1", "b", "Y", "P2"),
		row("c", "X", "P2", "d", "Y", "P2"),
	}
	router := setupRouter(t, records, nil)

	var view graph.View
	w := get(router, "/api/graph/")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Len(t, view.Edges, len(records))
	assert.Equal(t, []string{"P1", "P2"}, view.Nodes)
}

func TestEscapedParentNames(t *testing.T) {
	router := setupRouter(t, []dataset.Record{
		row("a", "X", "Group A", "b", "Y", "R&D/Labs"),
	}, nil)

	w := get(router, "/api/parent-connected-nodes/Group%20A/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["R&D/Labs"]`, w.Body.String())

	w = get(router, "/api/child-nodes/R%26D%2FLabs/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["a/X","b/Y"]`, w.Body.String())
}

func TestTrailingSlashRedirect(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := get(router, "/api/graph")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/graph/", w.Header().Get("Location"))
}

func TestUnknownRoute(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := get(router, "/api/unknown/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t, []dataset.Record{row("a", "X", "P1", "b", "Y", "P2")}, nil)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, 1.0, response["records"])
}

func TestGraphPage(t *testing.T) {
	router := setupRouter(t, []dataset.Record{row("a", "X", "P1", "b", "Y", "P2")}, nil)

	w := get(router, "/graph/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<title>Entity Relationship Graph</title>")
	assert.Contains(t, w.Body.String(), "1 relationships")
	assert.Contains(t, w.Body.String(), "/api/graph/")
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	router := setupRouter(t, nil, m)

	get(router, "/api/graph/")
	w := get(router, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `entity_graph_http_requests_total{method="GET",route="/api/graph/",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := get(router, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnlyGetIsServed(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/dataset/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdempotentResponses(t *testing.T) {
	router := setupRouter(t, []dataset.Record{
		row("a", "X", "P1", "b", "Y", "P2"),
		row("c", "Z", "P2", "d", "W", "P3"),
	}, nil)

	for _, path := range []string{"/api/dataset/", "/api/graph/", "/api/child-nodes/P2/", "/api/parent-connected-nodes/P2/"} {
		first := get(router, path).Body.String()
		second := get(router, path).Body.String()
		assert.Equal(t, first, second, path)
	}
}

func TestCORSHeader(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/graph/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBlankParentSegment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	handler := NewHandler(graph.NewDeriver(dataset.NewStore([]dataset.Record{
		row("a", "X", "", "b", "Y", ""),
		row("c", "X", "P1", "d", "Y", "P2"),
	})))
	handler.logger = zap.New(core)
	router := NewRouter(RouterConfig{Handler: handler, Logger: zap.NewNop()})

	w := get(router, "/api/child-nodes//")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["a/X","b/Y"]`, w.Body.String())

	w = get(router, "/api/parent-connected-nodes//")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	entries := logs.FilterMessage("Blank parent requested").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/api/child-nodes//", entries[0].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}
