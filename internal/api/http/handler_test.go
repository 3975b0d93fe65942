package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/agents"
	domain "github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	service "github.com/wujiachen1111/ragWithAgent-sub001/internal/services/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

// failingCaller simulates an unreachable reasoning gateway, forcing
// every agent onto its heuristic path
type failingCaller struct{}

func (c *failingCaller) StructuredJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, out interface{}) error {
	return errors.Wrap(errors.ErrTransport, "gateway down")
}

func newTestRouter() *http.ServeMux {
	graph := agents.NewGraph(&failingCaller{}, nil, nil, 10*time.Second)
	svc := service.NewService(graph, nil, 0, nil)
	return NewHandler(svc, nil, nil, "rag-analysis", "test").Router()
}

func TestExecuteLoosePayload(t *testing.T) {
	router := newTestRouter()

	body := `{"query": "chip maker beats earnings", "tickers": ["NVDA"], "horizon": "short"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/execute", bytes.NewBufferString(body))

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Decision)
	assert.Equal(t, domain.ActionBuy, resp.Decision.Action)
	assert.NotEmpty(t, resp.RequestID)
}

func TestExecuteEmptyTickersRejected(t *testing.T) {
	router := newTestRouter()

	body := `{"topic": "something happened", "symbols": []}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/execute", bytes.NewBufferString(body))

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestExecuteMalformedJSONRejected(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/execute", bytes.NewBufferString(`{nope`))

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status healthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "rag-analysis", status.Service)
	assert.Empty(t, status.Checks)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
