// Package http exposes the service's HTTP surface: the analysis
// endpoint, health and prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	domain "github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/metrics"
	service "github.com/wujiachen1111/ragWithAgent-sub001/internal/services/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// HealthChecker reports the readiness of an optional dependency
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler holds the HTTP endpoints
type Handler struct {
	service *service.Service
	metrics *metrics.Metrics
	redis   HealthChecker
	appName string
	version string
	log     *logger.Logger
}

// NewHandler creates the HTTP handler. redis may be nil.
func NewHandler(svc *service.Service, m *metrics.Metrics, redis HealthChecker, appName, version string) *Handler {
	return &Handler{
		service: svc,
		metrics: m,
		redis:   redis,
		appName: appName,
		version: version,
		log:     logger.Get().With("component", "http_handler"),
	}
}

// Router builds the route table
func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/analysis/execute", h.execute)
	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /metrics", h.metrics.Handler())
	return mux
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "read request body failed")
		return
	}

	req, err := domain.ParseInbound(body)
	if err != nil {
		h.log.Warnf("Rejected request: %v", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Errorf("Analysis run failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type healthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:    "healthy",
		Service:   h.appName,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.redis != nil {
		status.Checks = map[string]string{"redis": "ok"}
		if err := h.redis.Health(r.Context()); err != nil {
			status.Checks["redis"] = err.Error()
			status.Status = "degraded"
		}
	}

	// The cache is optional, so a degraded check still reports 200
	h.writeJSON(w, http.StatusOK, status)
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, errorBody{Success: false, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Write response failed: %v", err)
	}
}
