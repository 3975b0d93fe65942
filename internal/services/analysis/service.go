// Package analysis exposes the single entry point of the engine: accept
// a request, run the orchestration graph, return the assembled response.
package analysis

import (
	"context"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/redis"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/agents"
	domain "github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/metrics"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Service coordinates validation, caching and graph execution
type Service struct {
	graph   *agents.Graph
	cache   *responseCache
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewService creates the analysis service. The redis client is optional;
// without one responses are simply not cached.
func NewService(graph *agents.Graph, redisClient *redis.Client, cacheTTL time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		graph:   graph,
		cache:   newResponseCache(redisClient, cacheTTL),
		metrics: m,
		log:     logger.Get().With("component", "analysis_service"),
	}
}

// Execute runs one analysis end to end. The only error callers see is a
// client-input error from validation or an internal assembly violation;
// upstream degradation is absorbed into the response itself.
func (s *Service) Execute(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	started := time.Now()

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.RecordRun("invalid_input", time.Since(started))
		return nil, err
	}

	if cached, ok := s.cache.get(ctx, req); ok {
		s.metrics.RecordCache("hit")
		s.log.Infow("Serving cached response", "request_id", req.RequestID)
		cached.RequestID = req.RequestID
		return cached, nil
	}
	s.metrics.RecordCache("miss")

	resp, err := s.graph.Run(ctx, req)
	if err != nil {
		s.metrics.RecordRun("error", time.Since(started))
		return nil, err
	}

	s.cache.set(ctx, req, resp)
	s.metrics.RecordRun("ok", time.Since(started))
	return resp, nil
}
