// Package bootstrap wires the service's dependencies in initialization
// order and owns the HTTP server lifecycle.
package bootstrap

import (
	"context"
	"net/http"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/config"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/redis"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/sentiment"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/agents"
	apihttp "github.com/wujiachen1111/ragWithAgent-sub001/internal/api/http"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/metrics"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/services/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Container holds the wired application
type Container struct {
	cfg    *config.Config
	redis  *redis.Client
	server *http.Server
	log    *logger.Logger
}

// New wires all dependencies. Optional collaborators degrade instead of
// aborting startup: a missing redis disables caching, a disabled
// sentiment service leaves that collection leg on the gateway.
func New(cfg *config.Config) (*Container, error) {
	log := logger.Get().With("component", "bootstrap")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, continuing without cache: %v", err)
		} else {
			redisClient = client
			log.Infof("Redis connected at %s", cfg.Redis.Addr())
		}
	}

	var provider sentiment.Provider
	if cfg.Sentiment.Enabled {
		provider = sentiment.NewClient(cfg.Sentiment)
	}

	m := metrics.New("rag_analysis")
	llm := reasoning.NewClient(cfg.Reasoning)
	graph := agents.NewGraph(llm, provider, m, cfg.Analysis.RunTimeout)

	cacheTTL := cfg.Analysis.CacheTTL
	if !cfg.Analysis.CacheEnabled {
		cacheTTL = 0
	}
	svc := analysis.NewService(graph, redisClient, cacheTTL, m)

	var health apihttp.HealthChecker
	if redisClient != nil {
		health = redisClient
	}
	handler := apihttp.NewHandler(svc, m, health, cfg.App.Name, cfg.App.Version)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Container{
		cfg:    cfg,
		redis:  redisClient,
		server: server,
		log:    log,
	}, nil
}

// Run starts the HTTP server and blocks until it stops
func (c *Container) Run() error {
	c.log.Infof("HTTP server listening on %s", c.server.Addr)
	if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server and closes held resources
func (c *Container) Shutdown(ctx context.Context) error {
	c.log.Info("Shutting down")

	err := c.server.Shutdown(ctx)

	if c.redis != nil {
		if cerr := c.redis.Close(); cerr != nil {
			c.log.Warnf("Redis close failed: %v", cerr)
		}
	}
	return err
}
