package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/redis"
	domain "github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// responseCache stores completed responses keyed by the request's
// analytical identity. A nil *responseCache is valid and caches nothing.
type responseCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func newResponseCache(client *redis.Client, ttl time.Duration) *responseCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &responseCache{
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "response_cache"),
	}
}

// key hashes the fields that determine the analysis outcome. RequestID
// and free-text content length quirks stay out: two callers asking the
// same question share one entry.
func (c *responseCache) key(req *domain.Request) string {
	raw := strings.Join([]string{
		req.Topic,
		strings.Join(req.Symbols, ","),
		string(req.TimeHorizon),
		string(req.RiskAppetite),
		req.Region,
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return "analysis:response:" + hex.EncodeToString(sum[:])
}

func (c *responseCache) get(ctx context.Context, req *domain.Request) (*domain.Response, bool) {
	if c == nil {
		return nil, false
	}
	var resp domain.Response
	err := c.client.Get(ctx, c.key(req), &resp)
	if err != nil {
		if err != redis.ErrCacheMiss {
			c.log.Warnf("Cache read failed: %v", err)
		}
		return nil, false
	}
	return &resp, true
}

func (c *responseCache) set(ctx context.Context, req *domain.Request, resp *domain.Response) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, c.key(req), resp, c.ttl); err != nil {
		c.log.Warnf("Cache write failed: %v", err)
	}
}
