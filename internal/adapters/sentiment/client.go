// Package sentiment fetches pre-aggregated news-sentiment snapshots from
// the sentiment collaborator service. Access is best-effort: callers treat
// a failed fetch as a missing source, never as a run failure.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/config"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Snapshot is a pre-aggregated sentiment/market view keyed by the symbols
// and topic of one analysis request
type Snapshot struct {
	OverallSentiment map[string]float64 `json:"overall_sentiment"`
	HotTopics        []string           `json:"hot_topics"`
	DataQuality      float64            `json:"data_quality"`
	TotalProcessed   int                `json:"total_processed"`
}

// Provider is the read-only collaborator capability consumed by the
// data-intelligence agent
type Provider interface {
	Snapshot(ctx context.Context, symbols []string, topic string) (*Snapshot, error)
}

// Client fetches snapshots over HTTP
type Client struct {
	baseURL     string
	windowHours int
	limit       int
	httpClient  *http.Client
	log         *logger.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a sentiment collaborator client
func NewClient(cfg config.SentimentConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		windowHours: cfg.WindowHours,
		limit:       cfg.Limit,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         logger.Get().With("component", "sentiment_client"),
	}
}

// Snapshot retrieves the comprehensive sentiment snapshot for the request
// window. Symbols and topic are forwarded as filters; the collaborator may
// ignore them and return its global window.
func (c *Client) Snapshot(ctx context.Context, symbols []string, topic string) (*Snapshot, error) {
	params := url.Values{}
	params.Set("hours", fmt.Sprintf("%d", c.windowHours))
	params.Set("limit", fmt.Sprintf("%d", c.limit))
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}
	if topic != "" {
		params.Set("topic", topic)
	}

	endpoint := c.baseURL + "/api/news/comprehensive?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create snapshot request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "fetch sentiment snapshot: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUnavailable, "sentiment service status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnavailable, "read snapshot response")
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "decode snapshot: %v", err)
	}

	c.log.Debugf("Sentiment snapshot fetched (processed=%d, quality=%.2f)",
		snap.TotalProcessed, snap.DataQuality)
	return &snap, nil
}
