// Package reasoning adapts an OpenAI-compatible chat-completion gateway
// into a structured-JSON call. The client classifies failures into three
// kinds — transport, protocol, parse — and never retries: callers that can
// degrade fall back to a locally computed result instead.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/config"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

const completionSuffix = "/v1/chat/completions"

// jsonOnlyHint is appended to every user prompt so gateways that wrap JSON
// in prose still have a parseable core.
const jsonOnlyHint = "\n\nReturn a single JSON object only, with no commentary."

// Caller is the structured-reasoning capability agents depend on. The
// response body is unmarshaled into out, which doubles as the caller's
// expected-shape hint; field-level validation stays with the caller.
type Caller interface {
	StructuredJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, out interface{}) error
}

// Client talks to an OpenAI-compatible completion gateway
type Client struct {
	endpoint   string
	model      string
	maxTokens  int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// Ensure Client implements Caller
var _ Caller = (*Client)(nil)

// NewClient creates a gateway client from configuration
func NewClient(cfg config.ReasoningConfig) *Client {
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerMinute/60.0), burst)
	}

	return &Client{
		endpoint:   NormalizeEndpoint(cfg.GatewayURL),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		log:        logger.Get().With("component", "reasoning_client"),
	}
}

// Endpoint returns the normalized completion URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// NormalizeEndpoint canonicalizes a configured base URL into a completion
// endpoint. Accepted forms, checked in order: a full completion URL (kept
// as is), a gateway root ending in /v1, and a bare host. The completion
// suffix is appended exactly once.
func NormalizeEndpoint(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	switch {
	case strings.HasSuffix(base, completionSuffix):
		return base
	case strings.HasSuffix(base, "/v1"):
		return base + "/chat/completions"
	default:
		return base + completionSuffix
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// StructuredJSON sends a completion request and unmarshals the returned
// JSON object into out. It enforces the context deadline supplied by the
// caller and does not retry; retry policy, if any, belongs upstream.
func (c *Client) StructuredJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(errors.ErrTransport, err.Error())
		}
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt + jsonOnlyHint},
		},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal completion request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(errors.ErrTransport, "post %s: %v", c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.ErrTransport, "read completion response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(errors.ErrProtocol, "gateway status %d: %s",
			resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return errors.Wrap(errors.ErrParse, "unmarshal completion envelope")
	}
	if len(parsed.Choices) == 0 {
		return errors.Wrap(errors.ErrParse, "completion has no choices")
	}

	content := parsed.Choices[0].Message.Content
	if err := unmarshalObject(content, out); err != nil {
		return err
	}

	c.log.Debugf("Structured call completed (model=%s, duration=%v)", c.model, time.Since(start))
	return nil
}

// unmarshalObject decodes content into out. When the model wraps JSON in
// prose, the substring between the first '{' and the last '}' is retried.
func unmarshalObject(content string, out interface{}) error {
	if err := json.Unmarshal([]byte(content), out); err == nil {
		return nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return errors.Wrap(errors.ErrParse, "no JSON object in completion content")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), out); err != nil {
		return errors.Wrapf(errors.ErrParse, "decode completion content: %v", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
