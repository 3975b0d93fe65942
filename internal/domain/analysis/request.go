// Package analysis holds the shared data model of one analysis run: the
// immutable request, the per-role findings, the synthesized decision, the
// enhanced reports and the response envelope.
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

// TimeHorizon is the investment horizon of a request
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// RiskAppetite is the caller's stated risk tolerance
type RiskAppetite string

const (
	AppetiteConservative RiskAppetite = "conservative"
	AppetiteBalanced     RiskAppetite = "balanced"
	AppetiteAggressive   RiskAppetite = "aggressive"
)

var validate = validator.New()

// Request is the immutable input of one analysis run. It is created once
// per inbound call and shared read-only by every agent.
type Request struct {
	Topic         string       `json:"topic" validate:"required"`
	Headline      string       `json:"headline,omitempty"`
	Content       string       `json:"content"`
	Symbols       []string     `json:"symbols" validate:"required,min=1,dive,required"`
	TimeHorizon   TimeHorizon  `json:"time_horizon" validate:"oneof=short medium long"`
	RiskAppetite  RiskAppetite `json:"risk_appetite" validate:"oneof=conservative balanced aggressive"`
	Region        string       `json:"region,omitempty"`
	MaxIterations int          `json:"max_iterations" validate:"min=1"`
	RequestID     string       `json:"request_id,omitempty"`
}

// Normalize applies the permissive defaults of the inbound contract:
// unknown enum values collapse to medium/balanced instead of rejecting,
// empty symbols are dropped, and a missing request id is generated.
func (r *Request) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Headline == "" {
		r.Headline = r.Topic
	}
	if r.Content == "" {
		r.Content = r.Topic
	}

	switch r.TimeHorizon {
	case HorizonShort, HorizonMedium, HorizonLong:
	default:
		r.TimeHorizon = HorizonMedium
	}
	switch r.RiskAppetite {
	case AppetiteConservative, AppetiteBalanced, AppetiteAggressive:
	default:
		r.RiskAppetite = AppetiteBalanced
	}

	symbols := make([]string, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	r.Symbols = symbols

	if r.MaxIterations < 1 {
		r.MaxIterations = 1
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// Validate checks the canonical request. Failures are client-input errors
// and never enter the orchestration graph.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%v", err)
	}
	return nil
}

// HeadlineOrTopic returns the headline, falling back to the topic
func (r *Request) HeadlineOrTopic() string {
	if r.Headline != "" {
		return r.Headline
	}
	return r.Topic
}

// ContentPrefix returns at most max runes of the content body, respecting
// the prompt token budget
func (r *Request) ContentPrefix(max int) string {
	runes := []rune(r.Content)
	if len(runes) <= max {
		return r.Content
	}
	return string(runes[:max])
}

// JoinedSymbols renders the symbol list for prompt embedding
func (r *Request) JoinedSymbols() string {
	return strings.Join(r.Symbols, ", ")
}

// RegionOrNA renders the optional region for prompt embedding
func (r *Request) RegionOrNA() string {
	if r.Region == "" {
		return "N/A"
	}
	return r.Region
}

// inboundRequest is the union of the canonical shape and the looser
// external shape (free-text query plus ticker list)
type inboundRequest struct {
	Request

	Query   string   `json:"query"`
	Tickers []string `json:"tickers"`
	Horizon string   `json:"horizon"`
	Risk    string   `json:"risk"`
}

// ParseInbound decodes an inbound payload in either the canonical or the
// loose external shape, adapts it into a canonical Request, and validates
// it. Any failure is a client-input error.
func ParseInbound(data []byte) (*Request, error) {
	var in inboundRequest
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode request: %v", err)
	}

	req := in.Request
	if req.Topic == "" {
		req.Topic = strings.TrimSpace(in.Query)
	}
	if req.Content == "" {
		req.Content = in.Query
	}
	if len(req.Symbols) == 0 {
		req.Symbols = in.Tickers
	}
	if req.TimeHorizon == "" {
		req.TimeHorizon = TimeHorizon(in.Horizon)
	}
	if req.RiskAppetite == "" {
		req.RiskAppetite = RiskAppetite(in.Risk)
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
