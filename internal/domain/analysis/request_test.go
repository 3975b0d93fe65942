package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

func TestParseInboundCanonical(t *testing.T) {
	req, err := ParseInbound([]byte(`{
		"topic": "Chip maker beats earnings",
		"symbols": ["NVDA"],
		"time_horizon": "short",
		"risk_appetite": "aggressive"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Chip maker beats earnings", req.Topic)
	assert.Equal(t, []string{"NVDA"}, req.Symbols)
	assert.Equal(t, HorizonShort, req.TimeHorizon)
	assert.Equal(t, AppetiteAggressive, req.RiskAppetite)
	assert.NotEmpty(t, req.RequestID)
}

func TestParseInboundLooseShape(t *testing.T) {
	req, err := ParseInbound([]byte(`{
		"query": "Is the sell-off overdone?",
		"tickers": ["AAPL", "MSFT"],
		"horizon": "long",
		"risk": "conservative"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Is the sell-off overdone?", req.Topic)
	assert.Equal(t, "Is the sell-off overdone?", req.Content)
	assert.Equal(t, []string{"AAPL", "MSFT"}, req.Symbols)
	assert.Equal(t, HorizonLong, req.TimeHorizon)
	assert.Equal(t, AppetiteConservative, req.RiskAppetite)
}

func TestParseInboundEmptySymbolsRejected(t *testing.T) {
	_, err := ParseInbound([]byte(`{"topic": "something happened", "symbols": []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestParseInboundMissingTopicRejected(t *testing.T) {
	_, err := ParseInbound([]byte(`{"symbols": ["TSLA"]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestParseInboundMalformedJSON(t *testing.T) {
	_, err := ParseInbound([]byte(`{nope`))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestNormalizePermissiveDefaults(t *testing.T) {
	req := Request{
		Topic:        "Merger rumor",
		Symbols:      []string{" TSLA ", "", "F"},
		TimeHorizon:  "sometime",
		RiskAppetite: "yolo",
	}
	req.Normalize()

	assert.Equal(t, HorizonMedium, req.TimeHorizon)
	assert.Equal(t, AppetiteBalanced, req.RiskAppetite)
	assert.Equal(t, []string{"TSLA", "F"}, req.Symbols)
	assert.Equal(t, "Merger rumor", req.Headline)
	assert.Equal(t, "Merger rumor", req.Content)
	assert.Equal(t, 1, req.MaxIterations)
	assert.NotEmpty(t, req.RequestID)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	req := Request{
		Topic:         "Guidance cut",
		Headline:      "Company cuts guidance",
		Content:       "Full story body",
		Symbols:       []string{"XYZ"},
		TimeHorizon:   HorizonLong,
		RiskAppetite:  AppetiteConservative,
		MaxIterations: 3,
		RequestID:     "req-1",
	}
	req.Normalize()

	assert.Equal(t, "Company cuts guidance", req.Headline)
	assert.Equal(t, "Full story body", req.Content)
	assert.Equal(t, HorizonLong, req.TimeHorizon)
	assert.Equal(t, AppetiteConservative, req.RiskAppetite)
	assert.Equal(t, 3, req.MaxIterations)
	assert.Equal(t, "req-1", req.RequestID)
}

func TestContentPrefixRuneSafe(t *testing.T) {
	req := Request{Content: strings.Repeat("界", 30)}
	prefix := req.ContentPrefix(10)
	assert.Equal(t, strings.Repeat("界", 10), prefix)

	req.Content = "short"
	assert.Equal(t, "short", req.ContentPrefix(10))
}

func TestHeadlineOrTopic(t *testing.T) {
	req := Request{Topic: "topic only"}
	assert.Equal(t, "topic only", req.HeadlineOrTopic())

	req.Headline = "the headline"
	assert.Equal(t, "the headline", req.HeadlineOrTopic())
}

func TestRegionOrNA(t *testing.T) {
	req := Request{}
	assert.Equal(t, "N/A", req.RegionOrNA())
	req.Region = "US"
	assert.Equal(t, "US", req.RegionOrNA())
}
