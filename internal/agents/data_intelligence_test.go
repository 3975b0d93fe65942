package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/sentiment"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

type stubSentiment struct {
	snap *sentiment.Snapshot
	err  error
}

func (s *stubSentiment) Snapshot(ctx context.Context, symbols []string, topic string) (*sentiment.Snapshot, error) {
	return s.snap, s.err
}

func TestDataIntelligenceAllSourcesFailed(t *testing.T) {
	agent := NewDataIntelligenceAgent(&failingCaller{}, nil)

	report, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.Empty(t, report.DataSourcesReliability)
	assert.Equal(t, 0.6, report.DataQualityScore)
	assert.NotNil(t, report.MarketAnomalies)
	assert.NotEmpty(t, report.CollectionTimestamp)
}

func TestDataIntelligenceSentimentServiceOnly(t *testing.T) {
	provider := &stubSentiment{snap: &sentiment.Snapshot{
		OverallSentiment: map[string]float64{"positive": 0.6},
		HotTopics:        []string{"earnings"},
		DataQuality:      0.9,
		TotalProcessed:   42,
	}}
	agent := NewDataIntelligenceAgent(&failingCaller{}, provider)

	report, origin := agent.Analyze(context.Background(), shortRequest())

	// one source answered, so the round still counts as structured
	assert.Equal(t, OriginStructured, origin)
	require.Contains(t, report.DataSourcesReliability, "news_sentiment")
	assert.Equal(t, 0.7, report.DataSourcesReliability["news_sentiment"])
	assert.NotContains(t, report.DataSourcesReliability, "market_data")
	assert.NotContains(t, report.DataSourcesReliability, "financial_metrics")
	assert.Equal(t, map[string]float64{"positive": 0.6}, report.SentimentIndicators["overall_sentiment"])
}

func TestDataIntelligenceSentimentFailureDegradesToGateway(t *testing.T) {
	provider := &stubSentiment{err: errors.Wrap(errors.ErrUnavailable, "down")}
	agent := NewDataIntelligenceAgent(&failingCaller{}, provider)

	report, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.NotContains(t, report.DataSourcesReliability, "news_sentiment")
}

func TestDataIntelligenceStructuredRound(t *testing.T) {
	agent := NewDataIntelligenceAgent(&fixtureCaller{payload: map[string]interface{}{
		"assessment": "stable",
		"anomalies":  []string{"unusual call volume"},
		"score":      0.8,
	}}, nil)

	report, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginStructured, origin)
	assert.Len(t, report.DataSourcesReliability, 4)
	assert.Equal(t, 0.9, report.DataSourcesReliability["market_data"])
	assert.Equal(t, 0.85, report.DataSourcesReliability["financial_metrics"])
	assert.Equal(t, 0.8, report.DataSourcesReliability["technical_indicators"])
	assert.Equal(t, []string{"unusual call volume"}, report.MarketAnomalies)
	assert.Equal(t, 0.8, report.DataQualityScore)
}
