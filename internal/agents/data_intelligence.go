package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/sentiment"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Source reliability weights, recorded only when the source answered
// in this run.
const (
	reliabilityMarketData = 0.9
	reliabilityNewsFeeds  = 0.7
	reliabilityFinancials = 0.85
	reliabilityTechnical  = 0.8
	fallbackDataQuality   = 0.6
)

// DataIntelligenceAgent runs the multi-source collection round: market
// snapshot, sentiment indicators, financial metrics and technical
// anomalies gathered concurrently, then graded for quality.
type DataIntelligenceAgent struct {
	llm       reasoning.Caller
	sentiment sentiment.Provider
	log       *logger.Logger
}

// NewDataIntelligenceAgent creates the data specialist. The sentiment
// provider is optional; when nil the sentiment leg runs on the gateway.
func NewDataIntelligenceAgent(llm reasoning.Caller, provider sentiment.Provider) *DataIntelligenceAgent {
	return &DataIntelligenceAgent{
		llm:       llm,
		sentiment: provider,
		log:       logger.Get().With("agent", RoleDataIntelligence),
	}
}

// Analyze gathers the report. Origin is fallback only when every
// collection leg failed; a partial report still counts as structured.
func (a *DataIntelligenceAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.DataIntelligenceReport, Origin) {
	report := analysis.DataIntelligenceReport{
		MarketAnomalies:        []string{},
		DataSourcesReliability: map[string]float64{},
		CollectionTimestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
		ok int
	)

	collect := func(name string, reliability float64, fn func(context.Context) (map[string]interface{}, error), dst *map[string]interface{}) {
		defer wg.Done()
		data, err := fn(ctx)
		if err != nil {
			a.log.Warnf("Collection leg %s failed: %v", name, err)
			return
		}
		mu.Lock()
		*dst = data
		report.DataSourcesReliability[name] = reliability
		ok++
		mu.Unlock()
	}

	wg.Add(3)
	go collect("market_data", reliabilityMarketData, func(ctx context.Context) (map[string]interface{}, error) {
		return a.collectJSON(ctx,
			"You are a market data specialist. Summarize the current market state for the "+
				"given symbols: price action, volume profile, volatility regime.",
			req)
	}, &report.MarketSnapshot)
	go collect("financial_metrics", reliabilityFinancials, func(ctx context.Context) (map[string]interface{}, error) {
		return a.collectJSON(ctx,
			"You are a fundamentals specialist. List the key financial metrics relevant "+
				"to the event: valuation, growth, margins, leverage.",
			req)
	}, &report.KeyFinancialMetrics)
	go collect("news_sentiment", reliabilityNewsFeeds, a.collectSentiment(req), &report.SentimentIndicators)

	wg.Add(1)
	go func() {
		defer wg.Done()
		anomalies, err := a.collectAnomalies(ctx, req)
		if err != nil {
			a.log.Warnf("Collection leg technical_indicators failed: %v", err)
			return
		}
		mu.Lock()
		report.MarketAnomalies = anomalies
		report.DataSourcesReliability["technical_indicators"] = reliabilityTechnical
		ok++
		mu.Unlock()
	}()

	wg.Wait()

	report.DataQualityScore = a.gradeQuality(ctx, &report)

	if ok == 0 {
		return report, OriginFallback
	}
	return report, OriginStructured
}

func (a *DataIntelligenceAgent) collectJSON(ctx context.Context, system string, req *analysis.Request) (map[string]interface{}, error) {
	user := fmt.Sprintf(
		"Event: %s\nSymbols: %s; Region: %s; Horizon: %s\nReturn a flat JSON object of findings.",
		req.Topic, req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)
	var out map[string]interface{}
	if err := a.llm.StructuredJSON(ctx, system, user, 0.1, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectSentiment prefers the live sentiment service; without one the
// leg degrades to a gateway read.
func (a *DataIntelligenceAgent) collectSentiment(req *analysis.Request) func(context.Context) (map[string]interface{}, error) {
	return func(ctx context.Context) (map[string]interface{}, error) {
		if a.sentiment != nil {
			snap, err := a.sentiment.Snapshot(ctx, req.Symbols, req.Topic)
			if err == nil {
				return map[string]interface{}{
					"overall_sentiment": snap.OverallSentiment,
					"hot_topics":        snap.HotTopics,
					"source_quality":    snap.DataQuality,
					"items_processed":   snap.TotalProcessed,
				}, nil
			}
			a.log.Warnf("Sentiment service unavailable, degrading to gateway read: %v", err)
		}
		return a.collectJSON(ctx,
			"You are a news sentiment analyst. Summarize market sentiment around the "+
				"event: overall tone, dispersion, notable narratives.",
			req)
	}
}

func (a *DataIntelligenceAgent) collectAnomalies(ctx context.Context, req *analysis.Request) ([]string, error) {
	user := fmt.Sprintf(
		"Event: %s\nSymbols: %s\nReturn JSON: {\"anomalies\": [\"...\"]} listing unusual "+
			"technical signals; empty list when nothing stands out.",
		req.Topic, req.JoinedSymbols(),
	)
	var out struct {
		Anomalies []string `json:"anomalies"`
	}
	if err := a.llm.StructuredJSON(ctx,
		"You are a technical analyst scanning for market anomalies around the event.",
		user, 0.1, &out); err != nil {
		return nil, err
	}
	if out.Anomalies == nil {
		out.Anomalies = []string{}
	}
	return out.Anomalies, nil
}

// gradeQuality asks the gateway to score the collected report; on
// failure the fixed mid-grade applies.
func (a *DataIntelligenceAgent) gradeQuality(ctx context.Context, report *analysis.DataIntelligenceReport) float64 {
	user := fmt.Sprintf(
		"Sources answered: %d of 4 (%v). Return JSON: {\"score\": x} with x in [0,1] "+
			"grading completeness and reliability of this collection round.",
		len(report.DataSourcesReliability), report.DataSourcesReliability,
	)
	var out struct {
		Score float64 `json:"score"`
	}
	err := a.llm.StructuredJSON(ctx,
		"You are a data quality auditor grading a collection round.", user, 0.0, &out)
	if err != nil || out.Score < 0 || out.Score > 1 {
		return fallbackDataQuality
	}
	return out.Score
}
