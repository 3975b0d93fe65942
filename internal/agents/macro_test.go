package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
)

func TestFlattenRiskFactorsPreservesOrder(t *testing.T) {
	records := []analysis.RiskRecord{
		{RiskType: "geopolitics", Probability: 0.3, ImpactLevel: "high"},
		{RiskType: "inflation", Probability: 0.5, ImpactLevel: "medium"},
	}

	assert.Equal(t, []string{"geopolitics", "inflation"}, FlattenRiskFactors(records))
}

func TestFlattenRiskFactorsKeepsDuplicates(t *testing.T) {
	records := []analysis.RiskRecord{
		{RiskType: "inflation"},
		{RiskType: "inflation"},
	}

	assert.Equal(t, []string{"inflation", "inflation"}, FlattenRiskFactors(records))
}

func TestFlattenRiskFactorsEmpty(t *testing.T) {
	assert.Empty(t, FlattenRiskFactors(nil))
	assert.NotNil(t, FlattenRiskFactors(nil))
}

func TestMacroAllSubAnalysesFailed(t *testing.T) {
	agent := NewMacroStrategistAgent(&failingCaller{})

	view, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.NotNil(t, view.MacroEconomicBackdrop)
	assert.NotNil(t, view.PolicyRegimeAnalysis)
	assert.NotNil(t, view.CrossMarketCorrelations)
	assert.NotNil(t, view.SecularTrendAssessment)
	assert.NotNil(t, view.CurrencyImpactAnalysis)
	assert.NotNil(t, view.StrategicMarketOutlook)
	assert.Empty(t, view.GlobalRiskFactors)
	assert.NotEmpty(t, view.AnalysisTimestamp)
}

func TestMacroStructuredGlobalRisks(t *testing.T) {
	agent := NewMacroStrategistAgent(&fixtureCaller{payload: map[string]interface{}{
		"outlook":                  map[string]interface{}{"stance": "cautious"},
		"regime_change_indicators": []string{"yield curve steepening"},
		"global_risks": []map[string]interface{}{
			{"risk_type": "geopolitics", "probability": 0.3, "impact_level": "high"},
			{"risk_type": "inflation", "probability": 0.5, "impact_level": "medium"},
		},
	}})

	view, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginStructured, origin)
	assert.Equal(t, []string{"geopolitics", "inflation"}, view.GlobalRiskFactors)
	assert.Equal(t, []string{"yield curve steepening"}, view.RegimeChangeIndicators)
}
