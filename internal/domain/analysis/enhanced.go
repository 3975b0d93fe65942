package analysis

// DataIntelligenceReport aggregates the data specialist's multi-source
// collection round. Reliability entries exist only for sources that were
// actually available in this run; an unavailable source is omitted rather
// than defaulted to a misleading value.
type DataIntelligenceReport struct {
	MarketSnapshot         map[string]interface{} `json:"market_snapshot"`
	SentimentIndicators    map[string]interface{} `json:"sentiment_indicators"`
	KeyFinancialMetrics    map[string]interface{} `json:"key_financial_metrics"`
	MarketAnomalies        []string               `json:"market_anomalies"`
	DataQualityScore       float64                `json:"data_quality_score"`
	DataSourcesReliability map[string]float64     `json:"data_sources_reliability"`
	CollectionTimestamp    string                 `json:"collection_timestamp"`
}

// CoherenceRisk measures whether the core findings point in conflicting
// directions. All fields read "unknown" when no FindingsBundle was
// available to the risk controller.
type CoherenceRisk struct {
	ConsensusLevel     string   `json:"consensus_level"`
	ConfidenceVariance string   `json:"confidence_variance"`
	LogicalConflicts   []string `json:"logical_conflicts"`
	CognitiveBiases    []string `json:"cognitive_biases"`
}

// UnknownCoherenceRisk is the explicit placeholder used when the bundle is
// missing; coherence is unknown, not zero.
func UnknownCoherenceRisk() CoherenceRisk {
	return CoherenceRisk{
		ConsensusLevel:     "unknown",
		ConfidenceVariance: "unknown",
		LogicalConflicts:   []string{},
		CognitiveBiases:    []string{},
	}
}

// StressScenario is one entry of the risk controller's stress test
type StressScenario struct {
	ScenarioName      string  `json:"scenario_name"`
	Probability       float64 `json:"probability"`
	ImpactDescription string  `json:"impact_description"`
	ExpectedLoss      float64 `json:"expected_loss"`
}

// RiskControlAssessment is the independent risk controller's report
type RiskControlAssessment struct {
	OverallRiskScore      float64                `json:"overall_risk_score"`
	MarketRisk            map[string]interface{} `json:"market_risk_metrics"`
	LiquidityRisk         map[string]interface{} `json:"liquidity_risk_assessment"`
	ConcentrationRisk     map[string]interface{} `json:"concentration_risk_analysis"`
	RegulatoryCompliance  map[string]interface{} `json:"regulatory_compliance_check"`
	DecisionCoherenceRisk CoherenceRisk          `json:"decision_coherence_risk"`
	Recommendations       []string               `json:"risk_control_recommendations"`
	StressScenarios       []StressScenario       `json:"stress_test_scenarios"`
	LimitBreachAlerts     []string               `json:"risk_limits_breach_alerts"`
	AssessmentTimestamp   string                 `json:"assessment_timestamp"`
}

// RiskRecord is a structured global risk entry produced by the macro
// strategist's sub-analyses before flattening
type RiskRecord struct {
	RiskType             string   `json:"risk_type"`
	Probability          float64  `json:"probability"`
	ImpactLevel          string   `json:"impact_level"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// MacroStrategicView composes the macro strategist's five sub-analyses
// into one view
type MacroStrategicView struct {
	MacroEconomicBackdrop   map[string]interface{} `json:"macro_economic_backdrop"`
	PolicyRegimeAnalysis    map[string]interface{} `json:"policy_regime_analysis"`
	CrossMarketCorrelations map[string]interface{} `json:"cross_market_correlations"`
	SecularTrendAssessment  map[string]interface{} `json:"secular_trend_assessment"`
	StrategicMarketOutlook  map[string]interface{} `json:"strategic_market_outlook"`
	RegimeChangeIndicators  []string               `json:"regime_change_indicators"`
	GlobalRiskFactors       []string               `json:"global_risk_factors"`
	CurrencyImpactAnalysis  map[string]interface{} `json:"currency_impact_analysis"`
	AnalysisTimestamp       string                 `json:"analysis_timestamp"`
}

// EnhancedReports carries the three supplementary reports. Each may be
// absent without aborting the run.
type EnhancedReports struct {
	DataIntelligence *DataIntelligenceReport `json:"data_intelligence,omitempty"`
	RiskControl      *RiskControlAssessment  `json:"risk_control,omitempty"`
	MacroStrategic   *MacroStrategicView     `json:"macro_strategic,omitempty"`
}
