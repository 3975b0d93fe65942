package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Risk score bands driving recommendations and breach alerts
const (
	riskBandSevere  = 0.8
	riskBandWarning = 0.6
	riskBandNotice  = 0.4

	fallbackRiskScore = 0.5
)

// RiskControlAgent is the independent risk controller. It assesses the
// run across market, liquidity, concentration and regulatory dimensions
// and grades the coherence of the core findings.
type RiskControlAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewRiskControlAgent creates the risk controller
func NewRiskControlAgent(llm reasoning.Caller) *RiskControlAgent {
	return &RiskControlAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleRiskControl),
	}
}

// Analyze produces the risk assessment. The findings bundle is optional:
// without one the coherence dimension reads unknown instead of being
// guessed. Never fails outward.
func (a *RiskControlAgent) Analyze(ctx context.Context, req *analysis.Request, bundle *analysis.FindingsBundle) (analysis.RiskControlAssessment, Origin) {
	assessment, err := a.tryStructured(ctx, req)
	origin := OriginStructured
	if err != nil {
		a.log.Warnf("Structured assessment failed, using heuristic: %v", err)
		assessment = a.heuristic(req)
		origin = OriginFallback
	}

	assessment.DecisionCoherenceRisk = coherenceFromBundle(bundle)
	assessment.Recommendations = recommendationsFor(assessment.OverallRiskScore, req.RiskAppetite)
	assessment.LimitBreachAlerts = breachAlertsFor(assessment.OverallRiskScore)
	if len(assessment.StressScenarios) == 0 {
		assessment.StressScenarios = defaultStressScenarios()
	}
	assessment.AssessmentTimestamp = time.Now().UTC().Format(time.RFC3339)

	return assessment, origin
}

func (a *RiskControlAgent) tryStructured(ctx context.Context, req *analysis.Request) (analysis.RiskControlAssessment, error) {
	system := "You are an independent risk controller. Assess the proposed trade across " +
		"market, liquidity, concentration and regulatory dimensions. Return JSON only " +
		"with fields: overall_risk_score in [0,1], market_risk_metrics, " +
		"liquidity_risk_assessment, concentration_risk_analysis, " +
		"regulatory_compliance_check, stress_test_scenarios."

	user := fmt.Sprintf(
		"Event: %s\nSymbols: %s; Region: %s; Horizon: %s; Risk appetite: %s",
		req.Topic, req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon, req.RiskAppetite,
	)

	var assessment analysis.RiskControlAssessment
	if err := a.llm.StructuredJSON(ctx, system, user, 0.1, &assessment); err != nil {
		return assessment, err
	}
	if assessment.OverallRiskScore < 0 || assessment.OverallRiskScore > 1 {
		return assessment, fmt.Errorf("overall_risk_score %v out of range", assessment.OverallRiskScore)
	}
	return assessment, nil
}

// heuristic assumes medium risk with conservative dimension notes
func (a *RiskControlAgent) heuristic(req *analysis.Request) analysis.RiskControlAssessment {
	return analysis.RiskControlAssessment{
		OverallRiskScore: fallbackRiskScore,
		MarketRisk: map[string]interface{}{
			"volatility_regime": "unverified",
			"assessment":        "medium market risk assumed without live data",
		},
		LiquidityRisk: map[string]interface{}{
			"assessment": "symbol liquidity not verified this run",
		},
		ConcentrationRisk: map[string]interface{}{
			"symbol_count": len(req.Symbols),
			"assessment":   "single-event exposure, size positions accordingly",
		},
		RegulatoryCompliance: map[string]interface{}{
			"status": "no live compliance check performed",
		},
	}
}

// coherenceFromBundle grades whether the core findings agree. Without a
// bundle the answer is unknown, never fabricated.
func coherenceFromBundle(bundle *analysis.FindingsBundle) analysis.CoherenceRisk {
	if bundle == nil {
		return analysis.UnknownCoherenceRisk()
	}

	conflicts := []string{}
	if bundle.Narrative.PricedIn && bundle.Narrative.MemePotential >= 0.55 {
		conflicts = append(conflicts, "high meme potential on a story the narrative view calls priced in")
	}
	if bundle.Quant.Magnitude == analysis.MagnitudeHundredsOfMillions && len(bundle.Contrarian.DataValidityRisks) > 1 {
		conflicts = append(conflicts, "large quant estimate resting on unverified data")
	}

	consensus := "high"
	variance := "low"
	if len(conflicts) > 0 {
		consensus = "moderate"
		variance = "medium"
	}

	biases := []string{}
	if bundle.Narrative.MemePotential >= 0.7 {
		biases = append(biases, "availability bias toward a highly viral story")
	}

	return analysis.CoherenceRisk{
		ConsensusLevel:     consensus,
		ConfidenceVariance: variance,
		LogicalConflicts:   conflicts,
		CognitiveBiases:    biases,
	}
}

func recommendationsFor(score float64, appetite analysis.RiskAppetite) []string {
	switch {
	case score > riskBandSevere:
		return []string{
			"Reduce position size materially or stand aside",
			"Require corroborating data before execution",
		}
	case score > riskBandWarning:
		return []string{
			"Cap position size below standard allocation",
			"Set tight stop levels and review within one session",
		}
	case score > riskBandNotice:
		recs := []string{"Proceed with standard position sizing and monitoring"}
		if appetite == analysis.AppetiteConservative {
			recs = append(recs, "Conservative mandate: size below standard allocation")
		}
		return recs
	default:
		return []string{"Risk within normal bounds, standard controls apply"}
	}
}

func breachAlertsFor(score float64) []string {
	switch {
	case score > riskBandSevere:
		return []string{"SEVERE: overall risk score breaches the hard limit"}
	case score > riskBandWarning:
		return []string{"WARNING: overall risk score above the soft limit"}
	case score > riskBandNotice:
		return []string{"NOTICE: overall risk score elevated"}
	default:
		return []string{}
	}
}

func defaultStressScenarios() []analysis.StressScenario {
	return []analysis.StressScenario{
		{
			ScenarioName:      "broad market correction",
			Probability:       0.1,
			ImpactDescription: "Index drawdown drags the position regardless of the event thesis",
			ExpectedLoss:      0.15,
		},
		{
			ScenarioName:      "event reversal",
			Probability:       0.15,
			ImpactDescription: "Follow-up reporting contradicts the initial story",
			ExpectedLoss:      0.2,
		},
		{
			ScenarioName:      "liquidity squeeze",
			Probability:       0.05,
			ImpactDescription: "Spreads widen and exits become expensive during the unwind",
			ExpectedLoss:      0.1,
		},
	}
}
