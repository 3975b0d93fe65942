package agents

import (
	"context"
	"fmt"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// QuantImpactAgent estimates the event's first-order effect on the
// company model: affected statement line, magnitude bucket, KPI shifts.
type QuantImpactAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewQuantImpactAgent creates the first-order impact quant
func NewQuantImpactAgent(llm reasoning.Caller) *QuantImpactAgent {
	return &QuantImpactAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleQuant),
	}
}

// Analyze produces the quant finding; never fails outward
func (a *QuantImpactAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.QuantImpact, Origin) {
	finding, err := a.tryStructured(ctx, req)
	if err != nil {
		a.log.Warnf("Structured analysis failed, using heuristic: %v", err)
		return a.heuristic(req), OriginFallback
	}
	return finding, OriginStructured
}

func (a *QuantImpactAgent) tryStructured(ctx context.Context, req *analysis.Request) (analysis.QuantImpact, error) {
	system := "You are a sell-side quant who must size the event's first-order impact " +
		"on the company model as fast as possible. State: the affected line (P&L/BS/CF), " +
		"the magnitude bucket (millions/tens_of_millions/hundreds_of_millions), " +
		"key KPI percentage shifts (kpi_shifts_pct), and whether the effect is recurring. " +
		"Return JSON only."

	user := fmt.Sprintf(
		"Event: %s\nBody: %s\nSymbols: %s; Region: %s; Horizon: %s\n"+
			"Estimate from historical comparables and elasticity assumptions; "+
			"when data is thin, give a conservative estimate with reasoning.",
		req.Topic, req.ContentPrefix(contentPrefixRunes),
		req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)

	var finding analysis.QuantImpact
	if err := a.llm.StructuredJSON(ctx, system, user, 0.1, &finding); err != nil {
		return finding, err
	}
	if err := finding.Validate(); err != nil {
		return finding, err
	}
	return finding, nil
}

// heuristic assumes a mid-size P&L effect; anything beyond a short
// horizon is treated as recurring.
func (a *QuantImpactAgent) heuristic(req *analysis.Request) analysis.QuantImpact {
	return analysis.QuantImpact{
		PnlLine:   "P&L",
		Magnitude: analysis.MagnitudeTensOfMillions,
		KPIShiftsPct: map[string]float64{
			"revenue_pct": 1.5,
			"eps_pct":     0.5,
		},
		Recurring: req.TimeHorizon != analysis.HorizonShort,
	}
}
