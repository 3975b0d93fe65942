package agents

import (
	"context"
	"fmt"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// SecondOrderAgent traces the knock-on effects of the event one step
// beyond the company itself: competitors, regulators, supply chain,
// consumer behavior.
type SecondOrderAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewSecondOrderAgent creates the second-order effects strategist
func NewSecondOrderAgent(llm reasoning.Caller) *SecondOrderAgent {
	return &SecondOrderAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleSecondOrder),
	}
}

// Analyze produces the second-order finding; never fails outward
func (a *SecondOrderAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.SecondOrderEffects, Origin) {
	finding, err := a.tryStructured(ctx, req)
	if err != nil {
		a.log.Warnf("Structured analysis failed, using heuristic: %v", err)
		return a.heuristic(req), OriginFallback
	}
	return finding, OriginStructured
}

func (a *SecondOrderAgent) tryStructured(ctx context.Context, req *analysis.Request) (analysis.SecondOrderEffects, error) {
	system := "You are a macro strategist mapping the event's second-order effects: " +
		"likely competitor moves, regulatory watchpoints, supply chain shifts and " +
		"consumer behavior changes. Think one step past the obvious. Return JSON only " +
		"with fields: competitor_moves, regulatory_watchpoints, supply_chain_shift, " +
		"consumer_behavior_change."

	user := fmt.Sprintf(
		"Event: %s\nBody: %s\nSymbols: %s; Region: %s; Horizon: %s",
		req.Topic, req.ContentPrefix(contentPrefixRunes),
		req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)

	var finding analysis.SecondOrderEffects
	if err := a.llm.StructuredJSON(ctx, system, user, 0.2, &finding); err != nil {
		return finding, err
	}
	if err := finding.Validate(); err != nil {
		return finding, err
	}
	return finding, nil
}

// heuristic names the ripple effects that follow almost any material
// corporate event.
func (a *SecondOrderAgent) heuristic(req *analysis.Request) analysis.SecondOrderEffects {
	return analysis.SecondOrderEffects{
		CompetitorMoves: []string{
			"Competitors likely to respond with matching announcements or pricing",
		},
		RegulatoryWatchpoints: []string{
			"Disclosure and antitrust review risk if the event draws attention",
		},
		SupplyChainShift: []string{
			"Suppliers and channel partners may renegotiate terms",
		},
		ConsumerBehaviorChange: []string{
			"Short-lived demand shift while the story stays in the news cycle",
		},
	}
}
