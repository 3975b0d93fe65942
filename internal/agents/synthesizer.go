package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Synthesizer reduces the four core findings to one trade decision. Like
// the agents it feeds on, it never fails outward: a degraded synthesis
// produces a conservative rule-based decision instead.
type Synthesizer struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewSynthesizer creates the chief synthesizer
func NewSynthesizer(llm reasoning.Caller) *Synthesizer {
	return &Synthesizer{
		llm: llm,
		log: logger.Get().With("agent", RoleSynthesizer),
	}
}

// Synthesize turns a complete findings bundle into a decision
func (s *Synthesizer) Synthesize(ctx context.Context, req *analysis.Request, bundle *analysis.FindingsBundle) (analysis.Decision, Origin) {
	decision, err := s.tryStructured(ctx, req, bundle)
	if err != nil {
		s.log.Warnf("Structured synthesis failed, using rule-based decision: %v", err)
		return s.ruleBased(bundle), OriginFallback
	}
	return decision, OriginStructured
}

func (s *Synthesizer) tryStructured(ctx context.Context, req *analysis.Request, bundle *analysis.FindingsBundle) (analysis.Decision, error) {
	system := "You are the chief investment officer. Weigh the four analyst findings " +
		"against each other, resolve their conflicts, and issue exactly one decision. " +
		"Return JSON only with fields: action (strong_buy/buy/hold/sell/strong_sell), " +
		"confidence in [0,1], rationale, key_drivers, risk_checks."

	findings, err := json.Marshal(bundle)
	if err != nil {
		return analysis.Decision{}, err
	}

	user := fmt.Sprintf(
		"Request: topic=%s; symbols=%s; horizon=%s; risk_appetite=%s\nFindings:\n%s",
		req.Topic, req.JoinedSymbols(), req.TimeHorizon, req.RiskAppetite, findings,
	)

	var decision analysis.Decision
	if err := s.llm.StructuredJSON(ctx, system, user, 0.1, &decision); err != nil {
		return decision, err
	}
	if err := decision.Validate(); err != nil {
		return decision, err
	}
	return decision, nil
}

// ruleBased is the deterministic synthesis: meme potential alone drives
// the action, confidence tracks its distance from the midpoint, clamped
// to [0.1, 0.9].
func (s *Synthesizer) ruleBased(bundle *analysis.FindingsBundle) analysis.Decision {
	mp := bundle.Narrative.MemePotential

	action := analysis.ActionHold
	if mp >= 0.55 {
		action = analysis.ActionBuy
	}

	confidence := 0.5 + (mp - 0.5)
	if confidence < 0.1 {
		confidence = 0.1
	}
	if confidence > 0.9 {
		confidence = 0.9
	}

	return analysis.Decision{
		Action:     action,
		Confidence: confidence,
		Rationale:  "Rule-based fallback synthesis: decision driven by narrative meme potential",
		KeyDrivers: []string{
			bundle.Narrative.OneLiner,
			"meme_potential=" + strconv.FormatFloat(mp, 'g', -1, 64),
		},
		RiskChecks: bundle.Contrarian.RedFlags,
	}
}
