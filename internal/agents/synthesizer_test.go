package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
)

func bundleWithMeme(mp float64) *analysis.FindingsBundle {
	return &analysis.FindingsBundle{
		Narrative: analysis.NarrativeFinding{
			OneLiner:      "test story",
			MemePotential: mp,
			LifecycleDays: 3,
		},
		Contrarian: analysis.ContrarianRisk{
			RedFlags: []string{"unverified source"},
		},
	}
}

func TestRuleBasedSynthesisBuyAboveThreshold(t *testing.T) {
	s := NewSynthesizer(&failingCaller{})

	decision, origin := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(0.7))

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, analysis.ActionBuy, decision.Action)
	assert.InDelta(t, 0.7, decision.Confidence, 1e-9)
	assert.Equal(t, []string{"unverified source"}, decision.RiskChecks)
	assert.Contains(t, decision.KeyDrivers, "test story")
	assert.Contains(t, decision.KeyDrivers, "meme_potential=0.7")
	assert.NoError(t, decision.Validate())
}

func TestRuleBasedSynthesisHoldBelowThreshold(t *testing.T) {
	s := NewSynthesizer(&failingCaller{})

	decision, _ := s.Synthesize(context.Background(), mediumRequest(), bundleWithMeme(0.5))

	assert.Equal(t, analysis.ActionHold, decision.Action)
	assert.InDelta(t, 0.5, decision.Confidence, 1e-9)
}

func TestRuleBasedSynthesisExactThresholdBuys(t *testing.T) {
	s := NewSynthesizer(&failingCaller{})

	decision, _ := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(0.55))

	assert.Equal(t, analysis.ActionBuy, decision.Action)
}

func TestRuleBasedSynthesisConfidenceClamped(t *testing.T) {
	s := NewSynthesizer(&failingCaller{})

	low, _ := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(0.0))
	assert.InDelta(t, 0.1, low.Confidence, 1e-9)

	high, _ := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(1.0))
	assert.InDelta(t, 0.9, high.Confidence, 1e-9)
}

func TestStructuredSynthesis(t *testing.T) {
	s := NewSynthesizer(&fixtureCaller{payload: map[string]interface{}{
		"action":      "sell",
		"confidence":  0.65,
		"rationale":   "fundamentals deteriorating",
		"key_drivers": []string{"margin compression"},
		"risk_checks": []string{"short squeeze risk"},
	}})

	decision, origin := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(0.9))

	assert.Equal(t, OriginStructured, origin)
	assert.Equal(t, analysis.ActionSell, decision.Action)
	assert.Equal(t, 0.65, decision.Confidence)
}

func TestStructuredSynthesisInvalidActionFallsBack(t *testing.T) {
	s := NewSynthesizer(&fixtureCaller{payload: map[string]interface{}{
		"action":     "maybe_buy",
		"confidence": 0.65,
	}})

	decision, origin := s.Synthesize(context.Background(), shortRequest(), bundleWithMeme(0.7))

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, analysis.ActionBuy, decision.Action)
}
