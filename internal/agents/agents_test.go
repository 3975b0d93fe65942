package agents

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

// failingCaller simulates an unreachable reasoning gateway
type failingCaller struct{}

func (c *failingCaller) StructuredJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, out interface{}) error {
	return errors.Wrap(errors.ErrTransport, "gateway down")
}

// fixtureCaller marshals a fixed payload into out, simulating a gateway
// that returns the same JSON object for every call
type fixtureCaller struct {
	payload interface{}
}

func (c *fixtureCaller) StructuredJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, out interface{}) error {
	data, err := json.Marshal(c.payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func shortRequest() *analysis.Request {
	req := &analysis.Request{
		Topic:       "Chip maker beats on earnings",
		Symbols:     []string{"NVDA"},
		TimeHorizon: analysis.HorizonShort,
	}
	req.Normalize()
	return req
}

func mediumRequest() *analysis.Request {
	req := &analysis.Request{
		Topic:       "Chip maker beats on earnings",
		Symbols:     []string{"NVDA"},
		TimeHorizon: analysis.HorizonMedium,
	}
	req.Normalize()
	return req
}

func TestNarrativeHeuristicShortHorizon(t *testing.T) {
	agent := NewNarrativeAgent(&failingCaller{})

	finding, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, 0.7, finding.MemePotential)
	assert.Equal(t, 3, finding.LifecycleDays)
	assert.False(t, finding.PricedIn)
	assert.NotEmpty(t, finding.OneLiner)
	assert.NoError(t, finding.Validate())
}

func TestNarrativeHeuristicMediumHorizon(t *testing.T) {
	agent := NewNarrativeAgent(&failingCaller{})

	finding, origin := agent.Analyze(context.Background(), mediumRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, 0.5, finding.MemePotential)
	assert.Equal(t, 10, finding.LifecycleDays)
}

func TestNarrativeHeuristicTruncatesOneLiner(t *testing.T) {
	req := &analysis.Request{
		Topic:       strings.Repeat("x", 80),
		Symbols:     []string{"XYZ"},
		TimeHorizon: analysis.HorizonShort,
	}
	req.Normalize()

	finding, _ := NewNarrativeAgent(&failingCaller{}).Analyze(context.Background(), req)

	assert.Len(t, []rune(finding.OneLiner), 50)
	assert.True(t, strings.HasSuffix(finding.OneLiner, "..."))
}

func TestNarrativeHeuristicDeterministic(t *testing.T) {
	agent := NewNarrativeAgent(&failingCaller{})
	req := shortRequest()

	first, _ := agent.Analyze(context.Background(), req)
	second, _ := agent.Analyze(context.Background(), req)

	assert.Equal(t, first, second)
}

func TestNarrativeStructuredPath(t *testing.T) {
	agent := NewNarrativeAgent(&fixtureCaller{payload: map[string]interface{}{
		"one_liner":        "big beat, bigger guide",
		"meme_potential":   0.85,
		"influencers_take": []string{"bulls pile in"},
		"lifecycle_days":   5,
		"priced_in":        false,
	}})

	finding, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginStructured, origin)
	assert.Equal(t, "big beat, bigger guide", finding.OneLiner)
	assert.Equal(t, 0.85, finding.MemePotential)
}

func TestNarrativeInvalidStructuredFallsBack(t *testing.T) {
	// meme_potential out of range fails validation, so the heuristic runs
	agent := NewNarrativeAgent(&fixtureCaller{payload: map[string]interface{}{
		"one_liner":      "broken",
		"meme_potential": 3.5,
		"lifecycle_days": 5,
	}})

	finding, origin := agent.Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, 0.7, finding.MemePotential)
}

func TestQuantHeuristic(t *testing.T) {
	agent := NewQuantImpactAgent(&failingCaller{})

	finding, origin := agent.Analyze(context.Background(), mediumRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, "P&L", finding.PnlLine)
	assert.Equal(t, analysis.MagnitudeTensOfMillions, finding.Magnitude)
	assert.Equal(t, 1.5, finding.KPIShiftsPct["revenue_pct"])
	assert.Equal(t, 0.5, finding.KPIShiftsPct["eps_pct"])
	assert.True(t, finding.Recurring)
	assert.NoError(t, finding.Validate())
}

func TestQuantHeuristicShortHorizonNotRecurring(t *testing.T) {
	finding, _ := NewQuantImpactAgent(&failingCaller{}).Analyze(context.Background(), shortRequest())
	assert.False(t, finding.Recurring)
}

func TestContrarianHeuristic(t *testing.T) {
	finding, origin := NewContrarianAgent(&failingCaller{}).Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.NotEmpty(t, finding.RedFlags)
	assert.NotEmpty(t, finding.DataValidityRisks)
	assert.NotEmpty(t, finding.OverreactionSignals)
	assert.NoError(t, finding.Validate())
}

func TestSecondOrderHeuristic(t *testing.T) {
	finding, origin := NewSecondOrderAgent(&failingCaller{}).Analyze(context.Background(), shortRequest())

	assert.Equal(t, OriginFallback, origin)
	assert.NotEmpty(t, finding.CompetitorMoves)
	assert.NotEmpty(t, finding.RegulatoryWatchpoints)
	assert.NotEmpty(t, finding.SupplyChainShift)
	assert.NotEmpty(t, finding.ConsumerBehaviorChange)
	assert.NoError(t, finding.Validate())
}

func TestTruncateOneLiner(t *testing.T) {
	assert.Equal(t, "short", truncateOneLiner("short"))

	long := strings.Repeat("a", 60)
	got := truncateOneLiner(long)
	require.Len(t, []rune(got), 50)
	assert.Equal(t, strings.Repeat("a", 47)+"...", got)

	exact := strings.Repeat("b", 50)
	assert.Equal(t, exact, truncateOneLiner(exact))
}
