package agents

import (
	"context"
	"fmt"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// NarrativeAgent scores how well the event's story spreads: virality,
// emotional spread, simplicity, counter-intuitiveness, conflict.
type NarrativeAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewNarrativeAgent creates the narrative arbitrageur
func NewNarrativeAgent(llm reasoning.Caller) *NarrativeAgent {
	return &NarrativeAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleNarrative),
	}
}

// Analyze produces the narrative finding. It always returns a value: on
// any upstream failure the deterministic heuristic fills it in instead.
func (a *NarrativeAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.NarrativeFinding, Origin) {
	finding, err := a.tryStructured(ctx, req)
	if err != nil {
		a.log.Warnf("Structured analysis failed, using heuristic: %v", err)
		return a.heuristic(req), OriginFallback
	}
	return finding, OriginStructured
}

func (a *NarrativeAgent) tryStructured(ctx context.Context, req *analysis.Request) (analysis.NarrativeFinding, error) {
	system := "You are a Wall Street narrative investor who rates how well a story " +
		"spreads and how it moves markets. Score along virality, sentiment spread, " +
		"narrative simplicity, counter-intuitiveness and conflict. Return JSON only " +
		"with fields: one_liner, meme_potential, influencers_take, lifecycle_days, priced_in."

	user := fmt.Sprintf(
		"Topic: %s\nHeadline: %s\nBody: %s\nSymbols: %s\nRegion: %s; Horizon: %s\n"+
			"Output constraints: meme_potential in [0,1]; influencers_take has 2-4 entries; "+
			"lifecycle_days is an integer; priced_in is a boolean.",
		req.Topic, req.HeadlineOrTopic(), req.ContentPrefix(contentPrefixRunes),
		req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)

	var finding analysis.NarrativeFinding
	if err := a.llm.StructuredJSON(ctx, system, user, 0.1, &finding); err != nil {
		return finding, err
	}
	if err := finding.Validate(); err != nil {
		return finding, err
	}
	return finding, nil
}

// heuristic is a pure function of the request: short horizons travel
// better on social feeds, so they score higher and burn out faster.
func (a *NarrativeAgent) heuristic(req *analysis.Request) analysis.NarrativeFinding {
	memePotential := 0.5
	lifecycleDays := 10
	if req.TimeHorizon == analysis.HorizonShort {
		memePotential = 0.7
		lifecycleDays = 3
	}

	return analysis.NarrativeFinding{
		OneLiner:      truncateOneLiner(req.HeadlineOrTopic()),
		MemePotential: memePotential,
		InfluencersTake: []string{
			"Influencer read: strong story, travels well on social feeds",
			"Watch: whether the topic can sustain repeat coverage",
		},
		LifecycleDays: lifecycleDays,
		PricedIn:      false,
	}
}
