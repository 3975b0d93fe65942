package agents

import (
	"context"
	"fmt"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// ContrarianAgent plays devil's advocate: it hunts for reasons the
// consensus reading of the event is wrong.
type ContrarianAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewContrarianAgent creates the contrarian skeptic
func NewContrarianAgent(llm reasoning.Caller) *ContrarianAgent {
	return &ContrarianAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleContrarian),
	}
}

// Analyze produces the contrarian finding; never fails outward
func (a *ContrarianAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.ContrarianRisk, Origin) {
	finding, err := a.tryStructured(ctx, req)
	if err != nil {
		a.log.Warnf("Structured analysis failed, using heuristic: %v", err)
		return a.heuristic(req), OriginFallback
	}
	return finding, OriginStructured
}

func (a *ContrarianAgent) tryStructured(ctx context.Context, req *analysis.Request) (analysis.ContrarianRisk, error) {
	system := "You are a contrarian hedge fund skeptic. Attack the mainstream reading " +
		"of the event: list red flags, data validity risks and signs the market is " +
		"overreacting. Be specific and falsifiable. Return JSON only with fields: " +
		"red_flags, data_validity_risks, overreaction_signals."

	user := fmt.Sprintf(
		"Event: %s\nBody: %s\nSymbols: %s; Region: %s; Horizon: %s",
		req.Topic, req.ContentPrefix(contentPrefixRunes),
		req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)

	var finding analysis.ContrarianRisk
	if err := a.llm.StructuredJSON(ctx, system, user, 0.1, &finding); err != nil {
		return finding, err
	}
	if err := finding.Validate(); err != nil {
		return finding, err
	}
	return finding, nil
}

// heuristic lists the generic checks that apply to any single-source
// event before the data has been verified.
func (a *ContrarianAgent) heuristic(req *analysis.Request) analysis.ContrarianRisk {
	return analysis.ContrarianRisk{
		RedFlags: []string{
			"Single-source story, not yet corroborated",
			"Headline may front-run the underlying filing",
		},
		DataValidityRisks: []string{
			"Primary source unverified",
			"Figures may be preliminary or restated later",
		},
		OverreactionSignals: []string{
			"Price move exceeds what the first-order numbers justify",
		},
	}
}
