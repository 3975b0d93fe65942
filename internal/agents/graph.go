package agents

import (
	"context"
	"sync"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/sentiment"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/metrics"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// Stage names the orchestration graph's states. Transitions are linear:
// each stage starts only after the previous one finished.
type Stage string

const (
	StageStart             Stage = "start"
	StageCoreAgentsRunning Stage = "core_agents_running"
	StageFindingsReady     Stage = "findings_ready"
	StageSynthesizing      Stage = "synthesizing"
	StageDecisionReady     Stage = "decision_ready"
	StageEnhancedRunning   Stage = "enhanced_running"
	StageAssembling        Stage = "assembling"
	StageDone              Stage = "done"
)

// trackedInvocations is the number of origin-tracked agent calls per
// run: four core agents, the synthesizer and three enhanced agents.
const trackedInvocations = 8

// Graph wires the fixed agent set into one run pipeline: core fan-out,
// synthesis, enhanced fan-out, assembly. The set is closed; adding a
// perspective means adding a field, not registering a plugin.
type Graph struct {
	narrative   *NarrativeAgent
	quant       *QuantImpactAgent
	contrarian  *ContrarianAgent
	secondOrder *SecondOrderAgent
	synthesizer *Synthesizer
	dataIntel   *DataIntelligenceAgent
	riskControl *RiskControlAgent
	macro       *MacroStrategistAgent

	metrics    *metrics.Metrics
	runTimeout time.Duration
	log        *logger.Logger
}

// NewGraph builds the graph with all agents sharing one reasoning caller
func NewGraph(llm reasoning.Caller, provider sentiment.Provider, m *metrics.Metrics, runTimeout time.Duration) *Graph {
	return &Graph{
		narrative:   NewNarrativeAgent(llm),
		quant:       NewQuantImpactAgent(llm),
		contrarian:  NewContrarianAgent(llm),
		secondOrder: NewSecondOrderAgent(llm),
		synthesizer: NewSynthesizer(llm),
		dataIntel:   NewDataIntelligenceAgent(llm, provider),
		riskControl: NewRiskControlAgent(llm),
		macro:       NewMacroStrategistAgent(llm),
		metrics:     m,
		runTimeout:  runTimeout,
		log:         logger.Get().With("component", "graph"),
	}
}

// runLedger tracks which path produced each agent's result. It feeds
// the data quality score and the fallback metrics, never the response
// body.
type runLedger struct {
	mu      sync.Mutex
	origins map[Role]Origin
}

func newRunLedger() *runLedger {
	return &runLedger{origins: make(map[Role]Origin, trackedInvocations)}
}

func (l *runLedger) record(role Role, origin Origin, m *metrics.Metrics) {
	l.mu.Lock()
	l.origins[role] = origin
	l.mu.Unlock()
	if origin == OriginFallback {
		m.RecordFallback(string(role))
	}
}

// structuredShare is the fraction of tracked invocations that completed
// on the structured path
func (l *runLedger) structuredShare() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	structured := 0
	for _, o := range l.origins {
		if o == OriginStructured {
			structured++
		}
	}
	return float64(structured) / float64(trackedInvocations)
}

// Run executes one full analysis. The returned error is non-nil only
// for an internal assembly violation; every upstream failure is already
// absorbed by the agents' heuristics, so a degraded run still returns a
// successful response.
func (g *Graph) Run(ctx context.Context, req *analysis.Request) (*analysis.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, g.runTimeout)
	defer cancel()

	started := time.Now()
	ledger := newRunLedger()
	log := g.log.With("request_id", req.RequestID)

	log.Infow("Analysis run starting", "stage", StageStart, "topic", req.Topic, "symbols", req.Symbols)

	log.Infow("Core agents fanning out", "stage", StageCoreAgentsRunning)
	bundle := g.runCore(ctx, req, ledger)
	log.Infow("Findings assembled", "stage", StageFindingsReady)

	log.Infow("Synthesizing decision", "stage", StageSynthesizing)
	decision, origin := g.synthesizer.Synthesize(ctx, req, bundle)
	ledger.record(RoleSynthesizer, origin, g.metrics)
	log.Infow("Decision ready", "stage", StageDecisionReady, "action", decision.Action, "confidence", decision.Confidence)

	log.Infow("Enhanced agents fanning out", "stage", StageEnhancedRunning)
	enhanced := g.runEnhanced(ctx, req, bundle, ledger)

	log.Infow("Assembling response", "stage", StageAssembling)
	resp, err := assemble(req, bundle, &decision, enhanced, ledger, time.Since(started))
	if err != nil {
		return nil, err
	}

	log.Infow("Analysis run finished", "stage", StageDone,
		"duration_seconds", resp.DurationSeconds, "data_quality", resp.DataQualityScore)
	return resp, nil
}

// runCore fans the four core agents out concurrently. Each goroutine
// writes its own slot of the bundle, so assembly needs no shared map.
func (g *Graph) runCore(ctx context.Context, req *analysis.Request, ledger *runLedger) *analysis.FindingsBundle {
	bundle := &analysis.FindingsBundle{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		finding, origin := g.narrative.Analyze(ctx, req)
		bundle.Narrative = finding
		ledger.record(RoleNarrative, origin, g.metrics)
	}()
	go func() {
		defer wg.Done()
		finding, origin := g.quant.Analyze(ctx, req)
		bundle.Quant = finding
		ledger.record(RoleQuant, origin, g.metrics)
	}()
	go func() {
		defer wg.Done()
		finding, origin := g.contrarian.Analyze(ctx, req)
		bundle.Contrarian = finding
		ledger.record(RoleContrarian, origin, g.metrics)
	}()
	go func() {
		defer wg.Done()
		finding, origin := g.secondOrder.Analyze(ctx, req)
		bundle.SecondOrder = finding
		ledger.record(RoleSecondOrder, origin, g.metrics)
	}()

	wg.Wait()
	return bundle
}

// runEnhanced fans the three enhanced agents out concurrently. The risk
// controller receives the real bundle; the others work from the request
// alone.
func (g *Graph) runEnhanced(ctx context.Context, req *analysis.Request, bundle *analysis.FindingsBundle, ledger *runLedger) *analysis.EnhancedReports {
	reports := &analysis.EnhancedReports{}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		report, origin := g.dataIntel.Analyze(ctx, req)
		reports.DataIntelligence = &report
		ledger.record(RoleDataIntelligence, origin, g.metrics)
	}()
	go func() {
		defer wg.Done()
		assessment, origin := g.riskControl.Analyze(ctx, req, bundle)
		reports.RiskControl = &assessment
		ledger.record(RoleRiskControl, origin, g.metrics)
	}()
	go func() {
		defer wg.Done()
		view, origin := g.macro.Analyze(ctx, req)
		reports.MacroStrategic = &view
		ledger.record(RoleMacroStrategist, origin, g.metrics)
	}()

	wg.Wait()
	return reports
}

// assemble constructs the terminal response. A decision without its
// findings violates the pipeline ordering and is the one condition that
// surfaces as an internal error.
func assemble(req *analysis.Request, bundle *analysis.FindingsBundle, decision *analysis.Decision, enhanced *analysis.EnhancedReports, ledger *runLedger, elapsed time.Duration) (*analysis.Response, error) {
	if decision != nil && bundle == nil {
		return nil, errors.Wrap(errors.ErrAssembly, "decision present without findings")
	}

	quality := ledger.structuredShare()
	if enhanced != nil && enhanced.DataIntelligence != nil {
		quality = (quality + enhanced.DataIntelligence.DataQualityScore) / 2
	}

	adjusted := decision.Confidence
	if enhanced != nil && enhanced.RiskControl != nil {
		if limit := 1 - enhanced.RiskControl.OverallRiskScore; limit < adjusted {
			adjusted = limit
		}
	}

	return &analysis.Response{
		Success:                true,
		Message:                "analysis complete",
		RequestID:              req.RequestID,
		Findings:               bundle,
		Decision:               decision,
		Enhanced:               enhanced,
		RiskAdjustedConfidence: adjusted,
		DurationSeconds:        elapsed.Seconds(),
		DataQualityScore:       quality,
	}, nil
}
