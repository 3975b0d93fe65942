package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/reasoning"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/domain/analysis"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

// MacroStrategistAgent places the event in its macro context through
// five concurrent sub-analyses: economic backdrop, policy regime,
// cross-market correlations, secular trends and currency impact.
type MacroStrategistAgent struct {
	llm reasoning.Caller
	log *logger.Logger
}

// NewMacroStrategistAgent creates the macro strategist
func NewMacroStrategistAgent(llm reasoning.Caller) *MacroStrategistAgent {
	return &MacroStrategistAgent{
		llm: llm,
		log: logger.Get().With("agent", RoleMacroStrategist),
	}
}

// Analyze builds the macro view. Each sub-analysis degrades to its own
// placeholder independently; Origin is fallback only when all of them
// failed. Never fails outward.
func (a *MacroStrategistAgent) Analyze(ctx context.Context, req *analysis.Request) (analysis.MacroStrategicView, Origin) {
	view := analysis.MacroStrategicView{
		RegimeChangeIndicators: []string{},
		GlobalRiskFactors:      []string{},
		AnalysisTimestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
		ok int
	)

	sub := func(name, system string, fallback map[string]interface{}, dst *map[string]interface{}) {
		defer wg.Done()
		data, err := a.subAnalysis(ctx, system, req)
		if err != nil {
			a.log.Warnf("Sub-analysis %s failed, using placeholder: %v", name, err)
			data = fallback
		} else {
			mu.Lock()
			ok++
			mu.Unlock()
		}
		mu.Lock()
		*dst = data
		mu.Unlock()
	}

	wg.Add(5)
	go sub("macro_economic_backdrop",
		"You are a macro economist. Describe the economic backdrop relevant to the event: growth, inflation, rates cycle.",
		map[string]interface{}{"assessment": "macro backdrop unavailable this run"},
		&view.MacroEconomicBackdrop)
	go sub("policy_regime_analysis",
		"You are a policy analyst. Describe the monetary and fiscal policy regime bearing on the event.",
		map[string]interface{}{"assessment": "policy regime read unavailable this run"},
		&view.PolicyRegimeAnalysis)
	go sub("cross_market_correlations",
		"You are a cross-asset strategist. Describe the correlations between the affected symbols and rates, FX, commodities and credit.",
		map[string]interface{}{"assessment": "cross-market read unavailable this run"},
		&view.CrossMarketCorrelations)
	go sub("secular_trend_assessment",
		"You are a secular trend analyst. Place the event within the multi-year trends it touches.",
		map[string]interface{}{"assessment": "secular trend read unavailable this run"},
		&view.SecularTrendAssessment)
	go sub("currency_impact_analysis",
		"You are an FX strategist. Describe the currency exposure and likely FX impact of the event.",
		map[string]interface{}{"assessment": "currency read unavailable this run"},
		&view.CurrencyImpactAnalysis)

	wg.Wait()

	outlook, regimes, risks, err := a.strategicOutlook(ctx, req)
	if err != nil {
		a.log.Warnf("Strategic outlook failed, using placeholder: %v", err)
		view.StrategicMarketOutlook = map[string]interface{}{"assessment": "strategic outlook unavailable this run"}
		view.RegimeChangeIndicators = []string{}
		view.GlobalRiskFactors = []string{}
	} else {
		view.StrategicMarketOutlook = outlook
		view.RegimeChangeIndicators = regimes
		view.GlobalRiskFactors = FlattenRiskFactors(risks)
		ok++
	}

	if ok == 0 {
		return view, OriginFallback
	}
	return view, OriginStructured
}

func (a *MacroStrategistAgent) subAnalysis(ctx context.Context, system string, req *analysis.Request) (map[string]interface{}, error) {
	user := fmt.Sprintf(
		"Event: %s\nSymbols: %s; Region: %s; Horizon: %s\nReturn a flat JSON object of findings.",
		req.Topic, req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon,
	)
	var out map[string]interface{}
	if err := a.llm.StructuredJSON(ctx, system, user, 0.2, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// strategicOutlook composes the sub-analyses into the forward view plus
// the structured global risk list.
func (a *MacroStrategistAgent) strategicOutlook(ctx context.Context, req *analysis.Request) (map[string]interface{}, []string, []analysis.RiskRecord, error) {
	system := "You are the chief macro strategist composing a forward market view. " +
		"Return JSON only with fields: outlook (object), regime_change_indicators " +
		"(list of strings), global_risks (list of objects with risk_type, probability, " +
		"impact_level, mitigation_strategies)."

	user := fmt.Sprintf(
		"Event: %s\nSymbols: %s; Region: %s; Horizon: %s; Risk appetite: %s",
		req.Topic, req.JoinedSymbols(), req.RegionOrNA(), req.TimeHorizon, req.RiskAppetite,
	)

	var out struct {
		Outlook                map[string]interface{} `json:"outlook"`
		RegimeChangeIndicators []string               `json:"regime_change_indicators"`
		GlobalRisks            []analysis.RiskRecord  `json:"global_risks"`
	}
	if err := a.llm.StructuredJSON(ctx, system, user, 0.2, &out); err != nil {
		return nil, nil, nil, err
	}
	if out.Outlook == nil {
		out.Outlook = map[string]interface{}{}
	}
	if out.RegimeChangeIndicators == nil {
		out.RegimeChangeIndicators = []string{}
	}
	return out.Outlook, out.RegimeChangeIndicators, out.GlobalRisks, nil
}

// FlattenRiskFactors reduces structured risk records to their type
// labels, preserving the input order and any duplicates.
func FlattenRiskFactors(records []analysis.RiskRecord) []string {
	factors := make([]string, 0, len(records))
	for _, r := range records {
		factors = append(factors, r.RiskType)
	}
	return factors
}
