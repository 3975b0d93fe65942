package analysis

import (
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
)

// NarrativeFinding is the narrative arbitrageur's opinion: how well the
// story travels and how long it lives
type NarrativeFinding struct {
	OneLiner        string   `json:"one_liner"`
	MemePotential   float64  `json:"meme_potential"`
	InfluencersTake []string `json:"influencers_take"`
	LifecycleDays   int      `json:"lifecycle_days"`
	PricedIn        bool     `json:"priced_in"`
}

// Validate checks the role's required fields on a structured result
func (f *NarrativeFinding) Validate() error {
	if f.OneLiner == "" {
		return errors.NewValidationError("one_liner", "must not be empty", f.OneLiner)
	}
	if f.MemePotential < 0 || f.MemePotential > 1 {
		return errors.NewValidationError("meme_potential", "must be in [0,1]", f.MemePotential)
	}
	if f.LifecycleDays <= 0 {
		return errors.NewValidationError("lifecycle_days", "must be positive", f.LifecycleDays)
	}
	return nil
}

// Magnitude buckets for first-order impact estimates
const (
	MagnitudeMillions           = "millions"
	MagnitudeTensOfMillions     = "tens_of_millions"
	MagnitudeHundredsOfMillions = "hundreds_of_millions"
)

// QuantImpact is the sell-side quant's first-order estimate of the event's
// effect on the company model
type QuantImpact struct {
	PnlLine      string             `json:"pnl_line"`
	Magnitude    string             `json:"magnitude"`
	KPIShiftsPct map[string]float64 `json:"kpi_shifts_pct"`
	Recurring    bool               `json:"recurring"`
}

// Validate checks the role's required fields on a structured result
func (f *QuantImpact) Validate() error {
	if f.PnlLine == "" {
		return errors.NewValidationError("pnl_line", "must not be empty", f.PnlLine)
	}
	switch f.Magnitude {
	case MagnitudeMillions, MagnitudeTensOfMillions, MagnitudeHundredsOfMillions:
	default:
		return errors.NewValidationError("magnitude", "unknown magnitude bucket", f.Magnitude)
	}
	if f.KPIShiftsPct == nil {
		return errors.NewValidationError("kpi_shifts_pct", "must be present", nil)
	}
	return nil
}

// ContrarianRisk is the skeptic's checklist of reasons the market reaction
// may be wrong
type ContrarianRisk struct {
	RedFlags            []string `json:"red_flags"`
	DataValidityRisks   []string `json:"data_validity_risks"`
	OverreactionSignals []string `json:"overreaction_signals"`
}

// Validate checks the role's required fields on a structured result
func (f *ContrarianRisk) Validate() error {
	if f.RedFlags == nil {
		return errors.NewValidationError("red_flags", "must be present", nil)
	}
	if f.DataValidityRisks == nil {
		return errors.NewValidationError("data_validity_risks", "must be present", nil)
	}
	if f.OverreactionSignals == nil {
		return errors.NewValidationError("overreaction_signals", "must be present", nil)
	}
	return nil
}

// SecondOrderEffects is the strategist's view of knock-on effects across
// competitors, regulators, supply chains and consumers
type SecondOrderEffects struct {
	CompetitorMoves        []string `json:"competitor_moves"`
	RegulatoryWatchpoints  []string `json:"regulatory_watchpoints"`
	SupplyChainShift       []string `json:"supply_chain_shift"`
	ConsumerBehaviorChange []string `json:"consumer_behavior_change"`
}

// Validate checks the role's required fields on a structured result
func (f *SecondOrderEffects) Validate() error {
	if f.CompetitorMoves == nil {
		return errors.NewValidationError("competitor_moves", "must be present", nil)
	}
	if f.RegulatoryWatchpoints == nil {
		return errors.NewValidationError("regulatory_watchpoints", "must be present", nil)
	}
	if f.SupplyChainShift == nil {
		return errors.NewValidationError("supply_chain_shift", "must be present", nil)
	}
	if f.ConsumerBehaviorChange == nil {
		return errors.NewValidationError("consumer_behavior_change", "must be present", nil)
	}
	return nil
}

// FindingsBundle aggregates exactly one finding per core role for a single
// run. It is assembled once by the orchestration graph and never mutated
// after all four agents complete.
type FindingsBundle struct {
	Narrative   NarrativeFinding   `json:"narrative"`
	Quant       QuantImpact        `json:"quant"`
	Contrarian  ContrarianRisk     `json:"contrarian"`
	SecondOrder SecondOrderEffects `json:"second_order"`
}

// Action is the synthesized trade recommendation
type Action string

const (
	ActionStrongBuy  Action = "strong_buy"
	ActionBuy        Action = "buy"
	ActionHold       Action = "hold"
	ActionSell       Action = "sell"
	ActionStrongSell Action = "strong_sell"
)

// Valid reports whether a is one of the five allowed actions
func (a Action) Valid() bool {
	switch a {
	case ActionStrongBuy, ActionBuy, ActionHold, ActionSell, ActionStrongSell:
		return true
	}
	return false
}

// Decision is the single trade decision synthesized from a FindingsBundle
type Decision struct {
	Action     Action   `json:"action"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
	KeyDrivers []string `json:"key_drivers"`
	RiskChecks []string `json:"risk_checks"`
}

// Validate checks the decision invariants that hold on both the structured
// and the fallback synthesis path
func (d *Decision) Validate() error {
	if !d.Action.Valid() {
		return errors.NewValidationError("action", "unknown action", d.Action)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return errors.NewValidationError("confidence", "must be in [0,1]", d.Confidence)
	}
	return nil
}
