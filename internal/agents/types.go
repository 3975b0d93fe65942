// Package agents implements the analyst roles and the orchestration graph
// that runs them. Every agent follows the same two-path contract: a
// structured call against the reasoning gateway, and a deterministic
// heuristic computed from the request alone when that call fails. Analyze
// never fails outward.
package agents

// Role identifies one analyst perspective. The set is closed; the graph
// holds a fixed list of these, not a dynamic registry.
type Role string

const (
	RoleNarrative        Role = "narrative_arbitrageur"
	RoleQuant            Role = "first_order_impact_quant"
	RoleContrarian       Role = "contrarian_skeptic"
	RoleSecondOrder      Role = "second_order_effects_strategist"
	RoleDataIntelligence Role = "data_intelligence_specialist"
	RoleRiskControl      Role = "risk_controller"
	RoleMacroStrategist  Role = "macro_strategist"
	RoleSynthesizer      Role = "chief_synthesizer"
)

// Origin reports which code path produced a result. It is recorded in logs
// and the run's quality ledger, never in the response body.
type Origin string

const (
	OriginStructured Origin = "structured"
	OriginFallback   Origin = "fallback"
)

// contentPrefixRunes bounds the content excerpt embedded in prompts
const contentPrefixRunes = 2000

// truncateOneLiner shortens a headline to a 50-rune one-liner
func truncateOneLiner(s string) string {
	runes := []rune(s)
	if len(runes) <= 50 {
		return s
	}
	return string(runes[:47]) + "..."
}
