package analysis

// Response is the terminal artifact of one run, constructed once during
// assembly and returned to the caller. Findings and Decision are nil only
// when the core stage could not run at all; a Decision is never present
// without its Findings.
type Response struct {
	Success                bool             `json:"success"`
	Message                string           `json:"message"`
	RequestID              string           `json:"request_id,omitempty"`
	Findings               *FindingsBundle  `json:"findings,omitempty"`
	Decision               *Decision        `json:"decision,omitempty"`
	Enhanced               *EnhancedReports `json:"enhanced_reports,omitempty"`
	RiskAdjustedConfidence float64          `json:"risk_adjusted_confidence"`
	DurationSeconds        float64          `json:"analysis_duration_seconds"`
	DataQualityScore       float64          `json:"data_quality_score"`
}
