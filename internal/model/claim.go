package model

// FactCheckRequest is the body posted to the /fact-check endpoint
type FactCheckRequest struct {
	Text string `json:"text"`
}

// FactCheckResponse is the payload returned by the /fact-check endpoint.
// Only FactCheckResults is consumed by the client; the remaining fields are
// filled in by the server for completeness.
type FactCheckResponse struct {
	OriginalText     string        `json:"original_text,omitempty"`
	ClaimsFound      int           `json:"claims_found"`
	FactCheckResults []ClaimResult `json:"fact_check_results"`
	Timestamp        float64       `json:"timestamp,omitempty"` // Unix seconds
}

// ClaimResult pairs a single extracted claim with its verdict
type ClaimResult struct {
	Claim  string        `json:"claim"`
	Result VerdictDetail `json:"result"`
}

// VerdictDetail is the backend's judgment for one claim
type VerdictDetail struct {
	Verdict     string   `json:"verdict"`     // e.g. "TRUE", "False", "Partially true"
	Confidence  float64  `json:"confidence"`  // 0-100, trusted as-is
	Explanation string   `json:"explanation"` // Short analysis
	Sources     []string `json:"sources"`     // May be empty
}

// Verdict strings produced by the server when it cannot get a real answer
const (
	VerdictAnalysisComplete = "ANALYSIS COMPLETE"
	VerdictError            = "ERROR"
)

// HealthStatus is returned by GET /health
type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}
