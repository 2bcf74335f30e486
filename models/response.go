package models

// EvaluateResponse is the response for POST /api/v1/evaluate.
type EvaluateResponse struct {
	// Success indicates whether the evaluation completed without errors.
	Success bool `json:"success"`

	// CarData holds the attributes the verdict was based on: scraped from
	// the listing or echoed back from manual input (with defaults applied).
	CarData *VehicleAttributes `json:"carData,omitempty"`

	// Evaluation is the free-text rationale.
	Evaluation string `json:"evaluation,omitempty"`

	// Recommendation is the localized recommendation label.
	Recommendation string `json:"recommendation,omitempty"`

	// Score is the 0-100 purchase desirability score.
	Score int `json:"score"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ExtractionMs is the time spent scraping the listing page.
	// Zero for manual submissions.
	ExtractionMs int64 `json:"extraction_ms,omitempty"`

	// NarrationMs is the time spent on the model round trip.
	NarrationMs int64 `json:"narration_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"` // "healthy" or "degraded"
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	Version        string `json:"version"`
}
