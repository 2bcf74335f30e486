// Package models defines the request/response types, vehicle attributes,
// and the error taxonomy shared across the service.
package models

// VehicleAttributes describes one used car, scraped from a listing or
// entered manually.
type VehicleAttributes struct {
	// Title is the listing headline, usually make, model and year.
	Title string `json:"title"`

	// Year is the model year.
	Year int `json:"year"`

	// Mileage is in kilometres.
	Mileage int `json:"mileage"`

	// Price is the asking price in shekels.
	Price int `json:"price"`

	// Ownership counts previous owners ("יד"). 1 means first hand.
	Ownership int `json:"ownership"`

	// Gearbox is the transmission type.
	Gearbox string `json:"gearbox"`

	// EngineType is the fuel/engine type.
	EngineType string `json:"engineType"`

	// Description is the seller's free-text blurb, when available.
	Description string `json:"description,omitempty"`
}

// Canonical recommendation labels. Responses localize these for display.
const (
	RecommendGoodDeal       = "Good deal"
	RecommendNotRecommended = "Not recommended"
	RecommendNeutral        = "Neutral – depends"
)

// EvaluationResult is the outcome of one evaluation: the attributes the
// verdict was based on, the rationale, the recommendation label, and the
// 0-100 score.
type EvaluationResult struct {
	CarData        VehicleAttributes
	Evaluation     string
	Recommendation string
	Score          int
}
