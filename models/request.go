package models

// EvaluateRequest is the payload for POST /api/v1/evaluate.
// Exactly one of Yad2URL / CarData must be supplied. When both are
// present the URL takes precedence and CarData is ignored.
type EvaluateRequest struct {
	// Yad2URL is a listing page URL to scrape.
	Yad2URL string `json:"yad2Url,omitempty" binding:"omitempty,url"`

	// CarData is a manually entered set of vehicle attributes.
	CarData *VehicleAttributes `json:"carData,omitempty"`

	// Language selects the response language: "en" (default) or "he".
	Language string `json:"language,omitempty" binding:"omitempty,oneof=en he"`
}

// Defaults applies default values to unset fields.
func (r *EvaluateRequest) Defaults() {
	r.Language = NormalizeLang(r.Language)
	if r.CarData != nil {
		if r.CarData.Ownership == 0 {
			r.CarData.Ownership = 1
		}
		if r.CarData.Gearbox == "" {
			r.CarData.Gearbox = "automatic"
		}
		if r.CarData.EngineType == "" {
			r.CarData.EngineType = "gasoline"
		}
	}
}

// Validate checks the exactly-one-of input rule and, for manual entry,
// the mandatory fields. It returns a localized EvalError so the handler
// can pass the message straight through.
func (r *EvaluateRequest) Validate() *EvalError {
	if r.Yad2URL == "" && r.CarData == nil {
		return NewLocalizedError(ErrCodeInvalidInput, r.Language, nil)
	}
	// URL path takes precedence; manual fields are only checked when the
	// manual path will actually run.
	if r.Yad2URL == "" {
		d := r.CarData
		if d.Title == "" || d.Year == 0 || d.Mileage <= 0 || d.Price <= 0 {
			return NewLocalizedError(ErrCodeInvalidCarData, r.Language, nil)
		}
	}
	return nil
}
