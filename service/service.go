// Package service orchestrates a full listing evaluation: input
// validation, optional browser extraction, and model narration.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/carscope/models"
)

// ListingExtractor scrapes vehicle attributes from a listing URL.
// extractor.Extractor satisfies it.
type ListingExtractor interface {
	Extract(ctx context.Context, url, lang string) (*models.VehicleAttributes, error)
}

// ResultNarrator produces a verdict from vehicle attributes.
// narrator.Narrator satisfies it.
type ResultNarrator interface {
	Narrate(ctx context.Context, attrs models.VehicleAttributes, lang string) (*models.EvaluationResult, error)
}

// Evaluator wires extraction and narration into one operation.
type Evaluator struct {
	extractor ListingExtractor
	narrator  ResultNarrator
}

// New creates an Evaluator.
func New(extractor ListingExtractor, narrator ResultNarrator) *Evaluator {
	return &Evaluator{extractor: extractor, narrator: narrator}
}

// Evaluate runs one evaluation. The request must already be bound; this
// method applies defaults, validates, extracts when a URL is given, and
// narrates. Timing covers the two expensive phases so callers can report
// them even on failure.
//
// Every returned error is a *models.EvalError with a localized message.
func (s *Evaluator) Evaluate(ctx context.Context, req *models.EvaluateRequest) (*models.EvaluationResult, models.TimingInfo, error) {
	var timing models.TimingInfo

	req.Defaults()
	if vErr := req.Validate(); vErr != nil {
		return nil, timing, vErr
	}

	var attrs models.VehicleAttributes
	if req.Yad2URL != "" {
		started := time.Now()
		extracted, err := s.extractor.Extract(ctx, req.Yad2URL, req.Language)
		timing.ExtractionMs = time.Since(started).Milliseconds()
		if err != nil {
			return nil, timing, s.toEvalError(err, req.Language)
		}
		attrs = *extracted
	} else {
		attrs = *req.CarData
	}

	started := time.Now()
	result, err := s.narrator.Narrate(ctx, attrs, req.Language)
	timing.NarrationMs = time.Since(started).Milliseconds()
	if err != nil {
		return nil, timing, s.toEvalError(err, req.Language)
	}

	slog.Info("evaluation completed",
		"title", attrs.Title,
		"score", result.Score,
		"recommendation", result.Recommendation,
		"extraction_ms", timing.ExtractionMs,
		"narration_ms", timing.NarrationMs,
	)
	return result, timing, nil
}

// toEvalError guarantees the error boundary: anything without a code
// becomes an internal error so no raw error text leaks to clients.
func (s *Evaluator) toEvalError(err error, lang string) *models.EvalError {
	var evalErr *models.EvalError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	slog.Error("unclassified evaluation error", "error", err)
	return models.NewLocalizedError(models.ErrCodeInternal, lang, err)
}
