// Package narrator turns vehicle attributes into a natural-language
// verdict by prompting a hosted text-generation model and parsing the
// reply into a recommendation label, rationale, and score.
package narrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/use-agent/carscope/models"
	"github.com/use-agent/carscope/scorer"
)

// TextGenerator is the narrow capability the narrator needs from a
// text-generation provider. llm.Client satisfies it; tests use fakes.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Narrator produces evaluation results from vehicle attributes.
type Narrator struct {
	gen TextGenerator
}

// New creates a Narrator backed by the given text-generation capability.
func New(gen TextGenerator) *Narrator {
	return &Narrator{gen: gen}
}

// structuredReply is the JSON shape the model is instructed to return.
// Score is a pointer so "absent" is distinguishable from a literal 0.
type structuredReply struct {
	Recommendation string `json:"recommendation"`
	Evaluation     string `json:"evaluation"`
	Score          *int   `json:"score"`
}

// Narrate evaluates the attributes in the requested language.
//
// Policy: the model is asked for structured JSON. When the reply parses,
// its fields are used, with the deterministic scorer filling in a missing
// score. When the reply is not valid JSON it is kept verbatim as the
// rationale, the recommendation is detected by substring search, and the
// score is computed deterministically — a degraded reply never discards
// the whole evaluation. Only a failed provider call is an error.
func (n *Narrator) Narrate(ctx context.Context, attrs models.VehicleAttributes, lang string) (*models.EvaluationResult, error) {
	lang = models.NormalizeLang(lang)

	raw, err := n.gen.Complete(ctx, systemPrompt(lang), buildUserPrompt(attrs, lang))
	if err != nil {
		slog.Error("narration call failed", "error", err, "title", attrs.Title)
		return nil, models.NewLocalizedError(models.ErrCodeNarration, lang, err)
	}

	var reply structuredReply
	if jsonErr := json.Unmarshal([]byte(raw), &reply); jsonErr != nil || reply.Evaluation == "" {
		slog.Warn("model reply not parseable as structured JSON, using deterministic fallback",
			"error", jsonErr,
		)
		return n.fallbackResult(attrs, raw, lang), nil
	}

	score := scorer.Score(attrs)
	if reply.Score != nil {
		score = clampScore(*reply.Score)
	}

	label := canonicalLabel(reply.Recommendation)

	return &models.EvaluationResult{
		CarData:        attrs,
		Evaluation:     reply.Evaluation,
		Recommendation: models.DisplayRecommendation(label, lang),
		Score:          score,
	}, nil
}

// fallbackResult builds a result from a free-text reply: substring-matched
// recommendation plus the deterministic score.
func (n *Narrator) fallbackResult(attrs models.VehicleAttributes, raw, lang string) *models.EvaluationResult {
	score := scorer.Score(attrs)

	label := detectRecommendation(raw)
	if label == "" {
		label = scorer.Recommend(score)
	}

	evaluation := strings.TrimSpace(raw)
	if evaluation == "" {
		evaluation = models.Message(models.ErrCodeNarration, lang)
	}

	return &models.EvaluationResult{
		CarData:        attrs,
		Evaluation:     evaluation,
		Recommendation: models.DisplayRecommendation(label, lang),
		Score:          score,
	}
}

// canonicalLabel maps a model-supplied label (English or Hebrew) to the
// canonical English form. Empty labels become Neutral; unknown non-empty
// labels pass through unchanged.
func canonicalLabel(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return models.RecommendNeutral
	}

	switch strings.ToLower(trimmed) {
	case strings.ToLower(models.RecommendGoodDeal), "עסקה טובה":
		return models.RecommendGoodDeal
	case strings.ToLower(models.RecommendNotRecommended), "לא מומלץ":
		return models.RecommendNotRecommended
	case strings.ToLower(models.RecommendNeutral), "neutral", "תלוי בהעדפות":
		return models.RecommendNeutral
	}
	return trimmed
}

// detectRecommendation scans free text for known recommendation phrases.
// "Not recommended" is checked first: "recommended" alone would also
// match it.
func detectRecommendation(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "not recommended") || strings.Contains(lower, "לא מומלץ"):
		return models.RecommendNotRecommended
	case strings.Contains(lower, "good deal") || strings.Contains(lower, "עסקה טובה"):
		return models.RecommendGoodDeal
	case strings.Contains(lower, "neutral") || strings.Contains(lower, "תלוי בהעדפות"):
		return models.RecommendNeutral
	}
	return ""
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
