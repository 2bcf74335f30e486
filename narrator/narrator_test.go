package narrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/carscope/models"
	"github.com/use-agent/carscope/scorer"
)

// fakeGenerator returns a canned reply or error and records the prompts.
type fakeGenerator struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeGenerator) Complete(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.reply, f.err
}

var testAttrs = models.VehicleAttributes{
	Title: "Toyota Corolla 2020", Year: 2020, Mileage: 15000,
	Price: 90000, Ownership: 1, Gearbox: "automatic", EngineType: "hybrid",
}

func TestNarrate_StructuredReply(t *testing.T) {
	gen := &fakeGenerator{
		reply: `{"recommendation":"Good deal","evaluation":"Low mileage, single owner, hybrid drivetrain.","score":87}`,
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if got.Recommendation != models.RecommendGoodDeal {
		t.Errorf("recommendation = %q, want %q", got.Recommendation, models.RecommendGoodDeal)
	}
	if got.Score != 87 {
		t.Errorf("score = %d, want 87", got.Score)
	}
	if got.Evaluation != "Low mileage, single owner, hybrid drivetrain." {
		t.Errorf("unexpected evaluation: %q", got.Evaluation)
	}
	if got.CarData != testAttrs {
		t.Errorf("attributes not echoed back: %+v", got.CarData)
	}
}

func TestNarrate_PromptEmbedsAttributes(t *testing.T) {
	gen := &fakeGenerator{reply: `{"recommendation":"Neutral – depends","evaluation":"ok","score":50}`}

	if _, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN); err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if !strings.Contains(gen.user, "Toyota Corolla 2020") {
		t.Error("user prompt does not embed the car title")
	}
	if !strings.Contains(gen.system, "car evaluation expert") {
		t.Error("system prompt does not establish the expert persona")
	}
}

func TestNarrate_HebrewDisplayLabel(t *testing.T) {
	gen := &fakeGenerator{
		reply: `{"recommendation":"עסקה טובה","evaluation":"רכב במצב מצוין","score":90}`,
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangHE)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if got.Recommendation != "עסקה טובה" {
		t.Errorf("recommendation = %q, want Hebrew display label", got.Recommendation)
	}
	if !strings.Contains(gen.system, "מומחה בכיר") {
		t.Error("Hebrew request did not use the Hebrew system prompt")
	}
}

func TestNarrate_MissingScoreUsesScorer(t *testing.T) {
	gen := &fakeGenerator{
		reply: `{"recommendation":"Good deal","evaluation":"Solid buy."}`,
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if want := scorer.Score(testAttrs); got.Score != want {
		t.Errorf("score = %d, want deterministic %d", got.Score, want)
	}
}

func TestNarrate_MissingRecommendationDefaultsNeutral(t *testing.T) {
	gen := &fakeGenerator{reply: `{"evaluation":"Hard to say.","score":55}`}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if got.Recommendation != models.RecommendNeutral {
		t.Errorf("recommendation = %q, want %q", got.Recommendation, models.RecommendNeutral)
	}
}

func TestNarrate_UnknownLabelPassesThrough(t *testing.T) {
	gen := &fakeGenerator{
		reply: `{"recommendation":"Run away","evaluation":"Rust everywhere.","score":5}`,
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if got.Recommendation != "Run away" {
		t.Errorf("recommendation = %q, want pass-through of unknown label", got.Recommendation)
	}
}

func TestNarrate_ScoreClamped(t *testing.T) {
	gen := &fakeGenerator{
		reply: `{"recommendation":"Good deal","evaluation":"Exceptional.","score":140}`,
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if got.Score != 100 {
		t.Errorf("score = %d, want clamped 100", got.Score)
	}
}

func TestNarrate_FreeTextFallback(t *testing.T) {
	gen := &fakeGenerator{
		reply: "This car is a good deal: low mileage and a single prior owner.",
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if got.Recommendation != models.RecommendGoodDeal {
		t.Errorf("recommendation = %q, want substring-detected %q", got.Recommendation, models.RecommendGoodDeal)
	}
	if want := scorer.Score(testAttrs); got.Score != want {
		t.Errorf("score = %d, want deterministic %d", got.Score, want)
	}
	if got.Evaluation != gen.reply {
		t.Errorf("evaluation should keep the raw reply, got %q", got.Evaluation)
	}
}

func TestNarrate_FreeTextNotRecommendedWinsOverGoodSubstring(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Despite looking like a good deal, this car is not recommended.",
	}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if got.Recommendation != models.RecommendNotRecommended {
		t.Errorf("recommendation = %q, want %q", got.Recommendation, models.RecommendNotRecommended)
	}
}

func TestNarrate_FreeTextNoPhraseDerivesFromScore(t *testing.T) {
	gen := &fakeGenerator{reply: "An unremarkable vehicle in every respect."}

	got, err := New(gen).Narrate(context.Background(), testAttrs, models.LangEN)
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if want := scorer.Recommend(scorer.Score(testAttrs)); got.Recommendation != want {
		t.Errorf("recommendation = %q, want score-derived %q", got.Recommendation, want)
	}
}

func TestNarrate_ProviderFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}

	_, err := New(gen).Narrate(context.Background(), testAttrs, models.LangHE)
	if err == nil {
		t.Fatal("Narrate() expected error")
	}

	var evalErr *models.EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is %T, want *models.EvalError", err)
	}
	if evalErr.Code != models.ErrCodeNarration {
		t.Errorf("code = %q, want %q", evalErr.Code, models.ErrCodeNarration)
	}
	if evalErr.Message != models.Message(models.ErrCodeNarration, models.LangHE) {
		t.Errorf("message = %q, want localized Hebrew text", evalErr.Message)
	}
}
