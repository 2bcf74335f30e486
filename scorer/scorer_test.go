package scorer

import (
	"math/rand"
	"testing"

	"github.com/use-agent/carscope/models"
)

const refYear = 2025

func TestScoreAt_KnownCombinations(t *testing.T) {
	tests := []struct {
		name  string
		attrs models.VehicleAttributes
		want  int
	}{
		{
			// 50 + 20(age) + 20(mileage) + 10(owner) + 15(price) + 10(hybrid) = 125 → 100
			name: "hybrid corolla clamps at 100",
			attrs: models.VehicleAttributes{
				Title: "Toyota Corolla 2020", Year: refYear - 5, Mileage: 15000,
				Price: 90000, Ownership: 1, Gearbox: "automatic", EngineType: "hybrid",
			},
			want: 100,
		},
		{
			// 50 + 20 + 20 + 10 + 0 + 10 = 110 → 100
			name: "expensive hybrid still clamps",
			attrs: models.VehicleAttributes{
				Title: "Toyota Corolla 2020", Year: refYear - 5, Mileage: 15000,
				Price: 250000, Ownership: 1, Gearbox: "automatic", EngineType: "hybrid",
			},
			want: 100,
		},
		{
			// 50 + 0 + 0 + 0 + 5 + 0 = 55
			name: "old high-mileage gasoline",
			attrs: models.VehicleAttributes{
				Year: refYear - 20, Mileage: 220000, Price: 180000,
				Ownership: 4, EngineType: "gasoline",
			},
			want: 55,
		},
		{
			// 50 + 5 + 5 + 5 + 10 + 5 = 80
			name: "mid-range diesel",
			attrs: models.VehicleAttributes{
				Year: refYear - 10, Mileage: 130000, Price: 140000,
				Ownership: 2, EngineType: "diesel",
			},
			want: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAt(tt.attrs, refYear); got != tt.want {
				t.Errorf("ScoreAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreAt_BoundaryThresholds(t *testing.T) {
	base := models.VehicleAttributes{
		Year: refYear - 20, Mileage: 999999, Price: 999999, Ownership: 9,
	}

	// Helpers producing attribute variants around one boundary.
	withMileage := func(km int) models.VehicleAttributes {
		a := base
		a.Mileage = km
		return a
	}
	withPrice := func(p int) models.VehicleAttributes {
		a := base
		a.Price = p
		return a
	}
	withYear := func(y int) models.VehicleAttributes {
		a := base
		a.Year = y
		return a
	}

	tests := []struct {
		name string
		a, b models.VehicleAttributes
		diff int // expected score(a) - score(b)
	}{
		{"mileage 20000 vs 20001", withMileage(20000), withMileage(20001), 5},
		{"mileage 50000 vs 50001", withMileage(50000), withMileage(50001), 5},
		{"mileage 100000 vs 100001", withMileage(100000), withMileage(100001), 5},
		{"mileage 150000 vs 150001", withMileage(150000), withMileage(150001), 5},
		{"price 50000 vs 50001", withPrice(50000), withPrice(50001), 5},
		{"price 200000 vs 200001", withPrice(200000), withPrice(200001), 5},
		{"age 2 vs 3", withYear(refYear - 2), withYear(refYear - 3), 5},
		{"age 12 vs 13", withYear(refYear - 12), withYear(refYear - 13), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAt(tt.a, refYear) - ScoreAt(tt.b, refYear)
			if got != tt.diff {
				t.Errorf("score difference = %d, want %d", got, tt.diff)
			}
		})
	}
}

func TestScoreAt_OwnershipBonus(t *testing.T) {
	base := models.VehicleAttributes{Year: refYear - 20, Mileage: 999999, Price: 999999}

	score := func(owners int) int {
		a := base
		a.Ownership = owners
		return ScoreAt(a, refYear)
	}

	if got := score(1) - score(3); got != 10 {
		t.Errorf("single owner bonus = %d, want 10", got)
	}
	if got := score(2) - score(3); got != 5 {
		t.Errorf("second owner bonus = %d, want 5", got)
	}
	if got := score(0) - score(3); got != 0 {
		t.Errorf("zero owners bonus = %d, want 0", got)
	}
}

func TestScoreAt_EngineBonus(t *testing.T) {
	base := models.VehicleAttributes{Year: refYear - 20, Mileage: 999999, Price: 999999, Ownership: 9}

	score := func(engine string) int {
		a := base
		a.EngineType = engine
		return ScoreAt(a, refYear)
	}

	if got := score("Plug-in Hybrid") - score("gasoline"); got != 10 {
		t.Errorf("hybrid bonus = %d, want 10", got)
	}
	if got := score("ELECTRIC") - score("gasoline"); got != 10 {
		t.Errorf("electric bonus = %d, want 10", got)
	}
	if got := score("turbo diesel") - score("gasoline"); got != 5 {
		t.Errorf("diesel bonus = %d, want 5", got)
	}
}

func randomAttrs(rng *rand.Rand) models.VehicleAttributes {
	engines := []string{"gasoline", "diesel", "hybrid", "electric", "בנזין", ""}
	return models.VehicleAttributes{
		Year:       refYear - rng.Intn(30),
		Mileage:    rng.Intn(400000),
		Price:      rng.Intn(400000),
		Ownership:  rng.Intn(6),
		EngineType: engines[rng.Intn(len(engines))],
	}
}

func TestScoreAt_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		a := randomAttrs(rng)
		got := ScoreAt(a, refYear)
		if got < 0 || got > 100 {
			t.Fatalf("ScoreAt(%+v) = %d, out of [0,100]", a, got)
		}
		// Deterministic: same input, same output.
		if again := ScoreAt(a, refYear); again != got {
			t.Fatalf("ScoreAt not deterministic: %d then %d", got, again)
		}
	}
}

func TestScoreAt_Monotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		a := randomAttrs(rng)
		base := ScoreAt(a, refYear)

		newer := a
		newer.Year++
		if ScoreAt(newer, refYear) < base {
			t.Fatalf("newer year decreased score for %+v", a)
		}

		lessDriven := a
		lessDriven.Mileage /= 2
		if ScoreAt(lessDriven, refYear) < base {
			t.Fatalf("lower mileage decreased score for %+v", a)
		}

		cheaper := a
		cheaper.Price /= 2
		if ScoreAt(cheaper, refYear) < base {
			t.Fatalf("lower price decreased score for %+v", a)
		}

		if a.Ownership > 1 {
			fewerOwners := a
			fewerOwners.Ownership--
			if ScoreAt(fewerOwners, refYear) < base {
				t.Fatalf("fewer owners decreased score for %+v", a)
			}
		}

		hybrid := a
		hybrid.EngineType = "hybrid"
		if ScoreAt(hybrid, refYear) < base {
			t.Fatalf("hybrid engine decreased score for %+v", a)
		}
	}
}

func TestRecommend_Ranges(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, models.RecommendNotRecommended},
		{29, models.RecommendNotRecommended},
		{30, models.RecommendNeutral},
		{59, models.RecommendNeutral},
		{60, models.RecommendGoodDeal},
		{100, models.RecommendGoodDeal},
		{-5, models.RecommendNotRecommended},
		{150, models.RecommendGoodDeal},
	}
	for _, tt := range tests {
		if got := Recommend(tt.score); got != tt.want {
			t.Errorf("Recommend(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
