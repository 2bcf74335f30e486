// Package scorer computes a deterministic 0-100 purchase desirability
// score from vehicle attributes using fixed weighted rules. It has no
// side effects and no external dependencies, so it doubles as the
// fallback verdict when the model's reply cannot be parsed.
package scorer

import (
	"strings"
	"time"

	"github.com/use-agent/carscope/models"
)

const baseline = 50

// Score rates the attributes against the current year.
func Score(a models.VehicleAttributes) int {
	return ScoreAt(a, time.Now().Year())
}

// ScoreAt rates the attributes against an explicit reference year.
// Output is always in [0,100] and bit-for-bit reproducible.
func ScoreAt(a models.VehicleAttributes, referenceYear int) int {
	score := baseline
	score += ageBonus(referenceYear - a.Year)
	score += mileageBonus(a.Mileage)
	score += ownershipBonus(a.Ownership)
	score += priceBonus(a.Price)
	score += engineBonus(a.EngineType)
	return clamp(score)
}

// Recommend maps a score to a recommendation label using the same
// ranges the result presentation uses: 0-29 not recommended, 30-59
// neutral, 60-100 good deal.
func Recommend(score int) string {
	switch s := clamp(score); {
	case s < 30:
		return models.RecommendNotRecommended
	case s < 60:
		return models.RecommendNeutral
	default:
		return models.RecommendGoodDeal
	}
}

func ageBonus(age int) int {
	switch {
	case age <= 2:
		return 20
	case age <= 5:
		return 15
	case age <= 8:
		return 10
	case age <= 12:
		return 5
	default:
		return 0
	}
}

func mileageBonus(km int) int {
	switch {
	case km <= 20000:
		return 20
	case km <= 50000:
		return 15
	case km <= 100000:
		return 10
	case km <= 150000:
		return 5
	default:
		return 0
	}
}

func ownershipBonus(owners int) int {
	switch owners {
	case 1:
		return 10
	case 2:
		return 5
	default:
		return 0
	}
}

func priceBonus(price int) int {
	switch {
	case price <= 50000:
		return 20
	case price <= 100000:
		return 15
	case price <= 150000:
		return 10
	case price <= 200000:
		return 5
	default:
		return 0
	}
}

func engineBonus(engineType string) int {
	e := strings.ToLower(engineType)
	switch {
	case strings.Contains(e, "hybrid") || strings.Contains(e, "electric"):
		return 10
	case strings.Contains(e, "diesel"):
		return 5
	default:
		return 0
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
