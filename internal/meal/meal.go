// Package meal owns the meal plan record and the local meal generator
// used when no backend is available.
package meal

import "fmt"

// Collection is the store collection name for meal plans.
const Collection = "meal_plans"

// CalorieTier is the caloric intake preference collected by the meal
// setup step.
type CalorieTier string

const (
	TierLow    CalorieTier = "low"
	TierMedium CalorieTier = "medium"
	TierHigh   CalorieTier = "high"
)

// ParseCalorieTier validates a raw tier string.
func ParseCalorieTier(s string) (CalorieTier, error) {
	switch CalorieTier(s) {
	case TierLow, TierMedium, TierHigh:
		return CalorieTier(s), nil
	}
	return "", fmt.Errorf("calorie tier must be low, medium or high, got %q", s)
}

// Meal is one generated meal in a day.
type Meal struct {
	Slot        string   `json:"slot"`
	Name        string   `json:"name"`
	Calories    int      `json:"calories"`
	Ingredients []string `json:"ingredients"`
}

// Record is a user's meal plan. In the canonical flow it only exists
// for owners that already have both a profile and a workout plan.
type Record struct {
	OwnerID        string      `json:"owner_id"`
	Calories       CalorieTier `json:"calories"`
	Allergies      []string    `json:"allergies"`
	GeneratedMeals []Meal      `json:"generated_meals"`
}
