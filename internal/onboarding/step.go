// Package onboarding decides which setup step a user must complete
// next and guards every protected screen with that decision.
package onboarding

import "fitmate/internal/session"

// Step is the screen the user must currently be on.
type Step int

const (
	StepLogin Step = iota
	StepProfile
	StepWorkout
	StepMeal
	StepDashboard
)

// String returns the route-style name of the step.
func (s Step) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepProfile:
		return "profile-setup"
	case StepWorkout:
		return "workout-setup"
	case StepMeal:
		return "meal-setup"
	case StepDashboard:
		return "dashboard"
	}
	return "unknown"
}

// RequiredStep maps an identity to the next step it must complete. The
// rules are evaluated in this exact order; the first unmet condition
// wins. Every screen consults this one function instead of carrying its
// own checks, so the ordering cannot drift between pages.
func RequiredStep(id *session.Identity) Step {
	switch {
	case id == nil:
		return StepLogin
	case !id.ProfileComplete:
		return StepProfile
	case !id.WorkoutPlanComplete:
		return StepWorkout
	case !id.MealPlanComplete:
		return StepMeal
	default:
		return StepDashboard
	}
}
