// Package workout owns the workout plan record and the local plan
// generator used when no backend is available.
package workout

import "fmt"

// Collection is the store collection name for workout plans.
const Collection = "workout_plans"

// Preferences are the answers collected by the workout setup step.
type Preferences struct {
	WorkoutType     string   `json:"workout_type"`
	DaysPerWeek     int      `json:"days_per_week"`
	EquipmentAccess []string `json:"equipment_access"`
}

// Validate checks the setup form answers.
func (p Preferences) Validate() error {
	switch p.WorkoutType {
	case "strength", "cardio", "hybrid":
	default:
		return fmt.Errorf("unknown workout type %q", p.WorkoutType)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("days per week must be between 1 and 7")
	}
	if len(p.EquipmentAccess) == 0 {
		return fmt.Errorf("at least one equipment option is required")
	}
	return nil
}

// DaySchedule is one generated training day.
type DaySchedule struct {
	Day       string   `json:"day"`
	Focus     string   `json:"focus"`
	Exercises []string `json:"exercises"`
	Sets      int      `json:"sets"`
	Reps      int      `json:"reps"`
}

// Record is a user's workout plan. It only exists for owners that
// already have a profile; the session manager enforces that ordering
// since the store itself has no foreign keys.
type Record struct {
	OwnerID         string        `json:"owner_id"`
	WorkoutType     string        `json:"workout_type"`
	DaysPerWeek     int           `json:"days_per_week"`
	EquipmentAccess []string      `json:"equipment_access"`
	GeneratedDays   []DaySchedule `json:"generated_days"`
}
