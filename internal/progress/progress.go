// Package progress tracks workout history per user: weight entries,
// completion counters, streaks and personal records. Progress takes no
// part in onboarding gating; it is read by the dashboard and updated
// when a workout is logged.
package progress

import "time"

// Collection is the store collection name for progress records.
const Collection = "progress"

// WeightEntry is one dated bodyweight measurement.
type WeightEntry struct {
	Date     time.Time `json:"date"`
	WeightKG float64   `json:"weight_kg"`
}

// PersonalRecord is a best effort for one exercise.
type PersonalRecord struct {
	Exercise string `json:"exercise"`
	Value    string `json:"value"`
}

// Record is a user's accumulated progress.
type Record struct {
	OwnerID           string           `json:"owner_id"`
	Weight            []WeightEntry    `json:"weight"`
	WorkoutsCompleted int              `json:"workouts_completed"`
	Streak            int              `json:"streak"`
	CaloriesBurned    int              `json:"calories_burned"`
	LastWorkoutDay    int              `json:"last_workout_day"`
	PersonalRecords   []PersonalRecord `json:"personal_records"`
}
