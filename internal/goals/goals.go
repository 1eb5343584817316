// Package goals stores the fitness targets a user is working toward,
// such as losing a number of kilograms by a date.
package goals

import (
	"fmt"
	"time"
)

// Collection is the store key for goal records.
const Collection = "goals"

// Goal is one fitness target with an optional deadline.
type Goal struct {
	ID          string     `json:"id"`
	GoalType    string     `json:"goal_type"`
	TargetValue int        `json:"target_value"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// Validate checks the goal fields before they are persisted.
func (g Goal) Validate() error {
	if g.GoalType == "" {
		return fmt.Errorf("goal type is required")
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("target value must be positive, got %d", g.TargetValue)
	}
	if g.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if g.EndDate != nil && g.EndDate.Before(g.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

// Record holds every goal belonging to one user.
type Record struct {
	OwnerID string `json:"owner_id"`
	Goals   []Goal `json:"goals"`
}
