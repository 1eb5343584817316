// Package profile owns the user fitness profile record.
package profile

import (
	"fmt"
	"time"
)

// Collection is the store collection name for profiles.
const Collection = "profiles"

// Record is a user's fitness profile. One per owner; the owner never
// changes after creation, the rest may be edited in place.
type Record struct {
	OwnerID           string    `json:"owner_id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Sex               string    `json:"sex"`
	HeightCM          int       `json:"height"`
	WeightKG          int       `json:"weight"`
	FitnessLevel      string    `json:"fitness_level"`
	DietaryPreference string    `json:"dietary_preference,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validate checks the record against the signup form bounds.
func (r Record) Validate() error {
	if len(r.Name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if r.Age < 16 || r.Age > 100 {
		return fmt.Errorf("age must be between 16 and 100")
	}
	if r.Sex == "" {
		return fmt.Errorf("sex is required")
	}
	if r.HeightCM < 100 || r.HeightCM > 250 {
		return fmt.Errorf("height must be between 100 and 250 cm")
	}
	if r.WeightKG < 30 || r.WeightKG > 300 {
		return fmt.Errorf("weight must be between 30 and 300 kg")
	}
	if r.FitnessLevel == "" {
		return fmt.Errorf("fitness level is required")
	}
	return nil
}
