package progress

import (
	"errors"
	"time"

	"fitmate/internal/store"
)

// Repository provides access to progress persistence operations.
type Repository struct {
	records store.Collection[Record]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{records: store.NewCollection[Record](s, Collection)}
}

// Get retrieves the progress record for an owner.
func (r *Repository) Get(ownerID string) (*Record, error) {
	rec, err := r.records.Get(ownerID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts the progress record.
func (r *Repository) Save(rec Record) error {
	return r.records.Upsert(rec.OwnerID, rec)
}

// LogWorkout records one completed workout at the given time, bumping
// the completion counter, the calorie total and the day streak. A
// workout on the day after the previous one extends the streak, any
// longer gap resets it; a second workout on the same day counts toward
// totals but leaves the streak alone.
func (r *Repository) LogWorkout(ownerID string, at time.Time, caloriesBurned int) (*Record, error) {
	rec, err := r.Get(ownerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		rec = &Record{OwnerID: ownerID}
	}

	day := int(at.Unix() / 86400)
	switch {
	case rec.LastWorkoutDay == 0:
		rec.Streak = 1
	case day == rec.LastWorkoutDay:
		// same day, streak unchanged
	case day == rec.LastWorkoutDay+1:
		rec.Streak++
	default:
		rec.Streak = 1
	}

	rec.WorkoutsCompleted++
	rec.CaloriesBurned += caloriesBurned
	rec.LastWorkoutDay = day

	if err := r.Save(*rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// LogWeight appends a dated bodyweight measurement.
func (r *Repository) LogWeight(ownerID string, at time.Time, weightKG float64) (*Record, error) {
	rec, err := r.Get(ownerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		rec = &Record{OwnerID: ownerID}
	}

	rec.Weight = append(rec.Weight, WeightEntry{Date: at, WeightKG: weightKG})

	if err := r.Save(*rec); err != nil {
		return nil, err
	}
	return rec, nil
}
