package goals

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fitmate/internal/store"
)

// Repository provides access to goal persistence operations.
type Repository struct {
	records store.Collection[Record]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{records: store.NewCollection[Record](s, Collection)}
}

// All returns every goal the owner has created. A user with no goals
// yet gets an empty list, not an error.
func (r *Repository) All(ownerID string) ([]Goal, error) {
	rec, err := r.records.Get(ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.Goals, nil
}

// Get retrieves one goal by its id. Returns store.ErrNotFound when the
// owner has no goal with that id.
func (r *Repository) Get(ownerID, goalID string) (*Goal, error) {
	all, err := r.All(ownerID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == goalID {
			return &all[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Create validates the goal, assigns its id and appends it to the
// owner's record.
func (r *Repository) Create(ownerID string, g Goal) (*Goal, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid goal: %w", err)
	}

	rec, err := r.records.Get(ownerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		rec = Record{OwnerID: ownerID}
	}

	g.ID = uuid.NewString()
	rec.Goals = append(rec.Goals, g)
	if err := r.records.Upsert(ownerID, rec); err != nil {
		return nil, err
	}
	return &g, nil
}
