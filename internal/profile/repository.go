package profile

import (
	"fmt"
	"time"

	"fitmate/internal/store"
)

// Repository provides access to profile persistence operations.
type Repository struct {
	records store.Collection[Record]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{records: store.NewCollection[Record](s, Collection)}
}

// Get retrieves the profile for an owner.
func (r *Repository) Get(ownerID string) (*Record, error) {
	rec, err := r.records.Get(ownerID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save validates and upserts the profile, stamping its update time.
func (r *Repository) Save(rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	rec.UpdatedAt = time.Now().UTC()
	return r.records.Upsert(rec.OwnerID, rec)
}

// Exists reports whether the owner has a profile.
func (r *Repository) Exists(ownerID string) (bool, error) {
	return r.records.Exists(ownerID)
}

// All returns every stored profile, for administrative listing.
func (r *Repository) All() ([]Record, error) {
	return r.records.All()
}
