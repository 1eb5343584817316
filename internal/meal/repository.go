package meal

import "fitmate/internal/store"

// Repository provides access to meal plan persistence operations.
type Repository struct {
	records store.Collection[Record]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{records: store.NewCollection[Record](s, Collection)}
}

// Get retrieves the meal plan for an owner.
func (r *Repository) Get(ownerID string) (*Record, error) {
	rec, err := r.records.Get(ownerID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts the meal plan.
func (r *Repository) Save(rec Record) error {
	return r.records.Upsert(rec.OwnerID, rec)
}

// Exists reports whether the owner has a meal plan.
func (r *Repository) Exists(ownerID string) (bool, error) {
	return r.records.Exists(ownerID)
}

// All returns every stored meal plan, for administrative listing.
func (r *Repository) All() ([]Record, error) {
	return r.records.All()
}
