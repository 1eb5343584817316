package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Collection is a typed view over one named collection in the store.
// Records are validated on read: an entry that no longer decodes into T
// is reported as absent rather than failing the caller.
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection returns a typed view over the named collection.
func NewCollection[T any](s *Store, name string) Collection[T] {
	return Collection[T]{store: s, name: name}
}

// Name returns the collection name as it appears in the store document.
func (c Collection[T]) Name() string {
	return c.name
}

// Get decodes the record owned by ownerID. Returns ErrNotFound when the
// record is absent or undecodable.
func (c Collection[T]) Get(ownerID string) (T, error) {
	var rec T

	raw, err := c.store.Get(c.name, ownerID)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		c.store.log.Warn("record failed validation on read, treating as absent",
			zap.String("collection", c.name),
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return rec, ErrNotFound
	}
	return rec, nil
}

// Upsert inserts or replaces the record owned by ownerID.
func (c Collection[T]) Upsert(ownerID string, rec T) error {
	if ownerID == "" {
		return fmt.Errorf("failed to upsert into %s: empty owner id", c.name)
	}
	return c.store.Upsert(c.name, ownerID, rec)
}

// Exists reports whether a record for ownerID is present and readable.
func (c Collection[T]) Exists(ownerID string) (bool, error) {
	_, err := c.Get(ownerID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// All decodes every readable record in the collection. Undecodable
// entries are skipped.
func (c Collection[T]) All() ([]T, error) {
	raws, err := c.store.All(c.name)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.store.log.Warn("skipping undecodable record",
				zap.String("collection", c.name), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
