// Package store provides the local record store: keyed collections of
// records persisted together in a single JSON document, emulating the
// relational backend while the app runs in local mode.
//
// The whole document is read once when the store is opened and written
// back in full after every mutation. Writes are durable but there is no
// atomicity across collections; a flow that touches two collections
// performs two separate writes. Concurrent writers are not coordinated,
// last writer wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const sessionKey = "session"

// ErrNotFound is returned when a collection holds no record for an owner.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the backing file cannot be written.
// Read failures are never surfaced this way; an unreadable document is
// treated as an empty store so onboarding can restart from scratch.
var ErrUnavailable = errors.New("store unavailable")

// Store holds every collection plus the persisted session, backed by a
// single JSON file.
type Store struct {
	path string
	log  *zap.Logger

	mu          sync.Mutex
	session     json.RawMessage
	collections map[string][]json.RawMessage
}

// ownerKey probes a raw record for its owning user.
type ownerKey struct {
	OwnerID string `json:"owner_id"`
}

// Open loads the store document from path. A missing or malformed file
// yields an empty store, never an error: local data that cannot be read
// is indistinguishable from a fresh install and the user simply goes
// through onboarding again.
func Open(path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		path:        path,
		log:         log,
		collections: make(map[string][]json.RawMessage),
	}
	s.load()
	return s, nil
}

// load reads the document from disk into memory. Callers hold no lock;
// load is used from Open and (under the mutex) from Reload.
func (s *Store) load() {
	s.session = nil
	s.collections = make(map[string][]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("store file unreadable, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("store file malformed, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	for key, raw := range doc {
		if key == sessionKey {
			s.session = raw
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			s.log.Warn("store collection malformed, dropping",
				zap.String("collection", key), zap.Error(err))
			continue
		}
		s.collections[key] = entries
	}
}

// Reload re-reads the document from disk, discarding the in-memory copy.
// Used when another process has written the backing file.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// flush serializes the document and writes it back to disk. Must be
// called with the mutex held.
func (s *Store) flush() error {
	doc := make(map[string]json.RawMessage, len(s.collections)+1)
	if s.session != nil {
		doc[sessionKey] = s.session
	}
	for name, entries := range s.collections {
		raw, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal collection %s: %w", name, err)
		}
		doc[name] = raw
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

// Get returns the record owned by ownerID in the named collection, or
// ErrNotFound. Entries without a readable owner_id are skipped.
func (s *Store) Get(collection, ownerID string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, raw := range s.collections[collection] {
		owner, ok := s.decodeOwner(collection, raw)
		if ok && owner == ownerID {
			out := make(json.RawMessage, len(raw))
			copy(out, raw)
			return out, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert inserts or replaces the record owned by ownerID in the named
// collection, then writes the document through to disk. A collection
// never holds more than one record per owner.
func (s *Store) Upsert(collection, ownerID string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.collections[collection]
	replaced := false
	for i, existing := range entries {
		owner, ok := s.decodeOwner(collection, existing)
		if ok && owner == ownerID {
			entries[i] = raw
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, raw)
	}
	s.collections[collection] = entries

	return s.flush()
}

// All returns every record in the named collection. No ordering is
// guaranteed.
func (s *Store) All(collection string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.collections[collection]
	out := make([]json.RawMessage, 0, len(entries))
	for _, raw := range entries {
		dup := make(json.RawMessage, len(raw))
		copy(dup, raw)
		out = append(out, dup)
	}
	return out, nil
}

// Session returns the persisted session document, if any.
func (s *Store) Session() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, false
	}
	out := make(json.RawMessage, len(s.session))
	copy(out, s.session)
	return out, true
}

// PutSession replaces the persisted session and writes through to disk.
func (s *Store) PutSession(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = raw
	return s.flush()
}

// ClearSession removes the persisted session. Idempotent.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	s.session = nil
	return s.flush()
}

func (s *Store) decodeOwner(collection string, raw json.RawMessage) (string, bool) {
	var key ownerKey
	if err := json.Unmarshal(raw, &key); err != nil || key.OwnerID == "" {
		s.log.Warn("skipping record without owner_id",
			zap.String("collection", collection))
		return "", false
	}
	return key.OwnerID, true
}
