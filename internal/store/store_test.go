package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRecord struct {
	OwnerID string `json:"owner_id"`
	Weight  int    `json:"weight"`
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	return s, path
}

func TestOpen(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.Get("profiles", "u1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		s, err := Open(path, zap.NewNop())
		require.NoError(t, err, "a malformed store must open as empty, not fail")

		_, err = s.Get("profiles", "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		// the next write recovers the file
		require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 70}))
		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		_, err = reopened.Get("profiles", "u1")
		assert.NoError(t, err)
	})

	t.Run("MalformedCollectionDropped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		doc := `{"profiles": "not an array", "meal_plans": [{"owner_id": "u1"}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		s, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		_, err = s.Get("profiles", "u1")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get("meal_plans", "u1")
		assert.NoError(t, err)
	})
}

func TestUpsert(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		s, _ := newTestStore(t)

		in := testRecord{OwnerID: "u1", Weight: 70}
		require.NoError(t, s.Upsert("profiles", "u1", in))

		raw, err := s.Get("profiles", "u1")
		require.NoError(t, err)

		var out testRecord
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, in, out)
	})

	t.Run("ReplacesNotDuplicates", func(t *testing.T) {
		s, _ := newTestStore(t)

		require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 70}))
		require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 72}))

		all, err := s.All("profiles")
		require.NoError(t, err)
		require.Len(t, all, 1, "upsert must replace, never duplicate")

		var out testRecord
		require.NoError(t, json.Unmarshal(all[0], &out))
		assert.Equal(t, 72, out.Weight, "second write wins")
	})

	t.Run("Idempotent", func(t *testing.T) {
		s, _ := newTestStore(t)

		rec := testRecord{OwnerID: "u1", Weight: 70}
		require.NoError(t, s.Upsert("profiles", "u1", rec))
		require.NoError(t, s.Upsert("profiles", "u1", rec))

		all, err := s.All("profiles")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("SeparateOwners", func(t *testing.T) {
		s, _ := newTestStore(t)

		require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 70}))
		require.NoError(t, s.Upsert("profiles", "u2", testRecord{OwnerID: "u2", Weight: 80}))

		all, err := s.All("profiles")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("DurableAcrossReopen", func(t *testing.T) {
		s, path := newTestStore(t)
		require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 70}))

		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		raw, err := reopened.Get("profiles", "u1")
		require.NoError(t, err)

		var out testRecord
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, 70, out.Weight)
	})

	t.Run("UnwritablePathSurfaces", func(t *testing.T) {
		// a directory squatting on the store path: reads degrade to an
		// empty store, but the write-through must fail loudly
		path := filepath.Join(t.TempDir(), "store.json")
		require.NoError(t, os.Mkdir(path, 0755))

		s, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		err = s.Upsert("profiles", "u1", testRecord{OwnerID: "u1"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestSession(t *testing.T) {
	type sess struct {
		Email string `json:"email"`
	}

	t.Run("PutGetClear", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, ok := s.Session()
		assert.False(t, ok)

		require.NoError(t, s.PutSession(sess{Email: "a@b.com"}))

		raw, ok := s.Session()
		require.True(t, ok)
		var out sess
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "a@b.com", out.Email)

		require.NoError(t, s.ClearSession())
		_, ok = s.Session()
		assert.False(t, ok)

		// clearing again is a no-op
		require.NoError(t, s.ClearSession())
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		s, path := newTestStore(t)
		require.NoError(t, s.PutSession(sess{Email: "a@b.com"}))

		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		raw, ok := reopened.Session()
		require.True(t, ok)
		var out sess
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "a@b.com", out.Email)
	})
}

func TestReload(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 70}))

	// simulate another process rewriting the file
	other, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, other.Upsert("profiles", "u1", testRecord{OwnerID: "u1", Weight: 99}))

	s.Reload()

	raw, err := s.Get("profiles", "u1")
	require.NoError(t, err)
	var out testRecord
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 99, out.Weight)
}

func TestCollection(t *testing.T) {
	t.Run("TypedRoundTrip", func(t *testing.T) {
		s, _ := newTestStore(t)
		c := NewCollection[testRecord](s, "profiles")

		require.NoError(t, c.Upsert("u1", testRecord{OwnerID: "u1", Weight: 70}))

		rec, err := c.Get("u1")
		require.NoError(t, err)
		assert.Equal(t, 70, rec.Weight)

		ok, err := c.Exists("u1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.Exists("u2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EmptyOwnerRejected", func(t *testing.T) {
		s, _ := newTestStore(t)
		c := NewCollection[testRecord](s, "profiles")

		assert.Error(t, c.Upsert("", testRecord{}))
	})

	t.Run("AllSkipsUndecodable", func(t *testing.T) {
		s, _ := newTestStore(t)
		c := NewCollection[testRecord](s, "profiles")

		require.NoError(t, c.Upsert("u1", testRecord{OwnerID: "u1", Weight: 70}))
		// a record of a different shape sneaks in under the same collection
		require.NoError(t, s.Upsert("profiles", "u2",
			map[string]any{"owner_id": "u2", "weight": "not a number"}))

		all, err := c.All()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
