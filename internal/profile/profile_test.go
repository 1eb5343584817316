package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitmate/internal/store"
)

func validRecord() Record {
	return Record{
		OwnerID:      "u1",
		Name:         "Ana",
		Age:          30,
		Sex:          "female",
		HeightCM:     170,
		WeightKG:     65,
		FitnessLevel: "beginner",
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validRecord().Validate())
	})

	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"ShortName", func(r *Record) { r.Name = "A" }},
		{"TooYoung", func(r *Record) { r.Age = 15 }},
		{"TooOld", func(r *Record) { r.Age = 101 }},
		{"MissingSex", func(r *Record) { r.Sex = "" }},
		{"HeightTooLow", func(r *Record) { r.HeightCM = 99 }},
		{"HeightTooHigh", func(r *Record) { r.HeightCM = 251 }},
		{"WeightTooLow", func(r *Record) { r.WeightKG = 29 }},
		{"WeightTooHigh", func(r *Record) { r.WeightKG = 301 }},
		{"MissingLevel", func(r *Record) { r.FitnessLevel = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)
			assert.Error(t, rec.Validate())
		})
	}
}

func TestRepository(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "store.json"), zap.NewNop())
	require.NoError(t, err)
	repo := NewRepository(s)

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, repo.Save(validRecord()))

		got, err := repo.Get("u1")
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
		assert.False(t, got.UpdatedAt.IsZero(), "save stamps the update time")
	})

	t.Run("UpdateInPlace", func(t *testing.T) {
		rec := validRecord()
		rec.WeightKG = 70
		require.NoError(t, repo.Save(rec))

		all, err := repo.All()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 70, all[0].WeightKG)
	})

	t.Run("InvalidRejected", func(t *testing.T) {
		rec := validRecord()
		rec.Age = 5
		assert.Error(t, repo.Save(rec))
	})

	t.Run("ExistsProbe", func(t *testing.T) {
		ok, err := repo.Exists("u1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists("nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
