package goals

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitmate/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "store.json"), zap.NewNop())
	require.NoError(t, err)
	return NewRepository(s)
}

func testGoal() Goal {
	return Goal{
		GoalType:    "lose_weight",
		TargetValue: 5,
		StartDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepository(t *testing.T) {
	t.Run("CreateAssignsID", func(t *testing.T) {
		r := newTestRepo(t)

		created, err := r.Create("u1", testGoal())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := r.Get("u1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "lose_weight", got.GoalType)
		assert.Equal(t, 5, got.TargetValue)
	})

	t.Run("AllAccumulates", func(t *testing.T) {
		r := newTestRepo(t)

		first, err := r.Create("u1", testGoal())
		require.NoError(t, err)
		second := testGoal()
		second.GoalType = "gain_muscle"
		_, err = r.Create("u1", second)
		require.NoError(t, err)

		all, err := r.All("u1")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
	})

	t.Run("NoGoalsYet", func(t *testing.T) {
		r := newTestRepo(t)

		all, err := r.All("u1")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("UnknownID", func(t *testing.T) {
		r := newTestRepo(t)
		_, err := r.Create("u1", testGoal())
		require.NoError(t, err)

		_, err = r.Get("u1", "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("OwnersIsolated", func(t *testing.T) {
		r := newTestRepo(t)
		created, err := r.Create("u1", testGoal())
		require.NoError(t, err)

		_, err = r.Get("u2", created.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestGoalValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, testGoal().Validate())
	})

	t.Run("MissingType", func(t *testing.T) {
		g := testGoal()
		g.GoalType = ""
		assert.Error(t, g.Validate())
	})

	t.Run("NonPositiveTarget", func(t *testing.T) {
		g := testGoal()
		g.TargetValue = 0
		assert.Error(t, g.Validate())
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		g := testGoal()
		end := g.StartDate.AddDate(0, 0, -1)
		g.EndDate = &end
		assert.Error(t, g.Validate())
	})
}
