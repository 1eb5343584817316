package onboarding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitmate/internal/meal"
	"fitmate/internal/profile"
	"fitmate/internal/session"
	"fitmate/internal/store"
	"fitmate/internal/workout"
)

func newTestGuard(t *testing.T) (*Guard, *session.Manager, *profile.Repository) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "store.json"), zap.NewNop())
	require.NoError(t, err)

	profiles := profile.NewRepository(s)
	sessions := session.NewManager(s, session.Finders{
		Profile:     profiles,
		WorkoutPlan: workout.NewRepository(s),
		MealPlan:    meal.NewRepository(s),
	}, session.NewTokenIssuer("test-secret", session.DefaultTokenTTL), zap.NewNop())

	return NewGuard(sessions, zap.NewNop()), sessions, profiles
}

func TestGuardEnter(t *testing.T) {
	t.Run("AnonymousRedirectsToLogin", func(t *testing.T) {
		guard, _, _ := newTestGuard(t)

		d := guard.Enter(StepDashboard)
		assert.Equal(t, GuardRedirecting, d.State)
		assert.Equal(t, StepLogin, d.Redirect)
		assert.False(t, d.Allowed())
	})

	t.Run("FreshRegistrationAllowsProfileOnly", func(t *testing.T) {
		guard, sessions, _ := newTestGuard(t)

		_, err := sessions.Register(context.Background(), "a@b.com", "password123")
		require.NoError(t, err)

		d := guard.Enter(StepProfile)
		assert.Equal(t, GuardAllowed, d.State)
		assert.True(t, d.Allowed())

		for _, screen := range []Step{StepWorkout, StepMeal, StepDashboard} {
			d := guard.Enter(screen)
			assert.Equal(t, GuardRedirecting, d.State, screen.String())
			assert.Equal(t, StepProfile, d.Redirect, screen.String())
		}
	})

	t.Run("ReevaluatesOnEveryEntry", func(t *testing.T) {
		guard, sessions, profiles := newTestGuard(t)

		id, err := sessions.Register(context.Background(), "a@b.com", "password123")
		require.NoError(t, err)

		d := guard.Enter(StepWorkout)
		require.Equal(t, GuardRedirecting, d.State)

		// completing the profile mid-session must flip the next entry
		require.NoError(t, profiles.Save(profile.Record{
			OwnerID:      id.ID,
			Name:         "Ana",
			Age:          30,
			Sex:          "female",
			HeightCM:     170,
			WeightKG:     65,
			FitnessLevel: "beginner",
		}))
		require.NoError(t, sessions.MarkComplete(session.KindProfile))

		d = guard.Enter(StepWorkout)
		assert.Equal(t, GuardAllowed, d.State)

		d = guard.Enter(StepProfile)
		assert.Equal(t, GuardRedirecting, d.State)
		assert.Equal(t, StepWorkout, d.Redirect)
	})
}
