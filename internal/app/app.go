// Package app wires the session manager, the navigation guard and the
// entity repositories into the flows the screens drive.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"fitmate/internal/config"
	"fitmate/internal/goals"
	"fitmate/internal/meal"
	"fitmate/internal/onboarding"
	"fitmate/internal/profile"
	"fitmate/internal/progress"
	"fitmate/internal/session"
	"fitmate/internal/store"
	"fitmate/internal/workout"
)

// ErrSubmissionInFlight is returned when a setup submission arrives
// while an earlier one is still pending. The screen should disable its
// submit action until the first resolves; this is the backstop.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// App holds the application's dependencies.
type App struct {
	cfg      *config.Config
	store    *store.Store
	sessions *session.Manager
	guard    *onboarding.Guard
	profiles *profile.Repository
	workouts *workout.Repository
	meals    *meal.Repository
	progress *progress.Repository
	goals    *goals.Repository
	log      *zap.Logger

	submitting atomic.Bool
	watcher    *store.Watcher
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	s *store.Store,
	sessions *session.Manager,
	guard *onboarding.Guard,
	profiles *profile.Repository,
	workouts *workout.Repository,
	meals *meal.Repository,
	progressRepo *progress.Repository,
	goalsRepo *goals.Repository,
	log *zap.Logger,
) *App {
	return &App{
		cfg:      cfg,
		store:    s,
		sessions: sessions,
		guard:    guard,
		profiles: profiles,
		workouts: workouts,
		meals:    meals,
		progress: progressRepo,
		goals:    goalsRepo,
		log:      log,
	}
}

// OpenScreen runs the navigation guard for a screen entry. Screens call
// this before rendering anything and follow the redirect when the
// decision is not Allowed.
func (a *App) OpenScreen(screen onboarding.Step) onboarding.Decision {
	return a.guard.Enter(screen)
}

// Register creates an account and signs the user in.
func (a *App) Register(ctx context.Context, email, password string) (*session.Identity, error) {
	return a.sessions.Register(ctx, email, password)
}

// Login signs the user in and derives their onboarding flags.
func (a *App) Login(ctx context.Context, email, password string) (*session.Identity, error) {
	return a.sessions.Login(ctx, email, password)
}

// Logout clears the session.
func (a *App) Logout() error {
	return a.sessions.Logout()
}

// RequiredStep returns the next step for the current identity.
func (a *App) RequiredStep() onboarding.Step {
	return onboarding.RequiredStep(a.sessions.CurrentIdentity())
}

// SubmitProfile saves the profile record for the signed-in user and,
// on first completion, marks the profile step done. The flag flip only
// happens after the record write has returned, so a crashed write can
// never leave a flag pointing at a missing record.
func (a *App) SubmitProfile(ctx context.Context, form profile.Record) error {
	done, err := a.beginSubmission(ctx)
	if err != nil {
		return err
	}
	defer done()

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return &session.AuthError{Reason: "no active session"}
	}
	form.OwnerID = id.ID

	if err := a.profiles.Save(form); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if !id.ProfileComplete {
		if err := a.sessions.MarkComplete(session.KindProfile); err != nil {
			return err
		}
	}
	return nil
}

// SubmitWorkoutPreferences generates a workout plan from the setup
// answers and the user's profile, saves it, and marks the workout step
// done on first completion.
func (a *App) SubmitWorkoutPreferences(ctx context.Context, prefs workout.Preferences) error {
	done, err := a.beginSubmission(ctx)
	if err != nil {
		return err
	}
	defer done()

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return &session.AuthError{Reason: "no active session"}
	}
	if !id.ProfileComplete {
		return &session.DependencyError{Kind: session.KindWorkoutPlan, Missing: "completed profile"}
	}
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid workout preferences: %w", err)
	}

	prof, err := a.profiles.Get(id.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &session.DependencyError{Kind: session.KindWorkoutPlan, Missing: "profile record"}
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	rec := workout.Record{
		OwnerID:         id.ID,
		WorkoutType:     prefs.WorkoutType,
		DaysPerWeek:     prefs.DaysPerWeek,
		EquipmentAccess: prefs.EquipmentAccess,
		GeneratedDays:   workout.GeneratePlan(prefs, prof.FitnessLevel),
	}
	if err := a.workouts.Save(rec); err != nil {
		return fmt.Errorf("failed to save workout plan: %w", err)
	}

	if !id.WorkoutPlanComplete {
		if err := a.sessions.MarkComplete(session.KindWorkoutPlan); err != nil {
			return err
		}
	}
	return nil
}

// SubmitMealPreferences generates a meal plan from the setup answers,
// saves it, and marks the meal step done on first completion.
func (a *App) SubmitMealPreferences(ctx context.Context, tier meal.CalorieTier, allergies []string) error {
	done, err := a.beginSubmission(ctx)
	if err != nil {
		return err
	}
	defer done()

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return &session.AuthError{Reason: "no active session"}
	}
	// strict sequential flow: a meal plan record must never exist
	// ahead of the workout plan, so the check runs before the write
	if !id.ProfileComplete {
		return &session.DependencyError{Kind: session.KindMealPlan, Missing: "completed profile"}
	}
	if !id.WorkoutPlanComplete {
		return &session.DependencyError{Kind: session.KindMealPlan, Missing: "completed workout plan"}
	}

	rec := meal.Record{
		OwnerID:        id.ID,
		Calories:       tier,
		Allergies:      allergies,
		GeneratedMeals: meal.GenerateMeals(tier, allergies),
	}
	if err := a.meals.Save(rec); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}

	if !id.MealPlanComplete {
		if err := a.sessions.MarkComplete(session.KindMealPlan); err != nil {
			return err
		}
	}
	return nil
}

// Summary aggregates everything the dashboard shows. Progress may be
// nil for a user that has not logged a workout yet.
type Summary struct {
	Identity *session.Identity
	Profile  *profile.Record
	Workout  *workout.Record
	Meal     *meal.Record
	Progress *progress.Record
}

// Dashboard reads the signed-in user's records. Progress absence is
// normal; absence of any plan record means onboarding is incomplete and
// surfaces as a dependency error since the guard admits only fully
// onboarded users here.
func (a *App) Dashboard(ctx context.Context) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}

	prof, err := a.profiles.Get(id.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	plan, err := a.workouts.Get(id.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workout plan: %w", err)
	}
	meals, err := a.meals.Get(id.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	summary := &Summary{Identity: id, Profile: prof, Workout: plan, Meal: meals}

	prog, err := a.progress.Get(id.ID)
	if err == nil {
		summary.Progress = prog
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return summary, nil
}

// LogWorkout records a completed workout for the signed-in user.
func (a *App) LogWorkout(ctx context.Context, at time.Time, caloriesBurned int) (*progress.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}
	return a.progress.LogWorkout(id.ID, at, caloriesBurned)
}

// LogWeight records a bodyweight measurement for the signed-in user.
func (a *App) LogWeight(ctx context.Context, at time.Time, weightKG float64) (*progress.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}
	return a.progress.LogWeight(id.ID, at, weightKG)
}

// CreateGoal records a new fitness goal for the signed-in user.
func (a *App) CreateGoal(ctx context.Context, g goals.Goal) (*goals.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}
	return a.goals.Create(id.ID, g)
}

// Goals lists the signed-in user's fitness goals.
func (a *App) Goals(ctx context.Context) ([]goals.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}
	return a.goals.All(id.ID)
}

// Goal retrieves one of the signed-in user's goals by id.
func (a *App) Goal(ctx context.Context, goalID string) (*goals.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := a.sessions.CurrentIdentity()
	if id == nil {
		return nil, &session.AuthError{Reason: "no active session"}
	}
	return a.goals.Get(id.ID, goalID)
}

// StartWatcher begins reloading the store and refreshing the cached
// session when another process writes the backing file.
func (a *App) StartWatcher() error {
	if a.watcher != nil {
		return nil
	}
	w, err := store.NewWatcher(a.store, a.sessions.Refresh, a.log)
	if err != nil {
		return fmt.Errorf("failed to create store watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start store watcher: %w", err)
	}
	a.watcher = w
	return nil
}

// StopWatcher stops the store watcher if one is running.
func (a *App) StopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
}

// beginSubmission acquires the re-entrant submission latch. The caller
// must invoke the returned release function when the submission
// resolves.
func (a *App) beginSubmission(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	return func() { a.submitting.Store(false) }, nil
}
