package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fitmate/internal/app"
	"fitmate/internal/config"
	"fitmate/internal/goals"
	"fitmate/internal/logging"
	"fitmate/internal/meal"
	"fitmate/internal/onboarding"
	"fitmate/internal/profile"
	"fitmate/internal/progress"
	"fitmate/internal/session"
	"fitmate/internal/store"
	"fitmate/internal/workout"
)

func main() {
	ctx := context.Background()

	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	profiles := profile.NewRepository(st)
	workouts := workout.NewRepository(st)
	meals := meal.NewRepository(st)
	progressRepo := progress.NewRepository(st)
	goalsRepo := goals.NewRepository(st)

	tokens := session.NewTokenIssuer(cfg.JWTSecret, session.DefaultTokenTTL)
	sessions := session.NewManager(st, session.Finders{
		Profile:     profiles,
		WorkoutPlan: workouts,
		MealPlan:    meals,
	}, tokens, logger)
	guard := onboarding.NewGuard(sessions, logger)

	application := app.NewApp(cfg, st, sessions, guard, profiles, workouts, meals, progressRepo, goalsRepo, logger)

	if err := application.StartWatcher(); err != nil {
		logger.Warn("running without cross-process store notifications", zap.Error(err))
	}
	defer application.StopWatcher()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "register":
		email, password := credentialFlags("register")
		id, err := application.Register(ctx, email, password)
		if err != nil {
			log.Fatalf("Registration failed: %v", err)
		}
		fmt.Printf("Registered %s. Next step: %s\n", id.Email, application.RequiredStep())
	case "login":
		email, password := credentialFlags("login")
		id, err := application.Login(ctx, email, password)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		fmt.Printf("Welcome back, %s. Next step: %s\n", id.Email, application.RequiredStep())
	case "logout":
		if err := application.Logout(); err != nil {
			log.Fatalf("Logout failed: %v", err)
		}
		fmt.Println("Logged out.")
	case "status":
		fmt.Printf("Next step: %s\n", application.RequiredStep())
	case "profile":
		runProfile(ctx, application)
	case "workout":
		runWorkout(ctx, application)
	case "meal":
		runMeal(ctx, application)
	case "dashboard":
		runDashboard(ctx, application)
	case "log-workout":
		logCmd := flag.NewFlagSet("log-workout", flag.ExitOnError)
		calories := logCmd.Int("calories", 300, "Calories burned")
		logCmd.Parse(os.Args[2:])

		rec, err := application.LogWorkout(ctx, time.Now(), *calories)
		if err != nil {
			log.Fatalf("Failed to log workout: %v", err)
		}
		fmt.Printf("Workouts completed: %d (streak %d days)\n", rec.WorkoutsCompleted, rec.Streak)
	case "log-weight":
		logCmd := flag.NewFlagSet("log-weight", flag.ExitOnError)
		kg := logCmd.Float64("kg", 0, "Bodyweight in kilograms")
		logCmd.Parse(os.Args[2:])

		rec, err := application.LogWeight(ctx, time.Now(), *kg)
		if err != nil {
			log.Fatalf("Failed to log weight: %v", err)
		}
		fmt.Printf("Weight logged (%d entries).\n", len(rec.Weight))
	case "goal":
		runGoal(ctx, application)
	case "goals":
		runGoals(ctx, application)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func credentialFlags(name string) (email, password string) {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	e := cmd.String("email", "", "Account email")
	p := cmd.String("password", "", "Account password")
	cmd.Parse(os.Args[2:])
	return *e, *p
}

// guardOrExit runs the navigation guard for a screen and exits with the
// redirect target when the screen is not the required one.
func guardOrExit(application *app.App, screen onboarding.Step) {
	decision := application.OpenScreen(screen)
	if !decision.Allowed() {
		fmt.Printf("Cannot open %s yet, go to %s first.\n", screen, decision.Redirect)
		os.Exit(1)
	}
}

func runProfile(ctx context.Context, application *app.App) {
	cmd := flag.NewFlagSet("profile", flag.ExitOnError)
	name := cmd.String("name", "", "Full name")
	age := cmd.Int("age", 0, "Age in years")
	sex := cmd.String("sex", "", "Sex")
	height := cmd.Int("height", 0, "Height in cm")
	weight := cmd.Int("weight", 0, "Weight in kg")
	level := cmd.String("level", "beginner", "Fitness level: beginner, intermediate or advanced")
	diet := cmd.String("diet", "", "Dietary preference (optional)")
	cmd.Parse(os.Args[2:])

	// Profile edits after onboarding are fine; only the first pass is
	// gated on the profile step itself.
	if application.RequiredStep() != onboarding.StepDashboard {
		guardOrExit(application, onboarding.StepProfile)
	}

	err := application.SubmitProfile(ctx, profile.Record{
		Name:              *name,
		Age:               *age,
		Sex:               *sex,
		HeightCM:          *height,
		WeightKG:          *weight,
		FitnessLevel:      *level,
		DietaryPreference: *diet,
	})
	if err != nil {
		log.Fatalf("Failed to save profile: %v", err)
	}
	fmt.Printf("Profile saved. Next step: %s\n", application.RequiredStep())
}

func runWorkout(ctx context.Context, application *app.App) {
	cmd := flag.NewFlagSet("workout", flag.ExitOnError)
	workoutType := cmd.String("type", "strength", "Workout type: strength, cardio or hybrid")
	days := cmd.Int("days", 3, "Training days per week")
	equipment := cmd.String("equipment", "none", "Comma-separated equipment access")
	cmd.Parse(os.Args[2:])

	if application.RequiredStep() != onboarding.StepDashboard {
		guardOrExit(application, onboarding.StepWorkout)
	}

	err := application.SubmitWorkoutPreferences(ctx, workout.Preferences{
		WorkoutType:     *workoutType,
		DaysPerWeek:     *days,
		EquipmentAccess: strings.Split(*equipment, ","),
	})
	if err != nil {
		log.Fatalf("Failed to save workout plan: %v", err)
	}
	fmt.Printf("Workout plan saved. Next step: %s\n", application.RequiredStep())
}

func runMeal(ctx context.Context, application *app.App) {
	cmd := flag.NewFlagSet("meal", flag.ExitOnError)
	calories := cmd.String("calories", "medium", "Calorie tier: low, medium or high")
	allergies := cmd.String("allergies", "", "Comma-separated allergies")
	cmd.Parse(os.Args[2:])

	if application.RequiredStep() != onboarding.StepDashboard {
		guardOrExit(application, onboarding.StepMeal)
	}

	tier, err := meal.ParseCalorieTier(*calories)
	if err != nil {
		log.Fatalf("Failed to save meal plan: %v", err)
	}

	var allergyList []string
	if *allergies != "" {
		allergyList = strings.Split(*allergies, ",")
	}

	if err := application.SubmitMealPreferences(ctx, tier, allergyList); err != nil {
		log.Fatalf("Failed to save meal plan: %v", err)
	}
	fmt.Printf("Meal plan saved. Next step: %s\n", application.RequiredStep())
}

func runDashboard(ctx context.Context, application *app.App) {
	guardOrExit(application, onboarding.StepDashboard)

	summary, err := application.Dashboard(ctx)
	if err != nil {
		log.Fatalf("Failed to load dashboard: %v", err)
	}

	fmt.Printf("=== %s ===\n", summary.Profile.Name)
	fmt.Printf("Level: %s | %d cm | %d kg\n",
		summary.Profile.FitnessLevel, summary.Profile.HeightCM, summary.Profile.WeightKG)

	fmt.Println("\n=== WORKOUT PLAN ===")
	for _, day := range summary.Workout.GeneratedDays {
		fmt.Printf("% -10s %s: %s (%dx%d)\n",
			day.Day, day.Focus, strings.Join(day.Exercises, ", "), day.Sets, day.Reps)
	}

	fmt.Println("\n=== MEAL PLAN ===")
	for _, m := range summary.Meal.GeneratedMeals {
		fmt.Printf("% -10s %s (%d kcal)\n", m.Slot, m.Name, m.Calories)
	}

	if summary.Progress != nil {
		fmt.Printf("\nWorkouts completed: %d | Streak: %d days | Calories burned: %d\n",
			summary.Progress.WorkoutsCompleted, summary.Progress.Streak, summary.Progress.CaloriesBurned)
	}
}

func runGoal(ctx context.Context, application *app.App) {
	cmd := flag.NewFlagSet("goal", flag.ExitOnError)
	goalType := cmd.String("type", "", "Goal type, e.g. lose_weight")
	target := cmd.Int("target", 0, "Target value")
	end := cmd.String("end", "", "Optional end date (YYYY-MM-DD)")
	cmd.Parse(os.Args[2:])

	g := goals.Goal{
		GoalType:    *goalType,
		TargetValue: *target,
		StartDate:   time.Now(),
	}
	if *end != "" {
		endDate, err := time.Parse("2006-01-02", *end)
		if err != nil {
			log.Fatalf("Failed to create goal: bad end date: %v", err)
		}
		g.EndDate = &endDate
	}

	created, err := application.CreateGoal(ctx, g)
	if err != nil {
		log.Fatalf("Failed to create goal: %v", err)
	}
	fmt.Printf("Goal created: %s (%s, target %d)\n", created.ID, created.GoalType, created.TargetValue)
}

func runGoals(ctx context.Context, application *app.App) {
	all, err := application.Goals(ctx)
	if err != nil {
		log.Fatalf("Failed to list goals: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No goals yet.")
		return
	}
	for _, g := range all {
		deadline := "open-ended"
		if g.EndDate != nil {
			deadline = g.EndDate.Format("2006-01-02")
		}
		fmt.Printf("%s  %-12s target %d  until %s\n", g.ID, g.GoalType, g.TargetValue, deadline)
	}
}

func printUsage() {
	fmt.Println("Usage: fitmate <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  register      Create an account (-email, -password)")
	fmt.Println("  login         Sign in (-email, -password)")
	fmt.Println("  logout        Sign out")
	fmt.Println("  status        Show the next onboarding step")
	fmt.Println("  profile       Save your fitness profile")
	fmt.Println("  workout       Save workout preferences and generate a plan")
	fmt.Println("  meal          Save meal preferences and generate a plan")
	fmt.Println("  dashboard     Show your plans and progress")
	fmt.Println("  log-workout   Record a completed workout (-calories)")
	fmt.Println("  log-weight    Record a bodyweight measurement (-kg)")
	fmt.Println("  goal          Create a fitness goal (-type, -target, -end)")
	fmt.Println("  goals         List your fitness goals")
}
