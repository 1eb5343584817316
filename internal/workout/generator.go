package workout

// exercise describes one movement and the equipment it needs. An empty
// equipment string means bodyweight only.
type exercise struct {
	name      string
	equipment string
}

var focusRotation = map[string][]string{
	"strength": {"Push", "Pull", "Legs", "Core", "Upper Body", "Lower Body", "Full Body"},
	"cardio":   {"Intervals", "Endurance", "Tempo", "Recovery", "Hills", "Intervals", "Endurance"},
	"hybrid":   {"Strength", "Conditioning", "Legs", "Endurance", "Upper Body", "Intervals", "Full Body"},
}

var exercisePool = map[string][]exercise{
	"Push":       {{"Push-ups", ""}, {"Bench Press", "barbell"}, {"Dumbbell Shoulder Press", "dumbbells"}, {"Dips", "pullup_bar"}},
	"Pull":       {{"Inverted Rows", ""}, {"Pull-ups", "pullup_bar"}, {"Dumbbell Rows", "dumbbells"}, {"Band Face Pulls", "resistance_bands"}},
	"Legs":       {{"Bodyweight Squats", ""}, {"Barbell Squats", "barbell"}, {"Goblet Squats", "dumbbells"}, {"Kettlebell Swings", "kettlebells"}},
	"Core":       {{"Plank", ""}, {"Hanging Leg Raises", "pullup_bar"}, {"Weighted Sit-ups", "dumbbells"}},
	"Upper Body": {{"Pike Push-ups", ""}, {"Overhead Press", "barbell"}, {"Dumbbell Bench Press", "bench"}},
	"Lower Body": {{"Lunges", ""}, {"Romanian Deadlifts", "barbell"}, {"Dumbbell Step-ups", "dumbbells"}},
	"Full Body":  {{"Burpees", ""}, {"Deadlifts", "barbell"}, {"Kettlebell Clean and Press", "kettlebells"}},

	"Strength":     {{"Push-ups", ""}, {"Bench Press", "barbell"}, {"Dumbbell Rows", "dumbbells"}},
	"Conditioning": {{"Mountain Climbers", ""}, {"Kettlebell Swings", "kettlebells"}, {"Band Sprints", "resistance_bands"}},
	"Intervals":    {{"Sprint Intervals", ""}, {"Jump Rope Intervals", ""}},
	"Endurance":    {{"Steady-state Run", ""}, {"Long Walk", ""}},
	"Tempo":        {{"Tempo Run", ""}},
	"Recovery":     {{"Easy Jog", ""}, {"Stretching Circuit", ""}},
	"Hills":        {{"Hill Repeats", ""}},
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// GeneratePlan builds a deterministic training week from the setup
// answers and the user's fitness level. It stands in for the backend
// plan generator when the app runs against the local store.
func GeneratePlan(prefs Preferences, fitnessLevel string) []DaySchedule {
	rotation, ok := focusRotation[prefs.WorkoutType]
	if !ok {
		rotation = focusRotation["hybrid"]
	}

	sets, reps := volumeFor(fitnessLevel)

	available := make(map[string]bool, len(prefs.EquipmentAccess))
	for _, eq := range prefs.EquipmentAccess {
		available[eq] = true
	}

	days := make([]DaySchedule, 0, prefs.DaysPerWeek)
	for i := 0; i < prefs.DaysPerWeek; i++ {
		focus := rotation[i%len(rotation)]
		days = append(days, DaySchedule{
			Day:       weekdays[i%len(weekdays)],
			Focus:     focus,
			Exercises: pickExercises(focus, available),
			Sets:      sets,
			Reps:      reps,
		})
	}
	return days
}

// volumeFor buckets training volume by self-reported fitness level.
func volumeFor(fitnessLevel string) (sets, reps int) {
	switch fitnessLevel {
	case "beginner":
		return 3, 8
	case "intermediate":
		return 4, 10
	case "advanced":
		return 5, 12
	default:
		return 3, 10
	}
}

// pickExercises returns the movements in the focus pool the user has
// equipment for. Full gym access unlocks everything; bodyweight
// movements are always included, so no day ends up empty.
func pickExercises(focus string, available map[string]bool) []string {
	pool := exercisePool[focus]

	var picked []string
	for _, ex := range pool {
		if ex.equipment == "" || available["gym"] || available[ex.equipment] {
			picked = append(picked, ex.name)
		}
	}
	return picked
}
