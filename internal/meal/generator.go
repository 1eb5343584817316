package meal

import "strings"

// candidate meals per slot, cheapest first. The generator walks each
// slot and picks the first candidate that clears the allergy filter.
var menu = map[string][]Meal{
	"breakfast": {
		{Slot: "breakfast", Name: "Oatmeal with Berries", Calories: 350, Ingredients: []string{"oats", "milk", "blueberries", "honey"}},
		{Slot: "breakfast", Name: "Scrambled Eggs and Toast", Calories: 400, Ingredients: []string{"eggs", "bread", "butter"}},
		{Slot: "breakfast", Name: "Fruit Smoothie", Calories: 300, Ingredients: []string{"banana", "strawberries", "orange juice"}},
	},
	"lunch": {
		{Slot: "lunch", Name: "Grilled Chicken Salad", Calories: 450, Ingredients: []string{"chicken", "lettuce", "tomato", "olive oil"}},
		{Slot: "lunch", Name: "Tuna Wrap", Calories: 420, Ingredients: []string{"tuna", "tortilla", "mayonnaise", "lettuce"}},
		{Slot: "lunch", Name: "Lentil Soup", Calories: 380, Ingredients: []string{"lentils", "carrot", "onion", "vegetable stock"}},
	},
	"dinner": {
		{Slot: "dinner", Name: "Baked Salmon with Rice", Calories: 550, Ingredients: []string{"salmon", "rice", "broccoli", "lemon"}},
		{Slot: "dinner", Name: "Beef Stir Fry", Calories: 520, Ingredients: []string{"beef", "rice", "peppers", "soy sauce"}},
		{Slot: "dinner", Name: "Vegetable Pasta", Calories: 480, Ingredients: []string{"pasta", "zucchini", "tomato", "olive oil"}},
	},
	"snack": {
		{Slot: "snack", Name: "Greek Yogurt with Nuts", Calories: 200, Ingredients: []string{"yogurt", "almonds", "honey"}},
		{Slot: "snack", Name: "Apple with Peanut Butter", Calories: 220, Ingredients: []string{"apple", "peanut butter"}},
		{Slot: "snack", Name: "Hummus and Carrots", Calories: 180, Ingredients: []string{"hummus", "carrot"}},
	},
}

var slotOrder = []string{"breakfast", "lunch", "dinner", "snack"}

// GenerateMeals builds a deterministic day of meals for a calorie tier,
// skipping any meal whose ingredients match a declared allergy. The low
// tier drops the snack slot; the high tier doubles it.
func GenerateMeals(tier CalorieTier, allergies []string) []Meal {
	slots := slotOrder
	switch tier {
	case TierLow:
		slots = slotOrder[:3]
	case TierHigh:
		slots = append(append([]string{}, slotOrder...), "snack")
	}

	var meals []Meal
	for i, slot := range slots {
		candidates := menu[slot]
		start := 0
		if i >= len(slotOrder) {
			// Second pass over a slot starts further down the menu so
			// the extra meal differs from the first pick.
			start = 1
		}
		for j := start; j < len(candidates); j++ {
			if safeFor(candidates[j], allergies) {
				meals = append(meals, candidates[j])
				break
			}
		}
	}
	return meals
}

// safeFor reports whether no ingredient matches a declared allergy.
// Matching is a case-insensitive substring check in both directions, so
// an allergy of "nut" also excludes "peanut butter".
func safeFor(m Meal, allergies []string) bool {
	for _, allergy := range allergies {
		a := strings.ToLower(strings.TrimSpace(allergy))
		if a == "" {
			continue
		}
		for _, ing := range m.Ingredients {
			i := strings.ToLower(ing)
			if strings.Contains(i, a) || strings.Contains(a, i) {
				return false
			}
		}
	}
	return true
}
