package meal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalorieTier(t *testing.T) {
	for _, raw := range []string{"low", "medium", "high"} {
		tier, err := ParseCalorieTier(raw)
		require.NoError(t, err)
		assert.Equal(t, CalorieTier(raw), tier)
	}

	_, err := ParseCalorieTier("extreme")
	assert.Error(t, err)
	_, err = ParseCalorieTier("")
	assert.Error(t, err)
}

func TestGenerateMeals(t *testing.T) {
	t.Run("SlotsByTier", func(t *testing.T) {
		assert.Len(t, GenerateMeals(TierLow, nil), 3, "low tier drops the snack")
		assert.Len(t, GenerateMeals(TierMedium, nil), 4)
		assert.Len(t, GenerateMeals(TierHigh, nil), 5, "high tier doubles the snack")
	})

	t.Run("AllergyExcludesIngredients", func(t *testing.T) {
		meals := GenerateMeals(TierMedium, []string{"eggs", "nut"})

		for _, m := range meals {
			for _, ing := range m.Ingredients {
				lower := strings.ToLower(ing)
				assert.NotContains(t, lower, "egg", m.Name)
				assert.NotContains(t, lower, "nut", m.Name)
			}
		}
	})

	t.Run("HighTierSnacksDiffer", func(t *testing.T) {
		meals := GenerateMeals(TierHigh, nil)
		require.Len(t, meals, 5)

		var snacks []string
		for _, m := range meals {
			if m.Slot == "snack" {
				snacks = append(snacks, m.Name)
			}
		}
		require.Len(t, snacks, 2)
		assert.NotEqual(t, snacks[0], snacks[1])
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t,
			GenerateMeals(TierMedium, []string{"fish"}),
			GenerateMeals(TierMedium, []string{"fish"}))
	})
}
