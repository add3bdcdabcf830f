package recipe

import (
	"fmt"

	"github.com/matt-dz/foodgram/internal/apperr"
)

func validateScalars(name, text string, cookingTime int32) error {
	if name == "" {
		return apperr.Validation("name", "must not be empty")
	}
	if text == "" {
		return apperr.Validation("text", "must not be empty")
	}
	if cookingTime < 1 {
		return apperr.Validation("cooking_time", "must be at least 1 minute")
	}
	return nil
}

// validateAssociations checks the tag and ingredient sets supplied to a
// create or full-replace update. A duplicate ingredient within one recipe
// is rejected outright, never merged.
func validateAssociations(tagIDs []int64, ingredients []IngredientSpec) error {
	if len(tagIDs) == 0 {
		return apperr.Validation("tags", "at least one tag is required")
	}
	seenTags := make(map[int64]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seenTags[id]; ok {
			return apperr.Validation("tags", fmt.Sprintf("tag %d is listed twice", id))
		}
		seenTags[id] = struct{}{}
	}

	if len(ingredients) == 0 {
		return apperr.Validation("ingredients", "at least one ingredient is required")
	}
	seen := make(map[int64]struct{}, len(ingredients))
	for _, spec := range ingredients {
		if spec.Amount < 1 {
			return apperr.Validation("ingredients", "amount must be at least 1")
		}
		if _, ok := seen[spec.IngredientID]; ok {
			return apperr.Validation("ingredients",
				fmt.Sprintf("ingredient %d is listed twice", spec.IngredientID))
		}
		seen[spec.IngredientID] = struct{}{}
	}
	return nil
}
