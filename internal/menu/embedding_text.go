package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// EmbeddingText is the text a menu item is embedded from. Every descriptive
// field is included so searches by ingredient, allergen or spice level match.
func (i *Item) EmbeddingText() string {
	parts := []string{
		"Menu: " + i.Name,
		"Category: " + i.Category,
	}
	if i.Description != "" {
		parts = append(parts, "Description: "+i.Description)
	}
	if len(i.Ingredients) > 0 {
		parts = append(parts, "Ingredients: "+strings.Join(i.Ingredients, ", "))
	}
	if i.Calories != nil {
		parts = append(parts, fmt.Sprintf("Calories: %d kcal", *i.Calories))
	}
	parts = append(parts, "Price: Rp "+strconv.FormatFloat(i.Price, 'f', 0, 64))
	if i.PreparationTime != nil {
		parts = append(parts, fmt.Sprintf("Preparation time: %d minutes", *i.PreparationTime))
	}
	if i.SpicyLevel != "" && i.SpicyLevel != SpicyNone {
		parts = append(parts, "Spicy level: "+string(i.SpicyLevel))
	}
	if len(i.Allergens) > 0 {
		parts = append(parts, "Allergens: "+strings.Join(i.Allergens, ", "))
	}
	if n := i.NutritionalInfo; !n.IsEmpty() {
		var facts []string
		for _, f := range []struct {
			label string
			v     *float64
		}{{"protein", n.Protein}, {"carbs", n.Carbs}, {"fat", n.Fat}, {"fiber", n.Fiber}} {
			if f.v != nil {
				facts = append(facts, fmt.Sprintf("%s %sg", f.label, strconv.FormatFloat(*f.v, 'f', -1, 64)))
			}
		}
		parts = append(parts, "Nutrition: "+strings.Join(facts, ", "))
	}
	return strings.Join(parts, ". ")
}
