package assistant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eatery/internal/menu"
)

// NoRelevantItems is the whole context when retrieval found nothing.
const NoRelevantItems = "No relevant menu items found."

// BuildContext renders retrieved items as the plain-text block placed in
// front of the guest's message. Each block carries a labelled ID line so the
// model can call functions with the right menu_id.
func BuildContext(items []menu.Item) string {
	if len(items) == 0 {
		return NoRelevantItems
	}

	blocks := make([]string, 0, len(items))
	for i := range items {
		blocks = append(blocks, itemBlock(&items[i]))
	}
	return "Available menu items:\n\n" + strings.Join(blocks, "\n\n")
}

func itemBlock(item *menu.Item) string {
	var b strings.Builder

	fmt.Fprintf(&b, "- %s (%s)\n", item.Name, item.Category)
	fmt.Fprintf(&b, "  ID: %d\n", item.ID)
	fmt.Fprintf(&b, "  Price: Rp %s\n", FormatRupiah(item.Price))

	if item.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", item.Description)
	}
	if item.Calories != nil && *item.Calories > 0 {
		fmt.Fprintf(&b, "  Calories: %d kcal\n", *item.Calories)
	}
	if len(item.Ingredients) > 0 {
		fmt.Fprintf(&b, "  Ingredients: %s\n", strings.Join(item.Ingredients, ", "))
	}
	if item.SpicyLevel != "" && item.SpicyLevel != menu.SpicyNone {
		fmt.Fprintf(&b, "  Spicy: %s\n", item.SpicyLevel)
	}
	if len(item.Allergens) > 0 {
		fmt.Fprintf(&b, "  Allergens: %s\n", strings.Join(item.Allergens, ", "))
	}
	if item.PreparationTime != nil && *item.PreparationTime > 0 {
		fmt.Fprintf(&b, "  Prep time: %d minutes\n", *item.PreparationTime)
	}
	if n := item.NutritionalInfo; !n.IsEmpty() {
		fmt.Fprintf(&b, "  Nutrition: %s\n", nutritionLine(n))
	}

	available := "No"
	if item.IsAvailable {
		available = "Yes"
	}
	fmt.Fprintf(&b, "  Available: %s", available)

	return b.String()
}

func nutritionLine(n *menu.Nutrition) string {
	var facts []string
	for _, f := range []struct {
		label string
		grams *float64
	}{
		{"protein", n.Protein},
		{"carbs", n.Carbs},
		{"fat", n.Fat},
		{"fiber", n.Fiber},
	} {
		if f.grams != nil {
			facts = append(facts, f.label+" "+strconv.FormatFloat(*f.grams, 'f', -1, 64)+"g")
		}
	}
	return strings.Join(facts, ", ")
}

// FormatRupiah renders a whole-rupiah amount with dot thousands separators,
// e.g. 1234567 -> "1.234.567".
func FormatRupiah(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PromptWithContext prefixes the guest message with the retrieval context.
func PromptWithContext(context, message string) string {
	return "Here is the relevant menu information:\n" + context + "\n\nCustomer question: " + message
}
