package menu

import "time"

type SpicyLevel string

const (
	SpicyNone     SpicyLevel = "none"
	SpicyMild     SpicyLevel = "mild"
	SpicyMedium   SpicyLevel = "medium"
	SpicyHot      SpicyLevel = "hot"
	SpicyExtraHot SpicyLevel = "extra_hot"
)

func (s SpicyLevel) Valid() bool {
	switch s {
	case SpicyNone, SpicyMild, SpicyMedium, SpicyHot, SpicyExtraHot:
		return true
	}
	return false
}

// Nutrition values are grams. A nil field was never recorded.
type Nutrition struct {
	Protein *float64 `json:"protein,omitempty"`
	Carbs   *float64 `json:"carbs,omitempty"`
	Fat     *float64 `json:"fat,omitempty"`
	Fiber   *float64 `json:"fiber,omitempty"`
}

func (n *Nutrition) IsEmpty() bool {
	return n == nil || (n.Protein == nil && n.Carbs == nil && n.Fat == nil && n.Fiber == nil)
}

// Item is a dish on the menu. Similarity is only set on semantic search
// results and is never persisted.
type Item struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Calories        *int       `json:"calories"`
	Price           float64    `json:"price"`
	Ingredients     []string   `json:"ingredients"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	IsAvailable     bool       `json:"is_available"`
	PreparationTime *int       `json:"preparation_time"`
	SpicyLevel      SpicyLevel `json:"spicy_level"`
	Allergens       []string   `json:"allergens"`
	NutritionalInfo *Nutrition `json:"nutritional_info"`
	Similarity      *float64   `json:"similarity,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
