package menu

// Input is the staff-facing create/update payload.
type Input struct {
	Name            string     `json:"name" binding:"required,max=255"`
	Category        string     `json:"category" binding:"required,max=255"`
	Calories        *int       `json:"calories" binding:"omitempty,min=0"`
	Price           *float64   `json:"price" binding:"required,min=0"`
	Ingredients     []string   `json:"ingredients"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url" binding:"omitempty,max=500"`
	IsAvailable     *bool      `json:"is_available"`
	PreparationTime *int       `json:"preparation_time" binding:"omitempty,min=0"`
	SpicyLevel      SpicyLevel `json:"spicy_level" binding:"omitempty,oneof=none mild medium hot extra_hot"`
	Allergens       []string   `json:"allergens"`
	NutritionalInfo *Nutrition `json:"nutritional_info"`
}

func (in Input) apply(item *Item) {
	item.Name = in.Name
	item.Category = in.Category
	item.Calories = in.Calories
	if in.Price != nil {
		item.Price = *in.Price
	}
	item.Ingredients = in.Ingredients
	item.Description = in.Description
	if in.ImageURL != "" {
		item.ImageURL = in.ImageURL
	}
	item.IsAvailable = true
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	item.PreparationTime = in.PreparationTime
	item.SpicyLevel = in.SpicyLevel
	if item.SpicyLevel == "" {
		item.SpicyLevel = SpicyNone
	}
	item.Allergens = in.Allergens
	item.NutritionalInfo = in.NutritionalInfo
}

// Filter narrows the staff/customer menu listing.
type Filter struct {
	Query       string
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	MaxCalories *int
	SortField   string
	SortOrder   string
	Page        int
	PerPage     int
}

var sortableFields = map[string]bool{
	"id":         true,
	"name":       true,
	"category":   true,
	"price":      true,
	"calories":   true,
	"created_at": true,
}

// Normalize clamps paging and falls back to created_at desc for unknown
// sort keys.
func (f *Filter) Normalize() {
	if !sortableFields[f.SortField] {
		f.SortField = "created_at"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 15
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
}

type Page struct {
	Items      []Item `json:"data"`
	Total      int    `json:"total"`
	Page       int    `json:"current_page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"last_page"`
}

func newPage(items []Item, total int, f Filter) *Page {
	pages := total / f.PerPage
	if total%f.PerPage != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	if items == nil {
		items = []Item{}
	}
	return &Page{Items: items, Total: total, Page: f.Page, PerPage: f.PerPage, TotalPages: pages}
}

// CategorySummary is one bucket of the group-by-category view.
type CategorySummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Items    []Item `json:"items,omitempty"`
}

// EmbedReport summarises a batch embedding run.
type EmbedReport struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
