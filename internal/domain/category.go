package domain

// Known category identifiers.
const (
	CategoryFood     = 1
	CategoryExercise = 2
)

// Category is an entry of the static category registry.
type Category struct {
	ID   int
	Name string
}

var categories = []Category{
	{ID: CategoryFood, Name: "Food"},
	{ID: CategoryExercise, Name: "Exercise"},
}

// Categories returns the registry in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a registry entry.
func CategoryByID(id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
