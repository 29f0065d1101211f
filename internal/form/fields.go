package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/labj86/calorie-tracker/internal/domain"
)

// Field identifies an editable draft field.
type Field string

const (
	FieldCategory Field = "category"
	FieldName     Field = "name"
	FieldCalories Field = "calories"
)

// fieldEditor coerces raw input and returns the draft with that one field replaced.
type fieldEditor func(draft domain.Activity, raw string) (domain.Activity, error)

var fieldEditors = map[Field]fieldEditor{
	FieldName: func(draft domain.Activity, raw string) (domain.Activity, error) {
		draft.Name = raw
		return draft, nil
	},
	FieldCalories: func(draft domain.Activity, raw string) (domain.Activity, error) {
		draft.Calories = parseNumber(raw)
		return draft, nil
	},
	FieldCategory: func(draft domain.Activity, raw string) (domain.Activity, error) {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return draft, ErrUnknownCategory
		}
		if _, ok := domain.CategoryByID(id); !ok {
			return draft, ErrUnknownCategory
		}
		draft.Category = id
		return draft, nil
	},
}

// ParseField maps a field identifier to a Field.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	_, ok := fieldEditors[f]
	return f, ok
}

// parseNumber treats blank input as zero and anything unparseable or
// non-finite as NaN.
func parseNumber(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// Valid reports whether a draft can be submitted: a non-blank name and a
// finite, strictly positive calorie count.
func Valid(draft domain.Activity) bool {
	if strings.TrimSpace(draft.Name) == "" {
		return false
	}
	c := draft.Calories
	return !math.IsNaN(c) && !math.IsInf(c, 0) && c > 0
}

// SubmitLabel names the submit action for draft's category.
func SubmitLabel(draft domain.Activity) string {
	if draft.Category == domain.CategoryFood {
		return "Save food"
	}
	return "Save exercise"
}
