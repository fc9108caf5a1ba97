package analysis

import (
	"strings"

	"github.com/spendsight/backend/internal/model"
)

// DecomposeCategory splits a raw dataset label of the form
// "primary/subcategory" into a CategoryKey. Missing, blank, and
// null-variant parts collapse to the Unknown sentinel.
func DecomposeCategory(raw string) model.CategoryKey {
	primary, sub, found := strings.Cut(raw, "/")

	primary = strings.TrimSpace(primary)
	if primary == "" {
		primary = model.UnknownCategory
	}

	if !found {
		return model.CategoryKey{Primary: primary, Sub: model.UnknownCategory}
	}

	sub = strings.TrimSpace(sub)
	switch sub {
	case "", "null", "Null", "NULL":
		sub = model.UnknownCategory
	}
	return model.CategoryKey{Primary: primary, Sub: sub}
}
