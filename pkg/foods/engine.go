package foods

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortRatingDesc SortKey = "rating-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNameAsc    SortKey = "name-asc"
)

// ParseSortKey maps a request value to a sort key, falling back to the
// rating-desc default for anything it does not recognize.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc:
		return SortKey(value)
	}
	return SortRatingDesc
}

// comparePrice orders listed prices before unlisted ones regardless of
// direction, only the comparison between two listed prices flips.
func comparePrice(a, b *Product, descending bool) int {
	if a.Price == nil && b.Price == nil {
		return 0
	}
	if a.Price == nil {
		return 1
	}
	if b.Price == nil {
		return -1
	}
	if descending {
		return cmpFloat(*b.Price, *a.Price)
	}
	return cmpFloat(*a.Price, *b.Price)
}

func cmpFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// ComputeVisible filters the catalog through the selection and returns the
// surviving products ordered by the sort key. The input slice is never
// mutated, ties keep their original catalog order.
func ComputeVisible(catalog []Product, selection Selection, sort SortKey) []Product {
	visible := make([]Product, 0, len(catalog))
	for i := range catalog {
		if selection.Matches(&catalog[i]) {
			visible = append(visible, catalog[i])
		}
	}

	switch sort {
	case SortPriceAsc:
		slices.SortStableFunc(visible, func(a, b Product) int {
			return comparePrice(&a, &b, false)
		})
	case SortPriceDesc:
		slices.SortStableFunc(visible, func(a, b Product) int {
			return comparePrice(&a, &b, true)
		})
	case SortNameAsc:
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(visible, func(a, b Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(visible, func(a, b Product) int {
			return cmpFloat(b.Rating, a.Rating)
		})
	}

	return visible
}
