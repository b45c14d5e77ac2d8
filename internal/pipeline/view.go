package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shortages/internal"
	"shortages/internal/util"
)

type SortField string

const (
	SortByName     SortField = "name"
	SortByUnit     SortField = "unit"
	SortByQuantity SortField = "quantity"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type SortDirective struct {
	Field     SortField
	Direction SortDirection
}

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByName, SortByUnit, SortByQuantity:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported sort field: %s", s)
	}
}

// ToggleSort picks the next directive when field is selected: a field that is
// already sorted ascending flips to descending, anything else starts ascending.
func ToggleSort(current *SortDirective, field SortField) SortDirective {
	if current != nil && current.Field == field && current.Direction == Ascending {
		return SortDirective{Field: field, Direction: Descending}
	}
	return SortDirective{Field: field, Direction: Ascending}
}

// Filter keeps items whose name or unit contains term, ignoring case.
func Filter(items []internal.ShortageItem, term string) []internal.ShortageItem {
	out := make([]internal.ShortageItem, 0, len(items))
	for _, item := range items {
		if term == "" || util.ContainsFold(item.Name, term) || util.ContainsFold(item.Unit, term) {
			out = append(out, item)
		}
	}
	return out
}

// Sort orders items by directive without touching the input slice. A nil
// directive keeps stored order.
func Sort(items []internal.ShortageItem, directive *SortDirective) []internal.ShortageItem {
	out := slices.Clone(items)
	if directive == nil {
		return out
	}

	sign := 1
	if directive.Direction == Descending {
		sign = -1
	}

	switch directive.Field {
	case SortByQuantity:
		slices.SortStableFunc(out, func(a, b internal.ShortageItem) int {
			qa, qb := util.LeadingInt(a.Quantity), util.LeadingInt(b.Quantity)
			switch {
			case qa < qb:
				return -sign
			case qa > qb:
				return sign
			}
			return 0
		})
	case SortByName, SortByUnit:
		col := collate.New(language.Arabic)
		key := func(item internal.ShortageItem) string {
			if directive.Field == SortByUnit {
				return item.Unit
			}
			return item.Name
		}
		slices.SortStableFunc(out, func(a, b internal.ShortageItem) int {
			return sign * col.CompareString(key(a), key(b))
		})
	}
	return out
}

// View is the sequence shown and exported: items filtered by term, then sorted.
func View(items []internal.ShortageItem, term string, directive *SortDirective) []internal.ShortageItem {
	return Sort(Filter(items, term), directive)
}
