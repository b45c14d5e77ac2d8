package shortage

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"shortages/internal"
	"shortages/internal/pipeline"
	"shortages/internal/util"
)

var ErrItemNotFound = errors.New("item not found")

// Field names an editable item column.
type Field string

const (
	FieldName     Field = "name"
	FieldQuantity Field = "quantity"
	FieldUnit     Field = "unit"
	FieldNotes    Field = "notes"
)

func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldName, FieldQuantity, FieldUnit, FieldNotes:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported field: %s", s)
	}
}

// State is the whole application state. Transitions return a new State and
// leave the receiver's items untouched.
type State struct {
	Items  []internal.ShortageItem
	Font   internal.FontConfig
	Filter string
	Sort   *pipeline.SortDirective
}

func FromSnapshot(snap internal.Snapshot) State {
	return State{Items: slices.Clone(snap.Items), Font: snap.FontConfig}
}

func (s State) Snapshot() internal.Snapshot {
	return internal.Snapshot{Items: slices.Clone(s.Items), FontConfig: s.Font}
}

// Visible is the filtered and sorted view of the items.
func (s State) Visible() []internal.ShortageItem {
	return pipeline.View(s.Items, s.Filter, s.Sort)
}

func (s State) Find(id string) (internal.ShortageItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return internal.ShortageItem{}, false
}

func (s State) taken(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// AddBlank puts a new empty row at the top of the list.
func (s State) AddBlank(ids pipeline.IDSource) (State, internal.ShortageItem) {
	item := internal.ShortageItem{ID: ids.NextID(s.taken)}
	items := make([]internal.ShortageItem, 0, len(s.Items)+1)
	items = append(items, item)
	s.Items = append(items, s.Items...)
	return s, item
}

func (s State) UpdateField(id string, field Field, value string) (State, error) {
	idx := slices.IndexFunc(s.Items, func(item internal.ShortageItem) bool { return item.ID == id })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	items := slices.Clone(s.Items)
	switch field {
	case FieldName:
		items[idx].Name = value
	case FieldQuantity:
		items[idx].Quantity = util.ToASCIIDigits(value)
	case FieldUnit:
		items[idx].Unit = value
	case FieldNotes:
		items[idx].Notes = value
	default:
		return s, fmt.Errorf("unsupported field: %s", field)
	}
	s.Items = items
	return s, nil
}

func (s State) Remove(id string) (State, error) {
	idx := slices.IndexFunc(s.Items, func(item internal.ShortageItem) bool { return item.ID == id })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.Items = slices.Delete(slices.Clone(s.Items), idx, idx+1)
	return s, nil
}

// Clear leaves exactly one blank row.
func (s State) Clear(ids pipeline.IDSource) State {
	s.Items = []internal.ShortageItem{{ID: ids.NextID(nil)}}
	return s
}

// Import runs entries through the bulk import pipeline. ok is false when there
// was nothing to import.
func (s State) Import(entries []pipeline.Entry, policy pipeline.MergePolicy, ids pipeline.IDSource) (State, []internal.ShortageItem, bool) {
	res, ok := pipeline.ImportEntries(s.Items, entries, policy, ids)
	if !ok {
		return s, nil, false
	}
	s.Items = res.Items
	return s, res.Imported, true
}

func (s State) SetFilter(term string) State {
	s.Filter = term
	return s
}

func (s State) SetSort(directive *pipeline.SortDirective) State {
	s.Sort = directive
	return s
}

// SetFont clamps the size into range and rejects an unknown family or color.
func (s State) SetFont(font internal.FontConfig) (State, error) {
	font.Size = internal.ClampFontSize(font.Size)
	if err := font.Validate(); err != nil {
		return s, err
	}
	family, _ := internal.ParseFontFamily(string(font.Family))
	font.Family = family
	s.Font = font
	return s, nil
}
