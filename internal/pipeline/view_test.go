package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortages/internal"
	"shortages/internal/util"
)

func sampleItems() []internal.ShortageItem {
	return []internal.ShortageItem{
		{ID: "1", Name: "Panadol", Quantity: "10", Unit: "شريط"},
		{ID: "2", Name: "أدول", Quantity: "2", Unit: "باكيت"},
		{ID: "3", Name: "بروفين", Quantity: "", Unit: "شراب"},
		{ID: "4", Name: "", Quantity: "7", Unit: ""},
		{ID: "5", Name: "panadol extra", Quantity: "abc", Unit: "Strip"},
	}
}

func TestFilterMatchesNameOrUnit(t *testing.T) {
	items := sampleItems()
	for _, term := range []string{"", "pan", "PANADOL", "شريط", "STRIP", "ول", "zzz"} {
		got := Filter(items, term)
		want := []string{}
		for _, item := range items {
			if term == "" || util.ContainsFold(item.Name, term) || util.ContainsFold(item.Unit, term) {
				want = append(want, item.ID)
			}
		}
		assert.Equal(t, want, ids(got), "term %q", term)
	}
	assert.Len(t, Filter(items, ""), len(items))
	assert.Equal(t, []string{"1", "5"}, ids(Filter(items, "pan")))
}

func TestSortByQuantityNumeric(t *testing.T) {
	items := []internal.ShortageItem{
		{ID: "a", Quantity: "10"},
		{ID: "b", Quantity: "2"},
		{ID: "c", Quantity: ""},
	}
	got := Sort(items, &SortDirective{Field: SortByQuantity, Direction: Ascending})
	assert.Equal(t, []string{"", "2", "10"}, quantities(got))

	got = Sort(items, &SortDirective{Field: SortByQuantity, Direction: Descending})
	assert.Equal(t, []string{"10", "2", ""}, quantities(got))
}

func TestSortByQuantityHugeValueSortsLast(t *testing.T) {
	items := []internal.ShortageItem{
		{ID: "a", Quantity: "99999999999999999999"},
		{ID: "b", Quantity: "5"},
	}
	got := Sort(items, &SortDirective{Field: SortByQuantity, Direction: Ascending})
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestSortByQuantityStableTies(t *testing.T) {
	items := []internal.ShortageItem{
		{ID: "a", Quantity: "x"},
		{ID: "b", Quantity: "3"},
		{ID: "c", Quantity: ""},
		{ID: "d", Quantity: "0"},
	}
	got := Sort(items, &SortDirective{Field: SortByQuantity, Direction: Ascending})
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(got))
}

func TestSortByNameArabic(t *testing.T) {
	items := []internal.ShortageItem{
		{ID: "1", Name: "زنك"},
		{ID: "2", Name: "باندول"},
		{ID: "3", Name: "أدول"},
		{ID: "4", Name: "فيتامين"},
	}
	asc := Sort(items, &SortDirective{Field: SortByName, Direction: Ascending})
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(asc))

	desc := Sort(items, &SortDirective{Field: SortByName, Direction: Descending})
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(desc))
}

func TestSortByUnit(t *testing.T) {
	items := []internal.ShortageItem{
		{ID: "1", Unit: "شريط"},
		{ID: "2", Unit: "باكيت"},
		{ID: "3", Unit: "كيس"},
	}
	got := Sort(items, &SortDirective{Field: SortByUnit, Direction: Ascending})
	assert.Equal(t, []string{"2", "1", "3"}, ids(got))
}

func TestViewDoesNotMutate(t *testing.T) {
	items := sampleItems()
	before := append([]internal.ShortageItem(nil), items...)

	_ = View(items, "", &SortDirective{Field: SortByQuantity, Direction: Descending})
	_ = View(items, "pan", &SortDirective{Field: SortByName, Direction: Ascending})
	assert.Equal(t, before, items)

	assert.Equal(t, ids(items), ids(View(items, "", nil)), "no directive keeps stored order")
}

func TestToggleSort(t *testing.T) {
	first := ToggleSort(nil, SortByName)
	assert.Equal(t, SortDirective{Field: SortByName, Direction: Ascending}, first)

	second := ToggleSort(&first, SortByName)
	assert.Equal(t, SortDirective{Field: SortByName, Direction: Descending}, second)

	third := ToggleSort(&second, SortByQuantity)
	assert.Equal(t, SortDirective{Field: SortByQuantity, Direction: Ascending}, third)

	again := ToggleSort(&second, SortByName)
	assert.Equal(t, Ascending, again.Direction)
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("Quantity")
	require.NoError(t, err)
	assert.Equal(t, SortByQuantity, f)

	_, err = ParseSortField("notes")
	assert.Error(t, err)
}

func quantities(items []internal.ShortageItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Quantity)
	}
	return out
}
