package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortages/internal"
)

// countingSource records how many identifiers were drawn.
type countingSource struct {
	inner *SequenceSource
	calls int
}

func (c *countingSource) NextID(taken func(string) bool) string {
	c.calls++
	return c.inner.NextID(taken)
}

func blank(id string) internal.ShortageItem { return internal.ShortageItem{ID: id} }

func TestSplitBulkText(t *testing.T) {
	got := SplitBulkText("باندول 5 شريط\r\n\n أدول ، فيتامين سي,, زنك \n  ")
	assert.Equal(t, []string{"باندول 5 شريط", "أدول", "فيتامين سي", "زنك"}, got)
	assert.Empty(t, SplitBulkText(" \n ,، \t"))
}

func TestBulkImportConsumesPlaceholder(t *testing.T) {
	for _, policy := range []MergePolicy{MergePrepend, MergeAppend} {
		t.Run(string(policy), func(t *testing.T) {
			existing := []internal.ShortageItem{blank("1")}
			res, ok := BulkImport(existing, "A 1 شريط\nB 2 كيس", policy, NewSequenceSource(1))
			require.True(t, ok)
			require.Len(t, res.Items, 2)

			assert.Equal(t, "A", res.Items[0].Name)
			assert.Equal(t, "1", res.Items[0].Quantity)
			assert.Equal(t, "شريط", res.Items[0].Unit)
			assert.Equal(t, "B", res.Items[1].Name)
			assert.Equal(t, "2", res.Items[1].Quantity)
			assert.Equal(t, "كيس", res.Items[1].Unit)

			for _, item := range res.Items {
				assert.NotEqual(t, "1", item.ID, "new ids must not reuse the placeholder id")
			}
			assert.NotEqual(t, res.Items[0].ID, res.Items[1].ID)
		})
	}
}

func TestBulkImportBlankIsNoop(t *testing.T) {
	existing := []internal.ShortageItem{{ID: "x", Name: "باندول"}}
	for _, blob := range []string{"", "   ", "\n\n", " ,، \n"} {
		src := &countingSource{inner: NewSequenceSource(1)}
		res, ok := BulkImport(existing, blob, MergePrepend, src)
		assert.False(t, ok, "blob %q", blob)
		assert.Equal(t, existing, res.Items)
		assert.Empty(t, res.Imported)
		assert.Zero(t, src.calls, "no identifiers may be drawn for %q", blob)
	}
}

func TestBulkImportFallsBackToRawLine(t *testing.T) {
	res, ok := BulkImport(nil, "5 شريط", MergePrepend, NewSequenceSource(1))
	require.True(t, ok)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "5 شريط", res.Items[0].Name)
	assert.Equal(t, "5", res.Items[0].Quantity)
	assert.Equal(t, "شريط", res.Items[0].Unit)
	assert.Equal(t, "", res.Items[0].Notes)
}

func TestImportEntriesKeepsTableFields(t *testing.T) {
	entries := []Entry{
		FieldEntry("باندول 500", "3", "شريط"),
		FieldEntry("فولتارين", "٢.٥", "أمبولة"),
		FieldEntry("  ", "4", "كيس"),
		LineEntry("زنك 2 كيس"),
	}
	res, ok := ImportEntries(nil, entries, MergePrepend, NewSequenceSource(1))
	require.True(t, ok)
	require.Len(t, res.Items, 3)

	assert.Equal(t, internal.ShortageItem{ID: "1", Name: "باندول 500", Quantity: "3", Unit: "شريط"}, res.Items[0])
	assert.Equal(t, internal.ShortageItem{ID: "2", Name: "فولتارين", Quantity: "2.5", Unit: "أمبولة"}, res.Items[1])
	assert.Equal(t, internal.ShortageItem{ID: "3", Name: "زنك", Quantity: "2", Unit: "كيس"}, res.Items[2])
}

func TestMergePrependKeepsNamedItems(t *testing.T) {
	existing := []internal.ShortageItem{
		{ID: "a", Name: "أدول"},
		blank("b"),
		{ID: "c", Name: "زنك"},
		{ID: "d", Name: "   "},
	}
	incoming := []internal.ShortageItem{{ID: "n1", Name: "باندول"}}

	got := MergeItems(existing, incoming, MergePrepend)
	assert.Equal(t, []string{"n1", "a", "c"}, ids(got))
}

func TestMergeAppendKeepsEverything(t *testing.T) {
	existing := []internal.ShortageItem{{ID: "a", Name: "أدول"}, blank("b")}
	incoming := []internal.ShortageItem{{ID: "n1", Name: "باندول"}}

	got := MergeItems(existing, incoming, MergeAppend)
	assert.Equal(t, []string{"a", "b", "n1"}, ids(got))
}

func TestBuildItemsAvoidsTakenIDs(t *testing.T) {
	existing := []internal.ShortageItem{{ID: "1", Name: "x"}, {ID: "2", Name: "y"}}
	got := BuildItems(LineEntries([]string{"a", "b"}), existing, NewSequenceSource(1))
	assert.Equal(t, []string{"3", "4"}, ids(got))
}

func TestUUIDSourceUnique(t *testing.T) {
	seen := map[string]struct{}{}
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "item"
	}
	for _, item := range BuildItems(LineEntries(lines), nil, UUIDSource{}) {
		_, dup := seen[item.ID]
		require.False(t, dup)
		seen[item.ID] = struct{}{}
	}
}

func TestParseMergePolicy(t *testing.T) {
	p, err := ParseMergePolicy("")
	require.NoError(t, err)
	assert.Equal(t, MergePrepend, p)

	p, err = ParseMergePolicy(" APPEND ")
	require.NoError(t, err)
	assert.Equal(t, MergeAppend, p)

	_, err = ParseMergePolicy("dedupe")
	assert.Error(t, err)
}

func ids(items []internal.ShortageItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
