package pipeline

import (
	"bytes"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shortages/internal"
)

func exportItems() []internal.ShortageItem {
	return []internal.ShortageItem{
		{ID: "1", Name: "باندول", Quantity: "5", Unit: "شريط"},
		{ID: "2", Name: "   ", Quantity: "9", Unit: "كيس"},
		{ID: "3", Name: "أدول", Quantity: "", Unit: "باكيت"},
		{ID: "4", Name: ""},
		{ID: "5", Name: "زنك", Quantity: "2", Unit: ""},
	}
}

func TestClipboardText(t *testing.T) {
	text, err := ClipboardText(exportItems())
	require.NoError(t, err)
	assert.Equal(t, "1. باندول (5 شريط)\n2. أدول (1 باكيت)\n3. زنك (2 )", text)
}

func TestClipboardTextEmpty(t *testing.T) {
	_, err := ClipboardText([]internal.ShortageItem{{ID: "1"}, {ID: "2", Name: " \t"}})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestCopyToClipboard(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	t.Cleanup(func() { clipboardWriteAll = orig })

	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	text, err := CopyToClipboard(exportItems())
	require.NoError(t, err)
	assert.Equal(t, text, copied)

	clipboardWriteAll = func(string) error { return errors.New("no display") }
	_, err = CopyToClipboard(exportItems())
	assert.ErrorContains(t, err, "copy to clipboard")
}

func TestShareTextAndLink(t *testing.T) {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	text, err := ShareText("صيدلية الغيث", now, exportItems())
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "صيدلية الغيث")
	assert.Contains(t, lines[1], "١٦/١٠/٢٠٢٦")
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "1. باندول (5 شريط)", lines[3])

	link, err := ShareLink("https://wa.me/", text)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, text, u.Query().Get("text"))

	_, err = ShareText("x", now, nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestSearchLink(t *testing.T) {
	link, err := SearchLink("https://www.google.com/search", "باندول", " دواء سعر ومواصفات")
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "باندول دواء سعر ومواصفات", u.Query().Get("q"))

	empty, err := SearchLink("https://www.google.com/search", "  ", "x")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestExportItemsToXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "list.xlsx")
	require.NoError(t, ExportItemsToXLSX(exportItems(), out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "باندول", rows[1][1])
	assert.Equal(t, "1", rows[2][3], "missing quantity exports as 1")
	assert.Equal(t, "-", rows[3][2], "missing unit exports as -")

	assert.ErrorIs(t, ExportItemsToXLSX(nil, out), ErrNothingToExport)
}

func TestRenderPrintView(t *testing.T) {
	var buf bytes.Buffer
	page := PrintPage{PharmacyName: "صيدلية الغيث", Date: time.Now(), Items: exportItems(), Font: internal.DefaultFontConfig()}
	require.NoError(t, RenderPrintView(&buf, page))

	out := buf.String()
	assert.Contains(t, out, "صيدلية الغيث")
	assert.Contains(t, out, "باندول")
	assert.Contains(t, out, "زنك")
	assert.Contains(t, out, "٣ مادة")

	assert.ErrorIs(t, RenderPrintView(&buf, PrintPage{}), ErrNothingToExport)
}

func TestRenderPrintHTML(t *testing.T) {
	var buf bytes.Buffer
	font := internal.FontConfig{Size: 24, Family: internal.FontAmiri, Color: "#112233", Bold: true}
	page := PrintPage{PharmacyName: "صيدلية <الغيث>", Date: time.Now(), Items: exportItems(), Font: font}
	require.NoError(t, RenderPrintHTML(&buf, page))

	out := buf.String()
	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, "font-family: Amiri; font-size: 24px; color: #112233; font-weight: bold;")
	assert.Contains(t, out, "صيدلية &lt;الغيث&gt;")
	assert.Equal(t, 3, strings.Count(out, `class="name"`))
}
