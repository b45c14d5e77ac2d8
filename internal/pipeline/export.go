package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/xuri/excelize/v2"

	"shortages/internal"
	"shortages/internal/util"
)

// ErrNothingToExport is returned when no item has a name.
var ErrNothingToExport = errors.New("nothing to export: list has no named items")

// clipboardWriteAll is swapped in tests.
var clipboardWriteAll = clipboard.WriteAll

// ActiveItems returns the items with a non-blank name, in order.
func ActiveItems(items []internal.ShortageItem) []internal.ShortageItem {
	out := make([]internal.ShortageItem, 0, len(items))
	for _, item := range items {
		if !util.IsBlank(item.Name) {
			out = append(out, item)
		}
	}
	return out
}

// ExportLines renders active items as "N. name (qty unit)", quantity
// defaulting to 1.
func ExportLines(items []internal.ShortageItem) []string {
	active := ActiveItems(items)
	out := make([]string, 0, len(active))
	for i, item := range active {
		out = append(out, fmt.Sprintf("%d. %s (%s %s)", i+1, item.Name, util.DisplayQuantity(item.Quantity), item.Unit))
	}
	return out
}

func ClipboardText(items []internal.ShortageItem) (string, error) {
	lines := ExportLines(items)
	if len(lines) == 0 {
		return "", ErrNothingToExport
	}
	return strings.Join(lines, "\n"), nil
}

// CopyToClipboard puts the export text on the system clipboard and returns it.
func CopyToClipboard(items []internal.ShortageItem) (string, error) {
	text, err := ClipboardText(items)
	if err != nil {
		return "", err
	}
	if err := clipboardWriteAll(text); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return text, nil
}

// DateStamp formats day/month/year with Arabic-Indic digits.
func DateStamp(t time.Time) string {
	return util.ToArabicDigits(fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()))
}

// ShareText is the clipboard text preceded by a title line and a date line.
func ShareText(pharmacyName string, now time.Time, items []internal.ShortageItem) (string, error) {
	body, err := ClipboardText(items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *قائمة نواقص %s*\n", pharmacyName)
	fmt.Fprintf(&b, "📅 تاريخ: %s\n\n", DateStamp(now))
	b.WriteString(body)
	return b.String(), nil
}

// ShareLink builds a link that opens a chat composer prefilled with text.
func ShareLink(baseURL, text string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse share url: %w", err)
	}
	q := u.Query()
	q.Set("text", text)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SearchLink builds a web search link for an item name plus qualifier.
// An empty name yields an empty link.
func SearchLink(baseURL, name, qualifier string) (string, error) {
	if util.IsBlank(name) {
		return "", nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	q := u.Query()
	q.Set("q", name+qualifier)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExportItemsToXLSX writes the active items to a spreadsheet.
func ExportItemsToXLSX(items []internal.ShortageItem, outputPath string) error {
	active := ActiveItems(items)
	if len(active) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
		return err
	}

	headers := []string{"#", "المادة الدوائية", "النوع", "الكمية", "ملاحظات"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, item := range active {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, i+1)
		set(2, item.Name)
		set(3, util.DisplayUnit(item.Unit))
		set(4, util.DisplayQuantity(item.Quantity))
		set(5, item.Notes)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func boolPtr(v bool) *bool { return &v }
