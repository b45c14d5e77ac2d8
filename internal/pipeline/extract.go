package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"shortages/internal"
	"shortages/internal/util"
)

var (
	nameHeaderHints = []string{"المادة", "الاسم", "اسم", "الصنف", "الدواء", "name", "item", "product"}
	qtyHeaderHints  = []string{"الكمية", "كمية", "العدد", "qty", "quantity"}
	unitHeaderHints = []string{"النوع", "الوحدة", "وحدة", "unit"}
)

var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^--+$`),
	regexp.MustCompile(`(?i)^(thanks|regards)`),
	regexp.MustCompile(`^(شكرا|مع التحية|تحياتي)`),
	regexp.MustCompile(`(?i)^(tel|e-?mail)[:\s]`),
	regexp.MustCompile(`(?i)^http`),
}

// ExtractEntries reduces an import source to entries for the bulk import.
// Tables with a recognised header yield field entries; everything else yields
// free-text lines.
func ExtractEntries(source internal.ImportSource, content []byte) ([]Entry, error) {
	switch source {
	case internal.SourcePaste, internal.SourceTextFile:
		return LineEntries(SplitBulkText(string(content))), nil
	case internal.SourceHTMLTable:
		return entriesFromHTMLTables(string(content)), nil
	case internal.SourceXLSX:
		return entriesFromXLSX(content)
	case internal.SourcePDF:
		return entriesFromPDF(content)
	case internal.SourceEmail:
		email, err := ExtractEmail(content)
		if err != nil {
			return nil, err
		}
		return email.Entries, nil
	default:
		return nil, fmt.Errorf("unsupported import source: %s", source)
	}
}

// EmailContent is what a shortage list email contributes to an import.
type EmailContent struct {
	Subject     string
	Text        string
	HTML        string
	Entries     []Entry
	Attachments []string
}

func ExtractEmail(raw []byte) (EmailContent, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return EmailContent{}, err
	}

	out := EmailContent{Subject: env.GetHeader("Subject"), Text: env.Text, HTML: env.HTML}
	if env.HTML != "" {
		out.Entries = append(out.Entries, entriesFromHTMLTables(env.HTML)...)
	}
	if len(out.Entries) == 0 && env.Text != "" {
		out.Entries = append(out.Entries, LineEntries(dropNoise(SplitBulkText(env.Text)))...)
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		out.Attachments = append(out.Attachments, filename)
		lower := strings.ToLower(filename)

		var extra []Entry
		switch {
		case strings.HasSuffix(lower, ".xlsx"):
			extra, err = entriesFromXLSX(att.Content)
		case strings.HasSuffix(lower, ".pdf"):
			extra, err = entriesFromPDF(att.Content)
		case strings.HasSuffix(lower, ".txt"):
			extra = LineEntries(SplitBulkText(string(att.Content)))
		default:
			continue
		}
		if err == nil {
			out.Entries = append(out.Entries, extra...)
		}
	}

	out.Entries = dedupeEntries(out.Entries)
	return out, nil
}

func entriesFromHTMLTables(html string) []Entry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []Entry{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			rows = append(rows, cells)
		})
		out = append(out, entriesFromRows(rows)...)
	})
	return out
}

func entriesFromXLSX(content []byte) ([]Entry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []Entry{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for i := range rows {
			rows[i] = normalizeCells(rows[i])
		}
		out = append(out, entriesFromRows(rows)...)
	}
	return out, nil
}

func entriesFromPDF(content []byte) ([]Entry, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []Entry{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, LineEntries(dropNoise(SplitBulkText(text)))...)
	}
	return out, nil
}

// entriesFromRows turns table rows into entries. The header row is found
// among the first three rows; its columns are taken as they are. Without a
// header every row is joined into one free-text line.
func entriesFromRows(rows [][]string) []Entry {
	nameIdx, qtyIdx, unitIdx := -1, -1, -1
	start := 0
	for i := 0; i < len(rows) && i < 3; i++ {
		n, q, u := inferColumns(rows[i])
		if n >= 0 {
			nameIdx, qtyIdx, unitIdx = n, q, u
			start = i + 1
			break
		}
	}

	out := []Entry{}
	for _, cells := range rows[start:] {
		if len(cells) == 0 {
			continue
		}
		var entry Entry
		if nameIdx >= 0 {
			entry = FieldEntry(pickCell(cells, nameIdx), pickCell(cells, qtyIdx), pickCell(cells, unitIdx))
		} else {
			entry = LineEntry(util.NormalizeSpaces(strings.Join(cells, " ")))
		}
		if !entry.IsBlank() {
			out = append(out, entry)
		}
	}
	return out
}

func inferColumns(headers []string) (nameIdx, qtyIdx, unitIdx int) {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, util.Fold(h))
	}
	nameIdx = findHeaderIndex(norm, nameHeaderHints)
	qtyIdx = findHeaderIndex(norm, qtyHeaderHints)
	unitIdx = findHeaderIndex(norm, unitHeaderHints)
	return
}

func findHeaderIndex(headers []string, hints []string) int {
	for i, h := range headers {
		for _, hint := range hints {
			if strings.Contains(h, hint) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}

func dropNoise(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !isLikelyNoise(line) {
			out = append(out, line)
		}
	}
	return out
}

func isLikelyNoise(line string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func dedupeEntries(entries []Entry) []Entry {
	seen := map[string]struct{}{}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.String()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
