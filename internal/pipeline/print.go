package pipeline

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"shortages/internal"
	"shortages/internal/util"
)

const printTitle = "قائمة النواقص الرسمية"

// PrintPage is everything the read-only print view shows.
type PrintPage struct {
	PharmacyName string
	Date         time.Time
	Items        []internal.ShortageItem
	Font         internal.FontConfig
}

func (p PrintPage) footer() string {
	return "تم إنشاء هذه القائمة بواسطة نظام مدير النواقص الذكي - " + p.PharmacyName
}

// WaitSettle blocks for d or until ctx is done, so a panel can close before
// the print surface captures the view.
func WaitSettle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RenderPrintView writes the print table for a terminal.
func RenderPrintView(w io.Writer, page PrintPage) error {
	active := ActiveItems(page.Items)
	if len(active) == 0 {
		return ErrNothingToExport
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#064E3B"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := cellStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#064E3B"))
	nameStyle := cellStyle.Foreground(lipgloss.Color(page.Font.Color)).Bold(page.Font.Bold)

	rows := make([][]string, 0, len(active))
	for i, item := range active {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Name,
			util.DisplayUnit(item.Unit),
			util.DisplayQuantity(item.Quantity),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#064E3B"))).
		Headers("#", "المادة الدوائية", "النوع", "الكمية").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return nameStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n\n%s\n",
		titleStyle.Render(page.PharmacyName),
		titleStyle.Render(printTitle),
		metaStyle.Render(fmt.Sprintf("تاريخ: %s    العدد الإجمالي: %s مادة", DateStamp(page.Date), util.ToArabicDigits(strconv.Itoa(len(active))))),
		t.Render(),
		metaStyle.Render(page.footer()),
	)
	return err
}

var printHTML = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<title>{{.PharmacyName}} - {{.Title}}</title>
<style>
body { font-family: Cairo, Tahoma, sans-serif; margin: 2rem; }
h1 { color: #064e3b; text-align: center; margin-bottom: .25rem; }
h2 { color: #475569; text-align: center; margin-top: 0; }
.meta { display: flex; justify-content: space-between; color: #64748b; font-weight: bold; border-bottom: 4px solid #064e3b; padding-bottom: 1rem; }
table { width: 100%; border-collapse: collapse; margin-top: 2rem; }
th { background: #064e3b; color: #fff; padding: 1rem; border: 1px solid #064e3b; }
td { padding: 1rem; border: 1px solid #e2e8f0; text-align: center; font-weight: bold; }
td.name { text-align: right; }
td.qty { font-size: 1.5rem; }
footer { margin-top: 5rem; text-align: center; font-size: .75rem; color: #94a3b8; border-top: 1px solid #e2e8f0; padding-top: 1rem; }
</style>
</head>
<body>
<h1>{{.PharmacyName}}</h1>
<h2>{{.Title}}</h2>
<div class="meta"><span>تاريخ: {{.Date}}</span><span>العدد الإجمالي: {{.Count}} مادة</span></div>
<table>
<thead><tr><th>#</th><th>المادة الدوائية</th><th>النوع</th><th>الكمية</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Index}}</td><td class="name" style="{{$.NameStyle}}">{{.Name}}</td><td>{{.Unit}}</td><td class="qty">{{.Quantity}}</td></tr>
{{- end}}
</tbody>
</table>
<footer>{{.Footer}}</footer>
</body>
</html>
`))

type printRow struct {
	Index    int
	Name     string
	Unit     string
	Quantity string
}

// RenderPrintHTML writes a standalone printable document for the host's
// print or PDF facility.
func RenderPrintHTML(w io.Writer, page PrintPage) error {
	active := ActiveItems(page.Items)
	if len(active) == 0 {
		return ErrNothingToExport
	}

	rows := make([]printRow, 0, len(active))
	for i, item := range active {
		rows = append(rows, printRow{
			Index:    i + 1,
			Name:     item.Name,
			Unit:     util.DisplayUnit(item.Unit),
			Quantity: util.DisplayQuantity(item.Quantity),
		})
	}

	return printHTML.Execute(w, map[string]any{
		"PharmacyName": page.PharmacyName,
		"Title":        printTitle,
		"Date":         DateStamp(page.Date),
		"Count":        util.ToArabicDigits(strconv.Itoa(len(active))),
		"Rows":         rows,
		"NameStyle":    nameCSS(page.Font),
		"Footer":       page.footer(),
	})
}

// nameCSS expects a font that went through FontConfig.Validate or Sanitize.
func nameCSS(font internal.FontConfig) template.CSS {
	weight := "normal"
	if font.Bold {
		weight = "bold"
	}
	return template.CSS(fmt.Sprintf("font-family: %s; font-size: %dpx; color: %s; font-weight: %s;",
		font.Family, font.Size, font.Color, weight))
}
