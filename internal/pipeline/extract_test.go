package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shortages/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestExtractXLSXWithHeader(t *testing.T) {
	blob := mkXLSX([][]any{
		{"المادة", "الكمية", "النوع"},
		{"باندول", "٥", "شريط"},
		{"أدول", 2, ""},
		{"", 4, "كيس"},
	})

	entries, err := ExtractEntries(internal.SourceXLSX, blob)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		FieldEntry("باندول", "5", "شريط"),
		FieldEntry("أدول", "2", ""),
	}, entries)
}

func TestExtractXLSXHeaderColumnsAreNotReparsed(t *testing.T) {
	blob := mkXLSX([][]any{
		{"الصنف", "الكمية", "الوحدة"},
		{"باندول 500", 3, "شريط"},
		{"فولتارين", "2.5", "أمبولة"},
	})

	entries, err := ExtractEntries(internal.SourceXLSX, blob)
	require.NoError(t, err)

	res, ok := ImportEntries(nil, entries, MergePrepend, NewSequenceSource(1))
	require.True(t, ok)
	assert.Equal(t, []internal.ShortageItem{
		{ID: "1", Name: "باندول 500", Quantity: "3", Unit: "شريط"},
		{ID: "2", Name: "فولتارين", Quantity: "2.5", Unit: "أمبولة"},
	}, res.Items)
}

func TestExtractXLSXWithoutHeader(t *testing.T) {
	blob := mkXLSX([][]any{
		{"باندول 5 شريط"},
		{"زنك", "  3  "},
	})

	entries, err := ExtractEntries(internal.SourceXLSX, blob)
	require.NoError(t, err)
	assert.Equal(t, []Entry{LineEntry("باندول 5 شريط"), LineEntry("زنك 3")}, entries)
}

func TestExtractHTMLTable(t *testing.T) {
	html := `<table>
<tr><th>الصنف</th><th>العدد</th></tr>
<tr><td>زنك</td><td>3</td></tr>
<tr><td> فيتامين   سي </td><td></td></tr>
</table>`

	entries, err := ExtractEntries(internal.SourceHTMLTable, []byte(html))
	require.NoError(t, err)
	assert.Equal(t, []Entry{FieldEntry("زنك", "3", ""), FieldEntry("فيتامين سي", "", "")}, entries)
}

func TestExtractPasteSplitsLines(t *testing.T) {
	entries, err := ExtractEntries(internal.SourcePaste, []byte("A 1 شريط\nB 2 كيس، C"))
	require.NoError(t, err)
	assert.Equal(t, LineEntries([]string{"A 1 شريط", "B 2 كيس", "C"}), entries)
}

func TestExtractRejectsBadInput(t *testing.T) {
	_, err := ExtractEntries(internal.ImportSource("docx"), nil)
	assert.Error(t, err)

	_, err = ExtractEntries(internal.SourcePDF, []byte("not a pdf"))
	assert.Error(t, err)

	_, err = ExtractEntries(internal.SourceXLSX, []byte("not a workbook"))
	assert.Error(t, err)
}

const multipartMail = "From: depot@example.com\r\n" +
	"Subject: Daily order\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: 8bit\r\n" +
	"\r\n" +
	"باندول 5 شريط\r\n" +
	"--\r\n" +
	"شكرا لكم\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Disposition: attachment; filename=\"list.txt\"\r\n" +
	"Content-Transfer-Encoding: 8bit\r\n" +
	"\r\n" +
	"فيتامين د 2 كيس\r\n" +
	"باندول 5 شريط\r\n" +
	"--b1--\r\n"

func TestExtractEmail(t *testing.T) {
	content, err := ExtractEmail([]byte(multipartMail))
	require.NoError(t, err)

	assert.Equal(t, "Daily order", content.Subject)
	assert.Equal(t, []string{"list.txt"}, content.Attachments)
	assert.Equal(t, LineEntries([]string{"باندول 5 شريط", "فيتامين د 2 كيس"}), content.Entries)
}

func TestDetectShortageList(t *testing.T) {
	res := DetectShortageList("نواقص اليوم", "باندول 5 شريط\nأدول 2 كيس", "", nil)
	assert.True(t, res.IsShortageList)
	assert.Equal(t, "rules_positive", res.Reason)

	res = DetectShortageList("Meeting", "see you at noon", "", nil)
	assert.False(t, res.IsShortageList)
	assert.Equal(t, 0.0, res.Score)

	res = DetectShortageList("Order", "", "<table><tr><td>x</td></tr></table>", []string{"list.xlsx"})
	assert.True(t, res.IsShortageList)

	res = DetectShortageList("نواقص نواقص", "ناقص مطلوب طلبية order shortage\nباندول 5 شريط\nأدول 2 كيس", "<table>", []string{"a.pdf"})
	assert.Equal(t, 1.0, res.Score)
}
