package internal

// ShortageItem is one row of the shortage list.
type ShortageItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes"`
}

type FontFamily string

const (
	FontCairo   FontFamily = "Cairo"
	FontAmiri   FontFamily = "Amiri"
	FontTajawal FontFamily = "Tajawal"
	FontArial   FontFamily = "Arial"
)

var FontFamilies = []FontFamily{FontCairo, FontAmiri, FontTajawal, FontArial}

const (
	MinFontSize = 14
	MaxFontSize = 40
)

// FontConfig is the name-field typography, persisted next to the items.
type FontConfig struct {
	Size   int        `json:"size"`
	Family FontFamily `json:"family"`
	Color  string     `json:"color"`
	Bold   bool       `json:"bold"`
}

func DefaultFontConfig() FontConfig {
	return FontConfig{Size: 18, Family: FontCairo, Color: "#000000", Bold: false}
}

// Snapshot is the unit of storage.
type Snapshot struct {
	Items      []ShortageItem `json:"items"`
	FontConfig FontConfig     `json:"fontConfig"`
}

type UnitOption struct {
	Label string
	Value string
}

// UnitOptions backs the unit selector. The empty value is the free-text escape.
var UnitOptions = []UnitOption{
	{Label: "باكيت (Pkt)", Value: "باكيت"},
	{Label: "شريط (Strip)", Value: "شريط"},
	{Label: "كيس (Sachet)", Value: "كيس"},
	{Label: "أمبولة (Amp)", Value: "أمبولة"},
	{Label: "شراب (Syrup)", Value: "شراب"},
	{Label: "قطرة (Drops)", Value: "قطرة"},
	{Label: "بخاخ (Spray)", Value: "بخاخ"},
	{Label: "مرهم (Oint)", Value: "مرهم"},
	{Label: "أخرى", Value: ""},
}

type ImportSource string

const (
	SourcePaste     ImportSource = "paste"
	SourceTextFile  ImportSource = "text"
	SourceXLSX      ImportSource = "xlsx"
	SourcePDF       ImportSource = "pdf"
	SourceHTMLTable ImportSource = "html"
	SourceEmail     ImportSource = "eml"
)

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type RunRow struct {
	ID        int
	TraceID   string
	Source    string
	Counts    map[string]int
	CreatedAt string
}

// Email statuses.
const (
	EmailFetched  = "fetched"
	EmailImported = "imported"
	EmailSkipped  = "skipped"
	EmailFailed   = "failed"
)
