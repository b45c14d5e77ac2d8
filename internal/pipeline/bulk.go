package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"shortages/internal"
	"shortages/internal/util"
)

var reBulkSeparators = regexp.MustCompile(`[\n,،]+`)

// MergePolicy decides where bulk-imported items land relative to the list.
type MergePolicy string

const (
	// MergePrepend drops blank rows from the list and puts the new items first.
	MergePrepend MergePolicy = "prepend"
	// MergeAppend keeps the list as is and adds the new items at the end,
	// except that a lone blank row is replaced.
	MergeAppend MergePolicy = "append"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergePrepend:
		return MergePrepend, nil
	case MergeAppend:
		return MergeAppend, nil
	default:
		return "", fmt.Errorf("unsupported merge policy: %s", s)
	}
}

// IDSource hands out item identifiers. taken reports identifiers already in
// use; a source must not return any of them.
type IDSource interface {
	NextID(taken func(string) bool) string
}

type UUIDSource struct{}

func (UUIDSource) NextID(taken func(string) bool) string {
	for {
		id := uuid.NewString()
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// SequenceSource yields "1", "2", ... skipping values already taken.
type SequenceSource struct {
	mu   sync.Mutex
	next int
}

func NewSequenceSource(start int) *SequenceSource {
	return &SequenceSource{next: start}
}

func (s *SequenceSource) NextID(taken func(string) bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := strconv.Itoa(s.next)
		s.next++
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// SplitBulkText splits pasted text on newlines and commas (Latin or Arabic),
// trims every fragment and drops the empty ones.
func SplitBulkText(blob string) []string {
	parts := reBulkSeparators.Split(blob, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Entry is one incoming row. A free-text Line goes through ParseLine. An
// entry built from table columns carries its fields as read and is not parsed
// again.
type Entry struct {
	Line string

	Name       string
	Quantity   string
	Unit       string
	Structured bool
}

func LineEntry(line string) Entry { return Entry{Line: line} }

// LineEntries wraps free-text lines.
func LineEntries(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineEntry(l))
	}
	return out
}

// FieldEntry is an entry whose columns are already known. Quantity digits are
// folded to ASCII.
func FieldEntry(name, quantity, unit string) Entry {
	return Entry{
		Name:       util.NormalizeSpaces(name),
		Quantity:   util.NormalizeSpaces(util.ToASCIIDigits(quantity)),
		Unit:       util.NormalizeSpaces(unit),
		Structured: true,
	}
}

// IsBlank reports an entry that would produce nothing.
func (e Entry) IsBlank() bool {
	if e.Structured {
		return util.IsBlank(e.Name)
	}
	return util.IsBlank(e.Line)
}

// String is the entry as one line of text.
func (e Entry) String() string {
	if !e.Structured {
		return strings.TrimSpace(e.Line)
	}
	return util.NormalizeSpaces(strings.Join([]string{e.Name, e.Quantity, e.Unit}, " "))
}

func (e Entry) fields() (name, quantity, unit string) {
	if e.Structured {
		return e.Name, e.Quantity, e.Unit
	}
	line := strings.TrimSpace(e.Line)
	parsed := ParseLine(line)
	name = util.Deref(parsed.Name)
	if name == "" {
		name = line
	}
	return name, util.Deref(parsed.Quantity), util.Deref(parsed.Unit)
}

// BuildItems turns entries into new items, one per entry, in order.
// Identifiers avoid everything in existing as well as the siblings being
// built.
func BuildItems(entries []Entry, existing []internal.ShortageItem, ids IDSource) []internal.ShortageItem {
	used := make(map[string]struct{}, len(existing)+len(entries))
	for _, item := range existing {
		used[item.ID] = struct{}{}
	}
	taken := func(id string) bool {
		_, ok := used[id]
		return ok
	}

	out := make([]internal.ShortageItem, 0, len(entries))
	for _, entry := range entries {
		name, quantity, unit := entry.fields()
		id := ids.NextID(taken)
		used[id] = struct{}{}
		out = append(out, internal.ShortageItem{
			ID:       id,
			Name:     name,
			Quantity: quantity,
			Unit:     unit,
		})
	}
	return out
}

// MergeItems combines the current list with freshly imported items. Neither
// policy drops an item that has a name, and a lone blank row is always
// consumed.
func MergeItems(existing, incoming []internal.ShortageItem, policy MergePolicy) []internal.ShortageItem {
	switch policy {
	case MergeAppend:
		if isSolePlaceholder(existing) {
			return append([]internal.ShortageItem(nil), incoming...)
		}
		out := make([]internal.ShortageItem, 0, len(existing)+len(incoming))
		out = append(out, existing...)
		return append(out, incoming...)
	default:
		out := make([]internal.ShortageItem, 0, len(existing)+len(incoming))
		out = append(out, incoming...)
		for _, item := range existing {
			if !util.IsBlank(item.Name) {
				out = append(out, item)
			}
		}
		return out
	}
}

type BulkResult struct {
	Items    []internal.ShortageItem
	Imported []internal.ShortageItem
}

// BulkImport parses blob and merges the result into existing. ok is false for
// a blank blob, in which case nothing changes and no identifier is drawn.
func BulkImport(existing []internal.ShortageItem, blob string, policy MergePolicy, ids IDSource) (BulkResult, bool) {
	return ImportLines(existing, SplitBulkText(blob), policy, ids)
}

// ImportLines is BulkImport for input that is already split into lines.
func ImportLines(existing []internal.ShortageItem, lines []string, policy MergePolicy, ids IDSource) (BulkResult, bool) {
	return ImportEntries(existing, LineEntries(lines), policy, ids)
}

// ImportEntries merges entries into existing. Blank entries are dropped; if
// none remain nothing changes and no identifier is drawn.
func ImportEntries(existing []internal.ShortageItem, entries []Entry, policy MergePolicy, ids IDSource) (BulkResult, bool) {
	clean := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsBlank() {
			clean = append(clean, e)
		}
	}
	if len(clean) == 0 {
		return BulkResult{Items: existing}, false
	}
	incoming := BuildItems(clean, existing, ids)
	return BulkResult{Items: MergeItems(existing, incoming, policy), Imported: incoming}, true
}

func isSolePlaceholder(items []internal.ShortageItem) bool {
	return len(items) == 1 && util.IsBlank(items[0].Name)
}
