package pipeline

import (
	"regexp"
	"strings"

	"shortages/internal/util"
)

// UnitKeywords are the unit words recognised inside a pasted line. Order
// matters: the first keyword found in the line wins.
var UnitKeywords = []string{"شريط", "باكيت", "كيس", "امبول", "شراب", "قطرة", "تحاميل", "مرهم", "بخاخ", "فيال", "حبوب"}

var (
	reQtyWord     = regexp.MustCompile(`([\s\p{Z}]|^)([0-9]+)([\s\p{Z}]|$)`)
	reNameCleanup = regexp.MustCompile(`[-+|_]`)
)

// ParsedLine holds whatever ParseLine could recover; nil means not found.
type ParsedLine struct {
	Name     *string
	Quantity *string
	Unit     *string
}

// ParseLine extracts name, quantity and unit from one free-text line.
//
// Quantity is taken first, then the unit. Both are located in the original
// line and removed from a separate working copy, so an earlier removal never
// shifts what the later search sees.
func ParseLine(line string) ParsedLine {
	var out ParsedLine
	working := line

	if loc := reQtyWord.FindStringSubmatchIndex(line); loc != nil {
		out.Quantity = util.StringPtr(line[loc[4]:loc[5]])
		working = line[:loc[0]] + " " + line[loc[1]:]
	}

	for _, unit := range UnitKeywords {
		if strings.Contains(line, unit) {
			out.Unit = util.StringPtr(unit)
			working = strings.Replace(working, unit, "", 1)
			break
		}
	}

	name := reNameCleanup.ReplaceAllString(working, " ")
	name = util.NormalizeSpaces(name)
	if name != "" {
		out.Name = util.StringPtr(name)
	}
	return out
}
