package util

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// LeadingInt reads an optionally signed run of ASCII digits after leading
// whitespace and ignores whatever follows it. Input without such a prefix
// yields 0; an out-of-range value is clamped to the int64 range.
func LeadingInt(input string) int64 {
	s := strings.TrimLeftFunc(input, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	if err != nil {
		return 0
	}
	return n
}

// DisplayQuantity is the quantity shown on exports: "1" when nothing was entered.
func DisplayQuantity(quantity string) string {
	if q := strings.TrimSpace(quantity); q != "" {
		return q
	}
	return "1"
}

// DisplayUnit is the unit shown in the print table: "-" when unspecified.
func DisplayUnit(unit string) string {
	if u := strings.TrimSpace(unit); u != "" {
		return u
	}
	return "-"
}
