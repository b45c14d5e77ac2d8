package util

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	arabicIndicZero   = '٠'
	extendedIndicZero = '۰'
)

var (
	asciiDigits = runes.Map(func(r rune) rune {
		switch {
		case r >= arabicIndicZero && r <= arabicIndicZero+9:
			return '0' + (r - arabicIndicZero)
		case r >= extendedIndicZero && r <= extendedIndicZero+9:
			return '0' + (r - extendedIndicZero)
		}
		return r
	})
	arabicDigits = runes.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return arabicIndicZero + (r - '0')
		}
		return r
	})
)

// ToASCIIDigits replaces Arabic-Indic and Extended Arabic-Indic digits with
// their ASCII counterparts. Everything else, ASCII digits included, is kept.
func ToASCIIDigits(input string) string {
	out, _, err := transform.String(asciiDigits, input)
	if err != nil {
		return input
	}
	return out
}

// ToArabicDigits is the inverse of ToASCIIDigits for ASCII digits.
func ToArabicDigits(input string) string {
	out, _, err := transform.String(arabicDigits, input)
	if err != nil {
		return input
	}
	return out
}
