package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var reSpaces = regexp.MustCompile(`[\s\p{Z}]+`)

// NormalizeSpaces collapses whitespace runs to one space and trims the ends.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// Fold returns the Unicode case-folded form of input.
func Fold(input string) string {
	return cases.Fold().String(input)
}

// ContainsFold reports whether needle is within haystack, ignoring case.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}

func StringPtr(v string) *string { return &v }

func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
