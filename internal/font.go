package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidFont = errors.New("invalid font config")

var reHexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func ParseFontFamily(s string) (FontFamily, bool) {
	for _, f := range FontFamilies {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// Validate rejects an unknown family, a malformed color or an out-of-range size.
func (f FontConfig) Validate() error {
	if _, ok := ParseFontFamily(string(f.Family)); !ok {
		return fmt.Errorf("%w: unknown family %q", ErrInvalidFont, f.Family)
	}
	if !reHexColor.MatchString(f.Color) {
		return fmt.Errorf("%w: color %q is not #rrggbb", ErrInvalidFont, f.Color)
	}
	if f.Size < MinFontSize || f.Size > MaxFontSize {
		return fmt.Errorf("%w: size %d outside %d..%d", ErrInvalidFont, f.Size, MinFontSize, MaxFontSize)
	}
	return nil
}

// Sanitize replaces every invalid field with its default. Valid configs come
// back unchanged.
func (f FontConfig) Sanitize() FontConfig {
	def := DefaultFontConfig()
	out := f
	if family, ok := ParseFontFamily(string(f.Family)); ok {
		out.Family = family
	} else {
		out.Family = def.Family
	}
	if !reHexColor.MatchString(f.Color) {
		out.Color = def.Color
	}
	if f.Size == 0 {
		out.Size = def.Size
	} else {
		out.Size = ClampFontSize(f.Size)
	}
	return out
}
