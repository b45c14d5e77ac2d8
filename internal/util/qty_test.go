package util

import (
	"math"
	"testing"
)

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "plain", input: "10", want: 10},
		{name: "empty", input: "", want: 0},
		{name: "leading spaces", input: "  7", want: 7},
		{name: "trailing junk", input: "12abc", want: 12},
		{name: "decimal truncates", input: "2.5", want: 2},
		{name: "negative", input: "-3", want: -3},
		{name: "not a number", input: "abc", want: 0},
		{name: "arabic digits are not parsed", input: "٣", want: 0},
		{name: "sign only", input: "-", want: 0},
		{name: "overflow clamps high", input: "99999999999999999999", want: math.MaxInt64},
		{name: "negative overflow clamps low", input: "-99999999999999999999 حبة", want: math.MinInt64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LeadingInt(tc.input); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestDisplayDefaults(t *testing.T) {
	if got := DisplayQuantity(""); got != "1" {
		t.Fatalf("quantity=%q", got)
	}
	if got := DisplayQuantity(" 4 "); got != "4" {
		t.Fatalf("quantity=%q", got)
	}
	if got := DisplayUnit(""); got != "-" {
		t.Fatalf("unit=%q", got)
	}
	if got := DisplayUnit("شريط"); got != "شريط" {
		t.Fatalf("unit=%q", got)
	}
}
