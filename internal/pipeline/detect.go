package pipeline

import (
	"strings"

	"shortages/internal/util"
)

type DetectResult struct {
	IsShortageList bool
	Score          float64
	Reason         string
}

var detectKeywords = []string{"نواقص", "ناقص", "مطلوب", "طلبية", "shortage", "order"}

// DetectShortageList scores an email on how likely it carries a shortage list.
func DetectShortageList(subject, text, html string, attachmentNames []string) DetectResult {
	subject = util.Fold(subject)
	text = util.Fold(util.ToASCIIDigits(text))
	html = util.Fold(html)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) || strings.Contains(html, kw) {
			score += 0.1
		}
	}

	unitHits := 0
	for _, line := range SplitBulkText(text) {
		if ParseLine(line).Unit != nil {
			unitHits++
		}
	}
	switch {
	case unitHits >= 2:
		score += 0.4
	case unitHits == 1:
		score += 0.2
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".pdf") {
			score += 0.25
			break
		}
	}

	if strings.Contains(html, "<table") {
		score += 0.25
	}
	if score > 1 {
		score = 1
	}

	ok := score >= 0.45
	reason := "rules_negative"
	if ok {
		reason = "rules_positive"
	}

	return DetectResult{IsShortageList: ok, Score: score, Reason: reason}
}
