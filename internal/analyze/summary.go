// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Per-slide bounds for the cross-deck summary. Each slide contributes at
// most one headline line plus capped number and date lists, so the summary
// grows slowly with deck length instead of with transcript length.
const (
	maxHeadlineRunes = 120
	maxSummaryItems  = 20
)

var (
	// numberRe matches figures worth cross-checking: $4.2M, 1,500, 25%, 3B.
	numberRe = regexp.MustCompile(`\$?[\d,]+\.?\d*[%MBK]?`)

	// dateRe matches bare years, numeric dates, and "March 3, 2026" forms.
	dateRe = regexp.MustCompile(`\b\d{4}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b\w+\s+\d{1,2},?\s+\d{4}\b`)
)

// Summary condenses the deck into per-slide highlight lines for the
// cross-deck pass: the slide's leading line plus any numbers and dates it
// mentions. Output is deterministic for a fixed deck.
func Summary(slides []types.Slide, includeOCR bool) string {
	var lines []string
	for _, s := range slides {
		text := strings.Join(s.Texts, "\n")
		if includeOCR && s.OCRText != "" {
			text += "\n" + s.OCRText
		}

		numbers := capItems(numberRe.FindAllString(text, -1))
		dates := capItems(dateRe.FindAllString(text, -1))
		headline := headline(text)

		if headline == "" && len(numbers) == 0 && len(dates) == 0 {
			continue
		}

		line := fmt.Sprintf("Slide %d: %s", s.Index, headline)
		if len(numbers) > 0 {
			line += fmt.Sprintf(" | Numbers: %s", strings.Join(numbers, ", "))
		}
		if len(dates) > 0 {
			line += fmt.Sprintf(" | Dates: %s", strings.Join(dates, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// headline returns the slide's first non-blank line, capped.
func headline(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxHeadlineRunes {
			return string(runes[:maxHeadlineRunes])
		}
		return line
	}
	return ""
}

func capItems(items []string) []string {
	if len(items) > maxSummaryItems {
		return items[:maxSummaryItems]
	}
	return items
}
