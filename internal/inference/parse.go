// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// rawFinding is the untrusted shape of one finding as the model returns it.
// Every field is validated before a typed Finding is built from it.
type rawFinding struct {
	Category    string   `json:"category"`
	Confidence  float64  `json:"confidence"`
	Slides      []int    `json:"slides"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
}

// rawResponse is the top-level shape the prompt asks for.
type rawResponse struct {
	Findings []rawFinding `json:"findings"`
}

// ParseResponse decodes a raw model response into validated findings tagged
// with the given pass. Findings failing validation are dropped individually,
// each with a warning; only an unparseable response is an error. slides
// lists the indices a finding may reference; anything else is a hallucinated
// reference and invalidates the finding. Membership matters, not the range:
// a deck numbered 1,3,7 has no slide 2.
func ParseResponse(text string, pass types.SourcePass, slides []int) ([]types.Finding, []string, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing model response JSON: %w", err)
	}

	valid := make(map[int]bool, len(slides))
	for _, s := range slides {
		valid[s] = true
	}

	var findings []types.Finding
	var warnings []string

	for i, rf := range raw.Findings {
		if reason := validateFinding(rf, valid); reason != "" {
			warnings = append(warnings, fmt.Sprintf("finding %d dropped: %s", i, reason))
			continue
		}

		f := types.Finding{
			Category:    types.FindingCategory(rf.Category),
			Description: strings.TrimSpace(rf.Description),
			Confidence:  rf.Confidence,
			Slides:      rf.Slides,
			Evidence:    rf.Evidence,
			Pass:        pass,
		}
		f.SortSlides()
		findings = append(findings, f)
	}

	return findings, warnings, nil
}

// validateFinding returns a non-empty rejection reason when rf violates the
// Finding schema.
func validateFinding(rf rawFinding, valid map[int]bool) string {
	if !types.ValidCategory(types.FindingCategory(rf.Category)) {
		return fmt.Sprintf("invalid category %q", rf.Category)
	}
	if rf.Confidence < 0.0 || rf.Confidence > 1.0 {
		return fmt.Sprintf("confidence %g out of range [0,1]", rf.Confidence)
	}
	if strings.TrimSpace(rf.Description) == "" {
		return "empty description"
	}
	if len(rf.Slides) == 0 {
		return "no slide references"
	}
	for _, s := range rf.Slides {
		if !valid[s] {
			return fmt.Sprintf("slide reference %d not among the analyzed slides", s)
		}
	}
	return ""
}

// stripFences removes a Markdown code fence wrapper, which some models add
// around JSON despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
