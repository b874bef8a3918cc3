// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Prompt size limits, in runes. Truncation is deterministic: each slide body
// is capped at maxSlideRunes; if the formatted content still exceeds
// maxContentRunes, the lowest-priority material goes first (speaker notes,
// then OCR text), and as a last resort slide bodies are re-capped
// proportionally. Slides are never dropped.
const (
	maxSlideRunes   = 4000
	maxContentRunes = 48000
	minSlideRunes   = 200
)

const truncationMarker = "\n[truncated]"

// analysisPromptTmpl instructs the model to find business-logic
// inconsistencies and answer in the JSON shape parse.go decodes. The Scope
// field distinguishes the per-batch and whole-deck passes.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are an expert business analyst reviewing a slide presentation for inconsistencies.

CRITICAL INSTRUCTIONS:
- Only flag GENUINE business logic inconsistencies that would concern executives
- Ignore stylistic differences, synonyms, or different phrasings of the same concept
- Focus on factual/numerical conflicts, timeline errors, and logical contradictions
- Provide specific evidence with exact quotes
- Rate confidence 0.0-1.0 for each finding

INCONSISTENCY TYPES TO DETECT {{.Scope}}:
1. numerical: revenue figures, percentages that don't add up, contradictory metrics
2. timeline: date conflicts, impossible sequences, chronological errors
3. logic: mutually exclusive statements about market, competition, etc.
4. data: parts that don't sum to the whole, inconsistent breakdowns

CONTENT TO ANALYZE:
{{.Content}}

Respond with a JSON object only. Each finding must have:
- "category": one of "numerical", "timeline", "logic", "data"
- "confidence": a float between 0.0 and 1.0
- "slides": the slide numbers involved
- "description": a brief description of the inconsistency
- "evidence": exact quotes from the slides involved

Example response:
{"findings": [{"category": "numerical", "confidence": 0.85, "slides": [3, 8], "description": "Total revenue on slide 3 contradicts the figure on slide 8.", "evidence": ["Revenue: $10M", "Revenue: $12M"]}]}

If no genuine inconsistencies are found, return: {"findings": []}
`))

// promptData feeds analysisPromptTmpl.
type promptData struct {
	Scope   string
	Content string
}

// BuildBatchPrompt renders the per-batch prompt for a contiguous group of
// slides. OCR text rides along when includeOCR is set.
func BuildBatchPrompt(slides []types.Slide, includeOCR bool) (string, error) {
	return renderPrompt(promptData{
		Scope:   "within these slides",
		Content: FormatSlides(slides, includeOCR),
	})
}

// BuildCrossDeckPrompt renders the whole-deck prompt over a condensed
// summary. The summary is bounded per slide by construction, which keeps
// this prompt's size independent of full transcript length.
func BuildCrossDeckPrompt(summary string) (string, error) {
	return renderPrompt(promptData{
		Scope:   "across the entire presentation",
		Content: truncate(summary, maxContentRunes),
	})
}

func renderPrompt(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// FormatSlides serializes slides for the model, applying the documented
// truncation order: full detail first, then without notes, then without OCR
// text, and finally with slide bodies re-capped to fit the content budget.
func FormatSlides(slides []types.Slide, includeOCR bool) string {
	full := formatSlides(slides, includeOCR, true, maxSlideRunes)
	if runeLen(full) <= maxContentRunes {
		return full
	}

	noNotes := formatSlides(slides, includeOCR, false, maxSlideRunes)
	if runeLen(noNotes) <= maxContentRunes {
		return noNotes
	}

	if includeOCR {
		noOCR := formatSlides(slides, false, false, maxSlideRunes)
		if runeLen(noOCR) <= maxContentRunes {
			return noOCR
		}
	}

	perSlide := maxContentRunes / len(slides)
	if perSlide < minSlideRunes {
		perSlide = minSlideRunes
	}
	return formatSlides(slides, false, false, perSlide)
}

func formatSlides(slides []types.Slide, ocr, notes bool, bodyCap int) string {
	parts := make([]string, 0, len(slides))
	for _, s := range slides {
		var b strings.Builder
		fmt.Fprintf(&b, "=== SLIDE %d ===\n", s.Index)
		b.WriteString(truncate(strings.Join(s.Texts, "\n"), bodyCap))
		if ocr && s.OCRText != "" {
			b.WriteString("\n[OCR TEXT]: ")
			b.WriteString(truncate(s.OCRText, bodyCap))
		}
		if notes && s.Notes != "" {
			b.WriteString("\n[NOTES]: ")
			b.WriteString(truncate(s.Notes, bodyCap))
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// truncate caps s at n runes, appending a marker when content was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + truncationMarker
}

func runeLen(s string) int {
	return len([]rune(s))
}
