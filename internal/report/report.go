// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders an AnalysisResult for the console or a file.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

const rule = "=================================================="

// WriteText renders the human-readable inconsistency report. The header
// always states batches attempted versus failed so the reader can judge how
// complete the coverage was.
func WriteText(res *types.AnalysisResult, threshold float64, w io.Writer) {
	s := res.Stats

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "=== SLIDE DECK INCONSISTENCY REPORT ===")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Slides Analyzed: %d\n", s.SlidesAnalyzed)
	fmt.Fprintf(w, "Batches: %d attempted, %d failed\n", s.BatchesAttempted, s.BatchesFailed)
	if s.CrossDeckFailed {
		fmt.Fprintln(w, "Warning: cross-deck analysis failed; findings spanning distant slides may be missing.")
	}
	fmt.Fprintf(w, "Issues Found: %d\n", len(res.Findings))
	fmt.Fprintln(w)

	if len(res.Findings) == 0 {
		fmt.Fprintln(w, "No significant inconsistencies detected.")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Note: only inconsistencies with %.0f%%+ confidence are shown.\n", threshold*100)
	} else {
		for i, f := range res.Findings {
			fmt.Fprintf(w, "%d. %s (confidence: %.2f)\n", i+1, categoryLabel(f.Category), f.Confidence)
			fmt.Fprintf(w, "   Slides: %s\n", joinInts(f.Slides))
			fmt.Fprintf(w, "   Issue: %s\n", f.Description)
			if len(f.Evidence) > 0 {
				fmt.Fprintln(w, "   Evidence:")
				for _, ev := range f.Evidence {
					fmt.Fprintf(w, "   - %s\n", ev)
				}
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Analysis complete. Review findings carefully for business impact.")
	fmt.Fprintln(w, rule)
}

// WriteJSON renders the result as indented JSON.
func WriteJSON(res *types.AnalysisResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// categoryLabel maps a category to its report heading.
func categoryLabel(c types.FindingCategory) string {
	switch c {
	case types.CategoryNumerical:
		return "Numerical Conflict"
	case types.CategoryTimeline:
		return "Timeline Mismatch"
	case types.CategoryLogic:
		return "Logical Contradiction"
	case types.CategoryData:
		return "Data Relationship Error"
	}
	return string(c)
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
