// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ppt-checker pipeline:
// the slide content model handed over by the extraction collaborator, the
// Finding record produced by the inference passes, and the final
// AnalysisResult consumed by reporting.
package types

import "sort"

// Slide is the extracted content of a single slide. Slides are built once by
// the extraction collaborator and are read-only for every analyzer.
type Slide struct {
	// Index is the 1-based slide number, stable across the run.
	Index int `json:"index" yaml:"index"`

	// Texts are the slide's text blocks in reading order.
	Texts []string `json:"texts" yaml:"texts"`

	// OCRText is text recovered from embedded images, if OCR ran upstream.
	OCRText string `json:"ocr_text,omitempty" yaml:"ocr_text,omitempty"`

	// Notes holds the speaker notes, if any.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Deck is the full slide sequence for one presentation.
type Deck struct {
	// Source records where the deck content came from (e.g. the .pptx path
	// the extractor processed).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Slides are ordered by ascending Index.
	Slides []Slide `json:"slides" yaml:"slides"`
}

// FindingCategory classifies a detected inconsistency.
type FindingCategory string

const (
	// CategoryNumerical covers conflicting figures and percentages that do
	// not add up.
	CategoryNumerical FindingCategory = "numerical"

	// CategoryTimeline covers date conflicts and impossible sequences.
	CategoryTimeline FindingCategory = "timeline"

	// CategoryLogic covers mutually exclusive statements.
	CategoryLogic FindingCategory = "logic"

	// CategoryData covers breakdowns whose parts do not sum to the whole.
	CategoryData FindingCategory = "data"
)

// ValidCategory reports whether c is one of the fixed category values.
// Anything else coming back from the inference layer invalidates the finding.
func ValidCategory(c FindingCategory) bool {
	switch c {
	case CategoryNumerical, CategoryTimeline, CategoryLogic, CategoryData:
		return true
	}
	return false
}

// SourcePass identifies which analysis pass produced a finding.
type SourcePass string

const (
	// PassBatch marks findings from a per-batch call.
	PassBatch SourcePass = "batch"

	// PassCrossDeck marks findings from the single whole-deck call.
	PassCrossDeck SourcePass = "cross-deck"
)

// Finding is one detected inconsistency.
type Finding struct {
	// Category is one of the fixed FindingCategory values.
	Category FindingCategory `json:"category" yaml:"category"`

	// Description explains the inconsistency in one or two sentences.
	Description string `json:"description" yaml:"description"`

	// Confidence is the model's certainty, between 0.0 and 1.0.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Slides lists the 1-based indices of the slides involved. Always
	// non-empty and sorted ascending after validation.
	Slides []int `json:"slides" yaml:"slides"`

	// Evidence holds short verbatim excerpts supporting the finding.
	Evidence []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Pass records which analysis pass produced the finding.
	Pass SourcePass `json:"pass" yaml:"pass"`
}

// MinSlide returns the lowest referenced slide index, or 0 for an empty
// reference list (which validation never lets through).
func (f Finding) MinSlide() int {
	if len(f.Slides) == 0 {
		return 0
	}
	min := f.Slides[0]
	for _, s := range f.Slides[1:] {
		if s < min {
			min = s
		}
	}
	return min
}

// SortSlides orders the slide references ascending, in place.
func (f *Finding) SortSlides() {
	sort.Ints(f.Slides)
}

// RunStats counts what the pipeline attempted so a reader of the final
// report can judge completeness of coverage.
type RunStats struct {
	// SlidesAnalyzed is the number of slides in the deck.
	SlidesAnalyzed int `json:"slides_analyzed" yaml:"slides_analyzed"`

	// BatchesPlanned is the number of batches the planner produced.
	BatchesPlanned int `json:"batches_planned" yaml:"batches_planned"`

	// BatchesAttempted is the number of batches submitted for inference.
	BatchesAttempted int `json:"batches_attempted" yaml:"batches_attempted"`

	// BatchesFailed is the number of batches whose inference call failed
	// after retries.
	BatchesFailed int `json:"batches_failed" yaml:"batches_failed"`

	// APICalls is the total number of inference requests sent over the wire,
	// including retries and excluding cache hits.
	APICalls int `json:"api_calls" yaml:"api_calls"`

	// CrossDeckFailed reports whether the whole-deck pass failed.
	CrossDeckFailed bool `json:"cross_deck_failed" yaml:"cross_deck_failed"`
}

// AnalysisResult is the immutable output of one pipeline run: the merged,
// deduplicated, threshold-filtered findings in their final stable order,
// plus the run counters.
type AnalysisResult struct {
	Findings []Finding `json:"findings" yaml:"findings"`
	Stats    RunStats  `json:"stats" yaml:"stats"`
}

// HasFailures reports whether any batch or the cross-deck pass failed.
func (r AnalysisResult) HasFailures() bool {
	return r.Stats.BatchesFailed > 0 || r.Stats.CrossDeckFailed
}
