// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Reconcile merges near-identical findings from both passes, drops findings
// below the confidence threshold, and returns the survivors in a stable
// final order. Running it twice over its own output yields the same result.
func Reconcile(findings []types.Finding, confThreshold, simThreshold float64) []types.Finding {
	merged := merge(findings, simThreshold)

	final := merged[:0:0]
	for _, f := range merged {
		if f.Confidence >= confThreshold {
			final = append(final, f)
		}
	}

	sortFindings(final)
	return final
}

// merge collapses duplicate findings. The input is first brought into
// canonical order so the outcome never depends on pass arrival order.
// An incoming finding may duplicate several kept entries at once (a broad
// finding bridging two narrower ones); the whole group collapses to its
// single best member, which keeps the kept set pairwise distinct and the
// merge idempotent.
func merge(findings []types.Finding, simThreshold float64) []types.Finding {
	sorted := append([]types.Finding(nil), findings...)
	sortFindings(sorted)

	var kept []types.Finding
	for _, f := range sorted {
		best := f
		rest := kept[:0]
		for _, k := range kept {
			if duplicates(f, k, simThreshold) {
				if better(k, best) {
					best = k
				}
				continue
			}
			rest = append(rest, k)
		}
		kept = append(rest, best)
	}
	return kept
}

// duplicates reports whether a and b describe the same inconsistency: same
// category, overlapping slide sets, and similar descriptions.
func duplicates(a, b types.Finding, simThreshold float64) bool {
	if a.Category != b.Category {
		return false
	}
	if !slidesOverlap(a.Slides, b.Slides) {
		return false
	}

	na, nb := normalizeDesc(a.Description), normalizeDesc(b.Description)
	if na == nb {
		return true
	}
	return tokenOverlap(na, nb) >= simThreshold
}

// better reports whether a should replace b when they are duplicates:
// higher confidence wins, ties prefer the cross-deck pass (it saw more
// context), then the lower minimum slide index.
func better(a, b types.Finding) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Pass != b.Pass {
		return a.Pass == types.PassCrossDeck
	}
	return a.MinSlide() < b.MinSlide()
}

// slidesOverlap reports whether the sorted reference lists share an index.
func slidesOverlap(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// normalizeDesc lowercases the description and strips everything but
// letters, digits, and single spaces.
func normalizeDesc(desc string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(desc) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenOverlap returns the share of distinct tokens the shorter description
// has in common with the longer one.
func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if setB[tok] {
			shared++
		}
	}

	min := len(setA)
	if len(setB) < min {
		min = len(setB)
	}
	return float64(shared) / float64(min)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// sortFindings applies the stable final order: ascending minimum slide
// index, then category name, then descending confidence, with remaining
// ties broken on description, pass, and the full reference list so equal
// inputs always produce byte-identical output.
func sortFindings(findings []types.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.MinSlide() != b.MinSlide() {
			return a.MinSlide() < b.MinSlide()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		if a.Pass != b.Pass {
			return a.Pass == types.PassCrossDeck
		}
		return lessIntSlice(a.Slides, b.Slides)
	})
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
