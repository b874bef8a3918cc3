// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan partitions a slide sequence into contiguous batches for the
// per-batch analysis pass.
package plan

import "fmt"

// Range is a half-open interval [Start, End) of 0-based slide positions.
type Range struct {
	Start int
	End   int
}

// Len returns the number of slides in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Plan partitions [0, n) into ordered, contiguous, non-overlapping ranges of
// at most size slides each. The final range may be shorter. n == 0 yields an
// empty plan. The output is deterministic for identical inputs.
func Plan(n, size int) ([]Range, error) {
	if size < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", size)
	}
	if n < 0 {
		return nil, fmt.Errorf("slide count must be non-negative, got %d", n)
	}

	var ranges []Range
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges, nil
}
