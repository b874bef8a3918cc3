// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

func finding(cat types.FindingCategory, conf float64, slides []int, desc string, pass types.SourcePass) types.Finding {
	return types.Finding{
		Category:    cat,
		Description: desc,
		Confidence:  conf,
		Slides:      slides,
		Pass:        pass,
	}
}

func TestReconcileMergesDuplicates(t *testing.T) {
	in := []types.Finding{
		finding(types.CategoryNumerical, 0.9, []int{2, 3}, "Revenue total on slide 3 contradicts slide 2.", types.PassBatch),
		finding(types.CategoryNumerical, 0.75, []int{2, 3}, "Revenue total on slide 3 contradicts slide 2!", types.PassBatch),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1 merged", len(out))
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("merged confidence = %g, want 0.9 (higher kept)", out[0].Confidence)
	}
}

func TestReconcileFuzzyDuplicates(t *testing.T) {
	// Different wording, strong token overlap.
	in := []types.Finding{
		finding(types.CategoryNumerical, 0.8, []int{2, 3}, "Revenue figures conflict between slide 2 and slide 3", types.PassBatch),
		finding(types.CategoryNumerical, 0.85, []int{3, 9}, "Revenue figures conflict between slide 3 and slide 9 totals", types.PassCrossDeck),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1 merged", len(out))
	}
	if out[0].Pass != types.PassCrossDeck {
		t.Errorf("kept pass = %q, want higher-confidence cross-deck finding", out[0].Pass)
	}
}

func TestReconcileTiePrefersCrossDeck(t *testing.T) {
	in := []types.Finding{
		finding(types.CategoryLogic, 0.8, []int{5}, "Market claims are mutually exclusive.", types.PassBatch),
		finding(types.CategoryLogic, 0.8, []int{5}, "Market claims are mutually exclusive.", types.PassCrossDeck),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1", len(out))
	}
	if out[0].Pass != types.PassCrossDeck {
		t.Errorf("kept pass = %q, want cross-deck on confidence tie", out[0].Pass)
	}
}

func TestReconcileDistinctFindingsSurvive(t *testing.T) {
	in := []types.Finding{
		// Same category and wording but disjoint slide sets: not duplicates.
		finding(types.CategoryNumerical, 0.8, []int{1}, "Figures do not add up.", types.PassBatch),
		finding(types.CategoryNumerical, 0.8, []int{9}, "Figures do not add up.", types.PassBatch),
		// Overlapping slides but different category: not duplicates.
		finding(types.CategoryTimeline, 0.8, []int{1}, "Figures do not add up.", types.PassBatch),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 3 {
		t.Fatalf("got %d findings, want 3 distinct", len(out))
	}
}

func TestReconcileFiltersByConfidence(t *testing.T) {
	in := []types.Finding{
		finding(types.CategoryData, 0.69, []int{1}, "Parts do not sum to the stated whole.", types.PassBatch),
		finding(types.CategoryData, 0.70, []int{2}, "Breakdown totals disagree.", types.PassBatch),
		finding(types.CategoryData, 0.95, []int{3}, "Segment sums exceed the total.", types.PassBatch),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 2 {
		t.Fatalf("got %d findings, want 2 (0.69 dropped, 0.70 kept)", len(out))
	}
	for _, f := range out {
		if f.Confidence < 0.70 {
			t.Errorf("finding with confidence %g passed the 0.70 threshold", f.Confidence)
		}
	}
}

func TestReconcileOrdering(t *testing.T) {
	in := []types.Finding{
		finding(types.CategoryTimeline, 0.8, []int{4}, "b", types.PassBatch),
		finding(types.CategoryLogic, 0.8, []int{4}, "a", types.PassBatch),
		finding(types.CategoryLogic, 0.9, []int{2, 8}, "c", types.PassBatch),
		finding(types.CategoryNumerical, 0.75, []int{1}, "d", types.PassBatch),
	}

	out := Reconcile(in, 0.0, 0.5)
	wantOrder := []string{"d", "c", "a", "b"}
	for i, f := range out {
		if f.Description != wantOrder[i] {
			t.Fatalf("position %d = %q, want %q (full order %v)", i, f.Description, wantOrder[i], out)
		}
	}
}

// A broad finding can duplicate two narrower ones that are not duplicates
// of each other; the whole group must collapse to its single best member.
func TestReconcileMergesBridgingFinding(t *testing.T) {
	in := []types.Finding{
		finding(types.CategoryNumerical, 0.9, []int{1, 3}, "alpha beta", types.PassBatch),
		finding(types.CategoryNumerical, 0.9, []int{2, 4}, "gamma delta", types.PassBatch),
		finding(types.CategoryNumerical, 0.95, []int{3, 4}, "alpha beta gamma delta", types.PassCrossDeck),
	}

	out := Reconcile(in, 0.70, 0.5)
	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1 (bridging finding absorbs both)", len(out))
	}
	if out[0].Confidence != 0.95 {
		t.Errorf("kept confidence = %g, want 0.95", out[0].Confidence)
	}
}

// Applying the merge twice must equal applying it once.
func TestReconcileIdempotent(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Finding
	}{
		{
			name: "pairwise duplicates",
			in: []types.Finding{
				finding(types.CategoryNumerical, 0.9, []int{2, 3}, "Revenue totals conflict across slides.", types.PassBatch),
				finding(types.CategoryNumerical, 0.75, []int{3}, "Revenue totals conflict across the slides.", types.PassCrossDeck),
				finding(types.CategoryTimeline, 0.8, []int{7}, "Launch date precedes development start.", types.PassBatch),
			},
		},
		{
			// The bridging finding matches two entries that do not match each
			// other; a single merge pass that only replaces in place would
			// leave a pair of duplicates behind for the second run to catch.
			name: "overlapping triple",
			in: []types.Finding{
				finding(types.CategoryNumerical, 0.9, []int{1, 3}, "alpha beta", types.PassBatch),
				finding(types.CategoryNumerical, 0.9, []int{2, 4}, "gamma delta", types.PassBatch),
				finding(types.CategoryNumerical, 0.95, []int{3, 4}, "alpha beta gamma delta", types.PassCrossDeck),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Reconcile(tt.in, 0.70, 0.5)
			twice := Reconcile(once, 0.70, 0.5)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("Reconcile not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
			}
		})
	}
}

// Shuffled input must produce identical output.
func TestReconcileDeterministic(t *testing.T) {
	base := []types.Finding{
		finding(types.CategoryNumerical, 0.9, []int{2, 3}, "Revenue totals conflict.", types.PassBatch),
		finding(types.CategoryNumerical, 0.9, []int{3, 5}, "Revenue totals conflict.", types.PassCrossDeck),
		finding(types.CategoryLogic, 0.85, []int{1}, "Strategy statements contradict.", types.PassBatch),
		finding(types.CategoryData, 0.72, []int{6}, "Breakdown does not sum.", types.PassBatch),
		finding(types.CategoryTimeline, 0.95, []int{2}, "Dates out of order.", types.PassCrossDeck),
	}

	want := Reconcile(base, 0.70, 0.5)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]types.Finding(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Reconcile(shuffled, 0.70, 0.5)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: shuffled input changed output:\ngot:  %+v\nwant: %+v", trial, got, want)
		}
	}
}

func TestNormalizeDesc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Revenue Conflict!", "revenue conflict"},
		{"  spaced   out  ", "spaced out"},
		{"$10M vs. $12M", "10m vs 12m"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDesc(tt.in); got != tt.want {
			t.Errorf("normalizeDesc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"revenue figures conflict", "revenue figures conflict", 1.0},
		{"revenue figures conflict", "totally different words here", 0.0},
		{"revenue figures conflict", "revenue numbers conflict", 2.0 / 3.0},
		{"", "anything", 0.0},
	}
	for _, tt := range tests {
		if got := tokenOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("tokenOverlap(%q, %q) = %g, want %g", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSlidesOverlap(t *testing.T) {
	tests := []struct {
		a, b []int
		want bool
	}{
		{[]int{1, 2}, []int{2, 3}, true},
		{[]int{1, 2}, []int{3, 4}, false},
		{[]int{5}, []int{5}, true},
		{nil, []int{1}, false},
	}
	for _, tt := range tests {
		if got := slidesOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("slidesOverlap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
