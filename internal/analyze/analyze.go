// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze drives the two inference passes over a deck and reconciles
// their findings into the final AnalysisResult. Batches run sequentially in
// index order; a failed batch is counted and skipped, never fatal. The single
// cross-deck pass follows and is equally non-fatal.
package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/shivesh0001/ppt-checker/internal/inference"
	"github.com/shivesh0001/ppt-checker/internal/plan"
	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Gateway is the inference surface the pipeline needs. Satisfied by
// *inference.Gateway; tests supply a scripted fake.
type Gateway interface {
	Analyze(ctx context.Context, req inference.Request) (inference.Response, error)
	Calls() int
}

// Run executes the full pipeline over d and returns the immutable result.
// Only configuration and total-input errors are returned; per-batch and
// cross-deck failures are absorbed into the run counters. Progress and
// warnings go to w. Cancellation is checked between batches; an in-flight
// call is not interrupted beyond what its transport honors.
func Run(ctx context.Context, d *types.Deck, gw Gateway, cfg types.AnalysisConfig, w io.Writer) (*types.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if d == nil || len(d.Slides) == 0 {
		return nil, fmt.Errorf("deck contains no slides")
	}

	ranges, err := plan.Plan(len(d.Slides), cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	stats := types.RunStats{
		SlidesAnalyzed: len(d.Slides),
		BatchesPlanned: len(ranges),
	}

	var all []types.Finding

	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slides := d.Slides[r.Start:r.End]
		fmt.Fprintf(w, "analyzing batch %d/%d (slides %d-%d)\n",
			i+1, len(ranges), slides[0].Index, slides[len(slides)-1].Index)

		stats.BatchesAttempted++
		findings, err := analyzeBatch(ctx, gw, slides, cfg, w)
		if err != nil {
			stats.BatchesFailed++
			fmt.Fprintf(w, "warning: batch %d failed: %v\n", i+1, err)
			continue
		}
		all = append(all, findings...)
	}

	if cfg.CrossDeck {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprintln(w, "analyzing cross-deck consistency")
		findings, err := analyzeCrossDeck(ctx, gw, d.Slides, cfg, w)
		if err != nil {
			stats.CrossDeckFailed = true
			fmt.Fprintf(w, "warning: cross-deck pass failed: %v\n", err)
		} else {
			all = append(all, findings...)
		}
	}

	stats.APICalls = gw.Calls()

	return &types.AnalysisResult{
		Findings: Reconcile(all, cfg.ConfidenceThreshold, cfg.SimilarityThreshold),
		Stats:    stats,
	}, nil
}

// analyzeBatch issues one gateway call scoped to a contiguous slide group.
// The request carries the group's slide indices so findings referencing
// slides the batch never saw are rejected.
func analyzeBatch(ctx context.Context, gw Gateway, slides []types.Slide, cfg types.AnalysisConfig, w io.Writer) ([]types.Finding, error) {
	prompt, err := inference.BuildBatchPrompt(slides, cfg.IncludeOCR)
	if err != nil {
		return nil, err
	}

	resp, err := gw.Analyze(ctx, inference.Request{
		Prompt: prompt,
		Pass:   types.PassBatch,
		Slides: slideIndices(slides),
	})
	if err != nil {
		return nil, err
	}

	logWarnings(w, resp.Warnings)
	return resp.Findings, nil
}

// analyzeCrossDeck issues the single whole-deck call over the condensed
// summary, catching inconsistencies no batch could see on its own.
func analyzeCrossDeck(ctx context.Context, gw Gateway, slides []types.Slide, cfg types.AnalysisConfig, w io.Writer) ([]types.Finding, error) {
	prompt, err := inference.BuildCrossDeckPrompt(Summary(slides, cfg.IncludeOCR))
	if err != nil {
		return nil, err
	}

	resp, err := gw.Analyze(ctx, inference.Request{
		Prompt: prompt,
		Pass:   types.PassCrossDeck,
		Slides: slideIndices(slides),
	})
	if err != nil {
		return nil, err
	}

	logWarnings(w, resp.Warnings)
	return resp.Findings, nil
}

// slideIndices extracts the index list a request advertises as valid
// finding references.
func slideIndices(slides []types.Slide) []int {
	indices := make([]int, len(slides))
	for i, s := range slides {
		indices[i] = s.Index
	}
	return indices
}

func logWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}
