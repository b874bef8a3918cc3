// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference builds prompts, calls the external model, and validates
// its untrusted structured responses into typed findings. The gateway owns
// the retry policy, the inter-call rate limiter, and the API-call counter;
// the analyzers above it only see validated findings or a per-call error.
package inference

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Backend abstracts the inference service so tests can supply a mock.
// Implementations mark retryable failures with Transient.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cache stores raw model responses keyed by model and prompt. A nil cache
// disables caching. Cache failures are never fatal to a call.
type Cache interface {
	Get(model, prompt string) (string, bool)
	Put(model, prompt, response string) error
}

// Request is one inference call: a rendered prompt plus the slide indices a
// returned finding may legitimately reference. Decks may have gaps in their
// numbering, so the valid references are a set, not a range.
type Request struct {
	Prompt string
	Pass   types.SourcePass
	Slides []int
}

// Response holds the validated findings from one call and the warnings for
// any records dropped during validation.
type Response struct {
	Findings []types.Finding
	Warnings []string
}

// Gateway drives a Backend with rate limiting and retry-on-transient-failure,
// then parses and validates what comes back.
type Gateway struct {
	backend    Backend
	model      string
	cache      Cache
	limiter    *Limiter
	maxRetries int
	retryDelay time.Duration
	calls      int
	warnW      io.Writer

	// sleep is injectable so retry tests run without real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGateway builds a Gateway for the given backend. cache may be nil.
func NewGateway(backend Backend, cfg types.AIConfig, cache Cache) *Gateway {
	return &Gateway{
		backend:    backend,
		model:      cfg.Model,
		cache:      cache,
		limiter:    NewLimiter(cfg.InterCallDelay),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		warnW:      os.Stderr,
		sleep:      ctxSleep,
	}
}

// Calls returns the number of requests sent over the wire, including
// retries and excluding cache hits.
func (g *Gateway) Calls() int { return g.calls }

// Analyze performs one inference call end to end: cache lookup, rate-limited
// backend invocation with retries, then strict parse and validation. A
// schema-violating finding costs only itself; an unparseable response or an
// exhausted retry budget fails the whole call.
func (g *Gateway) Analyze(ctx context.Context, req Request) (Response, error) {
	text, err := g.generate(ctx, req.Prompt)
	if err != nil {
		return Response{}, err
	}

	findings, warnings, err := ParseResponse(text, req.Pass, req.Slides)
	if err != nil {
		return Response{}, err
	}
	return Response{Findings: findings, Warnings: warnings}, nil
}

// generate returns the raw model response for prompt, consulting the cache
// first. Transient failures are retried up to maxRetries with a fixed
// inter-attempt delay; permanent failures propagate immediately.
func (g *Gateway) generate(ctx context.Context, prompt string) (string, error) {
	if g.cache != nil {
		if text, ok := g.cache.Get(g.model, prompt); ok {
			return text, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, g.retryDelay); err != nil {
				return "", err
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		g.calls++
		text, err := g.backend.Generate(ctx, prompt)
		if err == nil {
			if g.cache != nil {
				if cerr := g.cache.Put(g.model, prompt, text); cerr != nil {
					fmt.Fprintf(g.warnW, "warning: response cache write failed: %v\n", cerr)
				}
			}
			return text, nil
		}

		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", g.maxRetries, lastErr)
}
