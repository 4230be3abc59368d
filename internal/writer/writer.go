// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package writer drafts manuscript sections through a text-generation
// backend. The generator is handed an evidence pack built from the fact
// sheet and a closed citation list from the plan; drafted prose carries
// citation placeholders that the assembly stage later numbers.
package writer

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// TextGenerator abstracts the generation API so tests can supply a mock.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// BatchSummary holds counts from a batch drafting run.
type BatchSummary struct {
	Drafted int
	Skipped int
	Failed  int
}

// Total returns the number of sections processed.
func (s BatchSummary) Total() int {
	return s.Drafted + s.Skipped + s.Failed
}

// HasFailures reports whether any sections failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the generator with exponential backoff.
func callWithRetry(ctx context.Context, gen TextGenerator, system, user string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := gen.Generate(ctx, system, user)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// DraftSection generates one section's prose. The section name must be one
// of the known sections.
func DraftSection(
	ctx context.Context,
	gen TextGenerator,
	section types.SectionName,
	journal types.JournalSpec,
	facts types.FactSheet,
	plan types.CitationPlan,
	overrides string,
	cfg types.DraftingConfig,
) (string, error) {
	prompt, err := BuildSectionPrompt(section, journal, facts, plan, overrides)
	if err != nil {
		return "", err
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	text, err := callWithRetry(ctx, gen, prompt.System, prompt.User, maxRetries)
	if err != nil {
		return "", fmt.Errorf("drafting section %q: %w", section, err)
	}
	return text, nil
}

// DraftAll drafts the requested sections, skipping locked ones, and returns
// the updated draft set. Failures are reported per section; drafting
// continues with the next section.
func DraftAll(
	ctx context.Context,
	gen TextGenerator,
	sections []types.SectionName,
	journal types.JournalSpec,
	facts types.FactSheet,
	plan types.CitationPlan,
	drafts map[types.SectionName]types.SectionDraft,
	cfg types.DraftingConfig,
	w io.Writer,
) (map[types.SectionName]types.SectionDraft, BatchSummary, error) {
	out := make(map[types.SectionName]types.SectionDraft, len(drafts))
	for name, d := range drafts {
		out[name] = d
	}

	var summary BatchSummary
	for _, section := range sections {
		if !types.KnownSections[section] {
			return out, summary, fmt.Errorf("unsupported section: %s", section)
		}
		if existing, ok := out[section]; ok && existing.Locked {
			fmt.Fprintf(w, "skipped %s (locked)\n", section)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "drafting %s\n", section)

		text, err := DraftSection(ctx, gen, section, journal, facts, plan, "", cfg)
		if err != nil {
			if ctx.Err() != nil {
				return out, summary, err
			}
			fmt.Fprintf(w, "failed  %s: %v\n", section, err)
			summary.Failed++
			continue
		}

		out[section] = types.SectionDraft{Section: section, Content: text}
		fmt.Fprintf(w, "drafted %s (%d words)\n", section, len(strings.Fields(text)))
		summary.Drafted++
	}

	return out, summary, nil
}
