// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan manages the citation plan: the ordered pool of bibliographic
// records the author has selected, with usage tags and priorities. The plan
// is the only mutable citation state; the assembly core reads it and never
// writes it.
package plan

import (
	"fmt"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// Select appends a citation to the plan with the given usage tags and
// priority. It does not deduplicate: selecting the same record twice keeps
// both entries, and the qa stage surfaces the consequences. Unknown use
// tags are rejected; they are caller bugs, not data quality.
func Select(p *types.CitationPlan, c types.Citation, useFor []types.UseTag, priority int) error {
	for _, tag := range useFor {
		if !types.ValidUseTags[tag] {
			return fmt.Errorf("unknown use tag %q", tag)
		}
	}
	p.Selected = append(p.Selected, types.CitationUse{
		Citation: c,
		UseFor:   useFor,
		Priority: priority,
	})
	return nil
}

// Deselect removes every plan entry whose record matches key ("PMID:<id>"
// or "DOI:<id>"). It returns the number of entries removed.
func Deselect(p *types.CitationPlan, key string) int {
	kept := p.Selected[:0]
	removed := 0
	for _, cu := range p.Selected {
		if matchesKey(cu.Citation, key) {
			removed++
			continue
		}
		kept = append(kept, cu)
	}
	p.Selected = kept
	return removed
}

// Replace swaps the first plan entry matching key for the given entry,
// preserving its position. It reports whether a match was found.
func Replace(p *types.CitationPlan, key string, replacement types.CitationUse) bool {
	for i, cu := range p.Selected {
		if matchesKey(cu.Citation, key) {
			p.Selected[i] = replacement
			return true
		}
	}
	return false
}

// Find returns the first plan entry matching key.
func Find(p types.CitationPlan, key string) (types.CitationUse, bool) {
	for _, cu := range p.Selected {
		if matchesKey(cu.Citation, key) {
			return cu, true
		}
	}
	return types.CitationUse{}, false
}

// matchesKey reports whether the record answers to the placeholder key,
// under either of its identifiers. Matching is case-sensitive on the
// identifier but tolerant of surrounding whitespace.
func matchesKey(c types.Citation, key string) bool {
	key = strings.TrimSpace(key)
	if c.PMID != "" && key == string(types.KindPMID)+":"+c.PMID {
		return true
	}
	if c.DOI != "" && key == string(types.KindDOI)+":"+c.DOI {
		return true
	}
	return false
}
