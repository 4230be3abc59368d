// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vancouver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// missingMetadataNote flags a numbered placeholder with no matching plan
// record. The gap stays visible in the reference list instead of being
// dropped, so a reviewer can fix the plan.
const missingMetadataNote = "(Missing metadata; please fix in citation plan)."

// NumberDrafts renumbers citation placeholders across the manuscript and
// builds the ordered Vancouver reference list. Sections are processed in
// canonical order (Abstract first when includeAbstract is set, then
// Introduction, Methods, Results, Discussion, Conclusion); sections missing
// from drafts are skipped. Every assigned number gets exactly one reference
// string "N. <formatted>"; numbers whose identity has no plan record get a
// missing-metadata flag string instead of a crash or a silent omission.
func NumberDrafts(
	journal types.JournalSpec,
	drafts map[types.SectionName]string,
	plan types.CitationPlan,
	includeAbstract bool,
) (map[types.SectionName]string, []string) {
	order := canonicalOrder(drafts, includeAbstract)

	sections := make([]Section, 0, len(order))
	for _, name := range order {
		sections = append(sections, Section{Name: name, Text: drafts[name]})
	}

	numbered, keyToNum := Renumber(sections, journal.References.InTextFormat)

	keyToCitation := PlanLookup(plan)

	numToKey := make(map[int]string, len(keyToNum))
	nums := make([]int, 0, len(keyToNum))
	for key, num := range keyToNum {
		numToKey[num] = key
		nums = append(nums, num)
	}
	sort.Ints(nums)

	refs := make([]string, 0, len(nums))
	for _, num := range nums {
		key := numToKey[num]
		if c, ok := keyToCitation[key]; ok {
			refs = append(refs, fmt.Sprintf("%d. %s", num, FormatReference(c)))
		} else {
			refs = append(refs, fmt.Sprintf("%d. %s %s", num, key, missingMetadataNote))
		}
	}

	return numbered, refs
}

// Assemble runs NumberDrafts and concatenates the numbered sections into one
// body text, each section preceded by its heading and separated by blank
// lines. The reference list is returned separately; rendering it into a
// final document belongs to the exporter.
func Assemble(
	journal types.JournalSpec,
	drafts map[types.SectionName]string,
	plan types.CitationPlan,
	includeAbstract bool,
) (string, []string) {
	numbered, refs := NumberDrafts(journal, drafts, plan, includeAbstract)

	var parts []string
	for _, name := range canonicalOrder(drafts, includeAbstract) {
		if text, ok := numbered[name]; ok {
			parts = append(parts, fmt.Sprintf("%s\n\n%s", name, text))
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n")), refs
}

// PlanLookup indexes the plan's records by placeholder key. A record with
// both identifiers is reachable under both its PMID and its DOI key; a
// record with neither is unreachable from placeholders and simply absent.
func PlanLookup(plan types.CitationPlan) map[string]types.Citation {
	lookup := make(map[string]types.Citation, len(plan.Selected))
	for _, cu := range plan.Selected {
		c := cu.Citation
		if c.PMID != "" {
			lookup[Key(types.KindPMID, c.PMID)] = c
		}
		if c.DOI != "" {
			lookup[Key(types.KindDOI, c.DOI)] = c
		}
	}
	return lookup
}

// canonicalOrder returns the manuscript pass order, prefixing the Abstract
// when requested and it has a draft.
func canonicalOrder(drafts map[types.SectionName]string, includeAbstract bool) []types.SectionName {
	var order []types.SectionName
	if includeAbstract {
		if _, ok := drafts[types.SectionAbstract]; ok {
			order = append(order, types.SectionAbstract)
		}
	}
	return append(order, types.ManuscriptOrder...)
}
