// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package qa runs compliance and sanity checks over drafted sections. Every
// check produces human-readable warnings for review; none of them blocks
// the pipeline. The numeric check is a hallucination heuristic, not a
// guarantee.
package qa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// claimPatterns mark sentences that typically assert published evidence and
// therefore need a citation.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhas been (shown|reported|demonstrated)\b`),
	regexp.MustCompile(`(?i)\bprevious (studies|reports)\b`),
	regexp.MustCompile(`(?i)\baccording to\b`),
	regexp.MustCompile(`(?i)\bguidelines?\b`),
	regexp.MustCompile(`(?i)\bmeta-?analysis\b`),
	regexp.MustCompile(`(?i)\bsystematic review\b`),
	regexp.MustCompile(`(?i)\brandomized\b`),
}

var (
	citePlaceholder = regexp.MustCompile(`\{cite:(PMID|DOI):[^}]+\}`)
	citeNumbered    = regexp.MustCompile(`\[(\d+)\]|\((\d+)\)`)
	numberToken     = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	sentenceSplit   = regexp.MustCompile(`(?:[.!?])\s+`)
	wordToken       = regexp.MustCompile(`\b[\w'-]+\b`)
)

// Report groups warnings per section plus manuscript-wide warnings.
type Report struct {
	Global    []string                       `json:"global" yaml:"global"`
	BySection map[types.SectionName][]string `json:"by_section" yaml:"by_section"`
}

// HasWarnings reports whether any check produced output.
func (r Report) HasWarnings() bool {
	if len(r.Global) > 0 {
		return true
	}
	for _, ws := range r.BySection {
		if len(ws) > 0 {
			return true
		}
	}
	return false
}

// WordCount counts word-like tokens.
func WordCount(text string) int {
	return len(wordToken.FindAllString(text, -1))
}

// splitSentences is a naive splitter, good enough for warning context.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	start := 0
	for _, loc := range sentenceSplit.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[start : loc[0]+1])
		if s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// CheckAbstract verifies the abstract's word limit and, for structured
// abstracts, that the required headings appear as "Heading:" lines.
func CheckAbstract(journal types.JournalSpec, abstract string) []string {
	var warnings []string

	limit := journal.Abstract.WordLimit
	if limit <= 0 {
		limit = 250
	}
	if wc := WordCount(abstract); wc > limit {
		warnings = append(warnings, fmt.Sprintf("Abstract word count %d exceeds limit %d.", wc, limit))
	}

	if journal.Abstract.Structured {
		for _, h := range journal.Abstract.Headings {
			re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(h) + `\s*:`)
			if !re.MatchString(abstract) {
				warnings = append(warnings, fmt.Sprintf("Abstract missing structured heading: %s:", h))
				break
			}
		}
	}
	return warnings
}

// CheckReferenceCount warns when the assembled list exceeds the journal cap.
func CheckReferenceCount(journal types.JournalSpec, references []string) []string {
	if max := journal.References.MaxCount; max > 0 && len(references) > max {
		return []string{fmt.Sprintf(
			"Reference count %d exceeds max %d. Reduce citations or revise the citation plan.",
			len(references), max)}
	}
	return nil
}

// CheckClaimsNeedCitations flags sentences that look like evidence claims
// but carry no citation. Before renumbering, placeholders count as
// citations; after, only numbered markers do.
func CheckClaimsNeedCitations(text string, allowPlaceholders bool) []string {
	var warnings []string
	for _, sent := range splitSentences(text) {
		claim := false
		for _, p := range claimPatterns {
			if p.MatchString(sent) {
				claim = true
				break
			}
		}
		if !claim {
			continue
		}

		var cited bool
		if allowPlaceholders {
			cited = citePlaceholder.MatchString(sent)
		} else {
			cited = citeNumbered.MatchString(sent)
		}
		if !cited {
			warnings = append(warnings, "Sentence likely needs a citation: "+clamp(sent, 180))
		}
	}
	return warnings
}

// CheckNumbersNotInFacts flags numeric tokens in text that do not trace back
// to the fact sheet. Warnings only: years and derived percentages produce
// false positives by nature of the heuristic.
func CheckNumbersNotInFacts(facts types.FactSheet, text string, maxReports int) []string {
	if maxReports <= 0 {
		maxReports = 20
	}
	known := numbersFromFacts(facts)

	var unknown []string
	for _, n := range numberToken.FindAllString(text, -1) {
		if !known[n] {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	if len(unknown) > maxReports {
		unknown = unknown[:maxReports]
	}
	return []string{fmt.Sprintf(
		"Text contains numeric tokens not found in the fact sheet (possible hallucination): %s",
		strings.Join(unknown, ", "))}
}

// numbersFromFacts collects every numeric token the fact sheet can vouch
// for: group sizes, table cells, key-finding values, p-values, confidence
// intervals, and protocol text, plus the conventional constants 0.05 and 95.
func numbersFromFacts(facts types.FactSheet) map[string]bool {
	nums := map[string]bool{"0.05": true, "95": true}

	add := func(s string) {
		for _, n := range numberToken.FindAllString(s, -1) {
			nums[n] = true
		}
	}

	for _, g := range facts.Groups {
		if g.N > 0 {
			nums[strconv.Itoa(g.N)] = true
		}
	}
	for _, t := range facts.Tables {
		for _, row := range t.Rows {
			for _, cell := range row {
				add(cell)
			}
		}
		for _, f := range t.KeyFindings {
			add(f.PValue)
			add(f.CI95)
			for _, v := range f.Values {
				add(v)
			}
		}
	}
	add(facts.PlanText)
	return nums
}

// Run executes all checks across the manuscript: required-section presence,
// abstract compliance, claims needing citations in Introduction and
// Discussion, the numeric check everywhere, and the reference cap when an
// assembled list is supplied (pass nil before assembly).
func Run(
	journal types.JournalSpec,
	facts types.FactSheet,
	drafts map[types.SectionName]string,
	references []string,
	citationsNumbered bool,
) Report {
	report := Report{BySection: make(map[types.SectionName][]string)}

	for _, sec := range journal.RequiredSections {
		name := types.SectionName(sec)
		if strings.TrimSpace(drafts[name]) == "" {
			report.Global = append(report.Global, fmt.Sprintf("Missing or empty section: %s", sec))
		}
	}

	if abstract := drafts[types.SectionAbstract]; strings.TrimSpace(abstract) != "" {
		report.BySection[types.SectionAbstract] = append(
			report.BySection[types.SectionAbstract], CheckAbstract(journal, abstract)...)
	}

	for _, name := range []types.SectionName{types.SectionIntroduction, types.SectionDiscussion} {
		if text := drafts[name]; strings.TrimSpace(text) != "" {
			report.BySection[name] = append(report.BySection[name],
				CheckClaimsNeedCitations(text, !citationsNumbered)...)
		}
	}

	for name, text := range drafts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.BySection[name] = append(report.BySection[name],
			CheckNumbersNotInFacts(facts, text, 0)...)
	}

	if references != nil {
		report.Global = append(report.Global, CheckReferenceCount(journal, references)...)
	}

	return report
}

// clamp shortens s to at most max characters with an ellipsis.
func clamp(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
