// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package writer

import (
	"fmt"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// Prompt is one system/user message pair for the text generator.
type Prompt struct {
	System string
	User   string
}

const (
	compactCitationLimit = 35
	maxDigestTables      = 8
	maxDigestFigures     = 8
	tablePreviewRows     = 30
)

// proseSystem is the drafting system message. Placeholders keep the
// generator off numeric in-text markers; numbering happens at assembly.
const proseSystem = "You are a senior medical writer for clinical manuscripts. " +
	"Write clear, concise academic English. " +
	"STRICT RULES:\n" +
	"1) Do NOT invent any numeric values (N, p-values, HR, CI, means, SD, percentages) not explicitly present in the provided evidence pack.\n" +
	"2) Do NOT invent references. You may cite ONLY from the provided citation list, using placeholders.\n" +
	"3) Use citation placeholders ONLY ({cite:PMID:12345678} or {cite:DOI:10.xxxx/yyy}); no numeric [1] in-text citations here.\n" +
	"4) Do NOT include a References section here.\n" +
	"5) Avoid verbatim copying from the protocol. Paraphrase and be original.\n" +
	"6) For Results: report FACTS only; save interpretations for Discussion.\n"

// BuildSectionPrompt assembles the generation prompt for one section from
// the journal requirements, the fact sheet, and the citation plan. Unknown
// section names are an error.
func BuildSectionPrompt(
	section types.SectionName,
	journal types.JournalSpec,
	facts types.FactSheet,
	plan types.CitationPlan,
	overrides string,
) (Prompt, error) {
	factsTxt := factsPack(facts, section)
	citesTxt := citationsCompact(plan, compactCitationLimit)

	var user string
	switch section {
	case types.SectionAbstract:
		wordLimit := journal.Abstract.WordLimit
		if wordLimit <= 0 {
			wordLimit = 250
		}
		var headings []string
		if journal.Abstract.Structured {
			headings = journal.Abstract.Headings
		}
		user = fmt.Sprintf(`Write a structured Abstract in English for a clinical original article.

Journal constraints:
- Structured: %t
- Headings (use EXACT headings, each followed by a colon): %s
- Word limit: %d words (hard limit)
- Use concrete numbers from provided tables when available (include p-values and/or 95%% CI when present).
- Mention study design, group sizes (N), and key statistical approach if available.

Facts (compact):
%s

Allowed citations (use placeholders only, sparingly in abstract; optional):
%s`, journal.Abstract.Structured, strings.Join(headings, ", "), wordLimit, factsTxt, citesTxt)

	case types.SectionIntroduction:
		user = fmt.Sprintf(`Write the Introduction (300-500 words) in English, using a 3-paragraph funnel structure:
Paragraph 1 (What is known): clinical background and established knowledge.
Paragraph 2 (The Gap): limitations of existing studies and unmet need.
Paragraph 3 (The Aim): explicit objective/hypothesis of THIS study.

Rules:
- Do not repeat Results.
- Cite 4-8 key references (placeholders) from the allowed list, prioritizing recent RCT/SR/Guideline.

Facts (compact):
%s

Allowed citations (placeholders only):
%s`, factsTxt, citesTxt)

	case types.SectionMethods:
		user = fmt.Sprintf(`Write the Methods section (500-1000 words) in English, reproducible and audit-ready.

Must include (if available):
- Study design and setting
- Study population and group definitions
- Endpoint definitions
- Statistical analysis: software, alpha (p<0.05), tests/models

Rules:
- If something is unknown, write it as "not specified" rather than inventing.
- Cite guidelines/standard methods where appropriate (placeholders).

Facts (compact):
%s

Allowed citations (placeholders only):
%s`, factsTxt, citesTxt)

	case types.SectionResults:
		user = fmt.Sprintf(`Write the Results section (500-800 words) in English. Facts only.

Rules:
- Do NOT interpret. No "this suggests" or "this may be due to".
- Do not repeat every number from tables; highlight significant findings and clinically important trends.
- You may reference tables/figures as (Table 1), (Figure 1), but only using provided IDs.

Facts (compact):
%s

Allowed citations (generally minimal in Results; placeholders only):
%s`, factsTxt, citesTxt)

	case types.SectionDiscussion:
		user = fmt.Sprintf(`Write the Discussion section (1200-1500 words) in English with an inverted funnel:
main findings first, then interpretation and comparison with prior literature,
then clinical implications, then limitations, then a balanced closing paragraph.

Rules:
- Must cite relevant RCT/SR/guidelines from the allowed list (placeholders).
- Be conservative: no overclaiming beyond data.

Facts (compact):
%s

Allowed citations (placeholders only):
%s`, factsTxt, citesTxt)

	case types.SectionConclusion:
		user = fmt.Sprintf(`Write a 100-150 word Conclusion in English (single paragraph).

Rules:
- Directly answer the aim.
- No overclaiming.

Facts (compact):
%s

Allowed citations (usually none in conclusion; if used, placeholders only):
%s`, factsTxt, citesTxt)

	case types.SectionCoverLetter:
		user = fmt.Sprintf(`Write a cover letter (300-400 words) addressed to the Editor-in-Chief.

Structure:
- Submission intent and why this journal is a good fit.
- Novelty and clinical significance of the main finding.
- Declarations: all authors approved, not under consideration elsewhere.

Rules:
- Do not exaggerate.
- Do NOT include a references list.

Journal:
- %s
- Article type: %s

Facts (compact):
%s`, journal.JournalName, journal.ArticleType, factsTxt)

	default:
		return Prompt{}, fmt.Errorf("unsupported section: %s", section)
	}

	if strings.TrimSpace(overrides) != "" {
		user += "\n\nAdditional author instructions:\n" + overrides
	}
	return Prompt{System: proseSystem, User: user}, nil
}

// citationsCompact renders the plan as one line per selected citation so the
// generator can only cite from this list.
func citationsCompact(plan types.CitationPlan, limit int) string {
	selected := plan.Selected
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	var lines []string
	for _, cu := range selected {
		c := cu.Citation
		key := c.Key()
		if key == "" {
			key = "UNKNOWN"
		}
		journal := c.JournalISOAbbrev
		if journal == "" {
			journal = c.Journal
		}
		year := ""
		if c.Year > 0 {
			year = fmt.Sprintf("%d", c.Year)
		}
		pubTypes := c.PublicationTypes
		if len(pubTypes) > 3 {
			pubTypes = pubTypes[:3]
		}
		uses := make([]string, 0, len(cu.UseFor))
		for _, u := range cu.UseFor {
			uses = append(uses, string(u))
		}

		line := fmt.Sprintf("- %s | %s | %s | %s | types:%s | use_for:%s",
			key, year, journal, clampStr(c.Title, 120),
			strings.Join(pubTypes, ", "), strings.Join(uses, ","))
		if abs := clampStr(strings.ReplaceAll(c.Abstract, "\n", " "), 240); abs != "" {
			line += " | abs:" + abs
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return "(No citations selected yet.)"
	}
	return strings.Join(lines, "\n")
}

// factsPack renders the fact sheet as the evidence pack for one section.
// Results and Abstract get full table previews; every other section gets
// digests only, to keep prompts small.
func factsPack(facts types.FactSheet, section types.SectionName) string {
	var groups []string
	for _, g := range facts.Groups {
		groups = append(groups, fmt.Sprintf("%s(n=%d)", g.Name, g.N))
	}
	groupsTxt := strings.Join(groups, ", ")
	if groupsTxt == "" {
		groupsTxt = "N/A"
	}

	var tableLines []string
	tables := facts.Tables
	if len(tables) > maxDigestTables {
		tables = tables[:maxDigestTables]
	}
	for _, t := range tables {
		title := t.Title
		if title == "" {
			title = "Untitled"
		}
		tableLines = append(tableLines, fmt.Sprintf("- %s: %s | rows=%d cols=%d",
			t.ID, title, len(t.Rows), len(t.Header)))
		for _, kf := range t.KeyFindings {
			line := "  * " + clampStr(kf.Statement, 180)
			if kf.PValue != "" {
				line += "; p=" + kf.PValue
			}
			tableLines = append(tableLines, line)
		}
	}

	var previews []string
	if section == types.SectionResults || section == types.SectionAbstract {
		for _, t := range tables {
			previews = append(previews, fmt.Sprintf("\n### %s: %s\n%s",
				t.ID, t.Title, tableToMarkdown(t, tablePreviewRows)))
		}
	}

	var figLines []string
	figures := facts.Figures
	if len(figures) > maxDigestFigures {
		figures = figures[:maxDigestFigures]
	}
	for _, f := range figures {
		figLines = append(figLines, fmt.Sprintf("- %s: %s | caption=%s",
			f.ID, f.Filename, clampStr(f.Caption, 140)))
		for _, kp := range f.KeyPoints {
			figLines = append(figLines, "  * "+clampStr(kp, 180))
		}
	}

	orNone := func(lines []string) string {
		if len(lines) == 0 {
			return "- (none)"
		}
		return strings.Join(lines, "\n")
	}
	previewTxt := "(not provided for this section)"
	if len(previews) > 0 {
		previewTxt = strings.Join(previews, "\n")
	}

	return strings.TrimSpace(fmt.Sprintf(`STUDY TITLE: %s
KEYWORDS: %s
DESIGN: %s

POPULATION / GROUPS:
- %s

TABLE DIGEST:
%s

FIGURE DIGEST:
%s

TABLE PREVIEWS (ONLY USE IF PROVIDED BELOW):
%s

PROTOCOL NOTES:
%s`,
		orNA(facts.Title), orNA(strings.Join(facts.Keywords, ", ")), orNA(facts.StudyDesign),
		groupsTxt, orNone(tableLines), orNone(figLines), previewTxt, facts.PlanText))
}

// tableToMarkdown renders a table as GitHub-style markdown, truncated to
// maxRows data rows.
func tableToMarkdown(t types.Table, maxRows int) string {
	var sb strings.Builder
	if len(t.Header) > 0 {
		sb.WriteString("| " + strings.Join(t.Header, " | ") + " |\n")
		sb.WriteString("|" + strings.Repeat(" --- |", len(t.Header)) + "\n")
	}
	rows := t.Rows
	truncated := false
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}
	for _, row := range rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	if truncated {
		sb.WriteString(fmt.Sprintf("(truncated to %d of %d rows)\n", maxRows, len(t.Rows)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// clampStr shortens s to at most max characters.
func clampStr(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}
