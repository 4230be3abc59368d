// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionName identifies a manuscript section. CoverLetter is drafted
// alongside the manuscript but never participates in assembly.
type SectionName string

const (
	SectionAbstract     SectionName = "Abstract"
	SectionIntroduction SectionName = "Introduction"
	SectionMethods      SectionName = "Methods"
	SectionResults      SectionName = "Results"
	SectionDiscussion   SectionName = "Discussion"
	SectionConclusion   SectionName = "Conclusion"
	SectionCoverLetter  SectionName = "CoverLetter"
)

// ManuscriptOrder is the canonical main-text section order. The Abstract is
// prepended by the assembly driver when abstract citations are included.
var ManuscriptOrder = []SectionName{
	SectionIntroduction,
	SectionMethods,
	SectionResults,
	SectionDiscussion,
	SectionConclusion,
}

// KnownSections is the full set of accepted section names.
var KnownSections = map[SectionName]bool{
	SectionAbstract:     true,
	SectionIntroduction: true,
	SectionMethods:      true,
	SectionResults:      true,
	SectionDiscussion:   true,
	SectionConclusion:   true,
	SectionCoverLetter:  true,
}

// SectionDraft is one drafted section. Content may embed citation
// placeholders of the form {cite:PMID:12345678} or {cite:DOI:10.x/y};
// everything else is opaque prose.
type SectionDraft struct {
	Section SectionName `json:"section" yaml:"section"`
	Content string      `json:"content" yaml:"content"`

	// Locked marks a section the author has finalized; the writer stage
	// must not regenerate it.
	Locked bool `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// Group is one study arm or cohort.
type Group struct {
	Name string `json:"name" yaml:"name"`

	// N is the group size. Zero means unknown.
	N int `json:"n,omitempty" yaml:"n,omitempty"`

	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// TableFinding is a key result extracted from a table.
type TableFinding struct {
	Statement string `json:"statement" yaml:"statement"`

	// Values maps group name to the reported value (e.g. "Robotic" -> "5%").
	Values map[string]string `json:"values,omitempty" yaml:"values,omitempty"`

	PValue string `json:"p_value,omitempty" yaml:"p_value,omitempty"`
	CI95   string `json:"ci_95,omitempty" yaml:"ci_95,omitempty"`
}

// Table is a parsed manuscript table with stringified cells.
type Table struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title,omitempty" yaml:"title,omitempty"`
	Header      []string       `json:"header,omitempty" yaml:"header,omitempty"`
	Rows        [][]string     `json:"rows,omitempty" yaml:"rows,omitempty"`
	KeyFindings []TableFinding `json:"key_findings,omitempty" yaml:"key_findings,omitempty"`
}

// Figure is a manuscript figure digest.
type Figure struct {
	ID        string   `json:"id" yaml:"id"`
	Filename  string   `json:"filename,omitempty" yaml:"filename,omitempty"`
	Caption   string   `json:"caption,omitempty" yaml:"caption,omitempty"`
	KeyPoints []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
}

// FactSheet is the structured study evidence the writer drafts from and qa
// audits against. Numbers that do not trace back to the fact sheet are
// flagged as possible hallucinations.
type FactSheet struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	StudyDesign string   `json:"study_design,omitempty" yaml:"study_design,omitempty"`
	Groups      []Group  `json:"groups,omitempty" yaml:"groups,omitempty"`
	Tables      []Table  `json:"tables,omitempty" yaml:"tables,omitempty"`
	Figures     []Figure `json:"figures,omitempty" yaml:"figures,omitempty"`

	// PlanText is free text from the study protocol or proposal, used for
	// similarity checks and as a numeric allowlist source.
	PlanText string `json:"plan_text,omitempty" yaml:"plan_text,omitempty"`
}

// Manuscript groups everything belonging to one submission.
type Manuscript struct {
	Journal JournalSpec                  `json:"journal" yaml:"journal"`
	Facts   FactSheet                    `json:"facts" yaml:"facts"`
	Plan    CitationPlan                 `json:"citation_plan" yaml:"citation_plan"`
	Drafts  map[SectionName]SectionDraft `json:"drafts,omitempty" yaml:"drafts,omitempty"`

	// AssembledBody and AssembledReferences hold the last assembly output.
	AssembledBody       string   `json:"assembled_body,omitempty" yaml:"assembled_body,omitempty"`
	AssembledReferences []string `json:"assembled_references,omitempty" yaml:"assembled_references,omitempty"`
}
