// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the manuscript-engine
// pipeline: bibliographic records, the citation plan, journal requirements,
// section drafts, and stage configuration.
package types

// CitationKind is the identifier namespace used inside citation placeholders.
type CitationKind string

const (
	KindPMID CitationKind = "PMID"
	KindDOI  CitationKind = "DOI"
)

// Citation is one bibliographic record, immutable once fetched. Identity is
// the PMID or DOI; a record may carry both, one, or neither (degenerate
// records are tolerated everywhere downstream).
type Citation struct {
	// PMID is the PubMed identifier, when known.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// DOI is the Digital Object Identifier, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the article title. Required in practice, tolerated absent.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Journal is the full journal name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// JournalISOAbbrev is the abbreviated journal name, preferred when
	// formatting references.
	JournalISOAbbrev string `json:"journal_iso_abbrev,omitempty" yaml:"journal_iso_abbrev,omitempty"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// PublicationTypes lists source-assigned type tags
	// (e.g. "Randomized Controlled Trial", "Systematic Review").
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`

	// URL is the canonical landing page for the record.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Abstract is the article abstract, when fetched.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// HasIdentifier reports whether the record carries a PMID or a DOI.
func (c Citation) HasIdentifier() bool {
	return c.PMID != "" || c.DOI != ""
}

// Key returns the record's canonical placeholder key: "PMID:<id>" if a PMID
// exists, else "DOI:<id>", else "". PMID wins when both are present.
func (c Citation) Key() string {
	if c.PMID != "" {
		return string(KindPMID) + ":" + c.PMID
	}
	if c.DOI != "" {
		return string(KindDOI) + ":" + c.DOI
	}
	return ""
}

// UseTag declares the author's intent for a selected citation.
type UseTag string

const (
	UseBackground UseTag = "Background"
	UseGap        UseTag = "Gap"
	UseMethods    UseTag = "Methods"
	UseComparison UseTag = "Comparison"
	UseGuideline  UseTag = "Guideline"
	UseMechanism  UseTag = "Mechanism"
	UseOther      UseTag = "Other"
)

// ValidUseTags is the accepted UseTag vocabulary.
var ValidUseTags = map[UseTag]bool{
	UseBackground: true,
	UseGap:        true,
	UseMethods:    true,
	UseComparison: true,
	UseGuideline:  true,
	UseMechanism:  true,
	UseOther:      true,
}

// CitationUse wraps one selected Citation with usage intent and priority.
type CitationUse struct {
	Citation Citation `json:"citation" yaml:"citation"`

	// UseFor lists intended uses drawn from the UseTag vocabulary.
	UseFor []UseTag `json:"use_for,omitempty" yaml:"use_for,omitempty"`

	// Priority is a tie-break hint; higher is preferred. Never enforced
	// by the assembly core.
	Priority int `json:"priority" yaml:"priority"`
}

// CitationPlan is everything the author has chosen to make citable, in
// selection order, plus the journal's maximum reference count. The plan is
// read-only to the assembly core; only explicit plan operations mutate it.
type CitationPlan struct {
	// MaxCount is the journal's reference cap. Checked by qa, not at insert.
	MaxCount int `json:"max_count" yaml:"max_count"`

	// Selected lists chosen citations in selection order.
	Selected []CitationUse `json:"selected" yaml:"selected"`
}
