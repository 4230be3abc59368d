// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InTextFormat selects the rendered citation marker style.
type InTextFormat string

const (
	// FormatBracket renders markers as [1].
	FormatBracket InTextFormat = "bracket"

	// FormatParen renders markers as (1).
	FormatParen InTextFormat = "paren"
)

// AbstractSpec describes the journal's abstract requirements.
type AbstractSpec struct {
	// Structured requires labeled headings in the abstract.
	Structured bool `json:"structured" yaml:"structured"`

	// Headings lists the required structured headings in order.
	Headings []string `json:"headings,omitempty" yaml:"headings,omitempty"`

	// WordLimit caps the abstract length. Zero means no limit configured;
	// qa falls back to 250.
	WordLimit int `json:"word_limit,omitempty" yaml:"word_limit,omitempty"`
}

// ReferencesSpec describes the journal's reference requirements. Only the
// Vancouver style is supported.
type ReferencesSpec struct {
	// MaxCount is the maximum number of references (default 30).
	MaxCount int `json:"max_count" yaml:"max_count"`

	// InTextFormat is bracket or paren.
	InTextFormat InTextFormat `json:"in_text_format" yaml:"in_text_format"`
}

// JournalSpec captures the target journal's submission requirements as far
// as the assembly pipeline needs them.
type JournalSpec struct {
	// JournalName is the target journal's display name.
	JournalName string `json:"journal_name" yaml:"journal_name"`

	// ArticleType is the submission category (default "Original Article").
	ArticleType string `json:"article_type,omitempty" yaml:"article_type,omitempty"`

	Abstract   AbstractSpec   `json:"abstract" yaml:"abstract"`
	References ReferencesSpec `json:"references" yaml:"references"`

	// RequiredSections lists main-text sections the journal mandates.
	RequiredSections []string `json:"required_sections,omitempty" yaml:"required_sections,omitempty"`

	// MainTextWordLimit caps the assembled body length. Zero means none.
	MainTextWordLimit int `json:"main_text_word_limit,omitempty" yaml:"main_text_word_limit,omitempty"`
}

// DefaultJournalSpec returns a JournalSpec with the conventional defaults:
// structured 250-word abstract, 30 Vancouver references in bracket style,
// IMRaD main text.
func DefaultJournalSpec(name string) JournalSpec {
	return JournalSpec{
		JournalName: name,
		ArticleType: "Original Article",
		Abstract: AbstractSpec{
			Structured: true,
			Headings:   []string{"Background", "Methods", "Results", "Conclusion"},
			WordLimit:  250,
		},
		References: ReferencesSpec{
			MaxCount:     30,
			InTextFormat: FormatBracket,
		},
		RequiredSections: []string{"Introduction", "Methods", "Results", "Discussion", "Conclusion"},
	}
}
