// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qa

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"simple", "one two three", 3},
		{"hyphen and apostrophe", "state-of-the-art isn't counted twice", 4},
		{"numbers count", "n = 120 patients", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.text); got != tt.want {
				t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCheckAbstractWordLimit(t *testing.T) {
	journal := types.DefaultJournalSpec("Test Journal")
	journal.Abstract.Structured = false
	journal.Abstract.WordLimit = 5

	warnings := CheckAbstract(journal, "one two three four five six")
	if len(warnings) != 1 || !strings.Contains(warnings[0], "exceeds limit 5") {
		t.Errorf("warnings = %v", warnings)
	}

	if w := CheckAbstract(journal, "short enough"); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}

func TestCheckAbstractStructuredHeadings(t *testing.T) {
	journal := types.DefaultJournalSpec("Test Journal")

	ok := "Background: A.\nMethods: B.\nResults: C.\nConclusion: D."
	if w := CheckAbstract(journal, ok); len(w) != 0 {
		t.Errorf("expected no warnings for complete headings, got %v", w)
	}

	missing := "Background: A.\nResults: C.\nConclusion: D."
	warnings := CheckAbstract(journal, missing)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "Methods:") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestCheckReferenceCount(t *testing.T) {
	journal := types.DefaultJournalSpec("Test Journal")
	journal.References.MaxCount = 2

	refs := []string{"1. A.", "2. B.", "3. C."}
	warnings := CheckReferenceCount(journal, refs)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "exceeds max 2") {
		t.Errorf("warnings = %v", warnings)
	}

	if w := CheckReferenceCount(journal, refs[:2]); len(w) != 0 {
		t.Errorf("expected no warnings at the cap, got %v", w)
	}
}

func TestCheckClaimsNeedCitations(t *testing.T) {
	tests := []struct {
		name              string
		text              string
		allowPlaceholders bool
		wantWarnings      int
	}{
		{
			name:              "claim with placeholder passes before numbering",
			text:              "Robotic surgery has been shown to reduce blood loss {cite:PMID:111}.",
			allowPlaceholders: true,
			wantWarnings:      0,
		},
		{
			name:              "claim without citation flagged",
			text:              "Robotic surgery has been shown to reduce blood loss.",
			allowPlaceholders: true,
			wantWarnings:      1,
		},
		{
			name:              "placeholder no longer counts after numbering",
			text:              "Previous studies report benefit {cite:PMID:111}.",
			allowPlaceholders: false,
			wantWarnings:      1,
		},
		{
			name:              "numbered marker counts after numbering",
			text:              "Previous studies report benefit [3].",
			allowPlaceholders: false,
			wantWarnings:      0,
		},
		{
			name:              "non-claim sentences ignored",
			text:              "We enrolled patients between 2018 and 2021. Data were analyzed with R.",
			allowPlaceholders: true,
			wantWarnings:      0,
		},
		{
			name:              "only the uncited claim sentence is flagged",
			text:              "According to current guidelines, X is standard {cite:DOI:10.1/a}. A meta-analysis found Y.",
			allowPlaceholders: true,
			wantWarnings:      1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckClaimsNeedCitations(tt.text, tt.allowPlaceholders)
			if len(got) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", got, tt.wantWarnings)
			}
		})
	}
}

func TestCheckNumbersNotInFacts(t *testing.T) {
	facts := types.FactSheet{
		Groups: []types.Group{{Name: "Robotic", N: 120}, {Name: "Laparoscopic", N: 115}},
		Tables: []types.Table{{
			ID:   "t1",
			Rows: [][]string{{"Blood loss", "85 mL", "140 mL"}},
			KeyFindings: []types.TableFinding{{
				Statement: "Less blood loss in the robotic group",
				Values:    map[string]string{"Robotic": "85"},
				PValue:    "0.021",
				CI95:      "12.4-98.2",
			}},
		}},
		PlanText: "Follow-up was 36 months.",
	}

	t.Run("all numbers traceable", func(t *testing.T) {
		text := "Of 120 robotic and 115 laparoscopic cases, blood loss was 85 mL vs 140 mL (p=0.021, 95% CI 12.4-98.2) over 36 months."
		if w := CheckNumbersNotInFacts(facts, text, 0); len(w) != 0 {
			t.Errorf("expected no warnings, got %v", w)
		}
	})

	t.Run("unknown number flagged", func(t *testing.T) {
		warnings := CheckNumbersNotInFacts(facts, "Mortality was 7.5% at 120 days.", 0)
		if len(warnings) != 1 {
			t.Fatalf("warnings = %v", warnings)
		}
		if !strings.Contains(warnings[0], "7.5") {
			t.Errorf("warning should name 7.5: %s", warnings[0])
		}
		if strings.Contains(warnings[0], "120,") || strings.HasSuffix(warnings[0], "120") {
			t.Errorf("120 is in the fact sheet and should not be flagged: %s", warnings[0])
		}
	})

	t.Run("conventional constants allowed", func(t *testing.T) {
		if w := CheckNumbersNotInFacts(facts, "Significance was set at 0.05 with 95% intervals.", 0); len(w) != 0 {
			t.Errorf("expected no warnings, got %v", w)
		}
	})

	t.Run("report capped", func(t *testing.T) {
		var tokens []string
		for i := 1000; i < 1030; i++ {
			tokens = append(tokens, strconv.Itoa(i))
		}
		warnings := CheckNumbersNotInFacts(facts, strings.Join(tokens, " "), 5)
		if len(warnings) != 1 {
			t.Fatalf("warnings = %v", warnings)
		}
		if n := strings.Count(warnings[0], ","); n != 4 {
			t.Errorf("expected 5 reported tokens (4 commas), got %d in %s", n, warnings[0])
		}
	})
}

func TestRun(t *testing.T) {
	journal := types.DefaultJournalSpec("Test Journal")
	journal.Abstract.Structured = false
	journal.Abstract.WordLimit = 100

	facts := types.FactSheet{
		Groups:   []types.Group{{Name: "A", N: 40}},
		PlanText: "Enrollment ran 2019 to 2022.",
	}

	drafts := map[types.SectionName]string{
		types.SectionAbstract:     "We compared outcomes in 40 patients.",
		types.SectionIntroduction: "Previous studies report conflicting results.",
		types.SectionMethods:      "Patients enrolled between 2019 and 2022.",
		types.SectionResults:      "All 40 patients completed follow-up.",
		types.SectionDiscussion:   "Our findings align with prior work {cite:PMID:111}.",
	}

	report := Run(journal, facts, drafts, nil, false)

	var found bool
	for _, w := range report.Global {
		if strings.Contains(w, "Conclusion") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing-section warning for Conclusion not found: %v", report.Global)
	}

	intro := report.BySection[types.SectionIntroduction]
	if len(intro) == 0 || !strings.Contains(intro[0], "needs a citation") {
		t.Errorf("uncited claim in Introduction not flagged: %v", intro)
	}

	if ws := report.BySection[types.SectionMethods]; len(ws) != 0 {
		t.Errorf("Methods numbers are all in the fact sheet: %v", ws)
	}

	if !report.HasWarnings() {
		t.Error("HasWarnings() = false, want true")
	}
}

func TestRunReferenceCapOnlyWhenProvided(t *testing.T) {
	journal := types.DefaultJournalSpec("Test Journal")
	journal.References.MaxCount = 1
	journal.RequiredSections = nil

	refs := []string{"1. A.", "2. B."}
	report := Run(journal, types.FactSheet{}, nil, refs, true)
	if len(report.Global) != 1 || !strings.Contains(report.Global[0], "exceeds max 1") {
		t.Errorf("Global = %v", report.Global)
	}

	report = Run(journal, types.FactSheet{}, nil, nil, true)
	if len(report.Global) != 0 {
		t.Errorf("expected no warnings without references, got %v", report.Global)
	}
}
