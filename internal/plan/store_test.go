// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.PlanConfig{PlanDir: dir, MaxCount: 30})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestStoreAddLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cu := types.CitationUse{
		Citation: types.Citation{
			PMID:             "12345678",
			DOI:              "10.1000/abc",
			Title:            "Robotic gastrectomy outcomes",
			Authors:          []string{"Kim J", "Lee S"},
			Journal:          "Annals of Surgery",
			JournalISOAbbrev: "Ann Surg",
			Year:             2021,
			Volume:           "273",
			Issue:            "4",
			Pages:            "712-9",
			PublicationTypes: []string{"Randomized Controlled Trial"},
			URL:              "https://pubmed.ncbi.nlm.nih.gov/12345678/",
			Abstract:         "Background: ...",
		},
		UseFor:   []types.UseTag{types.UseComparison, types.UseBackground},
		Priority: 3,
	}
	if err := s.Add(ctx, cu); err != nil {
		t.Fatalf("Add: %v", err)
	}

	p, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.MaxCount != 30 {
		t.Errorf("MaxCount = %d, want 30", p.MaxCount)
	}
	if len(p.Selected) != 1 {
		t.Fatalf("len(Selected) = %d, want 1", len(p.Selected))
	}
	got := p.Selected[0]
	if got.Citation.Title != cu.Citation.Title {
		t.Errorf("Title = %q, want %q", got.Citation.Title, cu.Citation.Title)
	}
	if len(got.Citation.Authors) != 2 || got.Citation.Authors[1] != "Lee S" {
		t.Errorf("Authors = %v", got.Citation.Authors)
	}
	if len(got.UseFor) != 2 || got.UseFor[0] != types.UseComparison {
		t.Errorf("UseFor = %v", got.UseFor)
	}
	if got.Priority != 3 {
		t.Errorf("Priority = %d, want 3", got.Priority)
	}
}

func TestStorePreservesSelectionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, pmid := range []string{"3", "1", "2"} {
		if err := s.Add(ctx, types.CitationUse{Citation: types.Citation{PMID: pmid}}); err != nil {
			t.Fatalf("Add %s: %v", pmid, err)
		}
	}

	p, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var order []string
	for _, cu := range p.Selected {
		order = append(order, cu.Citation.PMID)
	}
	if len(order) != 3 || order[0] != "3" || order[1] != "1" || order[2] != "2" {
		t.Errorf("selection order = %v, want [3 1 2]", order)
	}
}

func TestStoreRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, types.CitationUse{Citation: types.Citation{PMID: "111"}})
	s.Add(ctx, types.CitationUse{Citation: types.Citation{DOI: "10.1/x"}})

	n, err := s.Remove(ctx, "PMID:111")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 1 {
		t.Errorf("removed %d, want 1", n)
	}

	if _, err := s.Remove(ctx, "ISBN:123"); err == nil {
		t.Error("expected error for invalid key kind")
	}

	p, _ := s.Load(ctx)
	if len(p.Selected) != 1 || p.Selected[0].Citation.DOI != "10.1/x" {
		t.Errorf("remaining plan = %+v", p.Selected)
	}
}

func TestStoreSaveReplacesAll(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, types.CitationUse{Citation: types.Citation{PMID: "old"}})

	newPlan := types.CitationPlan{
		MaxCount: 25,
		Selected: []types.CitationUse{
			{Citation: types.Citation{PMID: "a"}},
			{Citation: types.Citation{PMID: "b"}},
		},
	}
	if err := s.Save(ctx, newPlan); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, _ := s.Load(ctx)
	if p.MaxCount != 25 {
		t.Errorf("MaxCount = %d, want 25", p.MaxCount)
	}
	if len(p.Selected) != 2 || p.Selected[0].Citation.PMID != "a" {
		t.Errorf("plan after Save = %+v", p.Selected)
	}
}

func TestStoreExportYAML(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, types.CitationUse{Citation: types.Citation{PMID: "5", Title: "Exported"}})

	if err := s.ExportYAML(ctx); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "plan.yaml"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var p types.CitationPlan
	if err := yaml.Unmarshal(data, &p); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(p.Selected) != 1 || p.Selected[0].Citation.Title != "Exported" {
		t.Errorf("exported plan = %+v", p.Selected)
	}
}
