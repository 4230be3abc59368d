// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// draftsFile is the on-disk shape of the section drafts YAML.
type draftsFile struct {
	Sections []types.SectionDraft `yaml:"sections"`
}

// loadDrafts reads a drafts YAML file into a section map. An unknown section
// name is a hard failure rather than a silent skip: a typo here would
// otherwise drop a whole section from the manuscript.
func loadDrafts(path string) (map[types.SectionName]types.SectionDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading drafts file %s: %w", path, err)
	}

	var f draftsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing drafts file %s: %w", path, err)
	}

	drafts := make(map[types.SectionName]types.SectionDraft, len(f.Sections))
	for _, d := range f.Sections {
		if !types.KnownSections[d.Section] {
			return nil, fmt.Errorf("drafts file %s: unsupported section %q", path, d.Section)
		}
		drafts[d.Section] = d
	}
	return drafts, nil
}

// saveDrafts writes the section map back as a drafts YAML file, in canonical
// section order for stable diffs.
func saveDrafts(path string, drafts map[types.SectionName]types.SectionDraft) error {
	order := append([]types.SectionName{types.SectionAbstract}, types.ManuscriptOrder...)
	order = append(order, types.SectionCoverLetter)

	var f draftsFile
	for _, name := range order {
		if d, ok := drafts[name]; ok {
			f.Sections = append(f.Sections, d)
		}
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling drafts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing drafts file %s: %w", path, err)
	}
	return nil
}

// draftTexts flattens the draft map to section texts.
func draftTexts(drafts map[types.SectionName]types.SectionDraft) map[types.SectionName]string {
	texts := make(map[types.SectionName]string, len(drafts))
	for name, d := range drafts {
		texts[name] = d.Content
	}
	return texts
}

// loadJournal reads a journal spec YAML file, or returns the conventional
// defaults when path is empty.
func loadJournal(path string) (types.JournalSpec, error) {
	if path == "" {
		return types.DefaultJournalSpec("Unspecified Journal"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JournalSpec{}, fmt.Errorf("reading journal spec %s: %w", path, err)
	}
	journal := types.DefaultJournalSpec("")
	if err := yaml.Unmarshal(data, &journal); err != nil {
		return types.JournalSpec{}, fmt.Errorf("parsing journal spec %s: %w", path, err)
	}
	return journal, nil
}

// loadFacts reads a fact sheet YAML file, or returns an empty sheet when
// path is empty.
func loadFacts(path string) (types.FactSheet, error) {
	if path == "" {
		return types.FactSheet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FactSheet{}, fmt.Errorf("reading fact sheet %s: %w", path, err)
	}
	var facts types.FactSheet
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return types.FactSheet{}, fmt.Errorf("parsing fact sheet %s: %w", path, err)
	}
	return facts, nil
}

// loadSources reads every .txt and .md file in dir as a named source text
// for similarity comparison.
func loadSources(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sources directory %s: %w", dir, err)
	}

	sources := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", name, err)
		}
		sources[name] = string(data)
	}
	return sources, nil
}
