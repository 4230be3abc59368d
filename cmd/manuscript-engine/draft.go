package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/plan"
	"github.com/pdiddy/manuscript-engine/internal/writer"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft [sections...]",
	Short: "Build drafting prompts for manuscript sections",
	Long: `Draft builds the generation prompt for each requested section from the
journal spec, the fact sheet, and the citation plan, and prints it for use
with a text-generation backend. The prompt restricts the generator to
placeholder citations from the plan and to numbers from the fact sheet.

Locked sections in the drafts file are skipped. Without sections, the full
manuscript order plus the Abstract is used.`,
	RunE: runDraft,
}

func runDraft(cmd *cobra.Command, args []string) error {
	draftsPath, _ := cmd.Flags().GetString("drafts")
	journalPath, _ := cmd.Flags().GetString("journal")
	factsPath, _ := cmd.Flags().GetString("facts")
	planDir, _ := cmd.Flags().GetString("plan-dir")
	overrides, _ := cmd.Flags().GetString("instructions")
	initFile, _ := cmd.Flags().GetBool("init")

	if initFile {
		return initDraftsFile(draftsPath)
	}

	journal, err := loadJournal(journalPath)
	if err != nil {
		return err
	}
	facts, err := loadFacts(factsPath)
	if err != nil {
		return err
	}

	store, err := plan.NewStore(types.PlanConfig{PlanDir: planDir})
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	// The drafts file is optional here; when present, locked sections are
	// skipped.
	var drafts map[types.SectionName]types.SectionDraft
	if _, statErr := os.Stat(draftsPath); statErr == nil {
		drafts, err = loadDrafts(draftsPath)
		if err != nil {
			return err
		}
	}

	sections := make([]types.SectionName, 0, len(args))
	for _, a := range args {
		sections = append(sections, types.SectionName(a))
	}
	if len(sections) == 0 {
		sections = append([]types.SectionName{types.SectionAbstract}, types.ManuscriptOrder...)
	}

	for _, section := range sections {
		if d, ok := drafts[section]; ok && d.Locked {
			fmt.Fprintf(os.Stderr, "skipped %s (locked)\n", section)
			continue
		}

		prompt, err := writer.BuildSectionPrompt(section, journal, facts, p, overrides)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "=== %s (system) ===\n%s\n\n=== %s (user) ===\n%s\n\n",
			section, prompt.System, section, prompt.User)
	}
	return nil
}

// initDraftsFile writes an empty drafts skeleton covering the full
// manuscript order, refusing to overwrite an existing file.
func initDraftsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("drafts file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating drafts directory: %w", err)
		}
	}

	drafts := make(map[types.SectionName]types.SectionDraft)
	for _, name := range append([]types.SectionName{types.SectionAbstract}, types.ManuscriptOrder...) {
		drafts[name] = types.SectionDraft{Section: name}
	}
	if err := saveDrafts(path, drafts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote drafts skeleton to %s\n", path)
	return nil
}

func init() {
	draftCmd.Flags().String("drafts", "drafts/sections.yaml", "section drafts YAML file (for locked sections)")
	draftCmd.Flags().Bool("init", false, "write an empty drafts skeleton and exit")
	draftCmd.Flags().String("journal", "", "journal spec YAML file (default: built-in defaults)")
	draftCmd.Flags().String("facts", "", "fact sheet YAML file")
	draftCmd.Flags().String("plan-dir", "plan", "citation plan directory (contains plan.db)")
	draftCmd.Flags().String("instructions", "", "additional author instructions appended to each prompt")

	rootCmd.AddCommand(draftCmd)
}
