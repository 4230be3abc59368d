package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/plan"
	"github.com/pdiddy/manuscript-engine/internal/qa"
	"github.com/pdiddy/manuscript-engine/internal/vancouver"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Run submission QA checks over the drafted sections",
	Long: `QA checks the drafts against the journal spec and the fact sheet:
required sections present, abstract within its word limit and structured
headings, evidence claims carrying citations, numbers traceable to the
fact sheet, and the reference list within the journal cap.

All findings are warnings; use --strict to fail the command when any
warning is raised.`,
	RunE: runQA,
}

func runQA(cmd *cobra.Command, args []string) error {
	draftsPath, _ := cmd.Flags().GetString("drafts")
	journalPath, _ := cmd.Flags().GetString("journal")
	factsPath, _ := cmd.Flags().GetString("facts")
	planDir, _ := cmd.Flags().GetString("plan-dir")
	numbered, _ := cmd.Flags().GetBool("numbered")
	strict, _ := cmd.Flags().GetBool("strict")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	drafts, err := loadDrafts(draftsPath)
	if err != nil {
		return err
	}
	journal, err := loadJournal(journalPath)
	if err != nil {
		return err
	}
	facts, err := loadFacts(factsPath)
	if err != nil {
		return err
	}

	// When the drafts are already numbered, rebuild the reference list so
	// the journal cap can be checked too.
	var refs []string
	if numbered {
		store, err := plan.NewStore(types.PlanConfig{PlanDir: planDir})
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Load(context.Background())
		if err != nil {
			return err
		}
		_, refs = vancouver.NumberDrafts(journal, draftTexts(drafts), p, true)
	}

	report := qa.Run(journal, facts, draftTexts(drafts), refs, numbered)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printQAReport(report)
	}

	if strict && report.HasWarnings() {
		return fmt.Errorf("qa raised warnings")
	}
	return nil
}

func printQAReport(report qa.Report) {
	if !report.HasWarnings() {
		fmt.Println("No warnings.")
		return
	}

	for _, w := range report.Global {
		fmt.Fprintf(os.Stdout, "[manuscript] %s\n", w)
	}

	// Stable section order for readable output.
	order := append([]types.SectionName{types.SectionAbstract}, types.ManuscriptOrder...)
	order = append(order, types.SectionCoverLetter)
	for _, name := range order {
		for _, w := range report.BySection[name] {
			fmt.Fprintf(os.Stdout, "[%s] %s\n", name, w)
		}
	}
}

func init() {
	qaCmd.Flags().String("drafts", "drafts/sections.yaml", "section drafts YAML file")
	qaCmd.Flags().String("journal", "", "journal spec YAML file (default: built-in defaults)")
	qaCmd.Flags().String("facts", "", "fact sheet YAML file")
	qaCmd.Flags().String("plan-dir", "plan", "citation plan directory (used with --numbered)")
	qaCmd.Flags().Bool("numbered", false, "drafts already carry numbered citations instead of placeholders")
	qaCmd.Flags().Bool("strict", false, "exit with an error when any warning is raised")
	qaCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(qaCmd)
}
