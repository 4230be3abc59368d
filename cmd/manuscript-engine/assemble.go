// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/plan"
	"github.com/pdiddy/manuscript-engine/internal/vancouver"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Renumber citation placeholders and assemble the manuscript body",
	Long: `Assemble reads section drafts with {cite:PMID:...} / {cite:DOI:...}
placeholders, assigns stable first-use numbers across the manuscript in
canonical section order, and produces the body text plus an ordered
Vancouver reference list from the citation plan.

Placeholders whose identity is missing from the plan keep their number and
appear in the reference list flagged for repair.`,
	RunE: runAssemble,
}

// assembleOutput is the --json shape.
type assembleOutput struct {
	Body       string   `json:"body"`
	References []string `json:"references"`
}

func runAssemble(cmd *cobra.Command, args []string) error {
	draftsPath, _ := cmd.Flags().GetString("drafts")
	journalPath, _ := cmd.Flags().GetString("journal")
	planDir, _ := cmd.Flags().GetString("plan-dir")
	includeAbstract, _ := cmd.Flags().GetBool("include-abstract")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("output")

	drafts, err := loadDrafts(draftsPath)
	if err != nil {
		return err
	}
	journal, err := loadJournal(journalPath)
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

	body, refs := vancouver.Assemble(journal, draftTexts(drafts), p, includeAbstract)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assembleOutput{Body: body, References: refs})
	}

	var sb strings.Builder
	sb.WriteString(body)
	if len(refs) > 0 {
		sb.WriteString("\n\nReferences\n\n")
		sb.WriteString(strings.Join(refs, "\n"))
	}
	sb.WriteString("\n")

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
			return fmt.Errorf("writing output %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Assembled %d section(s), %d reference(s) -> %s\n",
			len(drafts), len(refs), outPath)
		return nil
	}

	fmt.Print(sb.String())
	return nil
}

func init() {
	assembleCmd.Flags().String("drafts", "drafts/sections.yaml", "section drafts YAML file")
	assembleCmd.Flags().String("journal", "", "journal spec YAML file (default: built-in defaults)")
	assembleCmd.Flags().String("plan-dir", "plan", "citation plan directory (contains plan.db)")
	assembleCmd.Flags().Bool("include-abstract", false, "number citations appearing in the Abstract too")
	assembleCmd.Flags().Bool("json", false, "output body and references as JSON")
	assembleCmd.Flags().String("output", "", "write assembled text to a file instead of stdout")

	rootCmd.AddCommand(assembleCmd)
}
