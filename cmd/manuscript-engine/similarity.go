package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/similarity"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Check drafted sections for overlap with source texts",
	Long: `Similarity fingerprints each drafted section and each source text
(protocol, guidelines, prior papers) and reports pairs whose estimated
overlap exceeds the threshold. Scores are a screening heuristic, not a
plagiarism verdict; pairs below the threshold are not reported.`,
	RunE: runSimilarity,
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	draftsPath, _ := cmd.Flags().GetString("drafts")
	sourcesDir, _ := cmd.Flags().GetString("sources")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	shingleSize, _ := cmd.Flags().GetInt("shingle-size")
	window, _ := cmd.Flags().GetInt("window")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	drafts, err := loadDrafts(draftsPath)
	if err != nil {
		return err
	}
	sources, err := loadSources(sourcesDir)
	if err != nil {
		return err
	}

	generated := make(map[string]string, len(drafts))
	for name, d := range drafts {
		generated[string(name)] = d.Content
	}

	results := similarity.Report(generated, sources, threshold, shingleSize, window)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Printf("No pairs above threshold %.2f.\n", threshold)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-30s  %s\n", "Section", "Source", "Score")
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-16s  %-30s  %.3f\n", r.Generated, r.Source, r.Score)
	}
	fmt.Fprintf(os.Stdout, "\n%d pair(s) above threshold %.2f\n", len(results), threshold)
	return nil
}

func init() {
	similarityCmd.Flags().String("drafts", "drafts/sections.yaml", "section drafts YAML file")
	similarityCmd.Flags().String("sources", "sources", "directory of source texts (.txt, .md)")
	similarityCmd.Flags().Float64("threshold", 0.12, "minimum similarity score to report")
	similarityCmd.Flags().Int("shingle-size", similarity.DefaultShingleSize, "token n-gram length")
	similarityCmd.Flags().Int("window", similarity.DefaultWindow, "winnowing window size")
	similarityCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(similarityCmd)
}
