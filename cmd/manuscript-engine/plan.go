// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/manuscript-engine/internal/plan"
	"github.com/pdiddy/manuscript-engine/internal/pubmed"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the citation plan (add, list, remove, export, suggest)",
	Long: `Plan manages the manuscript's citation plan: the ordered set of
citations the author has chosen to make citable. Selections are stored in
a local SQLite database and can be exported to YAML for review.

Add fetches metadata from PubMed by PMID; suggest searches PubMed for
candidates matching the study question.`,
}

// --- add subcommand ---

var planAddCmd = &cobra.Command{
	Use:   "add [pmids...]",
	Short: "Fetch PubMed metadata for PMIDs and add them to the plan",
	Long: `Add resolves each PMID through the NCBI E-utilities API and appends the
resulting citation records to the plan, tagged with the intended uses.
Duplicates are not collapsed; the plan keeps every selection in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlanAdd,
}

func runPlanAdd(cmd *cobra.Command, args []string) error {
	useTags, _ := cmd.Flags().GetStringSlice("use")
	priority, _ := cmd.Flags().GetInt("priority")
	withAbstracts, _ := cmd.Flags().GetBool("abstracts")

	ctx := context.Background()
	client := pubmed.NewClient(pubmedConfig())

	citations, err := client.FetchSummaries(ctx, args)
	if err != nil {
		return err
	}
	if len(citations) == 0 {
		return fmt.Errorf("no PubMed records found for %v", args)
	}

	if withAbstracts {
		abstracts, err := client.FetchAbstracts(ctx, args)
		if err != nil {
			return err
		}
		for i := range citations {
			if abs, ok := abstracts[citations[i].PMID]; ok {
				citations[i].Abstract = abs
			}
		}
	}

	uses := make([]types.UseTag, 0, len(useTags))
	for _, u := range useTags {
		uses = append(uses, types.UseTag(u))
	}

	store, err := openPlanStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Load(ctx)
	if err != nil {
		return err
	}
	for _, c := range citations {
		if err := plan.Select(&p, c, uses, priority); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "added %s: %s\n", c.Key(), c.Title)
	}
	if err := store.Save(ctx, p); err != nil {
		return err
	}

	if missing := len(args) - len(citations); missing > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d PMID(s) not found\n", missing)
	}
	return nil
}

// --- list subcommand ---

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the plan's selections in order",
	RunE:  runPlanList,
}

func runPlanList(cmd *cobra.Command, args []string) error {
	store, err := openPlanStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	if len(p.Selected) == 0 {
		fmt.Println("Plan is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-6s  %-40s  %s\n",
		"Pos", "Key", "Year", "Title", "Use")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, cu := range p.Selected {
		key := cu.Citation.Key()
		if key == "" {
			key = "(no identifier)"
		}
		title := cu.Citation.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		year := ""
		if cu.Citation.Year > 0 {
			year = fmt.Sprintf("%d", cu.Citation.Year)
		}
		uses := make([]string, 0, len(cu.UseFor))
		for _, u := range cu.UseFor {
			uses = append(uses, string(u))
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-6s  %-40s  %s\n",
			i+1, key, year, title, strings.Join(uses, ","))
	}

	fmt.Fprintf(os.Stdout, "\n%d selection(s), max %d references\n", len(p.Selected), p.MaxCount)
	return nil
}

// --- remove subcommand ---

var planRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove selections by key (PMID:<id> or DOI:<id>)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPlanStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Remove(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "removed %d selection(s)\n", n)
		return nil
	},
}

// --- export subcommand ---

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the plan to plan.yaml for review and hand-editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPlanStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		planDir, _ := cmd.Flags().GetString("plan-dir")
		fmt.Fprintf(os.Stderr, "Exported to %s/plan.yaml\n", planDir)
		return nil
	},
}

// --- suggest subcommand ---

var planSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Search PubMed for citation candidates matching the study question",
	Long: `Suggest queries PubMed with the study question, biased toward
randomized trials, systematic reviews, meta-analyses, and guidelines from
recent years, and prints the candidates. Nothing is added to the plan;
review the candidates and add the keepers with "plan add".`,
	RunE: runPlanSuggest,
}

func runPlanSuggest(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	intervention, _ := cmd.Flags().GetString("intervention")
	comparator, _ := cmd.Flags().GetString("comparator")
	outcomes, _ := cmd.Flags().GetString("outcomes")
	withAbstracts, _ := cmd.Flags().GetBool("abstracts")

	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("--topic is required")
	}

	client := pubmed.NewClient(pubmedConfig())
	citations, err := client.Suggest(context.Background(), pubmed.SuggestQuery{
		Topic:            topic,
		Intervention:     intervention,
		Comparator:       comparator,
		Outcomes:         outcomes,
		IncludeAbstracts: withAbstracts,
	})
	if err != nil {
		return err
	}

	if len(citations) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	for i, c := range citations {
		journal := c.JournalISOAbbrev
		if journal == "" {
			journal = c.Journal
		}
		fmt.Fprintf(os.Stdout, "%d. %s (%d) %s\n   %s\n",
			i+1, c.Key(), c.Year, journal, c.Title)
		if c.Abstract != "" {
			abs := strings.ReplaceAll(c.Abstract, "\n", " ")
			if len(abs) > 200 {
				abs = abs[:197] + "..."
			}
			fmt.Fprintf(os.Stdout, "   %s\n", abs)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d candidate(s). Add keepers with: manuscript-engine plan add <pmid>\n", len(citations))
	return nil
}

// --- shared helpers ---

func openPlanStore(cmd *cobra.Command) (*plan.Store, error) {
	planDir, _ := cmd.Flags().GetString("plan-dir")
	maxCount, _ := cmd.Flags().GetInt("max-count")
	return plan.NewStore(types.PlanConfig{PlanDir: planDir, MaxCount: maxCount})
}

// pubmedConfig builds the PubMed client config from viper keys, with
// .secrets/ files as fallback for the API key and contact email.
func pubmedConfig() types.PubMedConfig {
	cfg := types.PubMedConfig{
		APIKey:      secretDefault("ncbi-api-key", viper.GetString("pubmed.api_key")),
		Email:       secretDefault("entrez-email", viper.GetString("pubmed.email")),
		MaxResults:  viper.GetInt("pubmed.max_results"),
		RecentYears: viper.GetInt("pubmed.recent_years"),
	}
	cfg.UserAgent = viper.GetString("pubmed.user_agent")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "manuscript-engine/" + version
	}
	return cfg
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	planCmd.PersistentFlags().String("plan-dir", "plan", "citation plan directory (contains plan.db)")
	planCmd.PersistentFlags().Int("max-count", 30, "journal's maximum reference count, recorded on the plan")

	// Add flags.
	planAddCmd.Flags().StringSlice("use", []string{string(types.UseOther)}, "intended uses: Background, Gap, Methods, Comparison, Guideline, Mechanism, Other")
	planAddCmd.Flags().Int("priority", 0, "selection priority (higher is preferred)")
	planAddCmd.Flags().Bool("abstracts", false, "also fetch abstracts for the added records")

	// Suggest flags.
	planSuggestCmd.Flags().String("topic", "", "study topic (required)")
	planSuggestCmd.Flags().String("intervention", "", "intervention under study")
	planSuggestCmd.Flags().String("comparator", "", "comparator arm")
	planSuggestCmd.Flags().String("outcomes", "", "outcomes of interest")
	planSuggestCmd.Flags().Bool("abstracts", false, "fetch abstracts for the candidates")

	// Wire subcommands.
	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planRemoveCmd)
	planCmd.AddCommand(planExportCmd)
	planCmd.AddCommand(planSuggestCmd)

	rootCmd.AddCommand(planCmd)
}
