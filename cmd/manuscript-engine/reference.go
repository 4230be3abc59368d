package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/plan"
	"github.com/pdiddy/manuscript-engine/internal/vancouver"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

var referenceCmd = &cobra.Command{
	Use:   "reference <key>",
	Short: "Format one plan entry as a Vancouver reference",
	Long: `Reference looks up a plan entry by key (PMID:<id> or DOI:<id>) and
prints its Vancouver-formatted reference string, the same rendering the
assembled reference list uses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planDir, _ := cmd.Flags().GetString("plan-dir")

		store, err := plan.NewStore(types.PlanConfig{PlanDir: planDir})
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Load(context.Background())
		if err != nil {
			return err
		}

		cu, ok := plan.Find(p, args[0])
		if !ok {
			return fmt.Errorf("no plan entry matches %q", args[0])
		}

		fmt.Println(vancouver.FormatReference(cu.Citation))
		return nil
	},
}

func init() {
	referenceCmd.Flags().String("plan-dir", "plan", "citation plan directory (contains plan.db)")

	rootCmd.AddCommand(referenceCmd)
}
