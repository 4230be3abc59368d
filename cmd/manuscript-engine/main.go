// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the manuscript-engine CLI.
// Each pipeline stage is a subcommand: plan, draft, assemble, similarity,
// qa, and reference.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/manuscript-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the manuscript-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "manuscript-engine",
	Short: "Citation lifecycle and assembly engine for clinical manuscripts",
	Long: `manuscript-engine manages the citation lifecycle of a clinical manuscript:
building a citation plan from PubMed, drafting sections with placeholder
citations, renumbering placeholders into Vancouver-style references,
checking drafts for originality overlap, and running submission QA.

Each stage is a subcommand: plan, draft, assemble, similarity, qa, and
reference. Stages communicate through plain files (YAML drafts, a SQLite
citation plan) so every step can be reviewed and hand-edited.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./manuscript-engine.yaml or ~/.config/manuscript-engine/config.yaml)")
}

func initConfig() {
	// .env is optional; environment always wins over config files.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("manuscript-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "manuscript-engine"))
		}
	}

	viper.SetEnvPrefix("MANUSCRIPT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
