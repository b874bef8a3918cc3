// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ppt-checker CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shivesh0001/ppt-checker/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key, otherwise "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ppt-checker CLI.
var rootCmd = &cobra.Command{
	Use:   "ppt-checker",
	Short: "Detect business-logic inconsistencies in slide decks",
	Long: `ppt-checker analyzes extracted slide-deck content for business-logic
inconsistencies: numeric mismatches, conflicting dates, contradictory claims,
and mis-summed breakdowns. Judgment is delegated to an external model; slides
are analyzed in small batches plus one whole-deck pass, and the findings are
deduplicated, confidence-filtered, and reported in a stable order.

Content extraction runs upstream: point the analyze command at the JSON or
YAML deck file your extractor produced.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ppt-checker.yaml or ~/.config/ppt-checker/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ppt-checker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ppt-checker"))
		}
	}

	viper.SetEnvPrefix("PPT_CHECKER")
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
