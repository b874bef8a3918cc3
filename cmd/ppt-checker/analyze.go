// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shivesh0001/ppt-checker/internal/analyze"
	"github.com/shivesh0001/ppt-checker/internal/cache"
	"github.com/shivesh0001/ppt-checker/internal/deck"
	"github.com/shivesh0001/ppt-checker/internal/inference"
	"github.com/shivesh0001/ppt-checker/internal/report"
	"github.com/shivesh0001/ppt-checker/internal/secrets"
	"github.com/shivesh0001/ppt-checker/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <deck-file>",
	Short: "Analyze an extracted deck for business-logic inconsistencies",
	Long: `Analyze reads the JSON or YAML deck file produced by the content
extractor, checks slides in contiguous batches, runs one whole-deck pass for
inconsistencies spanning distant slides, and prints a report of the merged,
confidence-filtered findings.

A failed batch is reported and skipped; the run continues with the remaining
batches so one bad inference call never costs the whole analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cacheCfg, err := analysisConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("no API key for provider %q: pass --api-key or create .secrets/%s",
				cfg.Provider, secrets.ProviderKeyFile(cfg.Provider))
		}

		d, err := deck.Load(args[0])
		if err != nil {
			return err
		}

		backend, err := newBackend(cfg.AIConfig)
		if err != nil {
			return err
		}

		var store inference.Cache
		if cacheCfg.Enabled {
			s, err := cache.Open(cacheCfg.Dir)
			if err != nil {
				return err
			}
			defer s.Close()
			store = s
		}

		gw := inference.NewGateway(backend, cfg.AIConfig, store)

		fmt.Fprintf(os.Stderr, "Analyzing %d slides from %s...\n", len(d.Slides), d.Source)
		res, err := analyze.Run(cmd.Context(), d, gw, cfg, os.Stderr)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		output, _ := cmd.Flags().GetString("output")

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if asJSON {
			return report.WriteJSON(res, out)
		}
		report.WriteText(res, cfg.ConfidenceThreshold, out)
		return nil
	},
}

// analysisConfig resolves the effective configuration: defaults, then the
// viper config file / environment, then command-line flags.
func analysisConfig(cmd *cobra.Command) (types.AnalysisConfig, types.CacheConfig, error) {
	def := types.DefaultAnalysisConfig()

	viper.SetDefault("analysis.provider", def.Provider)
	viper.SetDefault("analysis.model", def.Model)
	viper.SetDefault("analysis.max_retries", def.MaxRetries)
	viper.SetDefault("analysis.retry_delay", def.RetryDelay)
	viper.SetDefault("analysis.inter_call_delay", def.InterCallDelay)
	viper.SetDefault("analysis.batch_size", def.BatchSize)
	viper.SetDefault("analysis.confidence_threshold", def.ConfidenceThreshold)
	viper.SetDefault("analysis.similarity_threshold", def.SimilarityThreshold)
	viper.SetDefault("analysis.cross_deck", def.CrossDeck)
	viper.SetDefault("analysis.include_ocr", def.IncludeOCR)
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.dir", ".ppt-checker")

	bindings := map[string]string{
		"analysis.provider":             "provider",
		"analysis.model":                "model",
		"analysis.api_key":              "api-key",
		"analysis.max_retries":          "max-retries",
		"analysis.retry_delay":          "retry-delay",
		"analysis.inter_call_delay":     "inter-call-delay",
		"analysis.batch_size":           "batch-size",
		"analysis.confidence_threshold": "confidence-threshold",
		"analysis.similarity_threshold": "similarity-threshold",
		"analysis.cross_deck":           "cross-deck",
		"analysis.include_ocr":          "ocr",
		"cache.enabled":                 "cache",
		"cache.dir":                     "cache-dir",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return types.AnalysisConfig{}, types.CacheConfig{}, err
		}
	}

	cfg := types.AnalysisConfig{
		AIConfig: types.AIConfig{
			Provider:       viper.GetString("analysis.provider"),
			Model:          viper.GetString("analysis.model"),
			APIKey:         viper.GetString("analysis.api_key"),
			MaxRetries:     viper.GetInt("analysis.max_retries"),
			RetryDelay:     viper.GetDuration("analysis.retry_delay"),
			InterCallDelay: viper.GetDuration("analysis.inter_call_delay"),
		},
		BatchSize:           viper.GetInt("analysis.batch_size"),
		ConfidenceThreshold: viper.GetFloat64("analysis.confidence_threshold"),
		SimilarityThreshold: viper.GetFloat64("analysis.similarity_threshold"),
		CrossDeck:           viper.GetBool("analysis.cross_deck"),
		IncludeOCR:          viper.GetBool("analysis.include_ocr"),
	}
	cfg.APIKey = secretDefault(secrets.ProviderKeyFile(cfg.Provider), cfg.APIKey)

	cacheCfg := types.CacheConfig{
		Enabled: viper.GetBool("cache.enabled"),
		Dir:     viper.GetString("cache.dir"),
	}
	return cfg, cacheCfg, nil
}

// newBackend selects the inference backend for the configured provider.
func newBackend(cfg types.AIConfig) (inference.Backend, error) {
	switch cfg.Provider {
	case "gemini":
		return &inference.GeminiBackend{APIKey: cfg.APIKey, Model: cfg.Model}, nil
	case "openai":
		return inference.NewOpenAIBackend(cfg.APIKey, cfg.Model), nil
	}
	return nil, fmt.Errorf("unknown provider %q (want gemini or openai)", cfg.Provider)
}

func init() {
	analyzeCmd.Flags().String("provider", "gemini", "inference provider: gemini or openai")
	analyzeCmd.Flags().String("model", "gemini-2.0-flash-exp", "model identifier")
	analyzeCmd.Flags().String("api-key", "", "inference API key (overrides .secrets/)")
	analyzeCmd.Flags().Int("batch-size", types.DefaultBatchSize, "number of slides per inference batch")
	analyzeCmd.Flags().Float64("confidence-threshold", types.DefaultConfidenceThreshold, "minimum confidence for reported findings")
	analyzeCmd.Flags().Float64("similarity-threshold", types.DefaultSimilarityThreshold, "token-overlap ratio treated as a duplicate description")
	analyzeCmd.Flags().Bool("cross-deck", true, "run the whole-deck pass after the batch pass")
	analyzeCmd.Flags().Bool("ocr", false, "include OCR-recovered image text in prompts")
	analyzeCmd.Flags().Int("max-retries", types.DefaultMaxRetries, "retry attempts for transient inference failures")
	analyzeCmd.Flags().Duration("retry-delay", types.DefaultRetryDelay, "fixed wait between retry attempts")
	analyzeCmd.Flags().Duration("inter-call-delay", types.DefaultInterCallDelay, "minimum spacing between inference calls")
	analyzeCmd.Flags().Bool("cache", false, "cache raw model responses in a local SQLite database")
	analyzeCmd.Flags().String("cache-dir", ".ppt-checker", "directory for the response cache")
	analyzeCmd.Flags().Bool("json", false, "output the result as JSON")
	analyzeCmd.Flags().String("output", "", "write the report to a file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}
