// Package cli implements the triage command line: knowledge index builds
// and queries, local pipeline runs, schema migrations, and OpenAPI output.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/infrastructure"
)

var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "triage - support ticket classification, retrieval, drafting, and review",
	Long: `triage runs support tickets through a classify, retrieve, draft, and review
pipeline backed by per-category knowledge indexes.

Configuration is read from config.toml (or --config), the config.<TRIAGE_ENV>.toml
overlay, and TRIAGE_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv(config.EnvTriageConfig, configFile); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

func setup() (*config.Config, *infrastructure.Infrastructure, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, infra, nil
}

// loadKnowledge loads or builds the indexes for categories and publishes
// them on the catalog. Categories that fail are reported but do not stop
// the command.
func loadKnowledge(ctx context.Context, infra *infrastructure.Infrastructure, categories []string, force bool) error {
	if err := infra.Storage.Prepare(ctx); err != nil {
		return err
	}

	reg, err := infra.Builder.BuildAll(ctx, categories, force)
	infra.Knowledge.Set(reg)
	if err != nil {
		infra.Logger.WarnContext(ctx, "some categories left unindexed", "error", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
