package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	indexForce bool
	queryK     int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query per-category knowledge indexes",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [category...]",
	Short: "Build and persist knowledge indexes (all configured categories by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, infra, err := setup()
		if err != nil {
			return err
		}

		categories := cfg.Knowledge.Categories
		if len(args) > 0 {
			categories = make([]string, len(args))
			for i, a := range args {
				categories[i] = strings.ToLower(strings.TrimSpace(a))
			}
		}

		ctx := cmd.Context()
		if err := infra.Storage.Prepare(ctx); err != nil {
			return err
		}

		reg, buildErr := infra.Builder.BuildAll(ctx, categories, indexForce)
		for _, s := range reg.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %5d chunks  dim %d  %s\n", s.Category, s.Chunks, s.Dimension, s.Model)
		}
		if buildErr != nil {
			return fmt.Errorf("index build: %w", buildErr)
		}
		return nil
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <category> <text>",
	Short: "Return the passages nearest to text in a category index",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, infra, err := setup()
		if err != nil {
			return err
		}

		category := strings.ToLower(strings.TrimSpace(args[0]))
		text := strings.Join(args[1:], " ")

		k := queryK
		if k <= 0 {
			k = cfg.Knowledge.TopK
		}

		ctx := cmd.Context()
		if err := loadKnowledge(ctx, infra, []string{category}, false); err != nil {
			return err
		}

		matches, err := infra.Knowledge.Search(ctx, category, text, k)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), matches)
	},
}

func init() {
	indexBuildCmd.Flags().BoolVar(&indexForce, "force", true, "rebuild even when a usable snapshot exists")
	indexQueryCmd.Flags().IntVarP(&queryK, "k", "k", 0, "passages to return (default knowledge.top_k)")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
}
