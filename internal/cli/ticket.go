package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/triage/internal/api"
	"github.com/JaimeStill/triage/internal/prompts"
	"github.com/JaimeStill/triage/internal/workflow"
)

var (
	ticketSubject     string
	ticketDescription string
	ticketOverrides   bool
	ticketVerbose     bool
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Run a ticket through the pipeline and print the outcome",
	Long: `Run a ticket through classify, retrieve, draft, and review without the HTTP
server. Knowledge indexes are loaded from storage or built from source.
With --overrides the active prompt overrides are read from the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ticketSubject == "" && ticketDescription == "" {
			return errors.New("--subject or --description is required")
		}

		cfg, infra, err := setup()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := loadKnowledge(ctx, infra, cfg.Knowledge.Categories, false); err != nil {
			return err
		}

		var src prompts.Source = prompts.Defaults()
		if ticketOverrides {
			src = prompts.New(
				infra.Database.Connection(),
				infra.Logger,
				cfg.API.Pagination,
				cfg.API.MaxBodySizeBytes(),
			)
		}

		rt := api.NewPipeline(infra, cfg, src)

		result, err := workflow.Execute(ctx, rt, ticketSubject, ticketDescription)
		if err != nil {
			return fmt.Errorf("process ticket: %w", err)
		}

		if ticketVerbose {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		return writeJSON(cmd.OutOrStdout(), result.Response())
	},
}

func init() {
	ticketCmd.Flags().StringVarP(&ticketSubject, "subject", "s", "", "ticket subject")
	ticketCmd.Flags().StringVarP(&ticketDescription, "description", "d", "", "ticket description")
	ticketCmd.Flags().BoolVar(&ticketOverrides, "overrides", false, "use active prompt overrides from the database")
	ticketCmd.Flags().BoolVarP(&ticketVerbose, "verbose", "v", false, "print the full pipeline state")
}
