package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/triage/internal/api"
	"github.com/JaimeStill/triage/pkg/openapi"
)

var openapiOut string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Generate the OpenAPI document for the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		spec := api.Spec(cfg)

		if openapiOut != "" {
			if err := openapi.WriteJSON(spec, openapiOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", openapiOut)
			return nil
		}

		data, err := openapi.MarshalJSON(spec)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

func init() {
	openapiCmd.Flags().StringVarP(&openapiOut, "output", "o", "", "write to file instead of stdout")
}
