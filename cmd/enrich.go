package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/mapleads-cli/internal/enrich"
	"github.com/sells-group/mapleads-cli/internal/model"
)

var enrichURL string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run website enrichment against a single URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env := initCollectEnv(ctx)
		defer env.Close()

		social, emails, err := enrich.NewExtractor(env.provider).Enrich(ctx, enrichURL)
		if err != nil {
			return eris.Wrapf(err, "enrich %s", enrichURL)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Website string            `json:"website"`
			Social  model.SocialLinks `json:"social"`
			Emails  []string          `json:"emails"`
		}{enrichURL, social, emails})
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichURL, "url", "", "website URL to enrich (required)")
	_ = enrichCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(enrichCmd)
}
