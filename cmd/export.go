package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/exporter"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Re-export a stored run's records to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}

		records, err := st.ListRecords(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		path := exportOutput
		if path == "" {
			path = filepath.Join(cfg.Export.Dir, exportFilename(run.Query, run.ID))
		}

		summary, err := exporter.WriteXLSX(records, path)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete", zap.String("run_id", run.ID), zap.String("output", path))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"run_id":  run.ID,
			"output":  path,
			"summary": summary,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output xlsx path (default derived from the run's query)")
	rootCmd.AddCommand(exportCmd)
}
