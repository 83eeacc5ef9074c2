package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/browser"
	"github.com/sells-group/mapleads-cli/internal/collector"
	"github.com/sells-group/mapleads-cli/internal/enrich"
	"github.com/sells-group/mapleads-cli/internal/exporter"
	"github.com/sells-group/mapleads-cli/internal/model"
	"github.com/sells-group/mapleads-cli/internal/store"
)

var (
	runQuery  string
	runTarget int
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a collection run and export the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.CreateRun(ctx, runQuery, clampTarget(runTarget))
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		env := initCollectEnv(ctx)
		defer env.Close()

		summary, path, err := executeRun(ctx, st, env, run, collector.NewController(), runOutput)
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.Int("businesses", summary.Total),
			zap.String("output", path),
		)

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
	runCmd.Flags().StringVar(&runQuery, "query", "", "search query, e.g. \"plumbers in springfield\" (required)")
	runCmd.Flags().IntVar(&runTarget, "target", 0, "number of unique businesses to collect (default from config)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output xlsx path (default derived from the query)")
	_ = runCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(runCmd)
}

// executeRun drives a collection run end to end: status transitions, the
// feed walk, per-record persistence, and the final export. It returns the
// export summary and the workbook path.
func executeRun(ctx context.Context, st store.Store, env *collectEnv, run *model.Run, ctrl *collector.Controller, output string) (model.RunSummary, string, error) {
	var summary model.RunSummary

	if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return summary, "", eris.Wrap(err, "mark run running")
	}

	feed, err := browser.NewMapsFeed(env.provider, run.Query)
	if err != nil {
		markFailed(st, run.ID)
		return summary, "", eris.Wrap(err, "open search feed")
	}
	defer feed.Close()

	// Fresh extractor per run: the domain cache lives and dies with the run.
	proc := collector.NewCardProcessor(env.oracle, enrich.NewExtractor(env.provider))
	proc.SetSink(&storeSink{st: st, runID: run.ID})

	driver := collector.NewDriver(feed, proc, ctrl, run.Target)
	records, err := driver.Run(ctx)
	if err != nil {
		markFailed(st, run.ID)
		return summary, "", eris.Wrap(err, "collection run")
	}

	path := output
	if path == "" {
		path = filepath.Join(cfg.Export.Dir, exportFilename(run.Query, run.ID))
	}

	summary, err = exporter.WriteXLSX(records, path)
	if err != nil {
		markFailed(st, run.ID)
		return summary, "", eris.Wrap(err, "export run")
	}

	if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusCompleted); err != nil {
		return summary, path, eris.Wrap(err, "mark run completed")
	}
	return summary, path, nil
}

// clampTarget applies the configured default and ceiling to a requested
// target count.
func clampTarget(target int) int {
	if target <= 0 {
		target = cfg.Collector.DefaultTarget
	}
	if max := cfg.Collector.MaxTarget; max > 0 && target > max {
		zap.L().Warn("target above configured maximum, clamping",
			zap.Int("requested", target),
			zap.Int("max", max),
		)
		target = max
	}
	return target
}

// markFailed records a failed run, outside the caller's possibly-canceled
// context.
func markFailed(st store.Store, runID string) {
	if err := st.UpdateRunStatus(context.Background(), runID, model.RunStatusFailed); err != nil {
		zap.L().Warn("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}

// storeSink persists accepted records as the collector emits them.
type storeSink struct {
	st    store.Store
	runID string
}

func (s *storeSink) Persist(ctx context.Context, rec model.BusinessRecord, hash string) error {
	return s.st.AppendRecord(ctx, s.runID, hash, rec)
}

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func exportFilename(query, runID string) string {
	slug := filenameUnsafe.ReplaceAllString(strings.ToLower(query), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "businesses"
	}
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return slug + "_" + short + ".xlsx"
}
