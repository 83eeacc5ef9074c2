package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/browser"
	"github.com/sells-group/mapleads-cli/pkg/gemini"
)

// collectEnv bundles the pieces shared across collection runs: the Chrome
// allocator and the oracle client. The enrichment extractor is deliberately
// absent; its domain cache is scoped to a single run, so each run builds a
// fresh one.
type collectEnv struct {
	provider *browser.ChromeProvider
	oracle   gemini.Client
}

// initCollectEnv builds the collection environment from config. A missing
// oracle key is not fatal; extraction falls back to selector scraping.
func initCollectEnv(ctx context.Context) *collectEnv {
	var opts []browser.ChromeOption
	if !cfg.Browser.Headless {
		opts = append(opts, browser.WithHeadful())
	}
	provider := browser.NewChromeProvider(ctx, opts...)

	var oracle gemini.Client
	if cfg.Gemini.Key != "" {
		oracle = gemini.NewClient(cfg.Gemini.Key,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithRateLimit(cfg.Gemini.RequestsPerSec),
		)
	} else {
		zap.L().Warn("no gemini api key configured, using manual extraction only")
	}

	return &collectEnv{provider: provider, oracle: oracle}
}

func (e *collectEnv) Close() {
	e.provider.Close()
}
