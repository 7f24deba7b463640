// Package bootstrap builds the application services from their outbound
// adapters. Every transport starts here.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/config"
	"github.com/openkraft/codereview/internal/adapters/outbound/detector"
	"github.com/openkraft/codereview/internal/adapters/outbound/llm"
	"github.com/openkraft/codereview/internal/adapters/outbound/parser"
	"github.com/openkraft/codereview/internal/adapters/outbound/scanner"
	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/adapters/outbound/tools"
	"github.com/openkraft/codereview/internal/adapters/outbound/watcher"
	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/openkraft/codereview/internal/domain/heuristic"
)

// Options configures Build. Zero values are usable.
type Options struct {
	// Dir is searched for .codereview.yaml.
	Dir     string
	Version string
	// Jobs bounds multi-file concurrency; zero means GOMAXPROCS.
	Jobs   int
	Logger *zap.Logger
	// Runner overrides the subprocess runner, mainly for tests.
	Runner toolrun.Runner
	// Loader overrides the .codereview.yaml loader.
	Loader domain.ConfigLoader
}

// Load reads the configuration from opts.Dir and builds the services.
func Load(opts Options) (*application.Services, domain.Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	loader := opts.Loader
	if loader == nil {
		loader = config.New()
	}
	cfg, err := loader.Load(dir)
	if err != nil {
		return nil, domain.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return Build(cfg, opts), cfg, nil
}

// Build wires every adapter for cfg.
func Build(cfg domain.Config, opts Options) *application.Services {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := opts.Runner
	if runner == nil {
		runner = toolrun.NewExecRunner(logger.Named("toolrun"))
	}

	set := tools.NewSet(cfg, runner, logger.Named("tools"))
	det := detector.New()
	enhancer := application.NewEnhanceService(cfg.LLM, llm.New, logger.Named("llm"))

	review := application.NewReviewService(
		parser.NewPythonChecker(),
		heuristic.NewJSChecker(),
		set.Flake8,
		set.Bandit,
		set.ESLint,
		enhancer,
		logger.Named("review"),
	)
	scan := application.NewScanService(set.BanditScan, set.Semgrep, logger.Named("scan"))
	files := application.NewFilesService(scanner.New(det), review, scan, opts.Jobs, logger.Named("files"))

	return &application.Services{
		Review: review,
		Scan:   scan,
		Status: application.NewStatusService(opts.Version, cfg.LLM, set),
		Fix:    application.NewFixService(logger.Named("fix")),
		Files:  files,
		Watch:  application.NewWatchService(watcher.New(watcher.DefaultDebounce, logger.Named("watch")), det, files, logger.Named("watch")),
	}
}
