package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
)

// file is one file written into the invocation workspace.
type file struct {
	name    string
	content string
}

// base carries what every adapter shares: its id, resolved tool config,
// runner and logger.
type base struct {
	name   string
	cfg    domain.ToolConfig
	runner toolrun.Runner
	logger *zap.Logger
}

func newBase(name string, cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		name:   name,
		cfg:    cfg.Tool(name),
		runner: runner,
		logger: logger.With(zap.String("tool", name)),
	}
}

func (b base) Name() string { return b.name }

// invoke writes files into a fresh workspace, runs the tool against the first
// file and releases the workspace before returning. When inDir is set the
// tool runs with the workspace as its working directory.
func (b base) invoke(ctx context.Context, files []file, args func(path string) []string, inDir bool) domain.ToolOutcome {
	ws, err := toolrun.NewWorkspace()
	if err != nil {
		return domain.Failed(err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			b.logger.Warn("releasing workspace", zap.Error(err))
		}
	}()

	var target string
	for i, f := range files {
		path, err := ws.WriteFile(f.name, f.content)
		if err != nil {
			return domain.Failed(err)
		}
		if i == 0 {
			target = path
		}
	}

	cmd := toolrun.Command{
		Binary:  b.cfg.Binary,
		Args:    args(target),
		Timeout: b.cfg.Timeout,
	}
	if inDir {
		cmd.Dir = ws.Dir()
	}
	return b.runner.Run(ctx, cmd)
}

// fallbacks supplies the replacement results a FallbackPolicy can select.
// A nil entry contributes nothing.
type fallbacks[T any] struct {
	timeout   func() []T
	heuristic func() []T
}

// neutralize turns a non-success outcome into the adapter's fallback result.
func neutralize[T any](log *zap.Logger, out domain.ToolOutcome, policy domain.FallbackPolicy, fb fallbacks[T]) []T {
	f := policy.For(out.Kind)
	log.Debug("tool unavailable, using fallback",
		zap.Stringer("outcome", out.Kind),
		zap.Stringer("fallback", f),
		zap.Error(out.Err),
	)

	switch f {
	case domain.FallbackTimeoutNotice:
		if fb.timeout != nil {
			return fb.timeout()
		}
	case domain.FallbackHeuristic:
		if fb.heuristic != nil {
			return fb.heuristic()
		}
	}
	return nil
}
