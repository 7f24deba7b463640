package application_test

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/openkraft/codereview/internal/adapters/outbound/parser"
	"github.com/openkraft/codereview/internal/adapters/outbound/tools"
	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/openkraft/codereview/internal/domain/heuristic"
)

// staticRunner returns the same outcome for every command.
type staticRunner struct {
	outcome domain.ToolOutcome
}

func (r staticRunner) Run(context.Context, toolrun.Command) domain.ToolOutcome { return r.outcome }

var noTools = staticRunner{outcome: domain.Missing(exec.ErrNotFound)}

type fakeChecker struct {
	diags []domain.Diagnostic
	err   error
	panic string
}

func (c fakeChecker) Check(context.Context, string) ([]domain.Diagnostic, error) {
	if c.panic != "" {
		panic(c.panic)
	}
	return c.diags, c.err
}

type fakeLinter struct {
	name  string
	diags []domain.Diagnostic
	calls int
}

func (l *fakeLinter) Name() string { return l.name }

func (l *fakeLinter) Lint(context.Context, string) []domain.Diagnostic {
	l.calls++
	return l.diags
}

type fakeScanner struct {
	findings []domain.SecurityFinding
	panic    string
}

func (s fakeScanner) Name() string { return "fake" }

func (s fakeScanner) Scan(context.Context, string, domain.Language) []domain.SecurityFinding {
	if s.panic != "" {
		panic(s.panic)
	}
	return s.findings
}

// fakeCompleter answers every call with reply, except call number failOn
// (1-based), which fails.
type fakeCompleter struct {
	mu     sync.Mutex
	reply  string
	failOn int
	reqs   []domain.CompletionRequest
}

func (c *fakeCompleter) Name() string { return "fake" }

func (c *fakeCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	if len(c.reqs) == c.failOn {
		return "", errors.New("provider unavailable")
	}
	return c.reply, nil
}

func (c *fakeCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reqs)
}

func completerFactory(c domain.Completer) application.CompleterFactory {
	return func(domain.LLMConfig) (domain.Completer, error) { return c, nil }
}

var llmConfigured = domain.LLMConfig{Provider: domain.ProviderOpenAI, APIKey: "sk-test"}

// newReviewService wires the real heuristic checkers with every external
// tool reported missing.
func newReviewService(enhancer *application.EnhanceService) *application.ReviewService {
	set := tools.NewSet(domain.DefaultConfig(), noTools, nil)
	return application.NewReviewService(
		parser.NewPythonChecker(),
		heuristic.NewJSChecker(),
		set.Flake8, set.Bandit, set.ESLint,
		enhancer, nil,
	)
}

func newScanService(runner toolrun.Runner) *application.ScanService {
	set := tools.NewSet(domain.DefaultConfig(), runner, nil)
	return application.NewScanService(set.BanditScan, set.Semgrep, nil)
}

func hasRule(diags []domain.Diagnostic, rule string) bool {
	for _, d := range diags {
		if d.RuleID == rule {
			return true
		}
	}
	return false
}

func rules(diags []domain.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.RuleID
	}
	return out
}
