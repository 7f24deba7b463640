package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
)

const flake8Format = "--format=%(row)d:%(col)d:%(code)s:%(text)s"

// Flake8Policy: only a timeout is reported back to the caller.
var Flake8Policy = domain.FallbackPolicy{
	OnMissing:   domain.FallbackEmpty,
	OnTimeout:   domain.FallbackTimeoutNotice,
	OnMalformed: domain.FallbackEmpty,
	OnFailed:    domain.FallbackEmpty,
}

// Flake8 is the Python style linter on the review path.
type Flake8 struct {
	base
}

func NewFlake8(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *Flake8 {
	return &Flake8{base: newBase(domain.ToolFlake8, cfg, runner, logger)}
}

func (f *Flake8) Lint(ctx context.Context, code string) []domain.Diagnostic {
	out := f.invoke(ctx, []file{{"check.py", code}}, func(path string) []string {
		return []string{flake8Format, path}
	}, false)

	if out.Kind == domain.OutcomeSuccess {
		diags, err := ParseFlake8(out.Stdout)
		if err == nil {
			return diags
		}
		out = domain.Malformed(err)
	}

	return neutralize(f.logger, out, Flake8Policy, fallbacks[domain.Diagnostic]{
		timeout: func() []domain.Diagnostic {
			return []domain.Diagnostic{{
				Severity: domain.SeverityWarning,
				Message:  "flake8 check timed out",
				Line:     1,
				Column:   1,
				RuleID:   domain.RuleTimeout,
			}}
		},
	})
}

// ParseFlake8 reads row:col:code:text lines. Lines with fewer than four
// fields are skipped; a non-numeric row or column fails the whole parse.
func ParseFlake8(stdout []byte) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic
	for _, line := range strings.Split(strings.TrimSpace(string(stdout)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 4)
		if len(parts) < 4 {
			continue
		}
		row, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parsing flake8 row %q: %w", parts[0], err)
		}
		col, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parsing flake8 column %q: %w", parts[1], err)
		}
		code := parts[2]
		diags = append(diags, domain.Diagnostic{
			Severity: Flake8Severity(code),
			Message:  strings.TrimSpace(parts[3]),
			Line:     row,
			Column:   col,
			RuleID:   "flake8/" + code,
		})
	}
	return diags, nil
}
