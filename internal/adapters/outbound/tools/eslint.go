package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
)

const eslintPackageJSON = `{"name": "temp", "version": "1.0.0"}`

const eslintRC = `{
  "env": {
    "browser": true,
    "es2021": true,
    "node": true
  },
  "extends": "eslint:recommended",
  "parserOptions": {
    "ecmaVersion": "latest",
    "sourceType": "module"
  },
  "rules": {}
}
`

// ESLintPolicy: eslint never reports its own failures.
var ESLintPolicy = domain.FallbackPolicy{}

type eslintFile struct {
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	Severity *int    `json:"severity"`
	Message  *string `json:"message"`
	Line     *int    `json:"line"`
	Column   *int    `json:"column"`
	RuleID   *string `json:"ruleId"`
}

// ParseESLint maps `eslint --format json` output. Only the first file's
// messages are read. A null ruleId (parse errors) maps to "unknown".
func ParseESLint(stdout []byte) ([]domain.Diagnostic, error) {
	var files []eslintFile
	if err := decodeValidated(eslintSchema, stdout, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	msgs := files[0].Messages
	diags := make([]domain.Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		diags = append(diags, domain.Diagnostic{
			Severity: ESLintSeverity(intOr(m.Severity, 1)),
			Message:  strOr(m.Message, "ESLint issue"),
			Line:     intOr(m.Line, 1),
			Column:   intOr(m.Column, 1),
			RuleID:   "eslint/" + strOr(m.RuleID, "unknown"),
		})
	}
	return diags, nil
}

// ESLint runs eslint through npx in a throwaway project directory.
type ESLint struct {
	base
}

func NewESLint(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *ESLint {
	return &ESLint{base: newBase(domain.ToolESLint, cfg, runner, logger)}
}

func (e *ESLint) Lint(ctx context.Context, code string) []domain.Diagnostic {
	files := []file{
		{"check.js", code},
		{"package.json", eslintPackageJSON},
		{".eslintrc.json", eslintRC},
	}
	out := e.invoke(ctx, files, func(path string) []string {
		return []string{"eslint", "--format", "json", path}
	}, true)

	if out.Kind == domain.OutcomeSuccess {
		diags, err := ParseESLint(out.Stdout)
		if err == nil {
			return diags
		}
		out = domain.Malformed(err)
	}

	return neutralize(e.logger, out, ESLintPolicy, fallbacks[domain.Diagnostic]{})
}
