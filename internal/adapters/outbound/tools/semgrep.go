package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/openkraft/codereview/internal/domain/heuristic"
)

// SemgrepPolicy: a missing semgrep falls back to the JavaScript substring
// scanner (JavaScript and TypeScript only).
var SemgrepPolicy = domain.FallbackPolicy{
	OnMissing:   domain.FallbackHeuristic,
	OnTimeout:   domain.FallbackTimeoutNotice,
	OnMalformed: domain.FallbackEmpty,
	OnFailed:    domain.FallbackEmpty,
}

var semgrepExt = map[domain.Language]string{
	domain.LanguageJavaScript: ".js",
	domain.LanguageTypeScript: ".ts",
	domain.LanguagePython:     ".py",
	"java":                    ".java",
	"go":                      ".go",
}

// SemgrepExtension returns the file extension semgrep uses to pick rules.
func SemgrepExtension(lang domain.Language) string {
	if ext, ok := semgrepExt[lang]; ok {
		return ext
	}
	return ".txt"
}

type semgrepReport struct {
	Results []semgrepResult `json:"results"`
}

type semgrepResult struct {
	CheckID *string `json:"check_id"`
	Start   struct {
		Line *int `json:"line"`
		Col  *int `json:"col"`
	} `json:"start"`
	Extra struct {
		Message  *string `json:"message"`
		Severity *string `json:"severity"`
	} `json:"extra"`
}

// ParseSemgrep maps `semgrep --json` output. Every finding has high
// confidence.
func ParseSemgrep(stdout []byte) ([]domain.SecurityFinding, error) {
	var report semgrepReport
	if err := decodeValidated(resultsSchema, stdout, &report); err != nil {
		return nil, err
	}

	findings := make([]domain.SecurityFinding, 0, len(report.Results))
	for _, r := range report.Results {
		findings = append(findings, domain.SecurityFinding{
			Severity:   SemgrepSeverity(strOr(r.Extra.Severity, "WARNING")),
			Message:    strOr(r.Extra.Message, "Security issue detected"),
			Line:       intOr(r.Start.Line, 1),
			Column:     intOr(r.Start.Col, 1),
			RuleID:     "semgrep/" + strOr(r.CheckID, "unknown"),
			Confidence: domain.ConfidenceHigh,
		})
	}
	return findings, nil
}

// Semgrep runs semgrep with the auto rule registry for the security-scan
// operation.
type Semgrep struct {
	base
}

func NewSemgrep(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *Semgrep {
	return &Semgrep{base: newBase(domain.ToolSemgrep, cfg, runner, logger)}
}

func (s *Semgrep) Scan(ctx context.Context, code string, lang domain.Language) []domain.SecurityFinding {
	out := s.invoke(ctx, []file{{"check" + SemgrepExtension(lang), code}}, func(path string) []string {
		return []string{"--config=auto", "--json", path}
	}, false)

	if out.Kind == domain.OutcomeSuccess {
		findings, err := ParseSemgrep(out.Stdout)
		if err == nil {
			return findings
		}
		out = domain.Malformed(err)
	}

	return neutralize(s.logger, out, SemgrepPolicy, fallbacks[domain.SecurityFinding]{
		timeout: func() []domain.SecurityFinding {
			return []domain.SecurityFinding{timeoutFinding("Semgrep scan timed out")}
		},
		heuristic: func() []domain.SecurityFinding {
			if !lang.IsJavaScript() {
				return nil
			}
			return heuristic.JSSecurityFallback(code)
		},
	})
}
