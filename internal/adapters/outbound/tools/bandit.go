package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/openkraft/codereview/internal/domain/heuristic"
)

// BanditPolicy: the review-path bandit never reports its own failures.
var BanditPolicy = domain.FallbackPolicy{}

// BanditScanPolicy: a missing bandit falls back to the substring scanner.
var BanditScanPolicy = domain.FallbackPolicy{
	OnMissing:   domain.FallbackHeuristic,
	OnTimeout:   domain.FallbackTimeoutNotice,
	OnMalformed: domain.FallbackEmpty,
	OnFailed:    domain.FallbackEmpty,
}

type banditReport struct {
	Results []banditResult `json:"results"`
}

type banditResult struct {
	IssueSeverity   *string `json:"issue_severity"`
	IssueConfidence *string `json:"issue_confidence"`
	IssueText       *string `json:"issue_text"`
	LineNumber      *int    `json:"line_number"`
	TestID          *string `json:"test_id"`
}

// ParseBandit maps `bandit -f json` output. defaultRule is used when a
// result has no test_id.
func ParseBandit(stdout []byte, defaultRule string) ([]domain.SecurityFinding, error) {
	var report banditReport
	if err := decodeValidated(resultsSchema, stdout, &report); err != nil {
		return nil, err
	}

	findings := make([]domain.SecurityFinding, 0, len(report.Results))
	for _, r := range report.Results {
		findings = append(findings, domain.SecurityFinding{
			Severity:   BanditSeverity(strOr(r.IssueSeverity, "LOW")),
			Message:    strOr(r.IssueText, "Security issue detected"),
			Line:       intOr(r.LineNumber, 1),
			Column:     1,
			RuleID:     "bandit/" + strOr(r.TestID, defaultRule),
			Confidence: domain.Confidence(strings.ToLower(strOr(r.IssueConfidence, "MEDIUM"))),
		})
	}
	return findings, nil
}

func banditFile(code string) []file {
	return []file{{"check.py", code}}
}

// Bandit is the Python security linter on the review path.
type Bandit struct {
	base
}

func NewBandit(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *Bandit {
	return &Bandit{base: newBase(domain.ToolBandit, cfg, runner, logger)}
}

func (b *Bandit) Lint(ctx context.Context, code string) []domain.Diagnostic {
	out := b.invoke(ctx, banditFile(code), func(path string) []string {
		return []string{"-f", "json", path}
	}, false)

	if out.Kind == domain.OutcomeSuccess {
		findings, err := ParseBandit(out.Stdout, "unknown")
		if err == nil {
			diags := make([]domain.Diagnostic, 0, len(findings))
			for _, f := range findings {
				diags = append(diags, f.Diagnostic())
			}
			return diags
		}
		out = domain.Malformed(err)
	}

	return neutralize(b.logger, out, BanditPolicy, fallbacks[domain.Diagnostic]{})
}

// BanditScan runs bandit with -ll (medium severity and above) for the
// security-scan operation.
type BanditScan struct {
	base
}

func NewBanditScan(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *BanditScan {
	return &BanditScan{base: newBase(domain.ToolBanditScan, cfg, runner, logger)}
}

func (b *BanditScan) Scan(ctx context.Context, code string, _ domain.Language) []domain.SecurityFinding {
	out := b.invoke(ctx, banditFile(code), func(path string) []string {
		return []string{"-f", "json", "-ll", path}
	}, false)

	if out.Kind == domain.OutcomeSuccess {
		findings, err := ParseBandit(out.Stdout, "B000")
		if err == nil {
			return findings
		}
		out = domain.Malformed(err)
	}

	return neutralize(b.logger, out, BanditScanPolicy, fallbacks[domain.SecurityFinding]{
		timeout: func() []domain.SecurityFinding {
			return []domain.SecurityFinding{timeoutFinding("Security scan timed out")}
		},
		heuristic: func() []domain.SecurityFinding {
			return heuristic.PythonSecurityFallback(code)
		},
	})
}

func timeoutFinding(msg string) domain.SecurityFinding {
	return domain.SecurityFinding{
		Severity:   domain.SeverityWarning,
		Message:    msg,
		Line:       1,
		Column:     1,
		RuleID:     domain.RuleTimeout,
		Confidence: domain.ConfidenceLow,
	}
}
