package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

const (
	maxEnhanced = 3

	enhanceSystemPrompt = "You are an expert code reviewer focused on security and best practices."
	enhanceMaxTokens    = 200
	enhanceTemperature  = 0.3

	reviewSystemPrompt = "You are a senior software engineer performing a code review."
	reviewMaxTokens    = 500
	reviewTemperature  = 0.5
	reviewMaxChars     = 2000
)

// CompleterFactory builds a completer from the LLM config.
type CompleterFactory func(domain.LLMConfig) (domain.Completer, error)

// EnhanceService attaches LLM explanations to the most severe diagnostics
// and can produce a whole-file review. Every call is sequential and never
// retried; failures leave the input untouched.
type EnhanceService struct {
	cfg     domain.LLMConfig
	factory CompleterFactory
	logger  *zap.Logger
}

func NewEnhanceService(cfg domain.LLMConfig, factory CompleterFactory, logger *zap.Logger) *EnhanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnhanceService{cfg: cfg, factory: factory, logger: logger}
}

// Enabled reports whether a credential is configured. A nil service is
// disabled.
func (s *EnhanceService) Enabled() bool {
	return s != nil && s.cfg.Configured()
}

// Enhance selects the first three error or warning diagnostics, asks the
// completer to explain each, and returns the selected diagnostics followed
// by the rest, each group in its original order.
func (s *EnhanceService) Enhance(ctx context.Context, code string, diags []domain.Diagnostic, lang domain.Language) []domain.Diagnostic {
	completer, err := s.factory(s.cfg)
	if err != nil {
		s.logger.Warn("LLM enhancement disabled", zap.Error(err))
		return diags
	}

	selected := make(map[int]bool, maxEnhanced)
	for i, d := range diags {
		if len(selected) == maxEnhanced {
			break
		}
		if d.Severity == domain.SeverityError || d.Severity == domain.SeverityWarning {
			selected[i] = true
		}
	}

	lines := strings.Split(code, "\n")
	out := make([]domain.Diagnostic, 0, len(diags))
	for i, d := range diags {
		if !selected[i] {
			continue
		}
		text, err := completer.Complete(ctx, domain.CompletionRequest{
			SystemPrompt: enhanceSystemPrompt,
			UserPrompt:   explainPrompt(d, lang, Snippet(lines, d.Line)),
			MaxTokens:    enhanceMaxTokens,
			Temperature:  enhanceTemperature,
		})
		if err != nil {
			s.logger.Error("LLM enhancement failed for diagnostic",
				zap.String("rule_id", d.RuleID), zap.Int("line", d.Line), zap.Error(err))
		} else {
			d.LLMExplanation = text
		}
		out = append(out, d)
	}
	for i, d := range diags {
		if !selected[i] {
			out = append(out, d)
		}
	}
	return out
}

// FullReview asks the completer for a general review of the file and returns
// it as a single info diagnostic, or nothing on failure.
func (s *EnhanceService) FullReview(ctx context.Context, code string, lang domain.Language) []domain.Diagnostic {
	completer, err := s.factory(s.cfg)
	if err != nil {
		s.logger.Warn("LLM review disabled", zap.Error(err))
		return nil
	}

	text, err := completer.Complete(ctx, domain.CompletionRequest{
		SystemPrompt: reviewSystemPrompt,
		UserPrompt:   reviewPrompt(TruncateCode(code), lang),
		MaxTokens:    reviewMaxTokens,
		Temperature:  reviewTemperature,
	})
	if err != nil {
		s.logger.Error("LLM code review failed", zap.Error(err))
		return nil
	}

	return []domain.Diagnostic{{
		Severity: domain.SeverityInfo,
		Message:  "LLM Review: " + text,
		Line:     1,
		Column:   1,
		RuleID:   domain.RuleLLMReview,
	}}
}

// Snippet returns the lines around a 1-based line: two before through two
// after, clamped to the source.
func Snippet(lines []string, line int) string {
	start := max(0, line-3)
	end := min(len(lines), line+2)
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// TruncateCode cuts code longer than 2000 characters and marks the cut.
func TruncateCode(code string) string {
	runes := []rune(code)
	if len(runes) <= reviewMaxChars {
		return code
	}
	return string(runes[:reviewMaxChars]) + "\n# ... (code truncated)"
}

func explainPrompt(d domain.Diagnostic, lang domain.Language, snippet string) string {
	rule := d.RuleID
	if rule == "" {
		rule = "unknown"
	}
	return fmt.Sprintf(`Analyze this %[1]s code snippet and the issue detected in it:

Issue: %[2]s
Rule: %[3]s
Severity: %[4]s

Code snippet:
`+"```"+`%[1]s
%[5]s
`+"```"+`

Provide:
1. A brief explanation of why this is an issue (1-2 sentences)
2. A suggested fix (if applicable)
3. Confidence level (high/medium/low)

Keep the response concise and practical.`, lang, d.Message, rule, d.Severity, snippet)
}

func reviewPrompt(code string, lang domain.Language) string {
	return fmt.Sprintf(`Review this %[1]s code for:
1. Security vulnerabilities
2. Performance issues
3. Best practice violations
4. Code quality improvements

Code:
`+"```"+`%[1]s
%[2]s
`+"```"+`

Give specific findings with line numbers where possible.`, lang, code)
}
