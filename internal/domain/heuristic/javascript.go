package heuristic

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/openkraft/codereview/internal/domain"
)

var (
	evalCall      = regexp.MustCompile(`\beval\s*\(`)
	innerHTMLSet  = regexp.MustCompile(`\.innerHTML\s*=`)
	looseEquality = regexp.MustCompile(`[^=!<>]==[^=]`)
	varDecl       = regexp.MustCompile(`\bvar\s+`)
	consoleLog    = regexp.MustCompile(`\bconsole\.log\s*\(`)
)

// JSChecker scans JavaScript and TypeScript source line by line with
// independent regular expressions. There is no parser; several findings per
// line are possible.
type JSChecker struct{}

func NewJSChecker() *JSChecker { return &JSChecker{} }

// Check never fails.
func (c *JSChecker) Check(_ context.Context, code string) ([]domain.Diagnostic, error) {
	var diags []domain.Diagnostic

	for i, line := range strings.Split(code, "\n") {
		lineNum := i + 1

		if evalCall.MatchString(line) {
			diags = append(diags, domain.Diagnostic{
				Severity:   domain.SeverityError,
				Message:    "Use of eval() is dangerous and should be avoided",
				Line:       lineNum,
				Column:     TokenColumn(line, "eval"),
				RuleID:     "security/detect-eval-with-expression",
				Confidence: domain.ConfidenceHigh,
			})
		}

		if innerHTMLSet.MatchString(line) {
			diags = append(diags, domain.Diagnostic{
				Severity:   domain.SeverityWarning,
				Message:    "Direct use of innerHTML can lead to XSS vulnerabilities. Consider using textContent or sanitization.",
				Line:       lineNum,
				Column:     TokenColumn(line, "innerHTML"),
				RuleID:     "security/detect-unsafe-innerHTML",
				Confidence: domain.ConfidenceMedium,
			})
		}

		if loc := looseEquality.FindStringIndex(line); loc != nil {
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeveritySuggestion,
				Message:  "Use === instead of == for type-safe comparison",
				Line:     lineNum,
				Column:   charIndex(line, loc[0]) + 1,
				RuleID:   "eqeqeq",
				Fix:      strings.Replace(line, "==", "===", 1),
			})
		}

		if varDecl.MatchString(line) {
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeveritySuggestion,
				Message:  "Use 'let' or 'const' instead of 'var'",
				Line:     lineNum,
				Column:   TokenColumn(line, "var"),
				RuleID:   "no-var",
			})
		}

		if consoleLog.MatchString(line) {
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeverityInfo,
				Message:  "Remove console.log statements before production",
				Line:     lineNum,
				Column:   TokenColumn(line, "console"),
				RuleID:   "no-console",
			})
		}
	}

	return diags, nil
}

// TokenColumn returns the 1-based character column of the first occurrence
// of token in line, or 1 if absent. The first occurrence may be unrelated to
// the construct that matched.
func TokenColumn(line, token string) int {
	idx := strings.Index(line, token)
	if idx < 0 {
		return 1
	}
	return charIndex(line, idx) + 1
}

func charIndex(line string, byteOffset int) int {
	return utf8.RuneCountInString(line[:byteOffset])
}
