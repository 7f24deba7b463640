package tools

import (
	"strings"

	"github.com/openkraft/codereview/internal/domain"
)

// Flake8Severity maps a flake8 code by its prefix letter. E (pycodestyle
// errors) and F (pyflakes) are errors, everything else a warning.
func Flake8Severity(code string) domain.Severity {
	switch {
	case strings.HasPrefix(code, "E"), strings.HasPrefix(code, "F"):
		return domain.SeverityError
	default:
		return domain.SeverityWarning
	}
}

// BanditSeverity maps bandit's issue_severity. Unknown values are info.
func BanditSeverity(s string) domain.Severity {
	switch s {
	case "HIGH":
		return domain.SeverityError
	case "MEDIUM":
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

// ESLintSeverity maps eslint's numeric severity. Unknown values are warnings.
func ESLintSeverity(n int) domain.Severity {
	if n == 2 {
		return domain.SeverityError
	}
	return domain.SeverityWarning
}

// SemgrepSeverity maps semgrep's extra.severity. Unknown values are warnings.
func SemgrepSeverity(s string) domain.Severity {
	switch s {
	case "ERROR":
		return domain.SeverityError
	case "INFO":
		return domain.SeverityInfo
	default:
		return domain.SeverityWarning
	}
}
