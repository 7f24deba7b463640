package heuristic

import (
	"strings"

	"github.com/openkraft/codereview/internal/domain"
)

// pattern is one row of a fallback table.
type pattern struct {
	token    string
	message  string
	severity domain.Severity
}

var pythonPatterns = []pattern{
	{"eval", "Use of eval() can execute arbitrary code", domain.SeverityError},
	{"exec", "Use of exec() can execute arbitrary code", domain.SeverityError},
	{"compile", "Use of compile() with untrusted input is dangerous", domain.SeverityError},
	{"__import__", "Dynamic imports can be dangerous", domain.SeverityError},
	{"pickle.loads", "Unpickling untrusted data can execute arbitrary code", domain.SeverityError},
}

var jsPatterns = []pattern{
	{"eval(", "Use of eval() can execute arbitrary code", domain.SeverityError},
	{"innerHTML", "Direct use of innerHTML can lead to XSS vulnerabilities", domain.SeverityWarning},
	{"document.write", "document.write can lead to XSS vulnerabilities", domain.SeverityWarning},
	{"dangerouslySetInnerHTML", "dangerouslySetInnerHTML can lead to XSS if not properly sanitized", domain.SeverityWarning},
	{"new Function(", "Creating functions from strings can be dangerous", domain.SeverityWarning},
}

// PythonSecurityFallback substring-matches dangerous Python identifiers. It
// runs when the external security scanner is not installed. Matches inside
// string literals are expected.
func PythonSecurityFallback(code string) []domain.SecurityFinding {
	return scanTable(code, "#", pythonPatterns, domain.ConfidenceHigh, func(token string) string {
		return strings.ReplaceAll(token, ".", "-")
	})
}

// JSSecurityFallback substring-matches dangerous JavaScript patterns.
func JSSecurityFallback(code string) []domain.SecurityFinding {
	return scanTable(code, "//", jsPatterns, domain.ConfidenceMedium, func(token string) string {
		return strings.ReplaceAll(strings.ReplaceAll(token, "(", ""), ".", "-")
	})
}

func scanTable(
	code, commentMarker string,
	table []pattern,
	confidence domain.Confidence,
	slug func(string) string,
) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for i, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), commentMarker) {
			continue
		}
		for _, p := range table {
			if !strings.Contains(line, p.token) {
				continue
			}
			findings = append(findings, domain.SecurityFinding{
				Severity:   p.severity,
				Message:    p.message,
				Line:       i + 1,
				Column:     TokenColumn(line, p.token),
				RuleID:     "security/" + slug(p.token),
				Confidence: confidence,
			})
		}
	}

	return findings
}
