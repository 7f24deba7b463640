package domain

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
	SeverityInfo       Severity = "info"
)

// Rank returns a display priority (higher = more severe). Pipeline output is
// never reordered by rank.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 4
	case SeverityWarning:
		return 3
	case SeveritySuggestion:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Confidence indicates how certain a security-oriented check is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Diagnostic is one normalized finding. RuleID is namespaced by the component
// that produced it, e.g. "flake8/E501" or "security/no-eval".
type Diagnostic struct {
	Severity       Severity   `json:"severity"`
	Message        string     `json:"message"`
	Line           int        `json:"line"`
	Column         int        `json:"column"`
	RuleID         string     `json:"ruleId,omitempty"`
	Fix            string     `json:"fix,omitempty"`
	Confidence     Confidence `json:"confidence,omitempty"`
	LLMExplanation string     `json:"llmExplanation,omitempty"`
}

// SecurityFinding is produced only by the security-scan path; RuleID and
// Confidence are always set.
type SecurityFinding struct {
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	Line       int        `json:"line"`
	Column     int        `json:"column"`
	RuleID     string     `json:"ruleId"`
	Confidence Confidence `json:"confidence"`
}

// Diagnostic converts the finding into the shared diagnostic schema.
func (f SecurityFinding) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity:   f.Severity,
		Message:    f.Message,
		Line:       f.Line,
		Column:     f.Column,
		RuleID:     f.RuleID,
		Confidence: f.Confidence,
	}
}

// Well-known rule ids that carry no source namespace.
const (
	RuleSyntaxError         = "syntax-error"
	RuleTimeout             = "timeout"
	RuleUnsupportedLanguage = "unsupported-language"
	RuleLLMReview           = "llm-review"
)
