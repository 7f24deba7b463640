package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/openkraft/codereview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Rank(t *testing.T) {
	assert.Greater(t, domain.SeverityError.Rank(), domain.SeverityWarning.Rank())
	assert.Greater(t, domain.SeverityWarning.Rank(), domain.SeveritySuggestion.Rank())
	assert.Greater(t, domain.SeveritySuggestion.Rank(), domain.SeverityInfo.Rank())
	assert.Equal(t, 0, domain.Severity("critical").Rank())
}

func TestLanguage_Supported(t *testing.T) {
	for _, lang := range domain.SupportedLanguages {
		assert.True(t, lang.Supported(), lang)
	}
	assert.True(t, domain.LanguageTypeScript.IsJavaScript())
	assert.False(t, domain.LanguagePython.IsJavaScript())
	assert.False(t, domain.Language("rust").Supported())
}

func TestUnsupportedLanguage(t *testing.T) {
	d := domain.UnsupportedLanguage("rust")
	assert.Equal(t, domain.SeverityInfo, d.Severity)
	assert.Equal(t, domain.RuleUnsupportedLanguage, d.RuleID)
	assert.Contains(t, d.Message, "rust")
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 1, d.Column)
}

func TestReviewRequest_DecodeKeepsDefaultPreferences(t *testing.T) {
	req := domain.ReviewRequest{Preferences: domain.DefaultPreferences()}
	body := `{"filePath":"a.py","language":"python","code":"x = 1","preferences":{"enableLLM":true}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.True(t, req.Preferences.EnableSecurity)
	assert.True(t, req.Preferences.EnableLLM)
	assert.Equal(t, domain.LanguagePython, req.Language)
}

func TestSecurityFinding_Diagnostic(t *testing.T) {
	f := domain.SecurityFinding{
		Severity: domain.SeverityError, Message: "m", Line: 3, Column: 2,
		RuleID: "security/exec", Confidence: domain.ConfidenceHigh,
	}
	d := f.Diagnostic()
	assert.Equal(t, "security/exec", d.RuleID)
	assert.Equal(t, domain.ConfidenceHigh, d.Confidence)
	assert.Empty(t, d.Fix)
}

func TestComputeSummary_BucketsNeverMatchDiagnosticSeverities(t *testing.T) {
	findings := []domain.SecurityFinding{
		{Severity: domain.SeverityError, RuleID: "security/eval", Confidence: domain.ConfidenceHigh},
		{Severity: domain.SeverityWarning, RuleID: "security/innerHTML", Confidence: domain.ConfidenceMedium},
		{Severity: domain.SeverityInfo, RuleID: "bandit/B101", Confidence: domain.ConfidenceLow},
	}

	// error/warning/info never equal critical/high/medium/low, so every
	// bucket stays zero even with findings present.
	assert.Equal(t, domain.ScanSummary{}, domain.ComputeSummary(findings))
}

func TestComputeSummary_CountsLiteralBucketNames(t *testing.T) {
	findings := []domain.SecurityFinding{
		{Severity: "critical"}, {Severity: "high"}, {Severity: "high"}, {Severity: "low"},
	}
	assert.Equal(t, domain.ScanSummary{Critical: 1, High: 2, Low: 1}, domain.ComputeSummary(findings))
}

func TestEmptySecurityReport_MarshalsEmptyList(t *testing.T) {
	data, err := json.Marshal(domain.EmptySecurityReport())
	require.NoError(t, err)
	assert.JSONEq(t, `{"findings":[],"summary":{"critical":0,"high":0,"medium":0,"low":0}}`, string(data))
}

func TestFallbackPolicy_For(t *testing.T) {
	p := domain.FallbackPolicy{
		OnMissing:   domain.FallbackHeuristic,
		OnTimeout:   domain.FallbackTimeoutNotice,
		OnMalformed: domain.FallbackEmpty,
		OnFailed:    domain.FallbackEmpty,
	}
	assert.Equal(t, domain.FallbackHeuristic, p.For(domain.OutcomeMissing))
	assert.Equal(t, domain.FallbackTimeoutNotice, p.For(domain.OutcomeTimedOut))
	assert.Equal(t, domain.FallbackEmpty, p.For(domain.OutcomeMalformed))
	assert.Equal(t, domain.FallbackEmpty, p.For(domain.OutcomeSuccess))
}

func TestFailurePolicy(t *testing.T) {
	assert.Equal(t, domain.FailureSurface, domain.FailureModeFor(domain.OperationReview))
	assert.Equal(t, domain.FailureSwallow, domain.FailureModeFor(domain.OperationSecurityScan))
	assert.Equal(t, domain.FailureSurface, domain.FailureModeFor("unknown"))
}

func TestReviewError(t *testing.T) {
	cause := errors.New("parser exploded")
	err := &domain.ReviewError{Err: cause}
	assert.Equal(t, "review failed: parser exploded", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "timed-out", domain.OutcomeTimedOut.String())
	assert.Equal(t, "malformed", domain.Malformed(errors.New("x")).Kind.String())
}
