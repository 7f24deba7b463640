package tools_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openkraft/codereview/internal/adapters/outbound/tools"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlake8(t *testing.T) {
	out := "1:80:E501:line too long (85 > 79 characters)\n" +
		"3:1:W391: blank line at end of file \n" +
		"not a flake8 line\n" +
		"\n" +
		"2:5:F821:undefined name 'x:y'\n"

	diags, err := tools.ParseFlake8([]byte(out))
	require.NoError(t, err)

	want := []domain.Diagnostic{
		{Severity: domain.SeverityError, Message: "line too long (85 > 79 characters)", Line: 1, Column: 80, RuleID: "flake8/E501"},
		{Severity: domain.SeverityWarning, Message: "blank line at end of file", Line: 3, Column: 1, RuleID: "flake8/W391"},
		{Severity: domain.SeverityError, Message: "undefined name 'x:y'", Line: 2, Column: 5, RuleID: "flake8/F821"},
	}
	if diff := cmp.Diff(want, diags); diff != "" {
		t.Errorf("ParseFlake8 mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlake8_Empty(t *testing.T) {
	diags, err := tools.ParseFlake8(nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestParseFlake8_NonNumericRowFails(t *testing.T) {
	_, err := tools.ParseFlake8([]byte("1:1:E1:ok\nabc:1:E2:bad\n"))
	assert.Error(t, err)
}

func TestParseBandit(t *testing.T) {
	out := `{
		"errors": [],
		"results": [
			{"issue_severity": "HIGH", "issue_confidence": "HIGH", "issue_text": "Use of exec detected.", "line_number": 4, "test_id": "B102"},
			{"issue_severity": "MEDIUM", "issue_text": "Pickle usage", "line_number": 7, "test_id": "B301"},
			{}
		]
	}`

	findings, err := tools.ParseBandit([]byte(out), "B000")
	require.NoError(t, err)

	want := []domain.SecurityFinding{
		{Severity: domain.SeverityError, Message: "Use of exec detected.", Line: 4, Column: 1, RuleID: "bandit/B102", Confidence: domain.ConfidenceHigh},
		{Severity: domain.SeverityWarning, Message: "Pickle usage", Line: 7, Column: 1, RuleID: "bandit/B301", Confidence: domain.ConfidenceMedium},
		{Severity: domain.SeverityInfo, Message: "Security issue detected", Line: 1, Column: 1, RuleID: "bandit/B000", Confidence: domain.ConfidenceMedium},
	}
	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("ParseBandit mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBandit_DefaultRuleIsCallerChosen(t *testing.T) {
	findings, err := tools.ParseBandit([]byte(`{"results": [{}]}`), "unknown")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "bandit/unknown", findings[0].RuleID)
}

func TestParseBandit_NoResultsKey(t *testing.T) {
	findings, err := tools.ParseBandit([]byte(`{"metrics": {}}`), "B000")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestParseBandit_RejectsBadShape(t *testing.T) {
	for name, out := range map[string]string{
		"not json":          "Traceback (most recent call last):",
		"array":             `[]`,
		"results not array": `{"results": {"a": 1}}`,
		"result not object": `{"results": [1, 2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tools.ParseBandit([]byte(out), "B000")
			assert.Error(t, err)
		})
	}
}

func TestParseESLint(t *testing.T) {
	out := `[
		{"filePath": "/tmp/x/check.js", "messages": [
			{"ruleId": "no-unused-vars", "severity": 2, "message": "'a' is assigned a value but never used.", "line": 1, "column": 5},
			{"ruleId": null, "fatal": true, "severity": 2, "message": "Parsing error: Unexpected token", "line": 3, "column": 1},
			{"severity": 1}
		]},
		{"filePath": "/tmp/x/other.js", "messages": [{"ruleId": "ignored", "severity": 2, "message": "x"}]}
	]`

	diags, err := tools.ParseESLint([]byte(out))
	require.NoError(t, err)

	want := []domain.Diagnostic{
		{Severity: domain.SeverityError, Message: "'a' is assigned a value but never used.", Line: 1, Column: 5, RuleID: "eslint/no-unused-vars"},
		{Severity: domain.SeverityError, Message: "Parsing error: Unexpected token", Line: 3, Column: 1, RuleID: "eslint/unknown"},
		{Severity: domain.SeverityWarning, Message: "ESLint issue", Line: 1, Column: 1, RuleID: "eslint/unknown"},
	}
	if diff := cmp.Diff(want, diags); diff != "" {
		t.Errorf("ParseESLint mismatch (-want +got):\n%s", diff)
	}
}

func TestParseESLint_EmptyArray(t *testing.T) {
	diags, err := tools.ParseESLint([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestParseESLint_RejectsObject(t *testing.T) {
	_, err := tools.ParseESLint([]byte(`{"messages": []}`))
	assert.Error(t, err)
}

func TestParseSemgrep(t *testing.T) {
	out := `{"results": [
		{"check_id": "javascript.browser.security.eval-detected", "start": {"line": 2, "col": 3},
		 "extra": {"message": "Detected eval", "severity": "ERROR"}},
		{"extra": {"severity": "INFO"}},
		{"check_id": "x", "extra": {"severity": "NOPE", "message": "m"}}
	], "errors": []}`

	findings, err := tools.ParseSemgrep([]byte(out))
	require.NoError(t, err)

	want := []domain.SecurityFinding{
		{Severity: domain.SeverityError, Message: "Detected eval", Line: 2, Column: 3, RuleID: "semgrep/javascript.browser.security.eval-detected", Confidence: domain.ConfidenceHigh},
		{Severity: domain.SeverityInfo, Message: "Security issue detected", Line: 1, Column: 1, RuleID: "semgrep/unknown", Confidence: domain.ConfidenceHigh},
		{Severity: domain.SeverityWarning, Message: "m", Line: 1, Column: 1, RuleID: "semgrep/x", Confidence: domain.ConfidenceHigh},
	}
	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("ParseSemgrep mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSemgrep_RejectsBadShape(t *testing.T) {
	_, err := tools.ParseSemgrep([]byte(`{"results": "none"}`))
	assert.Error(t, err)
	_, err = tools.ParseSemgrep([]byte(``))
	assert.Error(t, err)
}
