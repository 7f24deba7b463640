package report_test

import (
	"bytes"
	"testing"

	"github.com/openkraft/codereview/internal/adapters/outbound/report"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_EmptyReportKeepsArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, domain.EmptySecurityReport()))

	assert.JSONEq(t, `{"findings": [], "summary": {"critical": 0, "high": 0, "medium": 0, "low": 0}}`, buf.String())
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}

func TestWriteJSON_Diagnostic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, []domain.Diagnostic{
		{Severity: domain.SeveritySuggestion, Message: "m", Line: 1, Column: 2, RuleID: "eqeqeq", Fix: "a === b"},
	}))

	assert.JSONEq(t, `[{"severity": "suggestion", "message": "m", "line": 1, "column": 2, "ruleId": "eqeqeq", "fix": "a === b"}]`, buf.String())
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, report.WriteJSON(&buf, make(chan int)))
}
