package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/codereview/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "codereview-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "codereview")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/codereview")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func samplePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/samples", name))
	return abs
}

// run executes the binary with an empty PATH so every external tool is
// missing and the built-in fallbacks are exercised.
func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, append(args, "--config-dir", t.TempDir())...)
	cmd.Env = []string{"PATH=" + t.TempDir(), "HOME=" + t.TempDir()}
	var stdout strings.Builder
	cmd.Stdout = &stdout
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), exitCode
}

type reviewOutput struct {
	Reviews []domain.FileReview `json:"reviews"`
}

func rulesFor(t *testing.T, reviews []domain.FileReview, name string) []string {
	t.Helper()
	for _, r := range reviews {
		if filepath.Base(r.Path) == name {
			var rules []string
			for _, d := range r.Diagnostics {
				rules = append(rules, d.RuleID)
			}
			return rules
		}
	}
	t.Fatalf("no review for %s", name)
	return nil
}

// --- Review Tests ---

func TestE2E_ReviewJSON(t *testing.T) {
	out, code := run(t, "review", samplePath(""), "--json")
	require.Equal(t, 0, code, out)

	var result reviewOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	var names []string
	for _, r := range result.Reviews {
		rel, _ := filepath.Rel(samplePath(""), r.Path)
		names = append(names, rel)
	}
	assert.Equal(t, []string{"broken.py", "clean.py", "vulnerable.py", "web/app.js", "web/types.ts"}, names)

	// The AST checker reports breadth-first: the loop is shallower than both calls.
	assert.Equal(t, []string{"performance/loop-concat", "security/no-exec", "security/no-eval"}, rulesFor(t, result.Reviews, "vulnerable.py"))
	assert.Equal(t, []string{domain.RuleSyntaxError}, rulesFor(t, result.Reviews, "broken.py"))
	assert.Empty(t, rulesFor(t, result.Reviews, "clean.py"))
	assert.Equal(t, []string{
		"no-var",
		"eqeqeq",
		"no-console",
		"security/detect-unsafe-innerHTML",
		"security/detect-eval-with-expression",
	}, rulesFor(t, result.Reviews, "app.js"))
}

func TestE2E_ReviewFailOn(t *testing.T) {
	_, code := run(t, "review", samplePath("vulnerable.py"), "--fail-on", "error")
	assert.Equal(t, 1, code)

	_, code = run(t, "review", samplePath("clean.py"), "--fail-on", "info")
	assert.Equal(t, 0, code)
}

func TestE2E_ReviewSARIF(t *testing.T) {
	out, code := run(t, "review", samplePath("web"), "--sarif")
	require.Equal(t, 0, code)

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	assert.Len(t, log.Runs[0].Results, 5)
}

// --- Scan Tests ---

func TestE2E_ScanFallback(t *testing.T) {
	out, code := run(t, "scan", samplePath("vulnerable.py"), "--json")
	require.Equal(t, 0, code)

	var scans []domain.FileScan
	require.NoError(t, json.Unmarshal([]byte(out), &scans))
	require.Len(t, scans, 1)

	var rules []string
	for _, f := range scans[0].Report.Findings {
		rules = append(rules, f.RuleID)
		assert.Equal(t, domain.ConfidenceHigh, f.Confidence)
	}
	assert.Equal(t, []string{"security/eval", "security/exec"}, rules)
	assert.Equal(t, domain.ScanSummary{}, scans[0].Report.Summary)
}

// --- Status / Version ---

func TestE2E_StatusNoTools(t *testing.T) {
	out, code := run(t, "status", "--json")
	require.Equal(t, 0, code)

	var st domain.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "healthy", st.Status)
	for name, available := range st.Tools {
		assert.False(t, available, "%s should not be found on an empty PATH", name)
	}
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "codereview")
}
