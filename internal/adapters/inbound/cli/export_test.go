package cli

import "github.com/openkraft/codereview/internal/adapters/outbound/toolrun"

// SetRunnerForTest swaps the subprocess runner and returns a restore func.
func SetRunnerForTest(r toolrun.Runner) func() {
	prev := runnerOverride
	runnerOverride = r
	return func() { runnerOverride = prev }
}
