package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

// DefaultWaitDelay bounds how long Run waits for output pipes after the tool
// exits or is killed. npx leaves grandchildren holding stdout open.
const DefaultWaitDelay = 2 * time.Second

// Command is one external tool invocation.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration
}

func (c Command) String() string {
	return fmt.Sprintf("%s %v", c.Binary, c.Args)
}

// Runner executes a command and classifies how it ended.
type Runner interface {
	Run(ctx context.Context, cmd Command) domain.ToolOutcome
}

// ExecRunner runs commands on the host with os/exec.
type ExecRunner struct {
	logger    *zap.Logger
	waitDelay time.Duration
}

// NewExecRunner returns a runner that logs through logger (nil disables
// logging).
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger, waitDelay: DefaultWaitDelay}
}

// WithWaitDelay returns a copy of r using d as the pipe wait delay.
func (r *ExecRunner) WithWaitDelay(d time.Duration) *ExecRunner {
	cp := *r
	cp.waitDelay = d
	return &cp
}

// Run executes cmd and captures stdout. A non-zero exit status is a success:
// linters exit 1 when they report findings.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) domain.ToolOutcome {
	log := r.logger.With(zap.String("binary", cmd.Binary), zap.Duration("timeout", cmd.Timeout))

	path, err := exec.LookPath(cmd.Binary)
	if err != nil {
		log.Debug("tool not installed", zap.Error(err))
		return domain.Missing(fmt.Errorf("looking up %s: %w", cmd.Binary, err))
	}

	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, path, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err = c.Run()
	log = log.With(zap.Duration("elapsed", time.Since(start)))

	if ctx.Err() != nil {
		log.Debug("tool run cancelled", zap.Error(ctx.Err()))
		return domain.Failed(fmt.Errorf("running %s: %w", cmd.Binary, ctx.Err()))
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn("tool timed out")
		return domain.TimedOut(fmt.Errorf("running %s: timed out after %s", cmd.Binary, cmd.Timeout))
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		log.Debug("tool exited non-zero", zap.Int("exit_code", exitErr.ExitCode()))
	case errors.Is(err, exec.ErrWaitDelay):
		log.Debug("tool left output pipes open")
	default:
		log.Warn("tool failed to run", zap.Error(err), zap.String("stderr", stderr.String()))
		return domain.Failed(fmt.Errorf("running %s: %w", cmd.Binary, err))
	}

	return domain.Succeeded(stdout.Bytes())
}
