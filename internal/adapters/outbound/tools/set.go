package tools

import (
	"os/exec"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/domain"
)

// Set holds one instance of every adapter, built from a single config.
type Set struct {
	Flake8     *Flake8
	Bandit     *Bandit
	ESLint     *ESLint
	BanditScan *BanditScan
	Semgrep    *Semgrep

	cfg domain.Config
}

func NewSet(cfg domain.Config, runner toolrun.Runner, logger *zap.Logger) *Set {
	return &Set{
		Flake8:     NewFlake8(cfg, runner, logger),
		Bandit:     NewBandit(cfg, runner, logger),
		ESLint:     NewESLint(cfg, runner, logger),
		BanditScan: NewBanditScan(cfg, runner, logger),
		Semgrep:    NewSemgrep(cfg, runner, logger),
		cfg:        cfg,
	}
}

// Availability reports, per adapter id, whether its binary is on PATH.
func (s *Set) Availability() map[string]bool {
	avail := make(map[string]bool, len(domain.ValidTools))
	for _, name := range domain.ValidTools {
		_, err := exec.LookPath(s.cfg.Tool(name).Binary)
		avail[name] = err == nil
	}
	return avail
}
