package application

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

// FixService writes the literal line replacements carried by diagnostics
// back to the reviewed file.
type FixService struct {
	logger *zap.Logger
}

func NewFixService(logger *zap.Logger) *FixService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixService{logger: logger}
}

// ApplyFixes replaces each line named by a fix-carrying diagnostic. The first
// fix for a line wins; later ones, and fixes pointing past the end of the
// file, are counted as skipped. With dryRun the file is left untouched.
func (s *FixService) ApplyFixes(path string, diags []domain.Diagnostic, dryRun bool) (*domain.FixPlan, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	plan := &domain.FixPlan{Path: path, DryRun: dryRun, Applied: []domain.AppliedFix{}}
	claimed := make(map[int]bool)

	for _, d := range diags {
		if d.Fix == "" {
			continue
		}
		if d.Line < 1 || d.Line > len(lines) || claimed[d.Line] {
			plan.Skipped++
			continue
		}
		before := lines[d.Line-1]
		if before == d.Fix {
			continue
		}
		claimed[d.Line] = true
		lines[d.Line-1] = d.Fix
		plan.Applied = append(plan.Applied, domain.AppliedFix{
			Line:   d.Line,
			RuleID: d.RuleID,
			Before: before,
			After:  d.Fix,
		})
	}

	sort.Slice(plan.Applied, func(i, j int) bool {
		return plan.Applied[i].Line < plan.Applied[j].Line
	})

	if dryRun || len(plan.Applied) == 0 {
		return plan, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	s.logger.Info("applied fixes",
		zap.String("file", path),
		zap.Int("applied", len(plan.Applied)),
		zap.Int("skipped", plan.Skipped),
	)
	return plan, nil
}
