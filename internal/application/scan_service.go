package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

// ScanService dispatches a security scan: bandit for Python, semgrep for
// JavaScript and TypeScript, nothing for anything else.
type ScanService struct {
	python     domain.SecurityScanner
	javascript domain.SecurityScanner
	logger     *zap.Logger
}

func NewScanService(python, javascript domain.SecurityScanner, logger *zap.Logger) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{python: python, javascript: javascript, logger: logger}
}

// Scan returns findings and their summary. Under the default failure policy
// any failure, panics included, yields an empty report and a nil error.
func (s *ScanService) Scan(ctx context.Context, req domain.ReviewRequest) (domain.SecurityReport, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("language", string(req.Language)),
	)
	log.Info("running security scan")

	report, err := guard(func() (domain.SecurityReport, error) {
		return s.run(ctx, req), nil
	})
	if err != nil {
		log.Error("security scan error", zap.Error(err))
		if domain.FailureModeFor(domain.OperationSecurityScan) == domain.FailureSwallow {
			return domain.EmptySecurityReport(), nil
		}
		return domain.SecurityReport{}, err
	}

	log.Info("security scan complete",
		zap.Int("findings", len(report.Findings)),
		zap.Int("critical", report.Summary.Critical),
		zap.Int("high", report.Summary.High),
		zap.Int("medium", report.Summary.Medium),
		zap.Int("low", report.Summary.Low),
	)
	return report, nil
}

func (s *ScanService) run(ctx context.Context, req domain.ReviewRequest) domain.SecurityReport {
	var findings []domain.SecurityFinding
	switch {
	case req.Language == domain.LanguagePython:
		findings = s.python.Scan(ctx, req.Code, req.Language)
	case req.Language.IsJavaScript():
		findings = s.javascript.Scan(ctx, req.Code, req.Language)
	}
	if findings == nil {
		findings = []domain.SecurityFinding{}
	}
	return domain.SecurityReport{
		Findings: findings,
		Summary:  domain.ComputeSummary(findings),
	}
}
