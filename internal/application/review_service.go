package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

// ReviewService dispatches a review request to its language pipeline:
// heuristic checker, then external linters, then the optional LLM stage.
type ReviewService struct {
	python     domain.PatternChecker
	javascript domain.PatternChecker
	flake8     domain.Linter
	bandit     domain.Linter
	eslint     domain.Linter
	enhancer   *EnhanceService
	logger     *zap.Logger
}

func NewReviewService(
	python domain.PatternChecker,
	javascript domain.PatternChecker,
	flake8 domain.Linter,
	bandit domain.Linter,
	eslint domain.Linter,
	enhancer *EnhanceService,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		python:     python,
		javascript: javascript,
		flake8:     flake8,
		bandit:     bandit,
		eslint:     eslint,
		enhancer:   enhancer,
		logger:     logger,
	}
}

// Review returns diagnostics in pipeline order. Any unexpected stage failure
// is handled per the review failure policy; by default it is returned as a
// *domain.ReviewError with no partial results.
func (s *ReviewService) Review(ctx context.Context, req domain.ReviewRequest) ([]domain.Diagnostic, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("language", string(req.Language)),
		zap.String("file", req.FilePath),
	)
	log.Info("reviewing code")

	diags, err := guard(func() ([]domain.Diagnostic, error) {
		return s.run(ctx, req)
	})
	if err != nil {
		log.Error("review failed", zap.Error(err))
		if domain.FailureModeFor(domain.OperationReview) == domain.FailureSwallow {
			return []domain.Diagnostic{}, nil
		}
		return nil, &domain.ReviewError{Err: err}
	}

	log.Info("review complete", zap.Int("diagnostics", len(diags)))
	return diags, nil
}

func (s *ReviewService) run(ctx context.Context, req domain.ReviewRequest) ([]domain.Diagnostic, error) {
	diags := []domain.Diagnostic{}

	switch {
	case req.Language == domain.LanguagePython:
		found, err := s.python.Check(ctx, req.Code)
		if err != nil {
			return nil, fmt.Errorf("python checker: %w", err)
		}
		diags = append(diags, found...)
		diags = append(diags, s.flake8.Lint(ctx, req.Code)...)
		if req.Preferences.EnableSecurity {
			diags = append(diags, s.bandit.Lint(ctx, req.Code)...)
		}

	case req.Language.IsJavaScript():
		found, err := s.javascript.Check(ctx, req.Code)
		if err != nil {
			return nil, fmt.Errorf("javascript checker: %w", err)
		}
		diags = append(diags, found...)
		diags = append(diags, s.eslint.Lint(ctx, req.Code)...)

	default:
		diags = append(diags, domain.UnsupportedLanguage(req.Language))
	}

	if req.Preferences.EnableLLM && s.enhancer.Enabled() {
		diags = s.enhancer.Enhance(ctx, req.Code, diags, req.Language)
		if req.Preferences.LLMReview {
			diags = append(diags, s.enhancer.FullReview(ctx, req.Code, req.Language)...)
		}
	}

	return diags, nil
}
