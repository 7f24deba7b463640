package application

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openkraft/codereview/internal/domain"
)

// FilesService runs the review and scan operations over files on disk.
// Files are processed concurrently up to a limit; each file's pipeline is
// still sequential.
type FilesService struct {
	scanner domain.SourceScanner
	review  *ReviewService
	scan    *ScanService
	jobs    int
	logger  *zap.Logger
}

func NewFilesService(scanner domain.SourceScanner, review *ReviewService, scan *ScanService, jobs int, logger *zap.Logger) *FilesService {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesService{scanner: scanner, review: review, scan: scan, jobs: jobs, logger: logger}
}

// Collect expands paths into source files, dropping duplicates. Order
// follows the arguments, then the scanner's order within a directory.
func (s *FilesService) Collect(paths []string) ([]domain.SourceFile, error) {
	seen := make(map[string]bool)
	var files []domain.SourceFile
	for _, p := range paths {
		found, err := s.scanner.Scan(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			files = append(files, f)
		}
	}
	return files, nil
}

// ReviewFiles reviews every file under paths. A file that cannot be read or
// reviewed gets Err set; it does not stop the others.
func (s *FilesService) ReviewFiles(ctx context.Context, paths []string, prefs domain.Preferences) ([]domain.FileReview, error) {
	files, err := s.Collect(paths)
	if err != nil {
		return nil, err
	}
	files = selectLanguages(files, prefs.SelectedLanguages)

	results := make([]domain.FileReview, len(files))
	err = s.each(ctx, files, func(ctx context.Context, i int, f domain.SourceFile) {
		results[i] = s.ReviewFile(ctx, f, prefs)
	})
	return results, err
}

// ReviewFile reads and reviews one file.
func (s *FilesService) ReviewFile(ctx context.Context, f domain.SourceFile, prefs domain.Preferences) domain.FileReview {
	out := domain.FileReview{Path: f.Path, Language: f.Language, Diagnostics: []domain.Diagnostic{}}
	code, err := os.ReadFile(f.Path)
	if err != nil {
		out.Err = fmt.Sprintf("reading file: %v", err)
		return out
	}
	diags, err := s.review.Review(ctx, domain.ReviewRequest{
		FilePath:    f.Path,
		Language:    f.Language,
		Code:        string(code),
		Preferences: prefs,
	})
	if err != nil {
		out.Err = err.Error()
		return out
	}
	out.Diagnostics = diags
	return out
}

// ScanFiles runs the security scan over every file under paths.
func (s *FilesService) ScanFiles(ctx context.Context, paths []string, prefs domain.Preferences) ([]domain.FileScan, error) {
	files, err := s.Collect(paths)
	if err != nil {
		return nil, err
	}
	files = selectLanguages(files, prefs.SelectedLanguages)

	results := make([]domain.FileScan, len(files))
	err = s.each(ctx, files, func(ctx context.Context, i int, f domain.SourceFile) {
		out := domain.FileScan{Path: f.Path, Language: f.Language, Report: domain.EmptySecurityReport()}
		code, err := os.ReadFile(f.Path)
		if err != nil {
			out.Err = fmt.Sprintf("reading file: %v", err)
			results[i] = out
			return
		}
		// The scan operation swallows its own failures.
		report, _ := s.scan.Scan(ctx, domain.ReviewRequest{
			FilePath:    f.Path,
			Language:    f.Language,
			Code:        string(code),
			Preferences: prefs,
		})
		out.Report = report
		results[i] = out
	})
	return results, err
}

// selectLanguages keeps files whose language is listed. An empty list keeps
// everything.
func selectLanguages(files []domain.SourceFile, langs []string) []domain.SourceFile {
	if len(langs) == 0 {
		return files
	}
	keep := make(map[domain.Language]bool, len(langs))
	for _, l := range langs {
		keep[domain.Language(l)] = true
	}
	out := files[:0:0]
	for _, f := range files {
		if keep[f.Language] {
			out = append(out, f)
		}
	}
	return out
}

// each calls fn for every file with bounded concurrency. Result slots are
// indexed, so no locking is needed. Only cancellation stops the batch.
func (s *FilesService) each(ctx context.Context, files []domain.SourceFile, fn func(context.Context, int, domain.SourceFile)) error {
	if len(files) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.jobs, len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("processing files: %w", err)
	}
	s.logger.Debug("processed files", zap.Int("count", len(files)))
	return nil
}
