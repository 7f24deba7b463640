package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/openkraft/codereview/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"bin":          true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	".mypy_cache":  true,
}

// SkipDir reports whether a directory with this base name is never reviewed.
func SkipDir(name string) bool { return skipDirs[name] }

// FileScanner implements domain.SourceScanner by walking the filesystem.
type FileScanner struct {
	detector domain.LanguageDetector
}

func New(detector domain.LanguageDetector) *FileScanner {
	return &FileScanner{detector: detector}
}

// Scan returns reviewable files under path. A path naming a single file is
// returned as-is whatever its language, so the caller gets an
// unsupported-language diagnostic rather than silence. Directory walks keep
// only files with a review pipeline.
func (s *FileScanner) Scan(path string) ([]domain.SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	if !info.IsDir() {
		return []domain.SourceFile{{Path: absPath, Language: s.detector.Detect(absPath)}}, nil
	}

	var files []domain.SourceFile
	err = filepath.WalkDir(absPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != absPath && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if lang := s.detector.Detect(p); lang.Supported() {
			files = append(files, domain.SourceFile{Path: p, Language: lang})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
