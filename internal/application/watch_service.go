package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/domain"
)

// ErrRunOnSaveDisabled is returned by Watch when the preferences do not ask
// for reviews on save.
var ErrRunOnSaveDisabled = errors.New("runOnSave is disabled")

// WatchService reviews supported files as they are saved.
type WatchService struct {
	watcher  domain.ChangeWatcher
	detector domain.LanguageDetector
	files    *FilesService
	logger   *zap.Logger
}

func NewWatchService(watcher domain.ChangeWatcher, detector domain.LanguageDetector, files *FilesService, logger *zap.Logger) *WatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchService{watcher: watcher, detector: detector, files: files, logger: logger}
}

// Watch blocks until ctx is cancelled, calling onReview after each saved
// file under root has been reviewed. Files without a review pipeline are
// ignored.
func (s *WatchService) Watch(ctx context.Context, root string, prefs domain.Preferences, onReview func(domain.FileReview)) error {
	if !prefs.RunOnSave {
		return ErrRunOnSaveDisabled
	}
	return s.watcher.Watch(ctx, root, func(path string) {
		lang := s.detector.Detect(path)
		if !lang.Supported() {
			return
		}
		s.logger.Debug("file saved", zap.String("file", path))
		onReview(s.files.ReviewFile(ctx, domain.SourceFile{Path: path, Language: lang}, prefs))
	})
}
