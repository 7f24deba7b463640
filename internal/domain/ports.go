package domain

import "context"

// PatternChecker is a built-in heuristic scan over source text. An error
// means the checker itself failed, not that the source is malformed.
type PatternChecker interface {
	Check(ctx context.Context, code string) ([]Diagnostic, error)
}

// Linter wraps one external tool on the review path. Tool failures are
// neutralized inside the adapter according to its FallbackPolicy.
type Linter interface {
	Name() string
	Lint(ctx context.Context, code string) []Diagnostic
}

// SecurityScanner wraps one external tool on the security-scan path.
type SecurityScanner interface {
	Name() string
	Scan(ctx context.Context, code string, lang Language) []SecurityFinding
}

// CompletionRequest is one text-completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Completer is an external text-completion provider.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ConfigLoader loads the service configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}

// SourceFile is a file discovered for review.
type SourceFile struct {
	Path     string   `json:"path"`
	Language Language `json:"language"`
}

// SourceScanner walks a path and returns reviewable files.
type SourceScanner interface {
	Scan(path string) ([]SourceFile, error)
}

// LanguageDetector maps a file path to a language identifier.
type LanguageDetector interface {
	Detect(path string) Language
}

// ChangeLister lists files modified in a working tree.
type ChangeLister interface {
	IsGitRepo(path string) bool
	ChangedFiles(repoPath string) ([]string, error)
}

// ChangeWatcher reports files written under root until ctx is cancelled.
// onChange is called once per settled burst of writes to a path.
type ChangeWatcher interface {
	Watch(ctx context.Context, root string, onChange func(path string)) error
}
