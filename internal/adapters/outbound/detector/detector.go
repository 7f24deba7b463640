package detector

import (
	"path/filepath"
	"strings"

	"github.com/openkraft/codereview/internal/domain"
)

// extLanguages maps file extensions to language identifiers. Only python,
// javascript and typescript have a review pipeline; the rest are named so the
// unsupported-language diagnostic can say what was found.
var extLanguages = map[string]domain.Language{
	".py":   domain.LanguagePython,
	".pyw":  domain.LanguagePython,
	".js":   domain.LanguageJavaScript,
	".jsx":  domain.LanguageJavaScript,
	".mjs":  domain.LanguageJavaScript,
	".cjs":  domain.LanguageJavaScript,
	".ts":   domain.LanguageTypeScript,
	".tsx":  domain.LanguageTypeScript,
	".mts":  domain.LanguageTypeScript,
	".cts":  domain.LanguageTypeScript,
	".go":   "go",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
}

// ExtensionDetector implements domain.LanguageDetector from file extensions.
type ExtensionDetector struct{}

func New() *ExtensionDetector {
	return &ExtensionDetector{}
}

// Detect returns the language for path. Unknown extensions yield the bare
// extension, or "unknown" when there is none.
func (d *ExtensionDetector) Detect(path string) domain.Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	if ext == "" {
		return "unknown"
	}
	return domain.Language(strings.TrimPrefix(ext, "."))
}
