package domain

import "fmt"

// Language identifies the language of a review request.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// SupportedLanguages lists the languages with a review pipeline.
var SupportedLanguages = []Language{LanguagePython, LanguageJavaScript, LanguageTypeScript}

// IsJavaScript reports whether l is handled by the JavaScript pipeline.
func (l Language) IsJavaScript() bool {
	return l == LanguageJavaScript || l == LanguageTypeScript
}

// Supported reports whether l has a review pipeline.
func (l Language) Supported() bool {
	return l == LanguagePython || l.IsJavaScript()
}

// Preferences are caller-supplied feature flags.
type Preferences struct {
	SelectedLanguages []string `json:"selectedLanguages" yaml:"selected_languages"`
	EnableSecurity    bool     `json:"enableSecurity"    yaml:"enable_security"`
	EnableLLM         bool     `json:"enableLLM"         yaml:"enable_llm"`
	RunOnSave         bool     `json:"runOnSave"         yaml:"run_on_save"`
	LLMReview         bool     `json:"llmReview"         yaml:"llm_review"`
}

// DefaultPreferences enables security checks and nothing else.
func DefaultPreferences() Preferences {
	return Preferences{EnableSecurity: true}
}

// ReviewRequest is the input to both the review and security-scan operations.
// FilePath is a label only; the source is always Code.
type ReviewRequest struct {
	FilePath    string      `json:"filePath"`
	Language    Language    `json:"language"`
	Code        string      `json:"code"`
	Preferences Preferences `json:"preferences"`
}

// NewReviewRequest returns a request with default preferences.
func NewReviewRequest(filePath string, lang Language, code string) ReviewRequest {
	return ReviewRequest{
		FilePath:    filePath,
		Language:    lang,
		Code:        code,
		Preferences: DefaultPreferences(),
	}
}

// UnsupportedLanguage is the single diagnostic returned for a language
// without a review pipeline.
func UnsupportedLanguage(lang Language) Diagnostic {
	return Diagnostic{
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("Language '%s' is not yet supported for automated review", lang),
		Line:     1,
		Column:   1,
		RuleID:   RuleUnsupportedLanguage,
	}
}

// FileReview is the review result for one file on disk. Err is set when the
// review failed; Diagnostics is then empty.
type FileReview struct {
	Path        string       `json:"path"`
	Language    Language     `json:"language"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Err         string       `json:"error,omitempty"`
}

// FileScan is the security-scan result for one file on disk. Err is set when
// the file could not be read.
type FileScan struct {
	Path     string         `json:"path"`
	Language Language       `json:"language"`
	Report   SecurityReport `json:"report"`
	Err      string         `json:"error,omitempty"`
}
