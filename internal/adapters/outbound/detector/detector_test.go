package detector_test

import (
	"testing"

	"github.com/openkraft/codereview/internal/adapters/outbound/detector"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want domain.Language
	}{
		{"app.py", domain.LanguagePython},
		{"src/gui.PYW", domain.LanguagePython},
		{"index.js", domain.LanguageJavaScript},
		{"component.jsx", domain.LanguageJavaScript},
		{"esm/module.mjs", domain.LanguageJavaScript},
		{"config.cjs", domain.LanguageJavaScript},
		{"server.ts", domain.LanguageTypeScript},
		{"App.tsx", domain.LanguageTypeScript},
		{"main.go", "go"},
		{"Main.java", "java"},
		{"notes.md", "md"},
		{"Makefile", "unknown"},
	}
	d := detector.New()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.path))
		})
	}
}

func TestDetect_SupportedOnlyForReviewLanguages(t *testing.T) {
	d := detector.New()
	assert.True(t, d.Detect("a.py").Supported())
	assert.True(t, d.Detect("a.ts").Supported())
	assert.False(t, d.Detect("a.go").Supported())
}
