package application

import (
	"github.com/openkraft/codereview/internal/domain"
)

// ToolInventory reports which external tool binaries are installed.
type ToolInventory interface {
	Availability() map[string]bool
}

// StatusService builds the health report.
type StatusService struct {
	version string
	llm     domain.LLMConfig
	tools   ToolInventory
}

func NewStatusService(version string, llm domain.LLMConfig, tools ToolInventory) *StatusService {
	return &StatusService{version: version, llm: llm, tools: tools}
}

// Status always reports healthy; individual tools degrade to fallbacks
// rather than making the service unhealthy.
func (s *StatusService) Status() domain.Status {
	st := domain.Status{
		Status:  "healthy",
		Version: s.version,
		Features: domain.Features{
			PythonReview:     true,
			JavaScriptReview: true,
			SecurityScan:     true,
			LLMEnabled:       s.llm.Configured(),
		},
		Tools: map[string]bool{},
	}
	if s.tools != nil {
		st.Tools = s.tools.Availability()
	}
	return st
}
