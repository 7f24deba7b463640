package domain

// Features reports which pipelines are active.
type Features struct {
	PythonReview     bool `json:"pythonReview"`
	JavaScriptReview bool `json:"javascriptReview"`
	SecurityScan     bool `json:"securityScan"`
	LLMEnabled       bool `json:"llmEnabled"`
}

// Status is the health report returned by the status operation. Tools maps
// each adapter id to whether its binary was found.
type Status struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Features Features        `json:"features"`
	Tools    map[string]bool `json:"tools"`
}
