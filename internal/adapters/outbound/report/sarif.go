package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/openkraft/codereview/internal/domain"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// WriteSARIF writes review results as a SARIF v2.1.0 log with one run.
func WriteSARIF(w io.Writer, version string, reviews []domain.FileReview) error {
	data, err := json.MarshalIndent(buildSARIF(version, reviews), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID            string             `json:"id"`
	DefaultConfig sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string           `json:"ruleId"`
	Level      string           `json:"level"`
	Message    sarifMessage     `json:"message"`
	Locations  []sarifLocation  `json:"locations"`
	Fixes      []sarifFix       `json:"fixes,omitempty"`
	Properties *sarifProperties `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

type sarifProperties struct {
	Confidence     string `json:"confidence,omitempty"`
	LLMExplanation string `json:"llmExplanation,omitempty"`
}

func buildSARIF(version string, reviews []domain.FileReview) sarifLog {
	results := []sarifResult{}
	var rules []sarifRule
	seen := make(map[string]bool)

	for _, fr := range reviews {
		for _, d := range fr.Diagnostics {
			ruleID := d.RuleID
			if ruleID == "" {
				ruleID = "unknown"
			}
			if !seen[ruleID] {
				seen[ruleID] = true
				rules = append(rules, sarifRule{ID: ruleID, DefaultConfig: sarifDefaultConfig{Level: severityToLevel(d.Severity)}})
			}

			result := sarifResult{
				RuleID:  ruleID,
				Level:   severityToLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(fr.Path)},
						Region:           sarifRegion{StartLine: max(d.Line, 1), StartColumn: max(d.Column, 1)},
					},
				}},
			}
			if d.Fix != "" {
				result.Fixes = []sarifFix{{Description: sarifMessage{Text: "Replace line with: " + d.Fix}}}
			}
			if d.Confidence != "" || d.LLMExplanation != "" {
				result.Properties = &sarifProperties{
					Confidence:     string(d.Confidence),
					LLMExplanation: d.LLMExplanation,
				}
			}
			results = append(results, result)
		}
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{Name: "codereview", Version: version, Rules: rules},
			},
			Results: results,
		}},
	}
}

// severityToLevel maps diagnostic severity to a SARIF level.
func severityToLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
