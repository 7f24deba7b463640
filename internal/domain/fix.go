package domain

// AppliedFix records one literal line substitution written to a file.
type AppliedFix struct {
	Line   int    `json:"line"`
	RuleID string `json:"rule_id"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// FixPlan is the result of applying the fixes carried by diagnostics.
type FixPlan struct {
	Path    string       `json:"path"`
	DryRun  bool         `json:"dry_run"`
	Applied []AppliedFix `json:"applied"`
	Skipped int          `json:"skipped"`
}
