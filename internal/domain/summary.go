package domain

// SummaryBucket names a bucket of the security-scan summary. This vocabulary
// is disjoint from Severity.
type SummaryBucket string

const (
	BucketCritical SummaryBucket = "critical"
	BucketHigh     SummaryBucket = "high"
	BucketMedium   SummaryBucket = "medium"
	BucketLow      SummaryBucket = "low"
)

// ScanSummary counts findings per bucket.
type ScanSummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// SecurityReport is the output of the security-scan operation.
type SecurityReport struct {
	Findings []SecurityFinding `json:"findings"`
	Summary  ScanSummary       `json:"summary"`
}

// EmptySecurityReport has no findings and an all-zero summary.
func EmptySecurityReport() SecurityReport {
	return SecurityReport{Findings: []SecurityFinding{}}
}

// ComputeSummary counts findings whose severity literally equals a bucket
// name. No mapping table emits these values, so every bucket is zero for
// findings produced by this service.
func ComputeSummary(findings []SecurityFinding) ScanSummary {
	var s ScanSummary
	for _, f := range findings {
		switch SummaryBucket(f.Severity) {
		case BucketCritical:
			s.Critical++
		case BucketHigh:
			s.High++
		case BucketMedium:
			s.Medium++
		case BucketLow:
			s.Low++
		}
	}
	return s
}
