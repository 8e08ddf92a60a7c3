package model

import "time"

// TimestampLayout is the layout of the run timestamp label.
// It is embedded in report file names, so it avoids ':' and spaces.
const TimestampLayout = "2006-01-02_15-04-05"

// FileReport associates one analyzed target with its findings.
// An empty Findings slice means the file had no relevant findings.
type FileReport struct {
	// Target is the analyzed file.
	Target AnalysisTarget `json:"target"`

	// Findings are ordered by discovery within the file.
	Findings []Finding `json:"findings"`

	// Digest is the SHA3-256 hex digest of the decoded content.
	// It lets history comparison tell edited files from unchanged ones.
	Digest string `json:"digest,omitempty"`
}

// HasFindings returns true if the file produced any finding.
func (r FileReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// WarningCount returns the number of warning findings for the file.
func (r FileReport) WarningCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.IsWarning() {
			count++
		}
	}
	return count
}

// AuditReport is the output of one audit run.
//
// Design decision: The report keeps only what one run produced. Nothing is
// carried over between runs, so two invocations never influence each other.
type AuditReport struct {
	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp"`

	// Files holds one report per processed target, in declared target order.
	// Targets whose file does not exist have no entry.
	Files []FileReport `json:"files"`
}

// NewAuditReport creates an empty report stamped with the given time.
func NewAuditReport(timestamp time.Time) *AuditReport {
	return &AuditReport{
		Timestamp: timestamp,
		Files:     make([]FileReport, 0),
	}
}

// Add appends a file report.
func (r *AuditReport) Add(fr FileReport) {
	r.Files = append(r.Files, fr)
}

// TimestampLabel returns the run timestamp formatted as YYYY-MM-DD_HH-MM-SS.
func (r *AuditReport) TimestampLabel() string {
	return r.Timestamp.Format(TimestampLayout)
}

// TotalFindings returns the number of findings across all files.
func (r *AuditReport) TotalFindings() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Findings)
	}
	return total
}

// WarningCount returns the number of warning findings across all files.
func (r *AuditReport) WarningCount() int {
	total := 0
	for _, f := range r.Files {
		total += f.WarningCount()
	}
	return total
}

// InfoCount returns the number of informational findings across all files.
func (r *AuditReport) InfoCount() int {
	return r.TotalFindings() - r.WarningCount()
}

// HasFindings returns true if any file produced a finding.
func (r *AuditReport) HasFindings() bool {
	return r.TotalFindings() > 0
}

// File returns the report for the named target, or nil if it was not processed.
func (r *AuditReport) File(name string) *FileReport {
	for i := range r.Files {
		if r.Files[i].Target.Name == name {
			return &r.Files[i]
		}
	}
	return nil
}
