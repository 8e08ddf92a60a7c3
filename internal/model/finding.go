package model

import "strings"

// Finding is a single observation reported by an analyzer.
// Findings are never mutated after creation.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Message is the human-readable observation without list or severity markers.
	Message string `json:"message"`

	// Value is the specific value found, e.g. a comment body or a match count.
	Value string `json:"value,omitempty"`
}

// NewFinding creates a finding whose severity comes from the finding type.
func NewFinding(findingType, message, value string) Finding {
	severity := GetSeverity(findingType)
	return Finding{
		Type:         findingType,
		Severity:     severity,
		SeverityText: severity.String(),
		Message:      message,
		Value:        value,
	}
}

// Text renders the finding as a single report line.
// Warnings carry a leading marker, e.g. "- ⚠️ Insecure external script loaded over HTTP.".
func (f Finding) Text() string {
	var sb strings.Builder
	sb.WriteString("- ")
	if marker := f.Severity.Marker(); marker != "" {
		sb.WriteString(marker)
		sb.WriteString(" ")
	}
	sb.WriteString(f.Message)
	return sb.String()
}

// Recommendation returns the remediation advice for the finding type.
func (f Finding) Recommendation() string {
	return GetFindingInfo(f.Type).Recommendation
}

// IsWarning reports whether the finding is a warning.
func (f Finding) IsWarning() bool {
	return f.Severity == SeverityWarning
}
