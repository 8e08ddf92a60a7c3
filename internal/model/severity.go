package model

// Severity represents how urgently a finding should be looked at.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo marks observations that deserve a manual look but are not
	// dangerous on their own. Examples: HTML comments, invisible elements.
	SeverityInfo Severity = iota

	// SeverityWarning marks patterns that are unsafe as written.
	// Examples: scripts or iframes loaded over plain HTTP, eval().
	SeverityWarning
)

// warningMarker is the leading marker used in rendered finding lines.
const warningMarker = "⚠️"

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Marker returns the text marker that prefixes findings of this severity.
// Informational findings carry no marker.
func (s Severity) Marker() string {
	if s == SeverityWarning {
		return warningMarker
	}
	return ""
}

// Finding type identifiers.
const (
	// TypeHTMLComment is an HTML comment left in markup.
	TypeHTMLComment = "html_comment"
	// TypeInvisibleElements is the use of CSS invisibility techniques in markup.
	TypeInvisibleElements = "invisible_elements"
	// TypeInsecureIframe is an iframe that loads a resource over HTTP.
	TypeInsecureIframe = "insecure_iframe"
	// TypeInsecureScript is an external script loaded over HTTP.
	TypeInsecureScript = "insecure_script"
	// TypeSuspiciousCSSClass is a stylesheet class commonly used to hide ads.
	TypeSuspiciousCSSClass = "suspicious_css_class"
	// TypeDynamicCodeEval is a call to eval() in a script.
	TypeDynamicCodeEval = "dynamic_code_eval"
)

// FindingInfo contains metadata about a finding type including severity
// and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping keeps severities consistent across analyzers.
var findingInfoMapping = map[string]FindingInfo{
	TypeHTMLComment: {
		Severity:       SeverityInfo,
		Recommendation: "Remove comments that are not meant to ship to visitors.",
	},
	TypeInvisibleElements: {
		Severity:       SeverityInfo,
		Recommendation: "Check that hidden elements do not carry injected links or content.",
	},
	TypeInsecureIframe: {
		Severity:       SeverityWarning,
		Recommendation: "Load embedded frames over HTTPS.",
	},
	TypeInsecureScript: {
		Severity:       SeverityWarning,
		Recommendation: "Load external scripts over HTTPS and pin them with Subresource Integrity.",
	},
	TypeSuspiciousCSSClass: {
		Severity:       SeverityInfo,
		Recommendation: "Confirm the class is not used to hide injected advertising.",
	},
	TypeDynamicCodeEval: {
		Severity:       SeverityWarning,
		Recommendation: "Replace eval() with explicit parsing such as JSON.parse.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Recommendation: "Investigate the finding and assess risk.",
	}
}
