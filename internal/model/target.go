package model

import "strings"

// ContentType is the kind of front-end artifact a target holds.
// It is inferred from the file name suffix.
type ContentType int

const (
	// ContentUnknown is any file whose suffix is not recognized.
	ContentUnknown ContentType = iota
	// ContentMarkup is an HTML document (.html).
	ContentMarkup
	// ContentStylesheet is a CSS stylesheet (.css).
	ContentStylesheet
	// ContentScript is a JavaScript source file (.js).
	ContentScript
)

// String returns the lower-case name of the content type.
func (c ContentType) String() string {
	switch c {
	case ContentMarkup:
		return "markup"
	case ContentStylesheet:
		return "stylesheet"
	case ContentScript:
		return "script"
	default:
		return "unknown"
	}
}

// ClassifyName returns the content type for a file name.
// Suffix matching is case-sensitive: "INDEX.HTML" is unknown.
func ClassifyName(name string) ContentType {
	switch {
	case strings.HasSuffix(name, ".html"):
		return ContentMarkup
	case strings.HasSuffix(name, ".css"):
		return ContentStylesheet
	case strings.HasSuffix(name, ".js"):
		return ContentScript
	default:
		return ContentUnknown
	}
}

// AnalysisTarget identifies one file slated for analysis.
type AnalysisTarget struct {
	// Name is the file path relative to the input root.
	Name string `json:"name"`

	// Type is the content type inferred from Name.
	Type ContentType `json:"type"`
}

// NewTarget creates an AnalysisTarget and classifies it by suffix.
func NewTarget(name string) AnalysisTarget {
	return AnalysisTarget{Name: name, Type: ClassifyName(name)}
}

// NewTargets creates targets for names, preserving their order.
func NewTargets(names ...string) []AnalysisTarget {
	targets := make([]AnalysisTarget, len(names))
	for i, name := range names {
		targets[i] = NewTarget(name)
	}
	return targets
}
