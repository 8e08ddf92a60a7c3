package analyzer

import "github.com/nao1215/frontaudit/internal/model"

// Func analyzes the text of one file and returns its findings.
type Func func(content string) []model.Finding

// ForType returns the analyzer for a content type.
// Unrecognized types get None, which never reports anything.
func ForType(t model.ContentType) Func {
	switch t {
	case model.ContentMarkup:
		return AnalyzeMarkup
	case model.ContentStylesheet:
		return AnalyzeStylesheet
	case model.ContentScript:
		return AnalyzeScript
	default:
		return None
	}
}

// Analyze runs the analyzer matching the target type against content.
func Analyze(target model.AnalysisTarget, content string) []model.Finding {
	return ForType(target.Type)(content)
}

// None is the analyzer for unrecognized files. It always returns an empty slice.
func None(string) []model.Finding {
	return make([]model.Finding, 0)
}
