package analyzer

import (
	"strings"

	"github.com/nao1215/frontaudit/internal/model"
)

// evalCall is the call form of eval. The bare identifier is not reported.
const evalCall = "eval("

// AnalyzeScript inspects JS-like text.
func AnalyzeScript(content string) []model.Finding {
	findings := make([]model.Finding, 0)

	if strings.Contains(content, evalCall) {
		findings = append(findings, model.NewFinding(
			model.TypeDynamicCodeEval,
			"Use of `eval()` detected, it may be unsafe.",
			evalCall,
		))
	}

	return findings
}
