package analyzer

import (
	"strings"

	"github.com/nao1215/frontaudit/internal/model"
)

// suspiciousClass is a class name used by injected ad-hiding stylesheets.
const suspiciousClass = "ads_hidden"

// AnalyzeStylesheet inspects CSS-like text.
// It reports the suspicious class once, however many times it occurs.
func AnalyzeStylesheet(content string) []model.Finding {
	findings := make([]model.Finding, 0)

	if strings.Contains(content, suspiciousClass) {
		findings = append(findings, model.NewFinding(
			model.TypeSuspiciousCSSClass,
			"Suspicious class detected in CSS: `."+suspiciousClass+"`",
			"."+suspiciousClass,
		))
	}

	return findings
}
