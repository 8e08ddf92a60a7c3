package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/frontaudit/internal/model"
)

var (
	// commentPattern matches the shortest span between "<!--" and "-->".
	// (?s) lets comment bodies span multiple lines.
	commentPattern = regexp.MustCompile(`(?s)<!--(.*?)-->`)

	// invisiblePattern matches inline invisibility techniques.
	// Matching is case-sensitive, with any whitespace around the colon.
	invisiblePattern = regexp.MustCompile(`display\s*:\s*none|opacity\s*:\s*0|visibility\s*:\s*hidden`)

	// insecureIframePattern matches an iframe tag followed anywhere later by http://.
	insecureIframePattern = regexp.MustCompile(`(?s)<iframe.*http://`)

	// insecureScriptPattern matches a script tag followed anywhere later by http://.
	insecureScriptPattern = regexp.MustCompile(`(?s)<script.*http://`)
)

// AnalyzeMarkup inspects HTML-like text.
//
// Checks run in a fixed order and each appends its findings before the next
// one runs:
//  1. one finding per HTML comment, left to right
//  2. one finding with the total count of invisibility matches
//  3. one warning for an iframe loaded over HTTP (only if "iframe" occurs)
//  4. one warning for a script loaded over HTTP
func AnalyzeMarkup(content string) []model.Finding {
	findings := make([]model.Finding, 0)

	findings = append(findings, checkComments(content)...)
	findings = append(findings, checkInvisibleElements(content)...)
	findings = append(findings, checkInsecureIframe(content)...)
	findings = append(findings, checkInsecureScript(content)...)

	return findings
}

// checkComments reports every HTML comment with its trimmed body.
func checkComments(content string) []model.Finding {
	findings := make([]model.Finding, 0)

	for _, match := range commentPattern.FindAllStringSubmatch(content, -1) {
		body := strings.TrimSpace(match[1])
		findings = append(findings, model.NewFinding(
			model.TypeHTMLComment,
			fmt.Sprintf("Comment found: `%s`, manual review recommended", body),
			body,
		))
	}

	return findings
}

// checkInvisibleElements reports the total number of invisibility matches.
// The count is over non-overlapping matches of the whole alternation, so the
// order of the alternatives does not change it.
func checkInvisibleElements(content string) []model.Finding {
	count := len(invisiblePattern.FindAllStringIndex(content, -1))
	if count == 0 {
		return nil
	}

	return []model.Finding{
		model.NewFinding(
			model.TypeInvisibleElements,
			fmt.Sprintf("Invisible elements detected (%d). Review them.", count),
			strconv.Itoa(count),
		),
	}
}

// checkInsecureIframe reports an iframe that loads a resource over HTTP.
// The regex is only tried when the text mentions "iframe" at all, so an
// unrelated http:// elsewhere never triggers it.
func checkInsecureIframe(content string) []model.Finding {
	if !strings.Contains(content, "iframe") {
		return nil
	}
	if !insecureIframePattern.MatchString(content) {
		return nil
	}

	return []model.Finding{
		model.NewFinding(model.TypeInsecureIframe, "Iframe loading an insecure resource over HTTP.", ""),
	}
}

// checkInsecureScript reports an external script loaded over HTTP.
func checkInsecureScript(content string) []model.Finding {
	if !insecureScriptPattern.MatchString(content) {
		return nil
	}

	return []model.Finding{
		model.NewFinding(model.TypeInsecureScript, "Insecure external script loaded over HTTP.", ""),
	}
}
