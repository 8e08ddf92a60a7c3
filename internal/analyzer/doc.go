// Package analyzer provides the pattern checks run against front-end sources.
//
// # Purpose
//
// Each analyzer inspects the raw text of one file and returns the findings
// it discovered, in discovery order. Analyzers are pure functions: the same
// input text always yields the same findings, and no analyzer touches the
// file system or the network.
//
// # Design Philosophy
//
// The checks are intentionally shallow. They look for substrings and regular
// expression matches rather than parsing markup, stylesheets, or scripts into
// syntax trees. A malformed document never causes an error; an opening
// delimiter without its closing counterpart simply does not match.
//
// # Analyzers
//
//   - Markup (.html): HTML comments, invisibility techniques, iframes and
//     scripts loaded over plain HTTP
//   - Stylesheet (.css): the ads_hidden class
//   - Script (.js): calls to eval()
//
// # Usage
//
//	analyze := analyzer.ForType(target.Type)
//	findings := analyze(content)
package analyzer
