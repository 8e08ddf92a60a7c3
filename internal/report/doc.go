// Package report renders audit reports and saves them to disk.
//
// Three writers implement the Writer interface:
//   - MarkdownWriter: the default document, one section per audited file
//   - SimpleWriter: plain text for terminals and logs
//   - JSONWriter: the AuditReport as JSON for other tools
//
// Save picks a writer by format name and stores the result as
// auditoria_<YYYY-MM-DD_HH-MM-SS>.<ext> inside the report directory.
package report
