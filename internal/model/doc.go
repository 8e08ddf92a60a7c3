// Package model defines the core data structures used throughout frontaudit.
//
// This package contains the following main types:
//   - AnalysisTarget: One file slated for analysis and its content type
//   - Finding: A single observation produced by an analyzer
//   - FileReport: The findings for one analyzed file
//   - AuditReport: The aggregate output of one audit run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The analyzer, audit, report and database packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
