// Package audit runs the analyzers over a fixed list of targets.
//
// The Auditor fetches each target's bytes from a ContentProvider, decodes
// them permissively, routes the text to the analyzer for the target's content
// type, and collects the results into a model.AuditReport.
//
// Missing targets are skipped without error. Undecodable bytes are dropped
// rather than failing the run. Only unexpected read failures and context
// cancellation are returned to the caller.
//
// Design decision: The Auditor receives its target list and content source at
// construction time instead of reading global directories, so a run is fully
// described by its inputs. Tests use the in-memory MapProvider.
package audit
