// Package database stores audit run history in SQLite.
//
// HistoryDB keeps one row per finished run in frontaudit.db: the audited
// input directory, the run time, a warning/info summary and the full report
// as JSON. The history and compare commands read it back.
//
// The driver is modernc.org/sqlite, which needs no cgo. Each run still
// produces its own report file; the database only holds copies.
package database
