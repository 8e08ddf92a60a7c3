// Package log builds the slog loggers used by frontaudit.
//
// Every logger is wrapped in a SecureHandler. Audited files are third-party
// content, and a comment body such as `<!-- api_key=abc -->` ends up in debug
// output, so the handler masks credential-looking keys, values and inline
// assignments, and truncates long strings to DefaultMaxValueLen runes.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("comment found", "file", "index.html", "body", body)
package log
