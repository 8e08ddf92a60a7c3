package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLen is the rune length after which string attribute values
// are truncated. Comment bodies pulled out of markup can be arbitrarily long.
const DefaultMaxValueLen = 120

// truncationSuffix is appended to values shortened by the handler.
const truncationSuffix = "...(truncated)"

// sensitiveKeys contains attribute keys whose values are never logged.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"private_key":   true,
	"session":       true,
	"credentials":   true,
}

// sensitiveKeywords are substrings that mark a key as sensitive.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "private",
}

// sensitiveValuePatterns match whole values that look like secrets.
var sensitiveValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// inlineSecretPattern matches "name = value" assignments left behind in
// markup comments or scripts, e.g. `<!-- password: hunter2 -->`.
var inlineSecretPattern = regexp.MustCompile(
	`(?i)\b(password|passwd|pwd|secret|token|api[_-]?key)(\s*[:=]\s*)("[^"]*"|'[^']*'|[^\s"',;]+)`)

// SecureHandler wraps an slog.Handler. It masks attribute values whose key
// or content looks sensitive and truncates long string values before the
// record reaches the underlying handler.
type SecureHandler struct {
	handler     slog.Handler
	maxValueLen int
}

// HandlerOption configures a SecureHandler.
type HandlerOption func(*SecureHandler)

// WithMaxValueLen sets the truncation limit. A value below 1 disables truncation.
func WithMaxValueLen(n int) HandlerOption {
	return func(h *SecureHandler) {
		h.maxValueLen = n
	}
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler, opts ...HandlerOption) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler, maxValueLen: DefaultMaxValueLen}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, h.sanitizeString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes sanitized and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(out), maxValueLen: h.maxValueLen}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = h.sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if isSensitiveValue(v) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, h.sanitizeString(v))
	}
	return a
}

// sanitizeString masks inline secret assignments and truncates the result.
func (h *SecureHandler) sanitizeString(s string) string {
	s = inlineSecretPattern.ReplaceAllString(s, "${1}${2}"+MaskValue)
	return truncate(s, h.maxValueLen)
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitiveValuePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// truncate shortens s to limit runes, never splitting a multi-byte character.
func truncate(s string, limit int) string {
	if limit < 1 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + truncationSuffix
		}
		n++
	}
	return s
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger returns a text logger writing to w. Verbose mode enables
// debug records; otherwise only warnings and errors are emitted.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewSecureHandler(textHandler))
}

// NewSecureJSONLogger is like NewSecureLogger but emits JSON records.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewSecureHandler(jsonHandler))
}
