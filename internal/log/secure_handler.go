package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces any attribute value judged sensitive.
const MaskValue = "***REDACTED***"

// redactedKeys lists attribute keys whose values are always masked,
// compared case-insensitively. Site configurations carry session
// cookies and auth headers for pages behind a login, and those values
// travel through fetch options and pipeline logging.
var redactedKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"refresh_token": true,
	"private_key":   true,
	"privatekey":    true,
	"secret_key":    true,
	"secretkey":     true,

	// Session identifiers
	"session":    true,
	"session_id": true,
	"sessionid":  true,
	"sid":        true,
	"jsessionid": true,

	// Credentials
	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// keyFragments are substrings that mark a key as sensitive even when
// it is not an exact redactedKeys entry, e.g. "adminPassword".
// The bare fragment "key" is deliberately absent: it matches too much
// ("primary_key", "keyboard"), and the dangerous key-like names are
// already exact entries above.
var keyFragments = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private",
}

// redactedValuePatterns mask values that look like credentials no
// matter what key they were logged under.
var redactedValuePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Authorization header values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Opaque API keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// AWS access key IDs
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),

	// PEM private key blocks
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// SecureHandler is an slog.Handler that masks sensitive attributes
// before forwarding records to the wrapped handler.
//
// Design decision: We sanitize at the handler layer instead of asking
// call sites to pre-scrub because:
//  1. One choke point covers every logger derived from it
//  2. The wrapped handler is interchangeable (text, JSON, test buffer)
//  3. Callers keep using plain slog APIs
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps handler with attribute sanitization.
// A nil handler falls back to slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{next: handler}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rebuilds the record with masked attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

// WithAttrs masks the attributes, then attaches them to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitizeAttr(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup delegates the group to the wrapped handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

// sanitizeAttr masks an attribute when either its key or its string
// value looks sensitive. Groups are walked recursively so nested
// attributes get the same treatment.
func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		clean := make([]slog.Attr, len(members))
		for i, m := range members {
			clean[i] = sanitizeAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if sensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && sensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// sensitiveKey reports whether the key names a credential-bearing field.
func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if redactedKeys[lower] {
		return true
	}
	for _, fragment := range keyFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// sensitiveValue reports whether the value itself looks like a credential.
func sensitiveValue(value string) bool {
	for _, pattern := range redactedValuePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// logLevel maps the verbose flag to a log level. Quiet runs only
// surface warnings so report output stays readable.
func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger returns a text-format *slog.Logger writing to w with
// sensitive attributes masked. Suitable for slog.SetDefault.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel(verbose)})
	return slog.New(NewSecureHandler(handler))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for runs
// whose logs feed structured aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel(verbose)})
	return slog.New(NewSecureHandler(handler))
}
