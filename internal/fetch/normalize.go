package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL converts user input into a canonical, fetchable URL.
// Bare hosts get an https scheme, surrounding whitespace is trimmed,
// and the host is lowercased. Everything downstream, including the
// database site key, works with the normalized form.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyURL
	}

	// Users type "example.org" or "example.org/pricing"; assume https
	// when no scheme is present.
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidURL, raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidURL, raw)
	}

	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}
