package errors

import (
	"net/url"
	"slices"
	"unicode"
)

// maxNodeIDLength bounds node identifiers accepted from clients.
const maxNodeIDLength = 2048

// ValidateNodeID validates a node identifier received from an untrusted
// client (HTTP, websocket). It rejects empty IDs, oversized IDs and control
// characters; it does not check that the node exists.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a connection URL and restricts its scheme to one of
// schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "URL %q has no host", rawURL)
	}
	if len(schemes) > 0 && !slices.Contains(schemes, u.Scheme) {
		return New(ErrCodeInvalidConfig, "URL scheme %q not allowed (want one of %v)", u.Scheme, schemes)
	}
	return nil
}
