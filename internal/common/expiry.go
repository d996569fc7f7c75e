package common

import (
	"errors"
	"strings"
)

// expiryMarkers are substrings that identify an expiry-class failure when the
// remote side reports it as plain text rather than a status we already mapped.
var expiryMarkers = []string{
	"jwt expired",
	"token expired",
	"unauthorized",
}

// IsExpiryErr reports whether err is an expiry-class error: an ErrTokenExpired
// or ErrUnauthorized sentinel, or any error whose message carries a known
// expiry marker. Expiry-class errors are recoverable exactly once via a
// credential refresh.
func IsExpiryErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrUnauthorized) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range expiryMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
