package hootsuite

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthFailure means the token endpoint rejected a code exchange or refresh.
	ErrAuthFailure = errors.New("hootsuite: authorization failed")
	// ErrNoRefreshToken means a refresh was requested but nothing is stored.
	ErrNoRefreshToken = errors.New("hootsuite: no refresh token stored")
	// ErrAuthExpired is returned when the retry after a refresh is rejected again.
	ErrAuthExpired = errors.New("hootsuite: access token rejected after refresh")
	// ErrUploadTimeout means the media never reached READY within the poll budget.
	ErrUploadTimeout = errors.New("hootsuite: media not ready in time")
)

// TransportError describes a failed call to the provider: either the request
// never completed (Err set) or it came back with a non-2xx status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hootsuite %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("hootsuite %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unauthorized reports whether the failure signals an expired or invalid
// access token. Besides 401/403 the provider answers some expired tokens
// with a 400 carrying an oauth error code.
func (e *TransportError) Unauthorized() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		body := strings.ToLower(e.Body)
		for _, sig := range expiredTokenSignatures {
			if strings.Contains(body, sig) {
				return true
			}
		}
	}
	return false
}

var expiredTokenSignatures = []string{"invalid_token", "token_expired", "expired_token", "unauthorized"}

// IsUnauthorized reports whether err is a transport failure caused by the
// access token.
func IsUnauthorized(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Unauthorized()
}
