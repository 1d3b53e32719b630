package line

import "errors"

var (
	// ErrNotConfigured is returned when channel credentials are missing
	ErrNotConfigured = errors.New("line login not configured")

	// ErrExchangeFailed is returned when the authorization code is rejected
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrProfileFailed is returned when the profile endpoint fails
	ErrProfileFailed = errors.New("profile request failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
