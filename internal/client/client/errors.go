package client

import "errors"

var (
	// ErrBootstrapFailed means the initial cookie-seeding GET failed.
	ErrBootstrapFailed = errors.New("session bootstrap failed")
	// ErrLoginFailed means the credential POST failed or was rejected.
	ErrLoginFailed = errors.New("login failed")
	// ErrNoAccount means the server returned no managed account.
	ErrNoAccount = errors.New("no cloud account available")

	ErrUnavailable      = errors.New("server unavailable")
	ErrServerLogic      = errors.New("server reported failure")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// IsAuthError reports whether err belongs to the authentication family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrBootstrapFailed) || errors.Is(err, ErrLoginFailed) || errors.Is(err, ErrNoAccount)
}
