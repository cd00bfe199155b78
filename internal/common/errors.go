// Package common defines sentinel errors and small helpers shared across the
// storefront packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session errors. Their messages are shown to the user as-is.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnexpected         = errors.New("unexpected error, please try again")

	// CLI/service guards.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")

	// Storage wiring.
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrUnknownHasher  = errors.New("unknown password hasher")

	// Snapshot fetching.
	ErrUnsupportedSnapshotURL = errors.New("unsupported snapshot url")
)
