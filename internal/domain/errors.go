package domain

import "errors"

// Error taxonomy shared by the coordinator, the stores and the HTTP layer.
// The server maps each sentinel to exactly one status code so the same
// failure always looks the same on the wire.
var (
	// ErrValidation covers missing or malformed request fields. Raised
	// before any mutation.
	ErrValidation = errors.New("invalid request")

	// ErrUnauthorized covers actors operating on resources they do not
	// own or are not the addressee of. Deliberately distinct from
	// ErrNotFound so the authorization boundary stays visible.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConflict covers duplicate pending key-exchange requests.
	ErrConflict = errors.New("request already pending")

	// ErrReplay covers a (sender, receiver, counter) triple that was
	// already accepted. Replays are rejected loudly, never dropped.
	ErrReplay = errors.New("replay detected")

	// ErrNotFound covers lookups of records that do not exist.
	ErrNotFound = errors.New("not found")
)
