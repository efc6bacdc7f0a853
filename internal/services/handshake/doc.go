// Package handshake implements the key-exchange state machine: pending
// requests that the designated responder explicitly accepts or rejects.
// It enforces the authorization and one-pending-per-pair rules and
// appends the lifecycle event log on every transition.
package handshake
