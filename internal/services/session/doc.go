// Package session establishes and tracks per-peer sessions.
//
// It records the peer's public material after a handshake completes and
// re-derives the symmetric session key on demand; derived keys are never
// persisted and never held in process-wide state.
package session
