// Package identity manages creation, encryption and loading of the local identity.
//
// It enforces passphrase policy, generates the usage-scoped ECDSA and ECDH
// key pairs, and persists them via the domain.IdentityStore. Generation is
// idempotent: existing keys are never regenerated.
package identity
