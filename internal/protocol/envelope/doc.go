// Package envelope implements the per-message encryption envelope:
// AES-256-GCM with a fresh 96-bit nonce per call, canonically serialized
// associated data, an optional ECDSA signature over ciphertext||aad, and
// an optional HMAC key-confirmation tag.
//
// The Sealed type has unexported fields and no literal construction path;
// every sealed envelope that reaches the wire has been through Seal.
package envelope
