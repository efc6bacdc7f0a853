// Package crypto exposes the minimal primitives used by sealedchat.
//
// Contents
//
//   - P-256 key generation, usage-scoped into agreement (ECDH) and signing
//     (ECDSA) pairs (GenerateAgreementKeypair, GenerateSigningKeypair)
//   - Raw shared-secret derivation and HKDF-SHA256 session-key expansion
//     (DeriveSharedBits, DeriveSessionKey, NewSalt)
//   - AES-256-GCM sealing with bound associated data (Seal, Open)
//   - ECDSA-SHA256 signatures over ciphertext material (Sign, Verify)
//   - HMAC-SHA256 key-confirmation tags (KeyConfirmation)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Every Open failure is reported as the single ErrAuthentication; callers
// never learn whether the key, nonce, ciphertext or associated data was at
// fault. Callers should treat returned secrets as sensitive and rely on
// Wipe when practical to reduce lifetime in memory.
package crypto
