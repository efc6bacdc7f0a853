// Package jwk implements the JSON key-interchange records used to publish
// and import public key material.
//
// The record shape is a closed tagged union over four variants:
// agreement-public, agreement-private, signing-public and signing-private.
// Imports validate a record against the variant the caller expects instead
// of trusting its structure, so agreement keys and signing keys can never
// be silently swapped.
package jwk
