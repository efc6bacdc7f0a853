package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
)

// keyConfirmLabel is mixed into every key-confirmation tag so the tag
// cannot be confused with any other HMAC use of the session key.
var keyConfirmLabel = []byte("KC")

// KeyConfirmation computes an HMAC-SHA256 proof-of-possession tag over a
// handshake nonce. Exchanging tags lets both peers check they derived the
// same session key without revealing it.
func KeyConfirmation(sessionKey, nonce []byte) []byte {
	mac := hmac.New(sha256.New, sessionKey)
	mac.Write(nonce)
	mac.Write(keyConfirmLabel)
	return mac.Sum(nil)
}

// VerifyKeyConfirmation checks a peer's confirmation tag in constant time.
func VerifyKeyConfirmation(sessionKey, nonce, tag []byte) bool {
	want := KeyConfirmation(sessionKey, nonce)
	return subtle.ConstantTimeCompare(want, tag) == 1
}
