package domain

import "time"

// MessageKind distinguishes the two record shapes the message log holds.
type MessageKind string

const (
	// KindSealed is an end-to-end encrypted envelope.
	KindSealed MessageKind = "sealed"

	// KindFile is a file reference. File messages carry no cryptographic
	// material and bypass the envelope entirely.
	KindFile MessageKind = "file"
)

// WireMessage is the envelope exactly as it crosses the wire and is
// persisted verbatim by the server. Binary fields are standard base64.
//
// For sealed messages the fields are only ever populated from a
// protocol/envelope.Sealed value; nothing else in the client constructs
// one, so a stored sealed message has always been through the real
// encrypt path.
type WireMessage struct {
	Kind       MessageKind `json:"kind"`
	SenderID   string      `json:"sender"`
	ReceiverID string      `json:"receiver"`

	Ciphertext string `json:"ciphertext,omitempty"`
	Nonce      string `json:"nonce,omitempty"`
	Salt       string `json:"salt,omitempty"`

	ConfirmNonce string `json:"confirmNonce,omitempty"`
	ConfirmTag   string `json:"confirmTag,omitempty"`
	Signature    string `json:"signature,omitempty"`

	// Counter is the strictly-increasing replay counter for the ordered
	// (sender, receiver) pair. Gaps are tolerated, duplicates are not.
	Counter uint64 `json:"counter"`

	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// StoredMessage is a persisted message as returned by the server,
// enriched with display identities for both ends.
type StoredMessage struct {
	WireMessage

	ID               string    `json:"id"`
	SenderUsername   string    `json:"senderUsername"`
	ReceiverUsername string    `json:"receiverUsername"`
	Timestamp        time.Time `json:"timestamp"`
}

// DecryptedMessage is a history entry after local decryption.
type DecryptedMessage struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Plaintext string    `json:"plaintext,omitempty"`
	FileURL   string    `json:"fileUrl,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Verified  bool      `json:"verified"` // signature present and valid
	Timestamp time.Time `json:"timestamp"`
}
