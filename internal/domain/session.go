package domain

import (
	"time"

	"sealedchat/internal/jwk"
)

// SessionRole records which side of the handshake we were.
type SessionRole string

const (
	RoleInitiator SessionRole = "initiator"
	RoleResponder SessionRole = "responder"
)

// SessionRecord is the persisted half of a session: the peer's public
// material and our sending salt. The symmetric key itself is never
// stored; it is re-derived on demand from the local private agreement
// key, the peer's public agreement key and a salt.
type SessionRecord struct {
	PeerID       string      `json:"peerId"`
	PeerUsername string      `json:"peerUsername"`
	Role         SessionRole `json:"role"`

	PeerAgreement jwk.Record  `json:"peerAgreement"`
	PeerSigning   *jwk.Record `json:"peerSigning,omitempty"`

	// SendSalt is the HKDF salt we attach to outgoing envelopes. It is
	// generated lazily on first send and reused for the session's life.
	SendSalt []byte `json:"sendSalt,omitempty"`

	EstablishedUTC int64 `json:"establishedUtc"`
}

// Established returns the session establishment time.
func (r SessionRecord) Established() time.Time {
	return time.Unix(r.EstablishedUTC, 0).UTC()
}
