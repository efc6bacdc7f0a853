package domain

import (
	"time"

	"sealedchat/internal/jwk"
)

// ExchangeStatus is the lifecycle state of a key-exchange request.
type ExchangeStatus string

const (
	StatusPending  ExchangeStatus = "pending"
	StatusAccepted ExchangeStatus = "accepted"

	// StatusComplete is reserved for a future confirmation step. No
	// transition in the coordinator reaches it today; it exists so stored
	// records stay forward-compatible.
	StatusComplete ExchangeStatus = "complete"
)

// ExchangeEvent is one entry of a request's append-only lifecycle log.
type ExchangeEvent struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
	By    string    `json:"by"`
}

// Names of lifecycle events recorded on a request.
const (
	EventRequestCreated = "request_created"
	EventAccepted       = "accepted"
)

// KeyExchangeRequest is the ledger record for one ordered
// (initiator, responder) handshake attempt.
type KeyExchangeRequest struct {
	ID          string `json:"id"`
	InitiatorID string `json:"initiatorId"`
	ResponderID string `json:"responderId"`

	InitiatorAgreement jwk.Record  `json:"initiatorAgreement"`
	InitiatorSigning   *jwk.Record `json:"initiatorSigning,omitempty"`

	ResponderAgreement *jwk.Record `json:"responderAgreement,omitempty"`
	ResponderSigning   *jwk.Record `json:"responderSigning,omitempty"`

	Status ExchangeStatus  `json:"status"`
	Events []ExchangeEvent `json:"events"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IncomingRequest is a pending request as shown to its responder,
// enriched with the initiator's display identity.
type IncomingRequest struct {
	KeyExchangeRequest
	InitiatorUsername string `json:"initiatorUsername"`
}

// AcceptResult is the hand-off returned when a responder accepts: both
// parties now hold each other's public agreement material and can derive
// the session key independently.
type AcceptResult struct {
	RequestID          string      `json:"requestId"`
	InitiatorAgreement jwk.Record  `json:"initiatorAgreement"`
	InitiatorSigning   *jwk.Record `json:"initiatorSigning,omitempty"`
	ResponderAgreement jwk.Record  `json:"responderAgreement"`
}
