package domain

import (
	"context"

	"sealedchat/internal/jwk"
)

// ---------- client-side stores ----------

// IdentityStore persists your long-term identity keys, encrypted at rest.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string) (Identity, error)

	// HasIdentity reports whether keys already exist locally. Generation
	// is idempotent: existing keys are never regenerated.
	HasIdentity() (bool, error)
}

// SessionStore persists established sessions, one per peer.
type SessionStore interface {
	SaveSession(peerID string, rec SessionRecord) error
	LoadSession(peerID string) (SessionRecord, bool, error)
	ListSessions() ([]SessionRecord, error)
}

// CounterStore allocates the strictly-increasing replay counter for each
// ordered (us, peer) pair.
type CounterStore interface {
	NextCounter(peerID string) (uint64, error)
}

// CredentialStore caches the directory login token between invocations.
type CredentialStore interface {
	SaveCredentials(c Credentials) error
	LoadCredentials() (Credentials, bool, error)
}

// ---------- client-to-server boundary ----------

// DirectoryClient is how the client talks to the directory/ledger server.
type DirectoryClient interface {
	Signup(ctx context.Context, username, email, password string, signing, agreement jwk.Record) error
	Login(ctx context.Context, username, password string) (Credentials, error)

	SetToken(token string)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	FetchUser(ctx context.Context, id string) (User, error)

	CreateRequest(ctx context.Context, responderID string, agreement jwk.Record, signing *jwk.Record) (string, error)
	IncomingRequests(ctx context.Context) ([]IncomingRequest, error)
	AcceptedRequest(ctx context.Context, responderID string) (KeyExchangeRequest, bool, error)
	AcceptRequest(ctx context.Context, requestID string, agreement jwk.Record, signing *jwk.Record) (AcceptResult, error)
	RejectRequest(ctx context.Context, requestID string) error

	SendMessage(ctx context.Context, msg WireMessage) (StoredMessage, error)
	SendFile(ctx context.Context, receiverID, path string) (StoredMessage, error)
	History(ctx context.Context, peerID string) ([]StoredMessage, error)
}

// ---------- client-side services ----------

// IdentityService manages the long-term keys.
type IdentityService interface {
	// Generate creates and stores identity keys if none exist yet.
	// Returns the identity, its fingerprint, and whether it was created
	// now (false means keys already existed and were left untouched).
	Generate(passphrase string) (Identity, Fingerprint, bool, error)
	Load(passphrase string) (Identity, error)
	Fingerprint(passphrase string) (Fingerprint, error)
}

// SessionService establishes sessions from completed handshakes and
// re-derives their keys on demand.
type SessionService interface {
	// EstablishFromAccept records a session on the responder side, from
	// the hand-off an accept returns.
	EstablishFromAccept(peer UserSummary, initiatorAgreement jwk.Record, initiatorSigning *jwk.Record) error

	// EstablishFromAccepted records a session on the initiator side by
	// fetching the accepted request for the given peer.
	EstablishFromAccepted(ctx context.Context, peerID string) (SessionRecord, error)

	Get(peerID string) (SessionRecord, bool, error)

	// List returns every established session record.
	List() ([]SessionRecord, error)

	// DeriveKey reconstructs the symmetric session key for a peer under
	// the given salt. Both sides of a pair derive bit-identical keys.
	DeriveKey(passphrase, peerID string, salt []byte) ([]byte, error)

	// SendingKey derives the key used for our outgoing envelopes,
	// creating the session's send salt on first use.
	SendingKey(passphrase, peerID string) (key, salt []byte, err error)
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	Send(ctx context.Context, passphrase, peerID string, plaintext []byte) (StoredMessage, error)
	SendFile(ctx context.Context, peerID, path string) (StoredMessage, error)
	History(ctx context.Context, passphrase, peerID string) ([]DecryptedMessage, error)
}

// ---------- server-side collaborators ----------

// ExchangeLedger stores key-exchange records. Insert must enforce the
// at-most-one-pending invariant per ordered pair atomically (duplicate
// inserts race-free under concurrency) and report ErrConflict.
type ExchangeLedger interface {
	Insert(ctx context.Context, req *KeyExchangeRequest) error
	FindByID(ctx context.Context, id string) (KeyExchangeRequest, error)
	FindPending(ctx context.Context, initiatorID, responderID string) (KeyExchangeRequest, bool, error)
	FindAccepted(ctx context.Context, initiatorID, responderID string) (KeyExchangeRequest, bool, error)
	ListPending(ctx context.Context, responderID string) ([]KeyExchangeRequest, error)
	Update(ctx context.Context, req KeyExchangeRequest) error
	Delete(ctx context.Context, id string) error
}

// UserDirectory stores directory entries and their password hashes.
type UserDirectory interface {
	Insert(ctx context.Context, u User, passwordHash string) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByLogin(ctx context.Context, usernameOrEmail string) (User, string, error)
	List(ctx context.Context) ([]UserSummary, error)
}

// MessageLog stores envelopes verbatim. Insert must reject a duplicate
// (sender, receiver, counter) triple for sealed messages with ErrReplay.
type MessageLog interface {
	Insert(ctx context.Context, msg WireMessage) (StoredMessage, error)
	History(ctx context.Context, userA, userB string) ([]StoredMessage, error)
}

// AuditLog is the fire-and-forget security event sink. Event never
// blocks and never fails the caller; it is not a source of protocol
// truth.
type AuditLog interface {
	Event(name string, details map[string]any)
}
