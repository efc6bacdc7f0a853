package message

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"sealedchat/internal/crypto"
	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
	"sealedchat/internal/protocol/envelope"
)

// ErrNoSession indicates there is no stored session with the peer.
var ErrNoSession = errors.New("no session with peer; complete a key exchange first")

// Service sends and receives messages through the directory server.
//
// High-level flow:
//   - Send: allocate the replay counter, derive the sending key, seal the
//     plaintext with the envelope (binding from/to/counter as associated
//     data), sign, attach key confirmation, and post the wire envelope.
//   - History: fetch both directions, re-derive the key from each
//     envelope's salt, verify signatures where possible, and decrypt.
type Service struct {
	idStore   domain.IdentityStore
	sessions  domain.SessionService
	counters  domain.CounterStore
	creds     domain.CredentialStore
	directory domain.DirectoryClient
}

// New constructs a message service with the given stores and directory client.
func New(
	idStore domain.IdentityStore,
	sessions domain.SessionService,
	counters domain.CounterStore,
	creds domain.CredentialStore,
	directory domain.DirectoryClient,
) *Service {
	return &Service{
		idStore:   idStore,
		sessions:  sessions,
		counters:  counters,
		creds:     creds,
		directory: directory,
	}
}

// Send encrypts plaintext for peerID and posts the envelope.
func (s *Service) Send(ctx context.Context, passphrase, peerID string, plaintext []byte) (domain.StoredMessage, error) {
	me, err := s.self()
	if err != nil {
		return domain.StoredMessage{}, err
	}
	if _, ok, err := s.sessions.Get(peerID); err != nil {
		return domain.StoredMessage{}, err
	} else if !ok {
		return domain.StoredMessage{}, ErrNoSession
	}

	counter, err := s.counters.NextCounter(peerID)
	if err != nil {
		return domain.StoredMessage{}, err
	}

	key, salt, err := s.sessions.SendingKey(passphrase, peerID)
	if err != nil {
		return domain.StoredMessage{}, err
	}
	defer crypto.Wipe(key)

	aad := envelope.AssociatedData{From: me.UserID, To: peerID, Counter: counter}
	sealed, err := envelope.Seal(key, salt, plaintext, aad)
	if err != nil {
		return domain.StoredMessage{}, err
	}

	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.StoredMessage{}, err
	}
	signingKey, err := id.SigningKey()
	if err != nil {
		return domain.StoredMessage{}, err
	}
	if err := sealed.Sign(signingKey); err != nil {
		return domain.StoredMessage{}, err
	}
	if err := sealed.AttachConfirmation(key); err != nil {
		return domain.StoredMessage{}, err
	}

	return s.directory.SendMessage(ctx, sealed.Wire(me.UserID, peerID))
}

// SendFile uploads a file for peerID. File messages carry a reference
// only and bypass the envelope; they are a separate record kind.
func (s *Service) SendFile(ctx context.Context, peerID, path string) (domain.StoredMessage, error) {
	return s.directory.SendFile(ctx, peerID, path)
}

// History fetches the conversation with peerID and decrypts it locally.
// A sealed message that fails authentication aborts the whole fetch; a
// partial or garbled plaintext is never returned.
func (s *Service) History(ctx context.Context, passphrase, peerID string) ([]domain.DecryptedMessage, error) {
	me, err := s.self()
	if err != nil {
		return nil, err
	}

	msgs, err := s.directory.History(ctx, peerID)
	if err != nil {
		return nil, err
	}

	rec, ok, err := s.sessions.Get(peerID)
	if err != nil {
		return nil, err
	}
	if !ok && hasSealed(msgs) {
		return nil, ErrNoSession
	}

	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Kind == domain.KindFile {
			out = append(out, domain.DecryptedMessage{
				From:      m.SenderUsername,
				To:        m.ReceiverUsername,
				FileURL:   m.FileURL,
				FileName:  m.FileName,
				Timestamp: m.Timestamp,
			})
			continue
		}

		salt, err := base64.StdEncoding.DecodeString(m.Salt)
		if err != nil {
			return nil, envelope.ErrAuthentication
		}
		key, err := s.sessions.DeriveKey(passphrase, peerID, salt)
		if err != nil {
			return nil, err
		}

		aad := envelope.AssociatedData{From: m.SenderID, To: m.ReceiverID, Counter: m.Counter}
		pt, err := envelope.Open(key, m.WireMessage, aad)
		if err != nil {
			crypto.Wipe(key)
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}

		out = append(out, domain.DecryptedMessage{
			From:      m.SenderUsername,
			To:        m.ReceiverUsername,
			Plaintext: string(pt),
			Verified:  s.verify(id, rec, me.UserID, m, aad),
			Timestamp: m.Timestamp,
		})
		crypto.Wipe(key)
	}
	return out, nil
}

// verify checks the envelope signature with whichever verification key
// matches the sender: ours for outgoing, the peer's published signing
// key for incoming.
func (s *Service) verify(id domain.Identity, rec domain.SessionRecord, myID string, m domain.StoredMessage, aad envelope.AssociatedData) bool {
	if m.SenderID == myID {
		priv, err := id.SigningKey()
		if err != nil {
			return false
		}
		return envelope.VerifySignature(&priv.PublicKey, m.WireMessage, aad)
	}
	if rec.PeerSigning == nil {
		return false
	}
	pub, err := jwk.ImportSigningPublic(*rec.PeerSigning)
	if err != nil {
		return false
	}
	return envelope.VerifySignature(pub, m.WireMessage, aad)
}

func (s *Service) self() (domain.Credentials, error) {
	c, ok, err := s.creds.LoadCredentials()
	if err != nil {
		return domain.Credentials{}, err
	}
	if !ok {
		return domain.Credentials{}, errors.New("not logged in; run login first")
	}
	return c, nil
}

func hasSealed(msgs []domain.StoredMessage) bool {
	for _, m := range msgs {
		if m.Kind == domain.KindSealed {
			return true
		}
	}
	return false
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
