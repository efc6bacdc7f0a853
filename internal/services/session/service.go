package session

import (
	"context"
	"fmt"
	"time"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
	"sealedchat/internal/protocol/agreement"
)

// Service turns completed handshakes into session records and re-derives
// session keys on demand.
//
// A session record holds only the peer's public material and our sending
// salt. The symmetric key is reconstructed from (our private agreement
// key, the peer's public agreement key, a salt) every time it is needed
// and exists only in memory. There is no ambient current-session state;
// every caller names the peer explicitly.
type Service struct {
	idStore      domain.IdentityStore
	sessionStore domain.SessionStore
	directory    domain.DirectoryClient
}

// New constructs a session service with the given stores and directory client.
func New(idStore domain.IdentityStore, sessionStore domain.SessionStore, directory domain.DirectoryClient) *Service {
	return &Service{
		idStore:      idStore,
		sessionStore: sessionStore,
		directory:    directory,
	}
}

// EstablishFromAccept records a session on the responder side. The
// initiator's public material comes straight from the accept hand-off.
func (s *Service) EstablishFromAccept(peer domain.UserSummary, initiatorAgreement jwk.Record, initiatorSigning *jwk.Record) error {
	if err := initiatorAgreement.Validate(jwk.KindAgreementPublic); err != nil {
		return err
	}
	rec := domain.SessionRecord{
		PeerID:         peer.ID,
		PeerUsername:   peer.Username,
		Role:           domain.RoleResponder,
		PeerAgreement:  initiatorAgreement,
		PeerSigning:    initiatorSigning,
		EstablishedUTC: time.Now().Unix(),
	}
	return s.sessionStore.SaveSession(peer.ID, rec)
}

// EstablishFromAccepted records a session on the initiator side by
// fetching the accepted request for the given peer from the ledger.
// The responder's signing key is pulled from the directory so incoming
// signatures can be verified.
func (s *Service) EstablishFromAccepted(ctx context.Context, peerID string) (domain.SessionRecord, error) {
	req, ok, err := s.directory.AcceptedRequest(ctx, peerID)
	if err != nil {
		return domain.SessionRecord{}, err
	}
	if !ok {
		return domain.SessionRecord{}, fmt.Errorf("no accepted key exchange with peer %s", peerID)
	}
	if req.ResponderAgreement == nil {
		return domain.SessionRecord{}, fmt.Errorf("accepted request %s carries no responder key", req.ID)
	}
	if err := req.ResponderAgreement.Validate(jwk.KindAgreementPublic); err != nil {
		return domain.SessionRecord{}, err
	}

	peer, err := s.directory.FetchUser(ctx, peerID)
	if err != nil {
		return domain.SessionRecord{}, err
	}

	signing := req.ResponderSigning
	if signing == nil {
		signing = peer.SigningKey
	}

	rec := domain.SessionRecord{
		PeerID:         peerID,
		PeerUsername:   peer.Username,
		Role:           domain.RoleInitiator,
		PeerAgreement:  *req.ResponderAgreement,
		PeerSigning:    signing,
		EstablishedUTC: time.Now().Unix(),
	}
	if err := s.sessionStore.SaveSession(peerID, rec); err != nil {
		return domain.SessionRecord{}, err
	}
	return rec, nil
}

// Get retrieves a stored session record for the given peer.
func (s *Service) Get(peerID string) (domain.SessionRecord, bool, error) {
	return s.sessionStore.LoadSession(peerID)
}

// List returns every established session record.
func (s *Service) List() ([]domain.SessionRecord, error) {
	return s.sessionStore.ListSessions()
}

// DeriveKey reconstructs the symmetric session key for a peer under the
// given salt.
func (s *Service) DeriveKey(passphrase, peerID string, salt []byte) ([]byte, error) {
	rec, ok, err := s.sessionStore.LoadSession(peerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no session with peer %s", peerID)
	}
	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	local, err := id.AgreementKey()
	if err != nil {
		return nil, err
	}
	return agreement.ResponderKey(local, rec.PeerAgreement, salt)
}

// SendingKey derives the key for our outgoing envelopes, generating and
// persisting the session's send salt on first use.
func (s *Service) SendingKey(passphrase, peerID string) (key, salt []byte, err error) {
	rec, ok, err := s.sessionStore.LoadSession(peerID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("no session with peer %s", peerID)
	}

	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return nil, nil, err
	}
	local, err := id.AgreementKey()
	if err != nil {
		return nil, nil, err
	}

	if len(rec.SendSalt) == 0 {
		key, salt, err = agreement.InitiatorKey(local, rec.PeerAgreement)
		if err != nil {
			return nil, nil, err
		}
		rec.SendSalt = salt
		if err := s.sessionStore.SaveSession(peerID, rec); err != nil {
			return nil, nil, err
		}
		return key, salt, nil
	}

	key, err = agreement.ResponderKey(local, rec.PeerAgreement, rec.SendSalt)
	if err != nil {
		return nil, nil, err
	}
	return key, rec.SendSalt, nil
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
