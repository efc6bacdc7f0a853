package handshake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

// Coordinator drives the request -> accept/reject lifecycle over the
// exchange ledger. It owns the authorization and duplication rules; the
// ledger owns atomicity of the underlying writes.
//
// Legal transitions:
//
//	(none) -> pending    createRequest, by the initiator
//	pending -> accepted  accept, by the designated responder only
//	pending -> (gone)    reject, by the designated responder only
//
// StatusComplete has no inbound transition here.
type Coordinator struct {
	ledger domain.ExchangeLedger
	users  domain.UserDirectory
	audit  domain.AuditLog
}

// New returns a coordinator over the given ledger and user directory.
func New(ledger domain.ExchangeLedger, users domain.UserDirectory, audit domain.AuditLog) *Coordinator {
	return &Coordinator{ledger: ledger, users: users, audit: audit}
}

// CreateRequest opens a pending key-exchange from initiator to responder,
// carrying the initiator's public agreement material. At most one pending
// request may exist per ordered pair; a duplicate is a conflict, not a
// merge. Nothing is written if validation fails.
func (c *Coordinator) CreateRequest(
	ctx context.Context,
	initiatorID, responderID string,
	agreementKey jwk.Record,
	signingKey *jwk.Record,
) (string, error) {
	if responderID == "" {
		return "", fmt.Errorf("%w: responder id required", domain.ErrValidation)
	}
	if responderID == initiatorID {
		return "", fmt.Errorf("%w: cannot send a key request to yourself", domain.ErrValidation)
	}
	if err := agreementKey.Validate(jwk.KindAgreementPublic); err != nil {
		return "", fmt.Errorf("%w: agreement key: %v", domain.ErrValidation, err)
	}
	if signingKey != nil {
		if err := signingKey.Validate(jwk.KindSigningPublic); err != nil {
			return "", fmt.Errorf("%w: signing key: %v", domain.ErrValidation, err)
		}
	}
	if _, err := c.users.FindByID(ctx, responderID); err != nil {
		return "", fmt.Errorf("%w: unknown responder", domain.ErrValidation)
	}

	if _, exists, err := c.ledger.FindPending(ctx, initiatorID, responderID); err != nil {
		return "", err
	} else if exists {
		return "", domain.ErrConflict
	}

	now := time.Now().UTC()
	req := domain.KeyExchangeRequest{
		ID:                 uuid.NewString(),
		InitiatorID:        initiatorID,
		ResponderID:        responderID,
		InitiatorAgreement: agreementKey,
		InitiatorSigning:   signingKey,
		Status:             domain.StatusPending,
		Events: []domain.ExchangeEvent{
			{At: now, Event: domain.EventRequestCreated, By: initiatorID},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The ledger enforces the one-pending-per-pair invariant atomically;
	// the lookup above only gives early, friendlier failures.
	if err := c.ledger.Insert(ctx, &req); err != nil {
		return "", err
	}

	c.audit.Event("KEY_REQUEST_SENT", map[string]any{
		"sender":   initiatorID,
		"receiver": responderID,
	})
	return req.ID, nil
}

// ListIncoming returns all pending requests addressed to responderID,
// each enriched with the initiator's display identity. Read-only.
func (c *Coordinator) ListIncoming(ctx context.Context, responderID string) ([]domain.IncomingRequest, error) {
	pending, err := c.ledger.ListPending(ctx, responderID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.IncomingRequest, 0, len(pending))
	for _, req := range pending {
		in := domain.IncomingRequest{KeyExchangeRequest: req}
		if u, err := c.users.FindByID(ctx, req.InitiatorID); err == nil {
			in.InitiatorUsername = u.Username
		}
		out = append(out, in)
	}
	return out, nil
}

// Accept stores the responder's public material on the record and flips
// it to accepted. Only the designated responder may accept, and only
// while the request is pending. On any failure the record is unchanged.
//
// The returned hand-off gives both parties each other's public agreement
// keys; from here each side derives the session key independently.
func (c *Coordinator) Accept(
	ctx context.Context,
	responderID, requestID string,
	agreementKey jwk.Record,
	signingKey *jwk.Record,
) (domain.AcceptResult, error) {
	if requestID == "" {
		return domain.AcceptResult{}, fmt.Errorf("%w: request id required", domain.ErrValidation)
	}
	if err := agreementKey.Validate(jwk.KindAgreementPublic); err != nil {
		return domain.AcceptResult{}, fmt.Errorf("%w: agreement key: %v", domain.ErrValidation, err)
	}
	if signingKey != nil {
		if err := signingKey.Validate(jwk.KindSigningPublic); err != nil {
			return domain.AcceptResult{}, fmt.Errorf("%w: signing key: %v", domain.ErrValidation, err)
		}
	}

	req, err := c.ledger.FindByID(ctx, requestID)
	if err != nil {
		return domain.AcceptResult{}, err
	}
	if req.ResponderID != responderID {
		return domain.AcceptResult{}, domain.ErrUnauthorized
	}
	if req.Status != domain.StatusPending {
		return domain.AcceptResult{}, domain.ErrConflict
	}

	req.ResponderAgreement = &agreementKey
	req.ResponderSigning = signingKey
	req.Status = domain.StatusAccepted
	req.Events = append(req.Events, domain.ExchangeEvent{
		At:    time.Now().UTC(),
		Event: domain.EventAccepted,
		By:    responderID,
	})
	req.UpdatedAt = time.Now().UTC()

	if err := c.ledger.Update(ctx, req); err != nil {
		return domain.AcceptResult{}, err
	}

	return domain.AcceptResult{
		RequestID:          req.ID,
		InitiatorAgreement: req.InitiatorAgreement,
		InitiatorSigning:   req.InitiatorSigning,
		ResponderAgreement: agreementKey,
	}, nil
}

// Reject deletes a pending request entirely. Only the designated
// responder may reject. No tombstone remains, so the same initiator may
// immediately re-request.
func (c *Coordinator) Reject(ctx context.Context, responderID, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("%w: request id required", domain.ErrValidation)
	}
	req, err := c.ledger.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ResponderID != responderID {
		return domain.ErrUnauthorized
	}
	if req.Status != domain.StatusPending {
		return domain.ErrConflict
	}
	return c.ledger.Delete(ctx, req.ID)
}

// AcceptedWith returns the accepted request between initiatorID and
// peerID, if one exists. Initiators poll this to learn the responder's
// public material.
func (c *Coordinator) AcceptedWith(ctx context.Context, initiatorID, peerID string) (domain.KeyExchangeRequest, bool, error) {
	return c.ledger.FindAccepted(ctx, initiatorID, peerID)
}
