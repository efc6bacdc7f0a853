package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

func testRecord() jwk.Record {
	return jwk.Record{
		Kty:    "EC",
		Crv:    "P-256",
		X:      "eA",
		Y:      "eQ",
		KeyOps: []string{"deriveBits", "deriveKey"},
	}
}

func TestExchangeModel_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	responder := testRecord()
	req := domain.KeyExchangeRequest{
		ID:                 "req-1",
		InitiatorID:        "alice",
		ResponderID:        "bob",
		InitiatorAgreement: testRecord(),
		ResponderAgreement: &responder,
		Status:             domain.StatusAccepted,
		Events: []domain.ExchangeEvent{
			{At: now, Event: domain.EventRequestCreated, By: "alice"},
			{At: now, Event: domain.EventAccepted, By: "bob"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	got := fromExchangeModel(toExchangeModel(req))
	require.Equal(t, req.ID, got.ID)
	require.Equal(t, req.Status, got.Status)
	require.Equal(t, req.InitiatorAgreement, got.InitiatorAgreement)
	require.Nil(t, got.InitiatorSigning)
	require.NotNil(t, got.ResponderAgreement)
	require.Equal(t, responder, *got.ResponderAgreement)
	require.Len(t, got.Events, 2)
	require.Equal(t, domain.EventAccepted, got.Events[1].Event)
	require.Equal(t, "bob", got.Events[1].By)
}

func TestMessageModel_RoundTrip(t *testing.T) {
	ts := time.Now().UTC()
	msg := domain.WireMessage{
		Kind:         domain.KindSealed,
		SenderID:     "alice",
		ReceiverID:   "bob",
		Ciphertext:   "Y3Q=",
		Nonce:        "bm9uY2U=",
		Salt:         "c2FsdA==",
		ConfirmNonce: "a2M=",
		ConfirmTag:   "dGFn",
		Signature:    "c2ln",
		Counter:      42,
	}

	stored := fromMessageModel(toMessageModel(msg, "msg-1", ts))
	require.Equal(t, "msg-1", stored.ID)
	require.Equal(t, ts, stored.Timestamp)
	require.Equal(t, msg, stored.WireMessage)
}

func TestMessageStore_CounterOutOfRange(t *testing.T) {
	// The storage-level guard rejects before any row is written.
	msg := domain.WireMessage{
		Kind:       domain.KindSealed,
		SenderID:   "alice",
		ReceiverID: "bob",
		Ciphertext: "Y3Q=",
		Nonce:      "bm9uY2U=",
		Salt:       "c2FsdA==",
		Counter:    uint64(math.MaxInt64) + 1,
	}
	_, err := NewMessageStore(nil).Insert(context.Background(), msg)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestMessageModel_FileMessage(t *testing.T) {
	msg := domain.WireMessage{
		Kind:       domain.KindFile,
		SenderID:   "alice",
		ReceiverID: "bob",
		FileURL:    "/uploads/abc.pdf",
		FileName:   "report.pdf",
	}
	stored := fromMessageModel(toMessageModel(msg, "msg-2", time.Now()))
	require.Equal(t, domain.KindFile, stored.Kind)
	require.Equal(t, "report.pdf", stored.FileName)
	require.Empty(t, stored.Ciphertext)
	require.Zero(t, stored.Counter)
}
