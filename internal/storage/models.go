package storage

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

// userModel is the directory row. Published key records are stored as
// JSONB and treated as immutable once set.
type userModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	SigningKey   datatypes.JSON
	AgreementKey datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

// exchangeModel is a key-exchange ledger row. A partial unique index on
// (initiator_id, responder_id) WHERE status = 'pending' enforces the
// one-pending-per-pair invariant at the storage layer, closing the
// check-then-insert race.
type exchangeModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	InitiatorID string `gorm:"index;not null"`
	ResponderID string `gorm:"index;not null"`

	InitiatorAgreement datatypes.JSON `gorm:"not null"`
	InitiatorSigning   datatypes.JSON
	ResponderAgreement datatypes.JSON
	ResponderSigning   datatypes.JSON

	Status string         `gorm:"index;not null"`
	Events datatypes.JSON `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (exchangeModel) TableName() string { return "key_exchanges" }

// messageModel is a stored envelope, persisted verbatim. A partial
// unique index on (sender_id, receiver_id, counter) WHERE kind =
// 'sealed' is the replay defense of record.
type messageModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	SenderID   string `gorm:"index;not null"`
	ReceiverID string `gorm:"index;not null"`
	Kind       string `gorm:"not null"`

	Ciphertext   string
	Nonce        string
	Salt         string
	ConfirmNonce string
	ConfirmTag   string
	Signature    string

	// Counter holds the wire counter, which Insert bounds to the int64
	// range before the cast.
	Counter int64 `gorm:"not null"`

	FileURL  string
	FileName string

	Timestamp time.Time `gorm:"index;not null"`
}

func (messageModel) TableName() string { return "messages" }

// ---------- conversions ----------

func recordJSON(rec *jwk.Record) datatypes.JSON {
	if rec == nil {
		return nil
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	return b
}

func recordFromJSON(b datatypes.JSON) *jwk.Record {
	if len(b) == 0 {
		return nil
	}
	var rec jwk.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil
	}
	return &rec
}

func toExchangeModel(req domain.KeyExchangeRequest) exchangeModel {
	events, err := json.Marshal(req.Events)
	if err != nil {
		events = []byte("[]")
	}
	return exchangeModel{
		ID:                 req.ID,
		InitiatorID:        req.InitiatorID,
		ResponderID:        req.ResponderID,
		InitiatorAgreement: recordJSON(&req.InitiatorAgreement),
		InitiatorSigning:   recordJSON(req.InitiatorSigning),
		ResponderAgreement: recordJSON(req.ResponderAgreement),
		ResponderSigning:   recordJSON(req.ResponderSigning),
		Status:             string(req.Status),
		Events:             events,
		CreatedAt:          req.CreatedAt,
		UpdatedAt:          req.UpdatedAt,
	}
}

func fromExchangeModel(m exchangeModel) domain.KeyExchangeRequest {
	req := domain.KeyExchangeRequest{
		ID:          m.ID,
		InitiatorID: m.InitiatorID,
		ResponderID: m.ResponderID,
		Status:      domain.ExchangeStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if rec := recordFromJSON(m.InitiatorAgreement); rec != nil {
		req.InitiatorAgreement = *rec
	}
	req.InitiatorSigning = recordFromJSON(m.InitiatorSigning)
	req.ResponderAgreement = recordFromJSON(m.ResponderAgreement)
	req.ResponderSigning = recordFromJSON(m.ResponderSigning)
	_ = json.Unmarshal(m.Events, &req.Events)
	return req
}

func toMessageModel(msg domain.WireMessage, id string, ts time.Time) messageModel {
	return messageModel{
		ID:           id,
		SenderID:     msg.SenderID,
		ReceiverID:   msg.ReceiverID,
		Kind:         string(msg.Kind),
		Ciphertext:   msg.Ciphertext,
		Nonce:        msg.Nonce,
		Salt:         msg.Salt,
		ConfirmNonce: msg.ConfirmNonce,
		ConfirmTag:   msg.ConfirmTag,
		Signature:    msg.Signature,
		Counter:      int64(msg.Counter),
		FileURL:      msg.FileURL,
		FileName:     msg.FileName,
		Timestamp:    ts,
	}
}

func fromMessageModel(m messageModel) domain.StoredMessage {
	return domain.StoredMessage{
		WireMessage: domain.WireMessage{
			Kind:         domain.MessageKind(m.Kind),
			SenderID:     m.SenderID,
			ReceiverID:   m.ReceiverID,
			Ciphertext:   m.Ciphertext,
			Nonce:        m.Nonce,
			Salt:         m.Salt,
			ConfirmNonce: m.ConfirmNonce,
			ConfirmTag:   m.ConfirmTag,
			Signature:    m.Signature,
			Counter:      uint64(m.Counter),
			FileURL:      m.FileURL,
			FileName:     m.FileName,
		},
		ID:        m.ID,
		Timestamp: m.Timestamp,
	}
}
