package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sealedchat/internal/domain"
)

// MessageStore implements domain.MessageLog on Postgres. Envelopes are
// stored verbatim; the server never inspects or rewrites ciphertext.
// The uniq_message_counter partial index rejects a repeated
// (sender, receiver, counter) triple for sealed messages, which is the
// replay defense of record.
type MessageStore struct {
	db *DB
}

// NewMessageStore returns a MessageStore over db.
func NewMessageStore(db *DB) *MessageStore { return &MessageStore{db: db} }

// Insert persists an envelope. A sealed message reusing a counter the
// pair has already consumed returns ErrReplay and stores nothing.
func (s *MessageStore) Insert(ctx context.Context, msg domain.WireMessage) (domain.StoredMessage, error) {
	// The counter column is int64; values past its range would store as
	// negative numbers and break ordering on the column.
	if msg.Counter > math.MaxInt64 {
		return domain.StoredMessage{}, fmt.Errorf("%w: counter out of range", domain.ErrValidation)
	}
	m := toMessageModel(msg, uuid.NewString(), time.Now().UTC())
	err := s.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.StoredMessage{}, fmt.Errorf("%w: counter %d already used for this pair", domain.ErrReplay, msg.Counter)
	}
	if err != nil {
		return domain.StoredMessage{}, err
	}

	stored := fromMessageModel(m)
	if names, err := s.usernames(ctx, m.SenderID, m.ReceiverID); err == nil {
		stored.SenderUsername = names[m.SenderID]
		stored.ReceiverUsername = names[m.ReceiverID]
	}
	return stored, nil
}

// History returns every message between userA and userB, either
// direction, oldest first.
func (s *MessageStore) History(ctx context.Context, userA, userB string) ([]domain.StoredMessage, error) {
	var models []messageModel
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("timestamp ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	names, err := s.usernames(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StoredMessage, 0, len(models))
	for _, m := range models {
		stored := fromMessageModel(m)
		stored.SenderUsername = names[m.SenderID]
		stored.ReceiverUsername = names[m.ReceiverID]
		out = append(out, stored)
	}
	return out, nil
}

func (s *MessageStore) usernames(ctx context.Context, ids ...string) (map[string]string, error) {
	var users []userModel
	if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

var _ domain.MessageLog = (*MessageStore)(nil)
