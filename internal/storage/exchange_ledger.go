package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sealedchat/internal/domain"
)

// ExchangeStore implements domain.ExchangeLedger on Postgres. The
// at-most-one-pending invariant per ordered pair is enforced by the
// uniq_exchange_pending partial index, so concurrent duplicate inserts
// lose the race at the database rather than in application code.
type ExchangeStore struct {
	db *DB
}

// NewExchangeStore returns an ExchangeStore over db.
func NewExchangeStore(db *DB) *ExchangeStore { return &ExchangeStore{db: db} }

// Insert records a new request. A second pending request for the same
// ordered pair returns ErrConflict.
func (s *ExchangeStore) Insert(ctx context.Context, req *domain.KeyExchangeRequest) error {
	m := toExchangeModel(*req)
	err := s.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: a pending request for this pair already exists", domain.ErrConflict)
	}
	if err != nil {
		return err
	}
	req.CreatedAt = m.CreatedAt
	req.UpdatedAt = m.UpdatedAt
	return nil
}

func (s *ExchangeStore) FindByID(ctx context.Context, id string) (domain.KeyExchangeRequest, error) {
	var m exchangeModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.KeyExchangeRequest{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.KeyExchangeRequest{}, err
	}
	return fromExchangeModel(m), nil
}

// FindPending returns the pending request between an ordered pair, if
// any. At most one can exist.
func (s *ExchangeStore) FindPending(ctx context.Context, initiatorID, responderID string) (domain.KeyExchangeRequest, bool, error) {
	return s.findByStatus(ctx, initiatorID, responderID, domain.StatusPending)
}

// FindAccepted returns the most recently accepted request between an
// ordered pair, if any. Initiators poll this to learn the responder's
// half of the handshake.
func (s *ExchangeStore) FindAccepted(ctx context.Context, initiatorID, responderID string) (domain.KeyExchangeRequest, bool, error) {
	return s.findByStatus(ctx, initiatorID, responderID, domain.StatusAccepted)
}

func (s *ExchangeStore) findByStatus(ctx context.Context, initiatorID, responderID string, status domain.ExchangeStatus) (domain.KeyExchangeRequest, bool, error) {
	var m exchangeModel
	err := s.db.WithContext(ctx).
		Where("initiator_id = ? AND responder_id = ? AND status = ?", initiatorID, responderID, status).
		Order("updated_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.KeyExchangeRequest{}, false, nil
	}
	if err != nil {
		return domain.KeyExchangeRequest{}, false, err
	}
	return fromExchangeModel(m), true, nil
}

// ListPending returns every pending request addressed to responderID,
// oldest first.
func (s *ExchangeStore) ListPending(ctx context.Context, responderID string) ([]domain.KeyExchangeRequest, error) {
	var models []exchangeModel
	err := s.db.WithContext(ctx).
		Where("responder_id = ? AND status = ?", responderID, domain.StatusPending).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.KeyExchangeRequest, 0, len(models))
	for _, m := range models {
		out = append(out, fromExchangeModel(m))
	}
	return out, nil
}

// Update replaces the stored record wholesale.
func (s *ExchangeStore) Update(ctx context.Context, req domain.KeyExchangeRequest) error {
	m := toExchangeModel(req)
	res := s.db.WithContext(ctx).Model(&exchangeModel{ID: req.ID}).Updates(map[string]any{
		"responder_agreement": m.ResponderAgreement,
		"responder_signing":   m.ResponderSigning,
		"status":              m.Status,
		"events":              m.Events,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a request outright. Rejection leaves no tombstone so
// the initiator may ask again.
func (s *ExchangeStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&exchangeModel{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ExchangeLedger = (*ExchangeStore)(nil)
