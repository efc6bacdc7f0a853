package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sealedchat/internal/domain"
)

// UserStore implements domain.UserDirectory on Postgres.
type UserStore struct {
	db *DB
}

// NewUserStore returns a UserStore over db.
func NewUserStore(db *DB) *UserStore { return &UserStore{db: db} }

// Insert creates a directory entry. Username and email are unique.
func (s *UserStore) Insert(ctx context.Context, u domain.User, passwordHash string) error {
	m := userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: passwordHash,
		SigningKey:   recordJSON(u.SigningKey),
		AgreementKey: recordJSON(u.AgreementKey),
	}
	err := s.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: username or email already taken", domain.ErrConflict)
	}
	return err
}

// FindByID returns a directory entry with its published key records.
func (s *UserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return fromUserModel(m), nil
}

// FindByLogin looks a user up by username or email and returns the
// stored password hash alongside.
func (s *UserStore) FindByLogin(ctx context.Context, usernameOrEmail string) (domain.User, string, error) {
	var m userModel
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, "", domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, "", err
	}
	return fromUserModel(m), m.PasswordHash, nil
}

// List returns the id+username projection of every user.
func (s *UserStore) List(ctx context.Context) ([]domain.UserSummary, error) {
	var models []userModel
	if err := s.db.WithContext(ctx).Select("id", "username").Order("username").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(models))
	for _, m := range models {
		out = append(out, domain.UserSummary{ID: m.ID, Username: m.Username})
	}
	return out, nil
}

func fromUserModel(m userModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		SigningKey:   recordFromJSON(m.SigningKey),
		AgreementKey: recordFromJSON(m.AgreementKey),
	}
}

// Compile-time assertion that UserStore implements domain.UserDirectory.
var _ domain.UserDirectory = (*UserStore)(nil)
