package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/trendify-api/models"
)

// Store is the persistence boundary for admin credentials. The backing
// store must enforce at most one credential per email.
type Store interface {
	// FindByEmail returns the credential for the exact email, or
	// ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	// FirstCredential returns any persisted credential, or ErrNotFound
	// when the system is in fallback-only mode.
	FirstCredential(ctx context.Context) (*models.Admin, error)
	// Create persists a new credential; ErrDuplicateEmail when a
	// concurrent writer got there first.
	Create(ctx context.Context, admin *models.Admin) error
	// UpdatePasswordHash overwrites the stored hash for a credential.
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	// DeleteAll removes every persisted credential.
	DeleteAll(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by the application database.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *gormStore) FirstCredential(ctx context.Context) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Order("id").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *gormStore) Create(ctx context.Context, admin *models.Admin) error {
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *gormStore) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return s.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (s *gormStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Admin{}).Error
}
