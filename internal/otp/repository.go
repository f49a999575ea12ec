package otp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
)

// CodeRepository handles persistence of one-time codes.
type CodeRepository interface {
	// FindByPurpose retrieves the live code for a purpose, ErrCodeNotFound when absent.
	FindByPurpose(ctx context.Context, purpose string) (*domain.Otp, error)

	// Replace atomically removes any existing code for code.Purpose and stores code.
	Replace(ctx context.Context, code *domain.Otp) error

	// Delete removes a consumed code by id.
	Delete(ctx context.Context, id int64) error

	// DeleteExpired purges codes whose expiry has passed. Housekeeping only;
	// verification checks expiry itself.
	DeleteExpired(ctx context.Context, now time.Time) error
}

// AccountRepository handles the administrator account the codes act on.
type AccountRepository interface {
	// FindByEmail retrieves the account by email, ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	// First retrieves the sole account, ErrUserNotFound when none exists.
	First(ctx context.Context) (*domain.Account, error)

	// UpdatePassword stores a new password hash.
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error

	// UpdateEmail stores a new login email.
	UpdateEmail(ctx context.Context, id int64, email string) error
}

// GormCodeRepository is the GORM implementation of CodeRepository.
type GormCodeRepository struct {
	db *gorm.DB
}

func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

func (r *GormCodeRepository) FindByPurpose(ctx context.Context, purpose string) (*domain.Otp, error) {
	var code domain.Otp
	err := r.db.WithContext(ctx).Where("purpose = ?", purpose).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Replace runs delete+create in one transaction so concurrent issuance for
// the same purpose degrades to clean last-writer-wins.
func (r *GormCodeRepository) Replace(ctx context.Context, code *domain.Otp) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purpose = ?", code.Purpose).Delete(&domain.Otp{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *GormCodeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Otp{}, id).Error
}

func (r *GormCodeRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.Otp{}).Error
}

// GormAccountRepository is the GORM implementation of AccountRepository.
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) First(ctx context.Context) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).Order("id").First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":   hashedPassword,
			"updated_at": time.Now(),
		}).Error
}

func (r *GormAccountRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":      email,
			"updated_at": time.Now(),
		}).Error
}
