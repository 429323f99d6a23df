package store

import (
	"context"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminStore reads and writes the admins allow-list. Emails are expected lower-cased.
type AdminStore struct {
	DB *gorm.DB
}

func (s *AdminStore) IsAdmin(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Admin{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, wrap(err)
	}
	return n > 0, nil
}

func (s *AdminStore) GetAdmin(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := s.DB.WithContext(ctx).First(&a, "email = ?", email).Error; err != nil {
		return nil, wrap(err)
	}
	return &a, nil
}

func (s *AdminStore) AddAdmin(ctx context.Context, a *domain.Admin) error {
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(a)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAdminExists
	}
	return nil
}

func (s *AdminStore) RemoveAdmin(ctx context.Context, email string) error {
	result := s.DB.WithContext(ctx).Where("email = ?", email).Delete(&domain.Admin{})
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AdminStore) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	var out []domain.Admin
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (s *AdminStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Admin{}).Count(&n).Error; err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

// SeedAdmins inserts the given emails, skipping ones already present.
func (s *AdminStore) SeedAdmins(ctx context.Context, emails []string, addedBy string) (int64, error) {
	n, err := database.SeedAdmins(ctx, s.DB, emails, addedBy)
	return n, wrap(err)
}
