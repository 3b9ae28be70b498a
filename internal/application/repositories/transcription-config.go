package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type TranscriptionConfigRepository struct {
	db *gorm.DB
}

type TranscriptionConfigRepositoryInterface interface {
	FindByGroup(ctx context.Context, groupJID string) (*models.TranscriptionConfig, error)
	FindByCategory(ctx context.Context, categoryID uint) (*models.TranscriptionConfig, error)
}

func NewTranscriptionConfigRepository(db *gorm.DB) *TranscriptionConfigRepository {
	return &TranscriptionConfigRepository{
		db: db,
	}
}

// FindByGroup returns the group-scoped config, or (nil, nil) when the group
// has none.
func (repo *TranscriptionConfigRepository) FindByGroup(ctx context.Context, groupJID string) (*models.TranscriptionConfig, error) {
	var config models.TranscriptionConfig
	result := repo.db.WithContext(ctx).Where("group_jid = ?", groupJID).First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &config, nil
}

// FindByCategory returns the category-scoped config, or (nil, nil) when the
// category has none.
func (repo *TranscriptionConfigRepository) FindByCategory(ctx context.Context, categoryID uint) (*models.TranscriptionConfig, error) {
	var config models.TranscriptionConfig
	result := repo.db.WithContext(ctx).Where("category_id = ?", categoryID).First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &config, nil
}
