package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type TriggerRepository struct {
	db *gorm.DB
}

type TriggerRepositoryInterface interface {
	FindById(ctx context.Context, id uint) (*models.Trigger, error)
	ListActiveByOrganization(ctx context.Context, organizationID uint) ([]models.Trigger, error)
	SetActive(ctx context.Context, id uint, active bool) error
	Duplicate(ctx context.Context, id uint) (*models.Trigger, error)
}

func NewTriggerRepository(db *gorm.DB) *TriggerRepository {
	return &TriggerRepository{
		db: db,
	}
}

func (repo *TriggerRepository) FindById(ctx context.Context, id uint) (*models.Trigger, error) {
	var trigger models.Trigger
	result := repo.db.WithContext(ctx).Where("id = ?", id).First(&trigger)
	if result.Error != nil {
		return nil, result.Error
	}
	return &trigger, nil
}

func (repo *TriggerRepository) ListActiveByOrganization(ctx context.Context, organizationID uint) ([]models.Trigger, error) {
	var triggers []models.Trigger
	result := repo.db.WithContext(ctx).
		Where("organization_id = ? AND active = ?", organizationID, true).
		Order("priority ASC, id ASC").
		Find(&triggers)
	if result.Error != nil {
		return nil, result.Error
	}
	return triggers, nil
}

func (repo *TriggerRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := repo.db.WithContext(ctx).Model(&models.Trigger{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trigger %d not found", id)
	}
	return nil
}

// Duplicate clones a trigger as an inactive copy with a bumped priority, so
// the copy never fires until an operator reviews and activates it.
func (repo *TriggerRepository) Duplicate(ctx context.Context, id uint) (*models.Trigger, error) {
	original, err := repo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := *original
	clone.ID = 0
	clone.Name = original.Name + " (cópia)"
	clone.Priority = original.Priority + 1
	clone.Active = false
	clone.CreatedAt = repo.db.NowFunc()
	clone.UpdatedAt = clone.CreatedAt

	if result := repo.db.WithContext(ctx).Create(&clone); result.Error != nil {
		return nil, result.Error
	}
	return &clone, nil
}
