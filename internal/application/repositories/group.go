package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type GroupRepository struct {
	db *gorm.DB
}

type GroupRepositoryInterface interface {
	FindByJID(ctx context.Context, jid string) (*models.Group, error)
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		db: db,
	}
}

func (repo *GroupRepository) FindByJID(ctx context.Context, jid string) (*models.Group, error) {
	var group models.Group
	result := repo.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Memberships.Category").
		Where("jid = ?", jid).
		First(&group)
	if result.Error != nil {
		return nil, result.Error
	}
	return &group, nil
}
