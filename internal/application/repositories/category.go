package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

type CategoryRepositoryInterface interface {
	ListByOrganization(ctx context.Context, organizationID uint) ([]models.Category, error)
	ListByGroup(ctx context.Context, groupJID string) ([]models.Category, error)
	SetGroupCategories(ctx context.Context, groupJID string, categoryIDs []uint) error
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

func (repo *CategoryRepository) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Category, error) {
	var categories []models.Category
	result := repo.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("ordem ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// ListByGroup returns a group's categories in membership position order.
func (repo *CategoryRepository) ListByGroup(ctx context.Context, groupJID string) ([]models.Category, error) {
	var categories []models.Category
	result := repo.db.WithContext(ctx).
		Joins("JOIN automacoes.grupo_categorias gc ON gc.category_id = automacoes.categorias.id").
		Where("gc.group_jid = ?", groupJID).
		Order("gc.position ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// SetGroupCategories rewrites a group's memberships and recomputes the
// legacy category_id projection on the group row. The join rows are the
// source of truth; the projection always mirrors the first of them.
func (repo *CategoryRepository) SetGroupCategories(ctx context.Context, groupJID string, categoryIDs []uint) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_jid = ?", groupJID).Delete(&models.GroupCategory{}).Error; err != nil {
			return err
		}

		for position, categoryID := range categoryIDs {
			membership := models.GroupCategory{
				GroupJID:   groupJID,
				CategoryID: categoryID,
				Position:   position,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		}

		var legacy *uint
		if len(categoryIDs) > 0 {
			legacy = &categoryIDs[0]
		}
		return tx.Model(&models.Group{}).Where("jid = ?", groupJID).Update("category_id", legacy).Error
	})
}
