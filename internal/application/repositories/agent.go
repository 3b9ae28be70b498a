package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type AgentRepository struct {
	db *gorm.DB
}

type AgentRepositoryInterface interface {
	FindById(ctx context.Context, id uint) (*models.Agent, error)
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{
		db: db,
	}
}

func (repo *AgentRepository) FindById(ctx context.Context, id uint) (*models.Agent, error) {
	var agent models.Agent
	result := repo.db.WithContext(ctx).Where("id = ?", id).First(&agent)
	if result.Error != nil {
		return nil, result.Error
	}
	return &agent, nil
}
