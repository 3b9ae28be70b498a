package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type ExecutionRecordRepository struct {
	db *gorm.DB
}

type ExecutionRecordRepositoryInterface interface {
	Save(ctx context.Context, record *models.ExecutionRecord) error
	ListByTrigger(ctx context.Context, triggerID uint) ([]models.ExecutionRecord, error)
	ListByGroup(ctx context.Context, groupJID string) ([]models.ExecutionRecord, error)
}

func NewExecutionRecordRepository(db *gorm.DB) *ExecutionRecordRepository {
	return &ExecutionRecordRepository{
		db: db,
	}
}

// Save appends one audit row. When the record carries a message id the
// insert is keyed on (trigger_id, message_id) and a redelivered event
// becomes a no-op instead of a duplicate row.
func (repo *ExecutionRecordRepository) Save(ctx context.Context, record *models.ExecutionRecord) error {
	tx := repo.db.WithContext(ctx)
	if record.MessageID != "" {
		tx = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trigger_id"}, {Name: "message_id"}},
			DoNothing: true,
		})
	}
	result := tx.Create(record)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (repo *ExecutionRecordRepository) ListByTrigger(ctx context.Context, triggerID uint) ([]models.ExecutionRecord, error) {
	var records []models.ExecutionRecord
	result := repo.db.WithContext(ctx).
		Where("trigger_id = ?", triggerID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (repo *ExecutionRecordRepository) ListByGroup(ctx context.Context, groupJID string) ([]models.ExecutionRecord, error) {
	var records []models.ExecutionRecord
	result := repo.db.WithContext(ctx).
		Where("group_jid = ?", groupJID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
