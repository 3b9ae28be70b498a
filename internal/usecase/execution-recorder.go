package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/repositories"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
)

// ExecutionRecorder writes one audit row per dispatch attempt. Writes are
// single inserts with no shared state, safe under concurrent invocations.
type ExecutionRecorder struct {
	records repositories.ExecutionRecordRepositoryInterface
	logger  zerolog.Logger
}

func NewExecutionRecorder(records repositories.ExecutionRecordRepositoryInterface) *ExecutionRecorder {
	return &ExecutionRecorder{
		records: records,
		logger:  logging.GetLogger("recorder"),
	}
}

func (er *ExecutionRecorder) Record(ctx context.Context, trigger *models.Trigger, event *dto.InboundEvent, result ActionResult) error {
	record := &models.ExecutionRecord{
		TriggerID: trigger.ID,
		GroupJID:  event.GroupJID,
		MessageID: event.MessageID,
		Sender:    event.SenderJID,
		Content:   event.Content,
		Success:   result.Success,
		Result:    result.Data,
		Error:     result.Error,
	}

	if err := er.records.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save execution record for trigger %d: %w", trigger.ID, err)
	}

	er.logger.Debug().
		Uint("trigger_id", trigger.ID).
		Str("group", event.GroupJID).
		Bool("success", result.Success).
		Msg("execution recorded")

	return nil
}
