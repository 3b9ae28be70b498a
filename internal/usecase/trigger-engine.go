package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
)

// TriggerEngine orchestrates one inbound event: resolve the applicable
// triggers, evaluate each one's conditions, dispatch every match in priority
// order, and record every dispatch attempt.
//
// This is a fan-out engine: all matching triggers fire, priority only
// orders them. Distinct triggers commonly carry independent side effects
// (delete the spam and notify an admin), so first-match-wins would be wrong.
type TriggerEngine struct {
	resolver   *ScopeResolver
	evaluator  *ConditionEvaluator
	dispatcher *ActionDispatcher
	recorder   *ExecutionRecorder
	logger     zerolog.Logger
}

func NewTriggerEngine(
	resolver *ScopeResolver,
	evaluator *ConditionEvaluator,
	dispatcher *ActionDispatcher,
	recorder *ExecutionRecorder,
) *TriggerEngine {
	return &TriggerEngine{
		resolver:   resolver,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logging.GetLogger("engine"),
	}
}

// ExecuteRaw decodes a transport delivery and runs the engine.
func (te *TriggerEngine) ExecuteRaw(ctx context.Context, body []byte) error {
	var event dto.InboundEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode inbound event: %w", err)
	}
	return te.Execute(ctx, &event)
}

// Execute runs the engine for one inbound event. The only errors that come
// back are audit-write failures; everything else is logged or recorded and
// swallowed. A resolution failure counts as "no triggers resolved": it is
// logged once and the event completes with no records, so a store outage
// does not dead-letter the delivery.
func (te *TriggerEngine) Execute(ctx context.Context, event *dto.InboundEvent) error {
	group, triggers, err := te.resolver.ResolveForGroup(ctx, event.GroupJID)
	if err != nil {
		te.logger.Error().Err(err).Str("group", event.GroupJID).Msg("trigger resolution failed")
		return nil
	}

	if len(triggers) == 0 {
		te.logger.Debug().Str("group", event.GroupJID).Msg("no triggers resolved")
		return nil
	}

	for i := range triggers {
		trigger := &triggers[i]

		matched, err := te.evaluator.Matches(trigger, event)
		if err != nil {
			// Malformed rule: fails closed, and the malformed rule is
			// surfaced to operators through the audit trail.
			te.logger.Warn().Err(err).Uint("trigger_id", trigger.ID).Msg("condition evaluation failed")
			result := failedResult(fmt.Errorf("condition error: %w", err))
			if recordErr := te.recorder.Record(ctx, trigger, event, result); recordErr != nil {
				return recordErr
			}
			continue
		}
		if !matched {
			continue
		}

		actionConfig, err := trigger.ActionConfig()
		if err != nil {
			te.logger.Warn().Err(err).Uint("trigger_id", trigger.ID).Msg("action config is malformed")
			result := failedResult(fmt.Errorf("action config error: %w", err))
			if recordErr := te.recorder.Record(ctx, trigger, event, result); recordErr != nil {
				return recordErr
			}
			continue
		}

		result := te.dispatcher.Dispatch(ctx, trigger, actionConfig, event, group)
		if !result.Success {
			te.logger.Warn().
				Uint("trigger_id", trigger.ID).
				Str("action", string(trigger.TipoAcao)).
				Str("error", result.Error).
				Msg("action dispatch failed")
		} else {
			te.logger.Info().
				Uint("trigger_id", trigger.ID).
				Str("action", string(trigger.TipoAcao)).
				Str("group", event.GroupJID).
				Msg("action dispatched")
		}

		if err := te.recorder.Record(ctx, trigger, event, result); err != nil {
			// Losing the audit trail is the one failure that must not be
			// swallowed.
			return err
		}
	}

	return nil
}
