package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	config "github.com/MLTCorp/sincron-grupos-sub000/configs"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/protocols"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/repositories"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
)

// ActionResult is the outcome of one dispatch attempt. Data is action-kind
// specific and lands verbatim in the execution record.
type ActionResult struct {
	Success bool
	Data    models.JSONB
	Error   string
}

func failedResult(err error) ActionResult {
	return ActionResult{Success: false, Error: err.Error()}
}

// ActionDispatcher executes the action configured on a matched trigger.
type ActionDispatcher struct {
	configs   *config.Config
	transport protocols.MessageTransport
	webhooks  protocols.WebhookSender
	agents    protocols.AgentInvoker
	agentRepo repositories.AgentRepositoryInterface
	logger    zerolog.Logger
}

func NewActionDispatcher(
	configs *config.Config,
	transport protocols.MessageTransport,
	webhooks protocols.WebhookSender,
	agents protocols.AgentInvoker,
	agentRepo repositories.AgentRepositoryInterface,
) *ActionDispatcher {
	return &ActionDispatcher{
		configs:   configs,
		transport: transport,
		webhooks:  webhooks,
		agents:    agents,
		agentRepo: agentRepo,
		logger:    logging.GetLogger("dispatcher"),
	}
}

// Dispatch runs the trigger's action against the event. Failures come back
// inside the ActionResult, never as a Go error: a broken action must not
// keep sibling triggers from dispatching.
func (ad *ActionDispatcher) Dispatch(ctx context.Context, trigger *models.Trigger, actionConfig models.ActionConfig, event *dto.InboundEvent, group *models.Group) ActionResult {
	switch cfg := actionConfig.(type) {
	case *models.DeleteMessageConfig:
		return ad.dispatchDeleteMessage(ctx, cfg, event, group)
	case *models.SendMessageConfig:
		return ad.dispatchSendMessage(ctx, cfg, event, group)
	case *models.SendWebhookConfig:
		return ad.dispatchSendWebhook(ctx, cfg, trigger, event)
	case *models.NotifyAdminConfig:
		return ad.dispatchNotifyAdmin(ctx, cfg, event, group)
	case *models.InvokeAgentConfig:
		return ad.dispatchInvokeAgent(ctx, cfg, event)
	default:
		return failedResult(fmt.Errorf("unknown action config %T", actionConfig))
	}
}

func (ad *ActionDispatcher) dispatchDeleteMessage(ctx context.Context, cfg *models.DeleteMessageConfig, event *dto.InboundEvent, group *models.Group) ActionResult {
	if event.MessageID == "" {
		return failedResult(fmt.Errorf("event carries no message to delete"))
	}

	if err := ad.transport.DeleteMessage(ctx, event.GroupJID, event.MessageID, event.SenderJID); err != nil {
		return failedResult(fmt.Errorf("failed to delete message %s: %w", event.MessageID, err))
	}

	data := models.JSONB{"deleted_message_id": event.MessageID}

	if cfg.NotifyAuthor && cfg.WarningText != "" {
		warning := substituteVariables(cfg.WarningText, event, group)
		opts := protocols.SendOptions{Mentions: []string{event.SenderJID}}
		warningID, err := ad.transport.SendText(ctx, event.GroupJID, warning, opts)
		if err != nil {
			data["warning_sent"] = false
			return ActionResult{
				Success: false,
				Data:    data,
				Error:   fmt.Sprintf("message deleted but warning failed: %v", err),
			}
		}
		data["warning_sent"] = true
		data["warning_message_id"] = warningID
	}

	return ActionResult{Success: true, Data: data}
}

func (ad *ActionDispatcher) dispatchSendMessage(ctx context.Context, cfg *models.SendMessageConfig, event *dto.InboundEvent, group *models.Group) ActionResult {
	destinations, err := ad.sendDestinations(cfg, event)
	if err != nil {
		return failedResult(err)
	}

	if len(destinations) == 1 {
		messageID, err := ad.sendToDestination(ctx, cfg, event, group, destinations[0])
		if err != nil {
			return failedResult(fmt.Errorf("%s: %w", destinations[0], err))
		}
		return ActionResult{
			Success: true,
			Data:    models.JSONB{"sent": map[string]interface{}{destinations[0]: messageID}},
		}
	}

	// other_groups fans out to every destination, always. One failing group
	// must not keep the message from the rest; the aggregate result names
	// each destination that failed.
	type destOutcome struct {
		destination string
		messageID   string
		err         error
	}

	workers := ad.configs.DispatchWorkers
	if workers <= 0 {
		workers = 1
	}

	outcomes := make([]destOutcome, len(destinations))
	workerPool := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, destination := range destinations {
		wg.Add(1)
		workerPool <- struct{}{}

		go func(i int, destination string) {
			defer wg.Done()
			defer func() { <-workerPool }()

			messageID, err := ad.sendToDestination(ctx, cfg, event, group, destination)
			outcomes[i] = destOutcome{destination: destination, messageID: messageID, err: err}
		}(i, destination)
	}
	wg.Wait()

	sent := map[string]interface{}{}
	var failures []string
	for _, outcome := range outcomes {
		if outcome.err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", outcome.destination, outcome.err))
			continue
		}
		sent[outcome.destination] = outcome.messageID
	}
	sort.Strings(failures)

	result := ActionResult{
		Success: len(failures) == 0,
		Data: models.JSONB{
			"sent":         sent,
			"failed_count": len(failures),
		},
	}
	if len(failures) > 0 {
		result.Error = strings.Join(failures, "; ")
	}
	return result
}

func (ad *ActionDispatcher) sendDestinations(cfg *models.SendMessageConfig, event *dto.InboundEvent) ([]string, error) {
	switch cfg.Destination {
	case models.DestinationSameGroup:
		return []string{event.GroupJID}, nil
	case models.DestinationPhoneNumber:
		if cfg.PhoneNumber == "" {
			return nil, fmt.Errorf("destination is phone_number but no number is configured")
		}
		return []string{cfg.PhoneNumber}, nil
	case models.DestinationOtherGroups:
		if len(cfg.OtherGroupIDs) == 0 {
			return nil, fmt.Errorf("destination is other_groups but the group list is empty")
		}
		return cfg.OtherGroupIDs, nil
	default:
		return nil, fmt.Errorf("unknown destination %q", cfg.Destination)
	}
}

func (ad *ActionDispatcher) sendToDestination(ctx context.Context, cfg *models.SendMessageConfig, event *dto.InboundEvent, group *models.Group, destination string) (string, error) {
	if cfg.SendMode == models.SendModeForward {
		if cfg.ForwardIntro && cfg.IntroText != "" {
			intro := substituteVariables(cfg.IntroText, event, group)
			if _, err := ad.transport.SendText(ctx, destination, intro, protocols.SendOptions{}); err != nil {
				return "", fmt.Errorf("failed to send forward intro: %w", err)
			}
		}
		return ad.transport.ForwardMessage(ctx, destination, event)
	}

	opts := protocols.SendOptions{}
	if cfg.SendMode == models.SendModeReply && destination == event.GroupJID {
		opts.QuotedMessageID = event.MessageID
	}
	if cfg.MentionAuthor {
		opts.Mentions = []string{event.SenderJID}
	}

	body := substituteVariables(cfg.Body, event, group)
	return ad.transport.SendText(ctx, destination, body, opts)
}

func (ad *ActionDispatcher) dispatchSendWebhook(ctx context.Context, cfg *models.SendWebhookConfig, trigger *models.Trigger, event *dto.InboundEvent) ActionResult {
	payload := protocols.WebhookPayload{
		EventID:   uuid.NewString(),
		TriggerID: trigger.ID,
		GroupJID:  event.GroupJID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if cfg.IncludeMessagePayload {
		payload.Message = event
	}

	attempts := 1
	err := ad.webhooks.Send(ctx, cfg.URL, payload)
	if err != nil {
		// One retry with a fixed backoff plus jitter, then give up.
		backoff := time.Duration(ad.configs.WebhookBackoffSeconds)*time.Second +
			time.Duration(rand.Intn(500))*time.Millisecond
		ad.logger.Warn().Err(err).Str("url", cfg.URL).Dur("backoff", backoff).Msg("webhook failed, retrying")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return failedResult(fmt.Errorf("webhook retry canceled: %w", ctx.Err()))
		}

		attempts++
		err = ad.webhooks.Send(ctx, cfg.URL, payload)
	}

	data := models.JSONB{
		"url":      cfg.URL,
		"event_id": payload.EventID,
		"attempts": attempts,
	}
	if err != nil {
		return ActionResult{
			Success: false,
			Data:    data,
			Error:   fmt.Sprintf("webhook failed after %d attempts: %v", attempts, err),
		}
	}
	return ActionResult{Success: true, Data: data}
}

func (ad *ActionDispatcher) dispatchNotifyAdmin(ctx context.Context, cfg *models.NotifyAdminConfig, event *dto.InboundEvent, group *models.Group) ActionResult {
	if ad.configs.AdminChannelJID == "" {
		return failedResult(fmt.Errorf("no admin channel configured"))
	}

	message := substituteVariables(cfg.Message, event, group)
	messageID, err := ad.transport.SendText(ctx, ad.configs.AdminChannelJID, message, protocols.SendOptions{})
	if err != nil {
		return failedResult(fmt.Errorf("failed to notify admin channel: %w", err))
	}
	return ActionResult{
		Success: true,
		Data:    models.JSONB{"admin_message_id": messageID},
	}
}

func (ad *ActionDispatcher) dispatchInvokeAgent(ctx context.Context, cfg *models.InvokeAgentConfig, event *dto.InboundEvent) ActionResult {
	agent, err := ad.agentRepo.FindById(ctx, cfg.AgentID)
	if err != nil {
		return failedResult(fmt.Errorf("agent %d not found: %w", cfg.AgentID, err))
	}
	if !agent.Active {
		return failedResult(fmt.Errorf("agent %d (%s) is inactive", agent.ID, agent.Name))
	}

	reply, err := ad.agents.Invoke(ctx, cfg.AgentID, event)
	if err != nil {
		return failedResult(fmt.Errorf("agent %d invocation failed: %w", cfg.AgentID, err))
	}

	data := models.JSONB{
		"agent_id": agent.ID,
		"reply":    reply,
	}

	if cfg.ReplyInGroup {
		opts := protocols.SendOptions{QuotedMessageID: event.MessageID}
		replyID, err := ad.transport.SendText(ctx, event.GroupJID, reply, opts)
		if err != nil {
			data["reply_sent"] = false
			return ActionResult{
				Success: false,
				Data:    data,
				Error:   fmt.Sprintf("agent replied but posting to group failed: %v", err),
			}
		}
		data["reply_sent"] = true
		data["reply_message_id"] = replyID
	}

	return ActionResult{Success: true, Data: data}
}

// substituteVariables fills {nome} and {grupo} in free-text fields. Unknown
// placeholders stay verbatim.
func substituteVariables(text string, event *dto.InboundEvent, group *models.Group) string {
	name := event.SenderName
	if name == "" {
		name = event.SenderJID
	}
	groupName := ""
	if group != nil {
		groupName = group.Name
	}
	return strings.NewReplacer(
		"{nome}", name,
		"{grupo}", groupName,
	).Replace(text)
}
