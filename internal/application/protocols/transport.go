package protocols

import (
	"context"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
)

// SendOptions adjusts how an outbound message is composed.
type SendOptions struct {
	// QuotedMessageID makes the send a reply to that message.
	QuotedMessageID string
	// Mentions lists participant JIDs to tag in the message.
	Mentions []string
}

// MessageTransport is the messaging side of the WhatsApp gateway. The
// dispatcher only talks to the gateway through this interface.
type MessageTransport interface {
	SendText(ctx context.Context, chatJID, text string, opts SendOptions) (messageID string, err error)
	ForwardMessage(ctx context.Context, toChatJID string, event *dto.InboundEvent) (messageID string, err error)
	DeleteMessage(ctx context.Context, chatJID, messageID, participantJID string) error
}

// WebhookPayload is the JSON body POSTed to a trigger's webhook URL.
type WebhookPayload struct {
	EventID   string            `json:"event_id"`
	TriggerID uint              `json:"trigger_id"`
	GroupJID  string            `json:"group_id"`
	Timestamp string            `json:"timestamp"`
	Message   *dto.InboundEvent `json:"message,omitempty"`
}

type WebhookSender interface {
	Send(ctx context.Context, url string, payload WebhookPayload) error
}

// AgentInvoker forwards an event to an AI agent for completion and returns
// the agent's reply text.
type AgentInvoker interface {
	Invoke(ctx context.Context, agentID uint, event *dto.InboundEvent) (reply string, err error)
}
