package dto

import "github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"

// InboundEvent is one WhatsApp group event as delivered by the messaging
// transport.
type InboundEvent struct {
	Type       string `json:"type"`
	GroupJID   string `json:"groupId"`
	SenderJID  string `json:"senderId"`
	SenderName string `json:"senderName"`
	MessageID  string `json:"messageId,omitempty"`
	Content    string `json:"content"`
	MediaType  string `json:"mediaType,omitempty"`
}

// Field returns the event value a condition rule's campo refers to. Unknown
// fields read as empty, which makes positive operators fail and negative
// ones pass, same as an absent value would.
func (e *InboundEvent) Field(campo string) string {
	switch campo {
	case models.FieldContentText:
		return e.Content
	case models.FieldSender:
		return e.SenderJID
	case models.FieldMessageType:
		return e.MediaType
	default:
		return ""
	}
}
