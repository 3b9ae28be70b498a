package models

import (
	"encoding/json"
	"fmt"
)

const ActionSchemaVersion = 1

type ActionKind string

const (
	ActionDeleteMessage ActionKind = "excluir_mensagem"
	ActionSendMessage   ActionKind = "enviar_mensagem"
	ActionSendWebhook   ActionKind = "enviar_webhook"
	ActionNotifyAdmin   ActionKind = "notificar_admin"
	ActionInvokeAgent   ActionKind = "acionar_agente_ia"
)

const (
	SendModeNew     = "new"
	SendModeReply   = "reply"
	SendModeForward = "forward"
)

const (
	DestinationSameGroup   = "same_group"
	DestinationOtherGroups = "other_groups"
	DestinationPhoneNumber = "phone_number"
)

// ActionConfig is the decoded `config_acao` document. It is a closed set;
// each action kind carries only its own fields and a handler can never see
// a config of another kind.
type ActionConfig interface {
	Kind() ActionKind
}

type DeleteMessageConfig struct {
	SchemaVersion int    `json:"schema_version"`
	NotifyAuthor  bool   `json:"notify_author"`
	WarningText   string `json:"warning_text"`
}

func (DeleteMessageConfig) Kind() ActionKind { return ActionDeleteMessage }

type SendMessageConfig struct {
	SchemaVersion int      `json:"schema_version"`
	SendMode      string   `json:"send_mode"`
	Destination   string   `json:"destination"`
	OtherGroupIDs []string `json:"other_group_ids,omitempty"`
	PhoneNumber   string   `json:"phone_number,omitempty"`
	Body          string   `json:"body"`
	MentionAuthor bool     `json:"mention_author"`
	ForwardIntro  bool     `json:"forward_intro"`
	IntroText     string   `json:"intro_text,omitempty"`
}

func (SendMessageConfig) Kind() ActionKind { return ActionSendMessage }

type SendWebhookConfig struct {
	SchemaVersion         int    `json:"schema_version"`
	URL                   string `json:"url"`
	IncludeMessagePayload bool   `json:"include_message_payload"`
}

func (SendWebhookConfig) Kind() ActionKind { return ActionSendWebhook }

type NotifyAdminConfig struct {
	SchemaVersion int    `json:"schema_version"`
	Message       string `json:"message"`
}

func (NotifyAdminConfig) Kind() ActionKind { return ActionNotifyAdmin }

type InvokeAgentConfig struct {
	SchemaVersion int  `json:"schema_version"`
	AgentID       uint `json:"agent_id"`
	ReplyInGroup  bool `json:"reply_in_group"`
}

func (InvokeAgentConfig) Kind() ActionKind { return ActionInvokeAgent }

var validSendModes = map[string]bool{
	SendModeNew:     true,
	SendModeReply:   true,
	SendModeForward: true,
}

var validDestinations = map[string]bool{
	DestinationSameGroup:   true,
	DestinationOtherGroups: true,
	DestinationPhoneNumber: true,
}

// ParseActionConfig decodes a persisted action config for the given kind.
// The kind is the discriminant: a document is only ever decoded into the
// struct of the trigger's own action kind. Documents written before schema
// versioning default to version 1.
func ParseActionConfig(kind ActionKind, raw []byte) (ActionConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = []byte("{}")
	}

	switch kind {
	case ActionDeleteMessage:
		var cfg DeleteMessageConfig
		if err := decodeActionConfig(kind, raw, &cfg, &cfg.SchemaVersion); err != nil {
			return nil, err
		}
		return &cfg, nil

	case ActionSendMessage:
		var cfg SendMessageConfig
		if err := decodeActionConfig(kind, raw, &cfg, &cfg.SchemaVersion); err != nil {
			return nil, err
		}
		if cfg.SendMode == "" {
			cfg.SendMode = SendModeNew
		}
		if cfg.Destination == "" {
			cfg.Destination = DestinationSameGroup
		}
		if !validSendModes[cfg.SendMode] {
			return nil, fmt.Errorf("unknown send mode %q", cfg.SendMode)
		}
		if !validDestinations[cfg.Destination] {
			return nil, fmt.Errorf("unknown destination %q", cfg.Destination)
		}
		return &cfg, nil

	case ActionSendWebhook:
		var cfg SendWebhookConfig
		if err := decodeActionConfig(kind, raw, &cfg, &cfg.SchemaVersion); err != nil {
			return nil, err
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("webhook config has no url")
		}
		return &cfg, nil

	case ActionNotifyAdmin:
		var cfg NotifyAdminConfig
		if err := decodeActionConfig(kind, raw, &cfg, &cfg.SchemaVersion); err != nil {
			return nil, err
		}
		return &cfg, nil

	case ActionInvokeAgent:
		var cfg InvokeAgentConfig
		if err := decodeActionConfig(kind, raw, &cfg, &cfg.SchemaVersion); err != nil {
			return nil, err
		}
		if cfg.AgentID == 0 {
			return nil, fmt.Errorf("agent config has no agent_id")
		}
		return &cfg, nil

	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
}

func decodeActionConfig(kind ActionKind, raw []byte, dest interface{}, version *int) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode %s config: %w", kind, err)
	}
	if *version == 0 {
		*version = ActionSchemaVersion
	}
	return nil
}
