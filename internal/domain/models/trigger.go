package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types a trigger can listen for. `message_any` is the wildcard
// super-type and matches every message event.
const (
	EventMessageText  = "message_text"
	EventMessageAny   = "message_any"
	EventMessageMedia = "message_media"
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
)

type Trigger struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"column:organization_id;index" json:"organization_id"`
	GroupJID       *string        `gorm:"column:group_jid" json:"group_jid"`
	CategoryID     *uint          `gorm:"column:category_id" json:"category_id"`
	Name           string         `gorm:"column:name" json:"name"`
	Description    string         `gorm:"column:description" json:"description"`
	EventType      string         `gorm:"column:event_type" json:"event_type"`
	Condicoes      datatypes.JSON `gorm:"column:condicoes;type:jsonb" json:"condicoes"`
	TipoAcao       ActionKind     `gorm:"column:tipo_acao" json:"tipo_acao"`
	ConfigAcao     datatypes.JSON `gorm:"column:config_acao;type:jsonb" json:"config_acao"`
	Priority       int            `gorm:"column:priority" json:"priority"`
	Active         bool           `gorm:"column:active" json:"active"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at" json:"deleted_at"`
}

func (Trigger) TableName() string {
	return "automacoes.gatilhos"
}

func (t *Trigger) Scope() (Scope, error) {
	return ScopeFrom(t.GroupJID, t.CategoryID)
}

func (t *Trigger) ConditionSet() (*ConditionSet, error) {
	return ParseConditionSet(t.Condicoes)
}

func (t *Trigger) ActionConfig() (ActionConfig, error) {
	return ParseActionConfig(t.TipoAcao, t.ConfigAcao)
}
