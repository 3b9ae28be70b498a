package models

import "time"

const (
	TranscriptionModeOff       = "off"
	TranscriptionModeAutomatic = "automatic"
	TranscriptionModeManual    = "manual"
)

const (
	TranscriptionTypePlain       = "plain"
	TranscriptionTypeWithSummary = "with_summary"
)

// TranscriptionConfig is a scoped audio-transcription override. It shares
// the Trigger scoping shape and resolves through the same group > category
// > default precedence.
type TranscriptionConfig struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"column:organization_id;index" json:"organization_id"`
	GroupJID       *string   `gorm:"column:group_jid" json:"group_jid"`
	CategoryID     *uint     `gorm:"column:category_id" json:"category_id"`
	Mode           string    `gorm:"column:mode" json:"mode"`
	Type           string    `gorm:"column:type" json:"type"`
	TriggerEmoji   string    `gorm:"column:trigger_emoji" json:"trigger_emoji"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (TranscriptionConfig) TableName() string {
	return "automacoes.config_transcricao"
}

func (tc *TranscriptionConfig) Scope() (Scope, error) {
	return ScopeFrom(tc.GroupJID, tc.CategoryID)
}

// DefaultTranscriptionConfig is the system fallback when neither the group
// nor any of its categories carries an override.
func DefaultTranscriptionConfig() TranscriptionConfig {
	return TranscriptionConfig{
		Mode: TranscriptionModeOff,
		Type: TranscriptionTypePlain,
	}
}
