package models

import "time"

// ExecutionRecord is one dispatch attempt's audit row, append-only. The
// unique index on (trigger_id, message_id) absorbs upstream redeliveries of
// the same message; membership events carry no message id and are exempt.
type ExecutionRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TriggerID uint      `gorm:"column:trigger_id;index;uniqueIndex:ux_gatilho_mensagem,where:message_id <> ''" json:"trigger_id"`
	GroupJID  string    `gorm:"column:group_jid;index" json:"group_jid"`
	MessageID string    `gorm:"column:message_id;uniqueIndex:ux_gatilho_mensagem,where:message_id <> ''" json:"message_id"`
	Sender    string    `gorm:"column:sender" json:"sender"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	Success   bool      `gorm:"column:success" json:"success"`
	Result    JSONB     `gorm:"column:result;type:jsonb" json:"result"`
	Error     string    `gorm:"column:error;type:text" json:"error"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ExecutionRecord) TableName() string {
	return "automacoes.execucoes_gatilho"
}
