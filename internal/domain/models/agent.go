package models

import "time"

// Agent is an AI agent record referenced by acionar_agente_ia triggers.
// Prompting and model selection live in the agent service; the engine only
// checks existence and the active flag.
type Agent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"column:organization_id;index" json:"organization_id"`
	Name           string    `gorm:"column:name" json:"name"`
	Active         bool      `gorm:"column:active" json:"active"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Agent) TableName() string {
	return "automacoes.agentes_ia"
}
