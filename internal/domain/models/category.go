package models

import "time"

type Category struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"column:organization_id;index" json:"organization_id"`
	Name           string    `gorm:"column:name" json:"name"`
	Color          string    `gorm:"column:color" json:"color"`
	Description    string    `gorm:"column:description" json:"description"`
	Ordem          int       `gorm:"column:ordem" json:"ordem"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Category) TableName() string {
	return "automacoes.categorias"
}

// GroupCategory is the join row between groups and categories. Position
// preserves the order memberships were assigned in; the group's legacy
// category_id projection always mirrors the row at position 0.
type GroupCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GroupJID   string    `gorm:"column:group_jid;index" json:"group_jid"`
	CategoryID uint      `gorm:"column:category_id;index" json:"category_id"`
	Position   int       `gorm:"column:position" json:"position"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
}

func (GroupCategory) TableName() string {
	return "automacoes.grupo_categorias"
}
