package models

import "time"

type Group struct {
	JID            string `gorm:"column:jid;primaryKey" json:"jid"`
	OrganizationID uint   `gorm:"column:organization_id;index" json:"organization_id"`
	Name           string `gorm:"column:name" json:"name"`
	Active         bool   `gorm:"column:active" json:"active"`

	// CategoryID is a denormalized projection of the first membership in
	// Memberships. It is recomputed on every membership write and is never
	// an independently written fact.
	CategoryID  *uint           `gorm:"column:category_id" json:"category_id"`
	Memberships []GroupCategory `gorm:"foreignKey:GroupJID;references:JID" json:"memberships"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Group) TableName() string {
	return "automacoes.grupos"
}

// CategoryIDs returns the group's category ids in membership position order.
func (g *Group) CategoryIDs() []uint {
	ids := make([]uint, 0, len(g.Memberships))
	for _, m := range g.Memberships {
		ids = append(ids, m.CategoryID)
	}
	return ids
}

// CategoriesByOrdem returns the group's categories sorted by the category
// `ordem` field ascending. Override resolution walks categories in this
// order, not membership order.
func (g *Group) CategoriesByOrdem() []Category {
	cats := make([]Category, 0, len(g.Memberships))
	for _, m := range g.Memberships {
		cats = append(cats, m.Category)
	}
	for i := 1; i < len(cats); i++ {
		for j := i; j > 0 && cats[j].Ordem < cats[j-1].Ordem; j-- {
			cats[j], cats[j-1] = cats[j-1], cats[j]
		}
	}
	return cats
}
