package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetOption feeds the contact form budget selector. Older rows carry only
// Label, newer ones the ProjectType/Amount/Timeline triple.
type BudgetOption struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Label       string `gorm:"size:100" json:"label"`
	ProjectType string `gorm:"size:100" json:"project_type"`
	Amount      string `gorm:"size:100" json:"amount"`
	Timeline    string `gorm:"size:100" json:"timeline"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

func (b *BudgetOption) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
