package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a portfolio entry as stored in the projects table.
type Project struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Problem     string   `gorm:"type:text" json:"problem"`
	Solution    string   `gorm:"type:text" json:"solution"`
	TechUsed    []string `gorm:"column:tech_used;type:text;serializer:json" json:"tech_used"`
	ImageURL    string   `gorm:"column:image_url;type:text" json:"image_url"`
	VisitURL    string   `gorm:"column:visit_url;type:text" json:"visit_url"`
	SortOrder   int      `gorm:"not null;default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
