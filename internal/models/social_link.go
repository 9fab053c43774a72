package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocialLink struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Platform  string `gorm:"size:50;not null" json:"platform"`
	URL       string `gorm:"column:url;type:text;not null" json:"url"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

func (s *SocialLink) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
