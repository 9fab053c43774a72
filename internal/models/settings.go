package models

import "time"

// SiteSettingsID is the primary key of the only site_settings row.
const SiteSettingsID = 1

// SiteSettings holds the public contact details (singleton row).
type SiteSettings struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ContactEmails []string  `gorm:"column:contact_emails;type:text;serializer:json" json:"contact_emails"`
	Phones        []string  `gorm:"type:text;serializer:json" json:"phones"`
	Address       string    `gorm:"size:255" json:"address"`
	Tagline       string    `gorm:"size:255" json:"tagline"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}
