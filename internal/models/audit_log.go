package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	Actor    string `gorm:"size:100;not null"` // "admin@<ip>"
	Entity   string `gorm:"size:50;not null"`  // "project", "settings", "social", "budget", "session"
	EntityID string `gorm:"size:36"`
	Action   string `gorm:"size:50;not null"` // "create", "update", "delete", "login"...
	Details  string `gorm:"type:text"`
}
