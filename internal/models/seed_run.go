package models

import "time"

// SeedRun marks a seed that has been written once. Later starts skip it even
// when the admin has since emptied the tables.
type SeedRun struct {
	Name      string    `gorm:"primaryKey;size:50"`
	AppliedAt time.Time `gorm:"not null"`
}
