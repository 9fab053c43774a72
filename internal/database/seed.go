package database

import (
	"context"
	"fmt"
	"time"

	"coal-site/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Store) SeedApplied(ctx context.Context, name string) (bool, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.SeedRun{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("seed run %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *Store) MarkSeedApplied(ctx context.Context, name string) error {
	db, cancel := s.with(ctx)
	defer cancel()

	run := models.SeedRun{Name: name, AppliedAt: time.Now()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"applied_at"}),
	}).Create(&run).Error
	if err != nil {
		return fmt.Errorf("mark seed run %s: %w", name, err)
	}
	return nil
}
