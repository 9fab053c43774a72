package database

import (
	"context"

	"coal-site/internal/models"
)

// CreateAuditLog records an admin action. Failures are ignored.
func (s *Store) CreateAuditLog(ctx context.Context, actor, entity, entityID, action, details string) {
	if s == nil || s.db == nil {
		return
	}
	db, cancel := s.with(ctx)
	defer cancel()

	record := models.AuditLog{
		Actor:    actor,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = db.Create(&record).Error
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var logs []models.AuditLog
	err := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}
