package services

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

// AuditRecorder appends change snapshots. Recording is best effort: a failed
// audit write is logged and never fails the operation it describes.
type AuditRecorder struct {
	DB *gorm.DB
}

func NewAuditRecorder(db *gorm.DB) *AuditRecorder { return &AuditRecorder{DB: db} }

func snapshot(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// Record writes one audit row with before/after snapshots of the entity.
func (r *AuditRecorder) Record(userID uint, entityType, entityID, action string, oldValue, newValue interface{}) {
	entry := models.AuditLog{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   snapshot(oldValue),
		NewValue:   snapshot(newValue),
	}
	if err := r.DB.Create(&entry).Error; err != nil {
		log.Printf("audit write failed (%s %s %s): %v", action, entityType, entityID, err)
	}
}

// Recent returns the latest audit rows, optionally filtered by entity type.
func (r *AuditRecorder) Recent(entityType string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Order("created_at desc, id desc").Limit(limit)
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
