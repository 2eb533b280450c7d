package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit logging
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   // who made the change
	EntityType string `gorm:"size:40;index"` // ex: "Product", "Order", "Customer"
	EntityID   string `gorm:"size:40;index"`
	Action     string `gorm:"size:20"` // create, update, delete
	OldValue   datatypes.JSON
	NewValue   datatypes.JSON
	CreatedAt  time.Time
}
