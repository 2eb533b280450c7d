package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cash register session ("caixa"). At most one row may have a null ClosedAt;
// the opening transaction enforces it (plus a partial unique index in the SQL
// migrations for postgres deployments).
type CashBox struct {
	ID             uint            `gorm:"primaryKey"`
	OpenedAt       time.Time       `gorm:"not null;index"`
	ClosedAt       *time.Time      `gorm:"index"`
	StartingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Reconciled total persisted at close time: starting + entradas - saídas.
	ClosedAmount decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	OpenedBy     uint                `gorm:"index"`
	Movements    []CashMovement      `gorm:"foreignKey:CashBoxID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open reports whether the session is still accepting movements.
func (b *CashBox) Open() bool { return b.ClosedAt == nil }

const (
	MovementIn  = "entrada"
	MovementOut = "saida"
)

// A single cash inflow/outflow attached to a register session. Append-only
// from the workflow's perspective, though individual rows can be deleted.
type CashMovement struct {
	ID        uint            `gorm:"primaryKey"`
	CashBoxID uint            `gorm:"not null;index"`
	Kind      string          `gorm:"size:10;not null"` // entrada / saida
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes     string          `gorm:"size:255"`
	UserID    uint
	CreatedAt time.Time `gorm:"index"`
}
