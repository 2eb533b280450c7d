package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Financial planning models: recurring and one-off costs feeding the DRE,
// plus the two singleton rows behind the budget and balance-sheet screens.

type FixedCost struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Frequency string          `gorm:"size:20;not null"` // ex: Mensal, Semanal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *FixedCost) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type VariableCost struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date      time.Time       `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *VariableCost) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Contas a pagar / receber. SupplierID is optional; unpaid entries count as
// supplier debt on the balance sheet.
type FinancialEntry struct {
	ID          uint       `gorm:"primaryKey"`
	SupplierID  *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"size:20;not null"` // ex: despesa, receita
	Description string
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate     *time.Time
	Paid        bool `gorm:"not null;default:false;index"`
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Singleton row ids, fixed so the screens always address the same record.
var (
	BudgetGoalID        = uuid.MustParse("8a8e4e3c-8e8e-4e3c-8e8e-4e3c8e8e4e3c")
	BalanceSheetEntryID = uuid.MustParse("9b9e4e3c-9e9e-4e3c-9e9e-4e3c9e9e4e3c")
)

type BudgetGoal struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MonthlyRevenue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MonthlyExpenses decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProfitMargin    decimal.Decimal `gorm:"type:decimal(5,2);not null"` // 0..1
	UpdatedAt       time.Time
}

// Manual balance-sheet figures that cannot be derived from operations.
type BalanceSheetEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Equipment decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Loans     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UpdatedAt time.Time
}
