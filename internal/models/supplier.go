package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier & supplier expenses
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null;index"` // razão social
	TradeName     string    `gorm:"index"`          // nome fantasia
	CNPJ          string    `gorm:"size:18;index"`
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	PaymentTerms  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Supplier) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

const (
	ExpenseStatusPending = "pending"
	ExpenseStatusPaid    = "paid"
)

type SupplierExpense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Supplier    Supplier  `gorm:"foreignKey:SupplierID"`
	Description string    `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssueDate   time.Time       `gorm:"not null"`
	DueDate     *time.Time
	PaymentDate *time.Time
	Status      string `gorm:"size:20;not null;default:'pending'"`
	UserID      uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *SupplierExpense) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
