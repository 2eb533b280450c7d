package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog models
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;unique"` // ex: Esfihas, Bebidas, Doces
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"not null;index"`
	SKU        string          `gorm:"size:40;index"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // sale price
	CostPrice  decimal.Decimal `gorm:"type:decimal(12,2)"`          // used for inventory valuation
	Stock      int             `gorm:"not null;default:0"`
	Active     bool            `gorm:"not null;default:true"`
	CategoryID uint            `gorm:"index"`
	Category   Category        `gorm:"foreignKey:CategoryID"`
	// Optional add-ons offered with the product (ex: extra cheese).
	Complements []ProductComplement `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductComplement struct {
	ID        uint            `gorm:"primaryKey"`
	ProductID uint            `gorm:"not null;index"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)"`
}
