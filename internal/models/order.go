package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order workflow: aberto → preparando → pronto → entregue → pago.
// Skip-ahead is allowed; any known status may be set from any other.
const (
	OrderStatusOpen      = "aberto"
	OrderStatusPreparing = "preparando"
	OrderStatusReady     = "pronto"
	OrderStatusDelivered = "entregue"
	OrderStatusPaid      = "pago"
)

const (
	OrderTypeCounter  = "balcao"
	OrderTypeDelivery = "delivery"
	OrderTypeTable    = "mesa"
)

const (
	PaymentCash   = "dinheiro"
	PaymentCard   = "cartao"
	PaymentPix    = "pix"
	PaymentCredit = "fiado" // settled against the customer's running balance
)

type Order struct {
	ID            uint       `gorm:"primaryKey"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"` // optional link to a registered customer
	CustomerName  string
	CustomerPhone string
	Type          string `gorm:"size:20;not null"`
	TableNumber   string // table number or delivery address, depending on Type
	Status        string `gorm:"size:20;not null;default:'aberto';index"`
	PaymentMethod string `gorm:"size:20"`
	Notes         string
	// Stored total, recomputed from the items inside the same transaction
	// that writes them. Never accepted from the client.
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UserID    uint            `gorm:"index"` // who entered the order
	Items     []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"not null;index"`
	ProductID uint    `gorm:"not null"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null"`
	// Unit price captured from the product at write time; later catalog edits
	// do not retroactively change the order.
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
