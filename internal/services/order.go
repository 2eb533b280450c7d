package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/events"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

var (
	ErrEmptyOrder       = errors.New("order_has_no_items")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrUnknownProduct   = errors.New("unknown_product")
	ErrUnknownStatus    = errors.New("unknown_status")
	ErrUnknownPayment   = errors.New("unknown_payment_method")
	ErrAlreadyPaid      = errors.New("order_already_paid")
	ErrCustomerRequired = errors.New("customer_required_for_credit")
	ErrNoCashBoxOpen    = errors.New("no_cash_box_open")
)

type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type OrderInput struct {
	CustomerID    *uuid.UUID       `json:"customer_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	Type          string           `json:"type"`
	TableNumber   string           `json:"table_number"`
	Notes         string           `json:"notes"`
	Items         []OrderItemInput `json:"items"`
}

// OrderService owns the order lifecycle. Every write that touches items
// recomputes the stored total inside the same transaction; client-supplied
// totals are never trusted.
type OrderService struct {
	DB  *gorm.DB
	Hub *events.Hub
}

func NewOrderService(db *gorm.DB, hub *events.Hub) *OrderService {
	return &OrderService{DB: db, Hub: hub}
}

func validStatus(s string) bool {
	switch s {
	case models.OrderStatusOpen, models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusDelivered, models.OrderStatusPaid:
		return true
	}
	return false
}

func validPayment(m string) bool {
	switch m {
	case models.PaymentCash, models.PaymentCard, models.PaymentPix, models.PaymentCredit:
		return true
	}
	return false
}

// buildItems resolves products, snapshots their current price and returns the
// item rows plus the order total.
func buildItems(tx *gorm.DB, inputs []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, decimal.Zero, ErrInvalidQuantity
		}
		var p models.Product
		if err := tx.First(&p, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, ErrUnknownProduct
			}
			return nil, decimal.Zero, err
		}
		line := p.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:  p.ID,
			Quantity:   in.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: line,
		})
		total = total.Add(line)
	}
	return items, total, nil
}

func (s *OrderService) publish(action string, o *models.Order) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(events.Event{Table: "orders", Action: action, ID: fmt.Sprint(o.ID)})
}

func (s *OrderService) Create(in OrderInput, userID uint) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	order := &models.Order{
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Type:          in.Type,
		TableNumber:   in.TableNumber,
		Status:        models.OrderStatusOpen,
		Notes:         in.Notes,
		UserID:        userID,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		items, total, err := buildItems(tx, in.Items)
		if err != nil {
			return err
		}
		order.Items = items
		order.Total = total
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.ActionInsert, order)
	return order, nil
}

// Update replaces the order's header fields and rewrites its item list.
// Items are dropped and re-inserted so edits, removals and additions are all
// one code path; the total is recomputed in the same transaction.
func (s *OrderService) Update(id uint, in OrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		items, total, err := buildItems(tx, in.Items)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.CustomerID = in.CustomerID
		order.CustomerName = in.CustomerName
		order.CustomerPhone = in.CustomerPhone
		order.Type = in.Type
		order.TableNumber = in.TableNumber
		order.Notes = in.Notes
		order.Total = total
		order.Items = items
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.ActionUpdate, &order)
	return &order, nil
}

func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	if !validStatus(status) {
		return nil, ErrUnknownStatus
	}
	var order models.Order
	if err := s.DB.First(&order, id).Error; err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}
	s.publish(events.ActionUpdate, &order)
	return &order, nil
}

// Delete removes the order and its items in one transaction so a failure
// partway leaves both intact.
func (s *OrderService) Delete(id uint) error {
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return err
	}
	s.publish(events.ActionDelete, &order)
	return nil
}

// Pay settles an order. Cash-like methods record a single entrada in the open
// register; fiado instead adds the total to the customer's running balance.
// Paying an already-paid order is rejected before any side effect, so a retry
// can never double-count.
func (s *OrderService) Pay(id uint, method string, userID uint) (*models.Order, error) {
	if !validPayment(method) {
		return nil, ErrUnknownPayment
	}
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if order.Status == models.OrderStatusPaid {
			return ErrAlreadyPaid
		}
		if method == models.PaymentCredit {
			if order.CustomerID == nil {
				return ErrCustomerRequired
			}
			res := tx.Model(&models.Customer{}).Where("id = ?", *order.CustomerID).
				Update("credit_balance", gorm.Expr("credit_balance + ?", order.Total))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCustomerRequired
			}
		} else {
			var box models.CashBox
			if err := tx.Where("closed_at IS NULL").First(&box).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoCashBoxOpen
				}
				return err
			}
			mov := models.CashMovement{
				CashBoxID: box.ID,
				Kind:      models.MovementIn,
				Amount:    order.Total,
				Notes:     fmt.Sprintf("Pedido #%d", order.ID),
				UserID:    userID,
			}
			if err := tx.Create(&mov).Error; err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusPaid
		order.PaymentMethod = method
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.ActionUpdate, &order)
	return &order, nil
}

// Get loads one order with its items and products.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders oldest first so display numbers stay stable.
func (s *OrderService) List(status string) ([]models.Order, error) {
	q := s.DB.Preload("Items").Preload("Items.Product").Order("created_at asc, id asc")
	if status != "" {
		if !validStatus(status) {
			return nil, ErrUnknownStatus
		}
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderNumbers assigns the day-to-day display numbers: position in the full
// list ordered by creation, starting at 1. Deleting an order renumbers the
// ones after it.
func (s *OrderService) OrderNumbers() (map[uint]int, error) {
	var ids []uint
	if err := s.DB.Model(&models.Order{}).Order("created_at asc, id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	numbers := make(map[uint]int, len(ids))
	for i, id := range ids {
		numbers[id] = i + 1
	}
	return numbers, nil
}

// CreditOrders lists a customer's fiado orders, newest first.
func (s *OrderService) CreditOrders(customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").Preload("Items.Product").
		Where("customer_id = ? AND payment_method = ?", customerID, models.PaymentCredit).
		Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
