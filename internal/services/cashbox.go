package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/events"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

var (
	ErrCashBoxAlreadyOpen = errors.New("cash_box_already_open")
	ErrCashBoxClosed      = errors.New("cash_box_closed")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrUnknownMovement    = errors.New("unknown_movement_kind")
)

// CashBoxService manages register sessions and their movements.
type CashBoxService struct {
	DB  *gorm.DB
	Hub *events.Hub
}

func NewCashBoxService(db *gorm.DB, hub *events.Hub) *CashBoxService {
	return &CashBoxService{DB: db, Hub: hub}
}

// CashBoxSummary holds the live totals of one session.
type CashBoxSummary struct {
	Initial decimal.Decimal `json:"initial"`
	Entries decimal.Decimal `json:"entries"`
	Exits   decimal.Decimal `json:"exits"`
	Total   decimal.Decimal `json:"total"`
}

func (s *CashBoxService) publish(table, action string, id string, boxID uint) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(events.Event{Table: table, Action: action, ID: id, CashBoxID: boxID})
}

// Open starts a new register session. The open check runs inside the same
// transaction as the insert so two concurrent opens cannot both succeed.
func (s *CashBoxService) Open(startingAmount decimal.Decimal, userID uint) (*models.CashBox, error) {
	if startingAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	box := &models.CashBox{
		OpenedAt:       time.Now(),
		StartingAmount: startingAmount,
		OpenedBy:       userID,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CashBox{}).Where("closed_at IS NULL").Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCashBoxAlreadyOpen
		}
		return tx.Create(box).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish("cash_boxes", events.ActionInsert, fmt.Sprint(box.ID), box.ID)
	return box, nil
}

// Current returns the open session with its movements, or nil when the
// register is closed.
func (s *CashBoxService) Current() (*models.CashBox, error) {
	var box models.CashBox
	err := s.DB.Preload("Movements", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("closed_at IS NULL").First(&box).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// AddMovement records an entrada or saida in the open session. The session is
// resolved server side; callers cannot write into a closed box.
func (s *CashBoxService) AddMovement(kind string, amount decimal.Decimal, notes string, userID uint) (*models.CashMovement, error) {
	if kind != models.MovementIn && kind != models.MovementOut {
		return nil, ErrUnknownMovement
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var mov models.CashMovement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var box models.CashBox
		if err := tx.Where("closed_at IS NULL").First(&box).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoCashBoxOpen
			}
			return err
		}
		mov = models.CashMovement{
			CashBoxID: box.ID,
			Kind:      kind,
			Amount:    amount,
			Notes:     notes,
			UserID:    userID,
		}
		return tx.Create(&mov).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish("cash_movements", events.ActionInsert, fmt.Sprint(mov.ID), mov.CashBoxID)
	return &mov, nil
}

func (s *CashBoxService) DeleteMovement(id uint) error {
	var mov models.CashMovement
	if err := s.DB.First(&mov, id).Error; err != nil {
		return err
	}
	var box models.CashBox
	if err := s.DB.First(&box, mov.CashBoxID).Error; err != nil {
		return err
	}
	if !box.Open() {
		return ErrCashBoxClosed
	}
	if err := s.DB.Delete(&models.CashMovement{}, id).Error; err != nil {
		return err
	}
	s.publish("cash_movements", events.ActionDelete, fmt.Sprint(id), mov.CashBoxID)
	return nil
}

func summarize(box *models.CashBox, movements []models.CashMovement) CashBoxSummary {
	sum := CashBoxSummary{
		Initial: box.StartingAmount,
		Entries: decimal.Zero,
		Exits:   decimal.Zero,
	}
	for _, m := range movements {
		switch m.Kind {
		case models.MovementIn:
			sum.Entries = sum.Entries.Add(m.Amount)
		case models.MovementOut:
			sum.Exits = sum.Exits.Add(m.Amount)
		}
	}
	sum.Total = sum.Initial.Add(sum.Entries).Sub(sum.Exits)
	return sum
}

// Summary computes the live totals of one session from its movements.
func (s *CashBoxService) Summary(boxID uint) (*CashBoxSummary, error) {
	var box models.CashBox
	if err := s.DB.First(&box, boxID).Error; err != nil {
		return nil, err
	}
	var movements []models.CashMovement
	if err := s.DB.Where("cash_box_id = ?", boxID).Find(&movements).Error; err != nil {
		return nil, err
	}
	sum := summarize(&box, movements)
	return &sum, nil
}

// Close ends the open session, persisting the reconciled amount
// (starting + entradas - saidas) so history survives movement edits.
func (s *CashBoxService) Close(userID uint) (*models.CashBox, error) {
	var box models.CashBox
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("closed_at IS NULL").First(&box).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoCashBoxOpen
			}
			return err
		}
		var movements []models.CashMovement
		if err := tx.Where("cash_box_id = ?", box.ID).Find(&movements).Error; err != nil {
			return err
		}
		sum := summarize(&box, movements)
		now := time.Now()
		box.ClosedAt = &now
		box.ClosedAmount = decimal.NewNullDecimal(sum.Total)
		return tx.Save(&box).Error
	})
	if err != nil {
		return nil, err
	}
	s.publish("cash_boxes", events.ActionUpdate, fmt.Sprint(box.ID), box.ID)
	return &box, nil
}

// History lists past sessions newest first.
func (s *CashBoxService) History(limit int) ([]models.CashBox, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var boxes []models.CashBox
	err := s.DB.Where("closed_at IS NOT NULL").Order("closed_at desc").Limit(limit).Find(&boxes).Error
	if err != nil {
		return nil, err
	}
	return boxes, nil
}
