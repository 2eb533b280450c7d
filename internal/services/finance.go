package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

// FinanceService covers the planning singletons. Both rows live under fixed
// ids and are created lazily with their defaults on first read.
type FinanceService struct {
	DB *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService { return &FinanceService{DB: db} }

func getOrCreateBudgetGoal(db *gorm.DB) (*models.BudgetGoal, error) {
	var goal models.BudgetGoal
	err := db.First(&goal, "id = ?", models.BudgetGoalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.BudgetGoal{
			ID:              models.BudgetGoalID,
			MonthlyRevenue:  decimal.NewFromInt(15000),
			MonthlyExpenses: decimal.NewFromInt(8000),
			ProfitMargin:    decimal.NewFromFloat(0.30),
		}
		if err := db.Create(&goal).Error; err != nil {
			return nil, err
		}
		return &goal, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func getOrCreateBalanceSheetEntry(db *gorm.DB) (*models.BalanceSheetEntry, error) {
	var entry models.BalanceSheetEntry
	err := db.First(&entry, "id = ?", models.BalanceSheetEntryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.BalanceSheetEntry{
			ID:        models.BalanceSheetEntryID,
			Equipment: decimal.NewFromInt(8000),
			Loans:     decimal.NewFromInt(3000),
		}
		if err := db.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *FinanceService) Goals() (*models.BudgetGoal, error) {
	return getOrCreateBudgetGoal(s.DB)
}

func (s *FinanceService) UpdateGoals(revenue, expenses, margin decimal.Decimal) (*models.BudgetGoal, error) {
	if margin.IsNegative() || margin.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidAmount
	}
	goal, err := getOrCreateBudgetGoal(s.DB)
	if err != nil {
		return nil, err
	}
	goal.MonthlyRevenue = revenue
	goal.MonthlyExpenses = expenses
	goal.ProfitMargin = margin
	if err := s.DB.Save(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *FinanceService) BalanceEntries() (*models.BalanceSheetEntry, error) {
	return getOrCreateBalanceSheetEntry(s.DB)
}

func (s *FinanceService) UpdateBalanceEntries(equipment, loans decimal.Decimal) (*models.BalanceSheetEntry, error) {
	entry, err := getOrCreateBalanceSheetEntry(s.DB)
	if err != nil {
		return nil, err
	}
	entry.Equipment = equipment
	entry.Loans = loans
	if err := s.DB.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
