package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.ProductComplement{},
		&models.Customer{}, &models.Order{}, &models.OrderItem{},
		&models.CashBox{}, &models.CashMovement{},
		&models.Supplier{}, &models.SupplierExpense{},
		&models.FixedCost{}, &models.VariableCost{}, &models.FinancialEntry{},
		&models.BudgetGoal{}, &models.BalanceSheetEntry{}, &models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: mustDec(t, price), Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name, CreditBalance: decimal.Zero}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decEq(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if !got.Equal(mustDec(t, want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}
