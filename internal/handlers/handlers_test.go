package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
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
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{Name: "Lucas", Email: "lucas@test", Password: "x", Role: "admin"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedTestProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	d, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price: %v", err)
	}
	p := models.Product{Name: name, Price: d, Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// doJSON builds an authenticated JSON request and records the response.
func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func newTestAudit(db *gorm.DB) *services.AuditRecorder { return services.NewAuditRecorder(db) }
