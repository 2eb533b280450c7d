package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

func TestGoalsSingletonEndpoint(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	h := NewFinanceHandler(db, services.NewFinanceService(db))

	w := doJSON(t, h.Goals, http.MethodGet, "/finance/goals", "", user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var goal models.BudgetGoal
	if err := json.Unmarshal(w.Body.Bytes(), &goal); err != nil {
		t.Fatal(err)
	}
	if !goal.MonthlyRevenue.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("default revenue = %s", goal.MonthlyRevenue)
	}

	w = doJSON(t, h.Goals, http.MethodPut, "/finance/goals", `{"monthly_revenue":"20000","monthly_expenses":"9000","profit_margin":"0.25"}`, user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("update expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, h.Goals, http.MethodPut, "/finance/goals", `{"monthly_revenue":"20000","monthly_expenses":"9000","profit_margin":"1.5"}`, user.ID)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("margin over 1 expected 400 got %d", w.Code)
	}

	var count int64
	db.Model(&models.BudgetGoal{}).Count(&count)
	if count != 1 {
		t.Fatalf("goal rows = %d", count)
	}
}

func TestBalanceEntriesEndpoint(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	h := NewFinanceHandler(db, services.NewFinanceService(db))

	w := doJSON(t, h.BalanceEntries, http.MethodGet, "/finance/balance-entries", "", user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var entry models.BalanceSheetEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if !entry.Equipment.Equal(decimal.NewFromInt(8000)) || !entry.Loans.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("defaults = %s / %s", entry.Equipment, entry.Loans)
	}

	w = doJSON(t, h.BalanceEntries, http.MethodPut, "/finance/balance-entries", `{"equipment":"10000","loans":"500"}`, user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("update expected 200 got %d", w.Code)
	}
}

func TestFixedAndVariableCostEndpoints(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	h := NewFinanceHandler(db, services.NewFinanceService(db))

	w := doJSON(t, h.FixedCosts, http.MethodPost, "/finance/fixed-costs", `{"name":"Aluguel","amount":"1800.00"}`, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("fixed expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var fc models.FixedCost
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Frequency != "Mensal" {
		t.Fatalf("default frequency = %q", fc.Frequency)
	}

	w = doJSON(t, h.VariableCosts, http.MethodPost, "/finance/variable-costs", `{"name":"Farinha","amount":"0"}`, user.ID)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero amount expected 400 got %d", w.Code)
	}
	w = doJSON(t, h.VariableCosts, http.MethodPost, "/finance/variable-costs", `{"name":"Farinha","amount":"80.00"}`, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("variable expected 201 got %d", w.Code)
	}
}

func TestFinancialEntriesPayFlow(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	h := NewFinanceHandler(db, services.NewFinanceService(db))

	w := doJSON(t, h.Entries, http.MethodPost, "/finance/entries", `{"type":"despesa","description":"Gás","amount":"120.00"}`, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var entry models.FinancialEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, h.PayEntry, http.MethodPost, "/finance/entries/pay?id=1", "", user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("pay expected 200 got %d", w.Code)
	}
	w = doJSON(t, h.PayEntry, http.MethodPost, "/finance/entries/pay?id=1", "", user.ID)
	if w.Code != http.StatusConflict {
		t.Fatalf("second pay expected 409 got %d", w.Code)
	}
}
