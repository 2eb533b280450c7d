package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type FinanceHandler struct {
	DB  *gorm.DB
	svc *services.FinanceService
}

func NewFinanceHandler(db *gorm.DB, svc *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{DB: db, svc: svc}
}

// FixedCosts dispatches /finance/fixed-costs.
func (h *FinanceHandler) FixedCosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var costs []models.FixedCost
		if err := h.DB.Order("name asc").Find(&costs).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_costs", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, costs)
	case http.MethodPost:
		var input struct {
			Name      string          `json:"name"`
			Amount    decimal.Decimal `json:"amount"`
			Frequency string          `json:"frequency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if strings.TrimSpace(input.Name) == "" || !input.Amount.IsPositive() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required", "amount": "must be positive"})
			return
		}
		if input.Frequency == "" {
			input.Frequency = "Mensal"
		}
		c := models.FixedCost{Name: input.Name, Amount: input.Amount, Frequency: input.Frequency}
		if err := h.DB.Create(&c).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "cost_create_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, c)
	case http.MethodDelete:
		id, ok := queryUUID(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		if err := h.DB.Delete(&models.FixedCost{}, "id = ?", id).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// VariableCosts dispatches /finance/variable-costs.
func (h *FinanceHandler) VariableCosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var costs []models.VariableCost
		if err := h.DB.Order("date desc").Find(&costs).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_costs", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, costs)
	case http.MethodPost:
		var input struct {
			Name   string          `json:"name"`
			Amount decimal.Decimal `json:"amount"`
			Date   *time.Time      `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if strings.TrimSpace(input.Name) == "" || !input.Amount.IsPositive() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required", "amount": "must be positive"})
			return
		}
		date := time.Now()
		if input.Date != nil {
			date = *input.Date
		}
		c := models.VariableCost{Name: input.Name, Amount: input.Amount, Date: date}
		if err := h.DB.Create(&c).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "cost_create_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, c)
	case http.MethodDelete:
		id, ok := queryUUID(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		if err := h.DB.Delete(&models.VariableCost{}, "id = ?", id).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// Entries dispatches /finance/entries (contas a pagar/receber).
func (h *FinanceHandler) Entries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		dbq := h.DB.Model(&models.FinancialEntry{})
		if v := r.URL.Query().Get("paid"); v != "" {
			dbq = dbq.Where("paid = ?", v == "true" || v == "1")
		}
		var entries []models.FinancialEntry
		if err := dbq.Order("due_date asc, id asc").Find(&entries).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_entries", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, entries)
	case http.MethodPost:
		var input struct {
			SupplierID  string          `json:"supplier_id"`
			Type        string          `json:"type"`
			Description string          `json:"description"`
			Amount      decimal.Decimal `json:"amount"`
			DueDate     *time.Time      `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if !input.Amount.IsPositive() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"amount": "must be positive"})
			return
		}
		if input.Type == "" {
			input.Type = "despesa"
		}
		e := models.FinancialEntry{Type: input.Type, Description: input.Description, Amount: input.Amount, DueDate: input.DueDate}
		if input.SupplierID != "" {
			sid, err := parseSupplierID(input.SupplierID)
			if err != nil {
				httpx.JSONError(w, http.StatusBadRequest, "invalid_supplier_id", nil)
				return
			}
			e.SupplierID = &sid
		}
		if err := h.DB.Create(&e).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "entry_create_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, e)
	case http.MethodDelete:
		id := queryID(r)
		if id == 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		if err := h.DB.Delete(&models.FinancialEntry{}, id).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// PayEntry handles POST /finance/entries/pay?id=N.
func (h *FinanceHandler) PayEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var e models.FinancialEntry
	if err := h.DB.First(&e, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if e.Paid {
		httpx.JSONError(w, http.StatusConflict, "entry_already_paid", nil)
		return
	}
	now := time.Now()
	e.Paid = true
	e.PaidAt = &now
	if err := h.DB.Save(&e).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

// Goals handles GET|PUT /finance/goals. The row is created with defaults on
// first read.
func (h *FinanceHandler) Goals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goal, err := h.svc.Goals()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_goals", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, goal)
	case http.MethodPut, http.MethodPatch, http.MethodPost:
		var input struct {
			MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
			MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
			ProfitMargin    decimal.Decimal `json:"profit_margin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		goal, err := h.svc.UpdateGoals(input.MonthlyRevenue, input.MonthlyExpenses, input.ProfitMargin)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_profit_margin", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, goal)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// BalanceEntries handles GET|PUT /finance/balance-entries.
func (h *FinanceHandler) BalanceEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entry, err := h.svc.BalanceEntries()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_balance_entries", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, entry)
	case http.MethodPut, http.MethodPatch, http.MethodPost:
		var input struct {
			Equipment decimal.Decimal `json:"equipment"`
			Loans     decimal.Decimal `json:"loans"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		entry, err := h.svc.UpdateBalanceEntries(input.Equipment, input.Loans)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, entry)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}
