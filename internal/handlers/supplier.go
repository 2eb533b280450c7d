package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type SupplierHandler struct {
	DB    *gorm.DB
	audit *services.AuditRecorder
}

func NewSupplierHandler(db *gorm.DB, audit *services.AuditRecorder) *SupplierHandler {
	return &SupplierHandler{DB: db, audit: audit}
}

type supplierInput struct {
	Name          string `json:"name"`
	TradeName     string `json:"trade_name"`
	CNPJ          string `json:"cnpj"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	PaymentTerms  string `json:"payment_terms"`
}

// Suppliers dispatches /suppliers by method.
func (h *SupplierHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut, http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *SupplierHandler) list(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Supplier{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := searchSanitizer.ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(trade_name) LIKE ? OR cnpj LIKE ?", like, like, like)
	}
	var suppliers []models.Supplier
	if err := dbq.Order("name asc").Find(&suppliers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_suppliers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) create(w http.ResponseWriter, r *http.Request) {
	var input supplierInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	s := models.Supplier{
		Name: input.Name, TradeName: input.TradeName, CNPJ: input.CNPJ,
		Email: input.Email, Phone: input.Phone, Address: input.Address,
		ContactPerson: input.ContactPerson, PaymentTerms: input.PaymentTerms,
	}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "supplier_create_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Supplier", s.ID.String(), "create", nil, s)
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *SupplierHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Supplier
	if err := h.DB.First(&s, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	before := s
	var input supplierInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Name != "" {
		s.Name = input.Name
	}
	s.TradeName = input.TradeName
	s.CNPJ = input.CNPJ
	s.Email = input.Email
	s.Phone = input.Phone
	s.Address = input.Address
	s.ContactPerson = input.ContactPerson
	s.PaymentTerms = input.PaymentTerms
	if err := h.DB.Save(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Supplier", s.ID.String(), "update", before, s)
	httpx.JSON(w, http.StatusOK, s)
}

func (h *SupplierHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	h.DB.Model(&models.SupplierExpense{}).Where("supplier_id = ?", id).Count(&count)
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "supplier_has_expenses", map[string]int64{"expenses": count})
		return
	}
	if err := h.DB.Delete(&models.Supplier{}, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Supplier", id.String(), "delete", nil, nil)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type expenseInput struct {
	SupplierID  string          `json:"supplier_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IssueDate   *time.Time      `json:"issue_date"`
	DueDate     *time.Time      `json:"due_date"`
}

// Expenses dispatches /suppliers/expenses.
func (h *SupplierHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		dbq := h.DB.Model(&models.SupplierExpense{}).Preload("Supplier")
		if v := r.URL.Query().Get("supplier_id"); v != "" {
			dbq = dbq.Where("supplier_id = ?", v)
		}
		if v := r.URL.Query().Get("status"); v != "" {
			dbq = dbq.Where("status = ?", v)
		}
		var expenses []models.SupplierExpense
		if err := dbq.Order("issue_date desc").Find(&expenses).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_expenses", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, expenses)
	case http.MethodPost:
		var input expenseInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		supplierID, err := parseSupplierID(input.SupplierID)
		if err != nil || strings.TrimSpace(input.Description) == "" || !input.Amount.IsPositive() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{
				"supplier_id": "required", "description": "required", "amount": "must be positive",
			})
			return
		}
		issue := time.Now()
		if input.IssueDate != nil {
			issue = *input.IssueDate
		}
		uid, _ := auth.UserIDFromContext(r.Context())
		e := models.SupplierExpense{
			SupplierID:  supplierID,
			Description: input.Description,
			Amount:      input.Amount,
			IssueDate:   issue,
			DueDate:     input.DueDate,
			Status:      models.ExpenseStatusPending,
			UserID:      uid,
		}
		if err := h.DB.Create(&e).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "expense_create_failed", nil)
			return
		}
		h.audit.Record(uid, "SupplierExpense", e.ID.String(), "create", nil, e)
		httpx.JSON(w, http.StatusCreated, e)
	case http.MethodDelete:
		id, ok := queryUUID(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		if err := h.DB.Delete(&models.SupplierExpense{}, "id = ?", id).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func parseSupplierID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// PayExpense handles POST /suppliers/expenses/pay?id=U.
func (h *SupplierHandler) PayExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var e models.SupplierExpense
	if err := h.DB.First(&e, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if e.Status == models.ExpenseStatusPaid {
		httpx.JSONError(w, http.StatusConflict, "expense_already_paid", nil)
		return
	}
	now := time.Now()
	e.Status = models.ExpenseStatusPaid
	e.PaymentDate = &now
	if err := h.DB.Save(&e).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}
