package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type CustomerHandler struct {
	DB     *gorm.DB
	orders *services.OrderService
	audit  *services.AuditRecorder
}

func NewCustomerHandler(db *gorm.DB, orders *services.OrderService, audit *services.AuditRecorder) *CustomerHandler {
	return &CustomerHandler{DB: db, orders: orders, audit: audit}
}

type customerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Customers dispatches /customers by method.
func (h *CustomerHandler) Customers(w http.ResponseWriter, r *http.Request) {
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

func queryUUID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Customer{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := searchSanitizer.ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR phone LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	c := models.Customer{Name: input.Name, Phone: input.Phone, Email: input.Email, Address: input.Address, Notes: input.Notes}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Customer", c.ID.String(), "create", nil, c)
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	before := c
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Name != "" {
		c.Name = input.Name
	}
	c.Phone = input.Phone
	c.Email = input.Email
	c.Address = input.Address
	c.Notes = input.Notes
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Customer", c.ID.String(), "update", before, c)
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.DB.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Customer", id.String(), "delete", c, nil)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Credit handles GET /customers/credit?id=U: the customer's balance and their
// fiado orders.
func (h *CustomerHandler) Credit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, ok := queryUUID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	orders, err := h.orders.CreditOrders(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_credit_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customer":       c,
		"credit_balance": c.CreditBalance,
		"orders":         orders,
	})
}
