package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type OrderHandler struct {
	svc   *services.OrderService
	audit *services.AuditRecorder
}

func NewOrderHandler(svc *services.OrderService, audit *services.AuditRecorder) *OrderHandler {
	return &OrderHandler{svc: svc, audit: audit}
}

// orderView decorates an order with its display number.
type orderView struct {
	models.Order
	OrderNumber int `json:"order_number"`
}

func (h *OrderHandler) withNumbers(orders []models.Order) ([]orderView, error) {
	numbers, err := h.svc.OrderNumbers()
	if err != nil {
		return nil, err
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView{Order: o, OrderNumber: numbers[o.ID]})
	}
	return views, nil
}

// Orders dispatches /orders by method.
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := queryID(r); id != 0 {
			h.get(w, r, id)
			return
		}
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut, http.MethodPatch:
		h.update(w, r)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	views, err := h.withNumbers(orders)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id uint) {
	order, err := h.svc.Get(id)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	numbers, err := h.svc.OrderNumbers()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, orderView{Order: *order, OrderNumber: numbers[order.ID]})
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var input services.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	order, err := h.svc.Create(input, uid)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	h.audit.Record(uid, "Order", strconv.Itoa(int(order.ID)), "create", nil, order)
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request) {
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input services.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	before, _ := h.svc.Get(id)
	order, err := h.svc.Update(id, input)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Order", strconv.Itoa(int(order.ID)), "update", before, order)
	httpx.JSON(w, http.StatusOK, order)
}

// Status handles PATCH /orders/status?id=N.
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.svc.UpdateStatus(id, input.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Delete handles POST|DELETE /orders/delete?id=N. Order and items go in one
// transaction.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	before, _ := h.svc.Get(id)
	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.audit.Record(uid, "Order", strconv.Itoa(int(id)), "delete", before, nil)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Pay handles POST /orders/pay?id=N.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	order, err := h.svc.Pay(id, input.PaymentMethod, uid)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrEmptyOrder):
		httpx.JSONError(w, http.StatusBadRequest, "order_has_no_items", nil)
	case errors.Is(err, services.ErrInvalidQuantity):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_quantity", nil)
	case errors.Is(err, services.ErrUnknownProduct):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_product", nil)
	case errors.Is(err, services.ErrUnknownStatus):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
	case errors.Is(err, services.ErrUnknownPayment):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_payment_method", nil)
	case errors.Is(err, services.ErrAlreadyPaid):
		httpx.JSONError(w, http.StatusConflict, "order_already_paid", nil)
	case errors.Is(err, services.ErrCustomerRequired):
		httpx.JSONError(w, http.StatusBadRequest, "customer_required_for_credit", nil)
	case errors.Is(err, services.ErrNoCashBoxOpen):
		httpx.JSONError(w, http.StatusConflict, "no_cash_box_open", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "order_operation_failed", nil)
	}
}
