package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type CashBoxHandler struct {
	svc *services.CashBoxService
}

func NewCashBoxHandler(svc *services.CashBoxService) *CashBoxHandler {
	return &CashBoxHandler{svc: svc}
}

// Current handles GET /cashbox: the open session with movements, or null.
func (h *CashBoxHandler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	box, err := h.svc.Current()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_cash_box", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, box)
}

// Open handles POST /cashbox/open.
func (h *CashBoxHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		StartingAmount decimal.Decimal `json:"starting_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	box, err := h.svc.Open(input.StartingAmount, uid)
	if err != nil {
		writeCashBoxError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, box)
}

// Close handles POST /cashbox/close.
func (h *CashBoxHandler) Close(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	box, err := h.svc.Close(uid)
	if err != nil {
		writeCashBoxError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, box)
}

// Movements handles POST and DELETE on /cashbox/movements.
func (h *CashBoxHandler) Movements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var input struct {
			Kind   string          `json:"kind"`
			Amount decimal.Decimal `json:"amount"`
			Notes  string          `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		uid, _ := auth.UserIDFromContext(r.Context())
		mov, err := h.svc.AddMovement(input.Kind, input.Amount, input.Notes, uid)
		if err != nil {
			writeCashBoxError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, mov)
	case http.MethodDelete:
		id := queryID(r)
		if id == 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		if err := h.svc.DeleteMovement(id); err != nil {
			writeCashBoxError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// Summary handles GET /cashbox/summary?id=N; id defaults to the open session.
func (h *CashBoxHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := queryID(r)
	if id == 0 {
		box, err := h.svc.Current()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_cash_box", nil)
			return
		}
		if box == nil {
			httpx.JSONError(w, http.StatusNotFound, "no_cash_box_open", nil)
			return
		}
		id = box.ID
	}
	sum, err := h.svc.Summary(id)
	if err != nil {
		writeCashBoxError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

// History handles GET /cashbox/history?limit=N.
func (h *CashBoxHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	boxes, err := h.svc.History(limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_cash_boxes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, boxes)
}

func writeCashBoxError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrCashBoxAlreadyOpen):
		httpx.JSONError(w, http.StatusConflict, "cash_box_already_open", nil)
	case errors.Is(err, services.ErrNoCashBoxOpen):
		httpx.JSONError(w, http.StatusConflict, "no_cash_box_open", nil)
	case errors.Is(err, services.ErrCashBoxClosed):
		httpx.JSONError(w, http.StatusConflict, "cash_box_closed", nil)
	case errors.Is(err, services.ErrInvalidAmount):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_amount", nil)
	case errors.Is(err, services.ErrUnknownMovement):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_movement_kind", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "cash_box_operation_failed", nil)
	}
}
