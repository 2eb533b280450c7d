package handlers

import (
	"net/http"
	"strconv"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

type ReportHandler struct {
	svc   *services.ReportService
	audit *services.AuditRecorder
}

func NewReportHandler(svc *services.ReportService, audit *services.AuditRecorder) *ReportHandler {
	return &ReportHandler{svc: svc, audit: audit}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.Daily()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, day)
}

func (h *ReportHandler) DRE(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	dre, err := h.svc.DRE(days)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, dre)
}

func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.BalanceSheet()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

// AuditLog handles GET /audit?entity_type=T&limit=N.
func (h *ReportHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.audit.Recent(r.URL.Query().Get("entity_type"), limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_audit", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}
