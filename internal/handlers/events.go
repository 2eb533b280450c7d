package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/events"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
)

// watchable tables; anything else is a client mistake.
var watchableTables = map[string]bool{
	"orders":         true,
	"cash_boxes":     true,
	"cash_movements": true,
}

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler { return &EventsHandler{hub: hub} }

// Stream handles GET /events?table=T[&cash_box_id=N] as server-sent events.
// The connection stays open until the client goes away.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	table := r.URL.Query().Get("table")
	if !watchableTables[table] {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_table", nil)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.JSONError(w, http.StatusInternalServerError, "streaming_unsupported", nil)
		return
	}

	filter := events.Filter{Table: table}
	if v := r.URL.Query().Get("cash_box_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_cash_box_id", nil)
			return
		}
		filter.CashBoxID = uint(n)
	}

	ch, cancel := h.hub.Subscribe(filter)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
