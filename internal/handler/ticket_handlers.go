package handler

import (
	"net/http"

	"vwds/internal/auth"
	"vwds/internal/models"
	"vwds/internal/report"
)

// ListTicketsHandler - GET /api/tickets. Accepts the same startDate,
// endDate and ticketType filters as the reports.
func (h *Handler) ListTicketsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := report.ParseFilter(q.Get("startDate"), q.Get("endDate"), q.Get("ticketType"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tickets, err := h.Tickets.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *Handler) GetTicketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tickets.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTicketHandler - POST /api/tickets. The issuing officer is always
// the caller.
func (h *Handler) CreateTicketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClaims(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.TicketInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tickets.Create(r.Context(), c.UserID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("ticket issued", "id", t.ID, "officer_id", c.UserID, "type", t.TicketType)
	writeJSON(w, http.StatusCreated, t)
}
