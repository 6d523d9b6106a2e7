package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vwds/internal/report"
)

// DashboardStatsHandler - GET /api/dashboard/stats
func (h *Handler) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.Reports.DashboardStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// AnalyticsHandler - GET /api/reports/analytics
func (h *Handler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	a, err := h.Reports.Analytics(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// TicketReportHandler - GET /api/reports/tickets/{csv|pdf}
func (h *Handler) TicketReportHandler(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	f, err := report.ParseFilter(q.Get("startDate"), q.Get("endDate"), q.Get("ticketType"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tickets, err := h.Reports.Tickets(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := report.Write(&buf, format, tickets, h.now()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
