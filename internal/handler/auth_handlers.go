package handler

import (
	"context"
	"net/http"
	"time"

	"vwds/internal/auth"
	"vwds/internal/models"
)

// LoginHandler - POST /api/login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		h.Logger.Info("login failed", "username", in.Username, "role", in.Role, "ip", clientIP(r))
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("login", "user_id", res.User.ID, "role", res.User.Role)
	writeJSON(w, http.StatusOK, res)
}

type sessionUser struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type sessionResponse struct {
	User               sessionUser `json:"user"`
	ExpiresAt          time.Time   `json:"expiresAt"`
	IdleTimeoutSeconds int64       `json:"idleTimeoutSeconds"`
	IdleWarningSeconds int64       `json:"idleWarningSeconds"`
}

// SessionHandler describes the caller's token and the idle policy the
// portal should apply.
func (h *Handler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClaims(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		User:               sessionUser{ID: c.UserID, Username: c.Username, Role: c.Role},
		ExpiresAt:          exp,
		IdleTimeoutSeconds: int64(h.Session.IdleTimeout / time.Second),
		IdleWarningSeconds: int64(h.Session.IdleWarning / time.Second),
	})
}

// HealthHandler pings the store.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		h.Logger.Error("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
