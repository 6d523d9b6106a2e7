package handler

import (
	"net/http"

	"vwds/internal/auth"
	"vwds/internal/models"
)

// protect authenticates the bearer token, then checks the caller's role
// against allowed. A bad or missing token is a 401; a valid token with
// the wrong role is a 403.
func (h *Handler) protect(allowed []models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.Tokens.Verify(auth.TokenFromRequest(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := auth.Authorize(claims, allowed); err != nil {
			h.Logger.Info("forbidden",
				"user", claims.Username, "role", claims.Role,
				"method", r.Method, "path", r.URL.Path)
			h.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	}
}
