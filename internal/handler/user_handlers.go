package handler

import (
	"net/http"

	"vwds/internal/models"
)

// ListUsersHandler - GET /api/users
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserHandler - GET /api/users/{id}
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUserHandler - POST /api/users
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.Users.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("user created", "id", u.ID, "username", u.Username, "role", u.Role)
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUserHandler - PUT /api/users/{id}
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.Users.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUserHandler - DELETE /api/users/{id}
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("user deleted", "id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
