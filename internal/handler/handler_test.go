package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vwds/config"
	"vwds/internal/auth"
	"vwds/internal/models"
	"vwds/internal/testutil"
)

type testEnv struct {
	db      *sql.DB
	h       *Handler
	router  http.Handler
	tokens  *auth.TokenManager
	users   map[models.Role]*models.User
	bearers map[models.Role]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		Session:   config.SessionConfig{IdleTimeout: 30 * time.Minute, IdleWarning: 5 * time.Minute},
		RateLimit: config.RateLimitConfig{LoginPerMinute: 600, LoginBurst: 100},
	}
	tm := auth.NewTokenManager(testutil.TestSecret, time.Hour)
	h := NewHandler(cfg, db, tm, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	env := &testEnv{
		db:      db,
		h:       h,
		router:  h.Router(),
		tokens:  tm,
		users:   map[models.Role]*models.User{},
		bearers: map[models.Role]string{},
	}
	for _, seed := range []struct {
		name string
		role models.Role
	}{
		{"root", models.RoleAdmin},
		{"alice", models.RoleDataEntry},
		{"bob", models.RolePoliceOfficer},
	} {
		u := testutil.SeedUser(t, db, seed.name, seed.role, "password1")
		env.users[seed.role] = u
		env.bearers[seed.role] = testutil.Token(t, tm, u)
	}
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[errorResponse](t, rec).Error
}

// concretePath fills route variables with values that parse.
func concretePath(p string) string {
	return strings.NewReplacer("{id}", "1", "{format}", "csv").Replace(p)
}

func TestRouteTable_RoleEnforcement(t *testing.T) {
	env := newTestEnv(t)
	for _, rt := range routes {
		if rt.roles == nil {
			continue
		}
		for _, role := range models.Roles {
			allowed := false
			for _, a := range rt.roles {
				allowed = allowed || a == role
			}
			t.Run(rt.name+"/"+string(role), func(t *testing.T) {
				rec := env.do(t, rt.method, concretePath(rt.path), env.bearers[role], nil)
				if allowed {
					assert.NotEqual(t, http.StatusForbidden, rec.Code)
					assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
				} else {
					assert.Equal(t, http.StatusForbidden, rec.Code)
					assert.Equal(t, "Insufficient permissions", errorOf(t, rec))
				}
			})
		}
	}
}

func TestAdminOnlyEndpoints(t *testing.T) {
	env := newTestEnv(t)
	adminOnly := 0
	for _, rt := range routes {
		if len(rt.roles) != 1 || rt.roles[0] != models.RoleAdmin {
			continue
		}
		adminOnly++
		for _, role := range []models.Role{models.RoleDataEntry, models.RolePoliceOfficer} {
			rec := env.do(t, rt.method, concretePath(rt.path), env.bearers[role], nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s as %s", rt.name, role)
		}
	}
	assert.Equal(t, 7, adminOnly)
}

func TestAuthentication_401vs403(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", errorOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/users", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorOf(t, rec))

	expired := auth.NewTokenManager(testutil.TestSecret, time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	rec = env.do(t, http.MethodGet, "/api/vehicles", testutil.Token(t, expired, env.users[models.RoleAdmin]), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/users", env.bearers[models.RoleDataEntry], nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "alice", "password": "password1", "role": "data_entry",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[loginBody](t, rec)
		assert.Equal(t, env.users[models.RoleDataEntry].Summary(), body.User)
		assert.NotContains(t, rec.Body.String(), "password")

		claims, err := env.tokens.Verify(body.Token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleDataEntry, claims.Role)
	})

	t.Run("role mismatch", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "alice", "password": "password1", "role": "admin",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials or role", errorOf(t, rec))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "alice", "password": "nope", "role": "data_entry",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials or role", errorOf(t, rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username, password, and role are required", errorOf(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.h.loginLimiter = newIPLimiter(1, 2)

	body := map[string]string{"username": "alice", "password": "nope", "role": "data_entry"}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/login", "", body).Code)
	}
	rec := env.do(t, http.MethodPost, "/api/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCreateTicket_ByPlateAndRouteName(t *testing.T) {
	env := newTestEnv(t)
	vehicleID := testutil.SeedVehicle(t, env.db, "ABC-1234", "truck", 18000)
	routeID := testutil.SeedRoute(t, env.db, "Highway A1", 42, 12000)
	officer := env.users[models.RolePoliceOfficer]

	rec := env.do(t, http.MethodPost, "/api/tickets", env.bearers[models.RolePoliceOfficer], map[string]any{
		"licensePlate":     "ABC-1234",
		"routeName":        "Highway A1",
		"ticket_type":      "overload",
		"fine_amount":      150,
		"officer_id":       999,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tk := decode[models.Ticket](t, rec)
	assert.Equal(t, officer.ID, *tk.OfficerID)
	assert.Equal(t, vehicleID, *tk.VehicleID)
	assert.Equal(t, routeID, *tk.RouteID)
	assert.Equal(t, models.TicketStatusPending, tk.Status)
	assert.Equal(t, models.TicketTypeOverload, tk.TicketType)
	assert.Equal(t, 150.0, tk.FineAmount)
	assert.Equal(t, "bob", tk.OfficerName)

	rec = env.do(t, http.MethodGet, "/api/tickets/"+idStr(tk.ID), env.bearers[models.RoleDataEntry], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/tickets", env.bearers[models.RolePoliceOfficer], map[string]any{
		"licensePlate": "ZZZ-0000", "routeName": "Highway A1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Vehicle not found", errorOf(t, rec))
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, "tickets"))

	rec = env.do(t, http.MethodPost, "/api/tickets", env.bearers[models.RoleDataEntry], map[string]any{
		"licensePlate": "ABC-1234", "routeName": "Highway A1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type loginBody struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func idStr(id int64) string { return strconv.FormatInt(id, 10) }

func TestVehicleCRUD(t *testing.T) {
	env := newTestEnv(t)
	tok := env.bearers[models.RoleDataEntry]

	rec := env.do(t, http.MethodPost, "/api/vehicles", tok, map[string]any{"licensePlate": "ABC-1234", "type": "truck", "weight": 18000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[models.Vehicle](t, rec)

	rec = env.do(t, http.MethodPost, "/api/vehicles", tok, map[string]any{"licensePlate": "ABC-1234", "type": "van", "weight": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "License plate already exists", errorOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/vehicles/"+idStr(v.ID), env.bearers[models.RolePoliceOfficer], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "truck", decode[models.Vehicle](t, rec).Type)

	rec = env.do(t, http.MethodPut, "/api/vehicles/"+idStr(v.ID), tok, map[string]any{"licensePlate": "ABC-1234", "type": "trailer", "weight": 20000})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trailer", decode[models.Vehicle](t, rec).Type)

	rec = env.do(t, http.MethodDelete, "/api/vehicles/9999", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Vehicle not found", errorOf(t, rec))
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, "vehicles"))

	for _, bad := range []string{"abc", "0", "-3"} {
		rec = env.do(t, http.MethodGet, "/api/vehicles/"+bad, tok, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	rec = env.do(t, http.MethodDelete, "/api/vehicles/"+idStr(v.ID), tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vehicle deleted successfully", decode[messageResponse](t, rec).Message)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	tok := env.bearers[models.RolePoliceOfficer]
	testutil.SeedVehicle(t, env.db, "ABC-1234", "truck", 1)
	testutil.SeedRoute(t, env.db, "Highway A1", 1, 3500)

	rec := env.do(t, http.MethodGet, "/api/vehicles/search?query=", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/vehicles/search?query=abc", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"licensePlate":"ABC-1234","type":"truck","weight":1}]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/routes/search?query=highway", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Highway A1","weightRestriction":3500}]`, rec.Body.String())
}

func TestUserAdmin(t *testing.T) {
	env := newTestEnv(t)
	tok := env.bearers[models.RoleAdmin]

	rec := env.do(t, http.MethodPost, "/api/users", tok, map[string]string{
		"username": "dave", "email": "dave@example.com", "password": "secret1", "role": "police_officer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	u := decode[models.User](t, rec)

	rec = env.do(t, http.MethodPost, "/api/users", tok, map[string]string{"username": "eve"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", errorOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/users", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 4)

	rec = env.do(t, http.MethodDelete, "/api/users/"+idStr(u.ID), tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/users/"+idStr(u.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", errorOf(t, rec))
}

func TestSessionAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/session", env.bearers[models.RolePoliceOfficer], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[sessionResponse](t, rec)
	assert.Equal(t, "bob", s.User.Username)
	assert.Equal(t, int64(1800), s.IdleTimeoutSeconds)
	assert.Equal(t, int64(300), s.IdleWarningSeconds)
	assert.True(t, s.ExpiresAt.After(time.Now()))

	rec = env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorOf(t, rec))
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	tok := env.bearers[models.RoleAdmin]
	testutil.SeedVehicle(t, env.db, "ABC-1234", "truck", 1)
	testutil.SeedRoute(t, env.db, "Highway A1", 1, 1)
	rec := env.do(t, http.MethodPost, "/api/tickets", tok, map[string]any{
		"licensePlate": "ABC-1234", "routeName": "Highway A1", "ticket_type": "overload",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/dashboard/stats", env.bearers[models.RolePoliceOfficer], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalTickets":1,"totalVehicles":1,"totalRoutes":1,"totalUsers":3}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/reports/analytics", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	a := decode[models.Analytics](t, rec)
	require.Len(t, a.TicketsByMonth, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), a.TicketsByMonth[0].Month)

	rec = env.do(t, http.MethodGet, "/api/reports/tickets/csv?ticketType=overload", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=tickets-report.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "ABC-1234")

	rec = env.do(t, http.MethodGet, "/api/reports/tickets/pdf", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = env.do(t, http.MethodGet, "/api/reports/tickets/xlsx", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/reports/tickets/csv?startDate=yesterday", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
