package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"vwds/internal/auth"
	"vwds/internal/models"
)

// route is one endpoint and the roles allowed to call it. A nil roles
// slice marks a public endpoint.
type route struct {
	name    string
	method  string
	path    string
	roles   []models.Role
	handler func(*Handler, http.ResponseWriter, *http.Request)
}

// routes is the single place endpoint permissions are declared. Search
// paths precede {id} paths so mux matches them first.
var routes = []route{
	{"health", http.MethodGet, "/healthz", nil, (*Handler).HealthHandler},
	{"login", http.MethodPost, "/api/login", nil, (*Handler).LoginHandler},
	{"session", http.MethodGet, "/api/session", auth.AnyRole, (*Handler).SessionHandler},

	{"users.list", http.MethodGet, "/api/users", auth.AdminOnly, (*Handler).ListUsersHandler},
	{"users.create", http.MethodPost, "/api/users", auth.AdminOnly, (*Handler).CreateUserHandler},
	{"users.get", http.MethodGet, "/api/users/{id}", auth.AdminOnly, (*Handler).GetUserHandler},
	{"users.update", http.MethodPut, "/api/users/{id}", auth.AdminOnly, (*Handler).UpdateUserHandler},
	{"users.delete", http.MethodDelete, "/api/users/{id}", auth.AdminOnly, (*Handler).DeleteUserHandler},

	{"vehicles.search", http.MethodGet, "/api/vehicles/search", auth.AnyRole, (*Handler).SearchVehiclesHandler},
	{"vehicles.list", http.MethodGet, "/api/vehicles", auth.AnyRole, (*Handler).ListVehiclesHandler},
	{"vehicles.create", http.MethodPost, "/api/vehicles", auth.DataEntryRoles, (*Handler).CreateVehicleHandler},
	{"vehicles.get", http.MethodGet, "/api/vehicles/{id}", auth.AnyRole, (*Handler).GetVehicleHandler},
	{"vehicles.update", http.MethodPut, "/api/vehicles/{id}", auth.DataEntryRoles, (*Handler).UpdateVehicleHandler},
	{"vehicles.delete", http.MethodDelete, "/api/vehicles/{id}", auth.DataEntryRoles, (*Handler).DeleteVehicleHandler},

	{"routes.search", http.MethodGet, "/api/routes/search", auth.AnyRole, (*Handler).SearchRoutesHandler},
	{"routes.list", http.MethodGet, "/api/routes", auth.AnyRole, (*Handler).ListRoutesHandler},
	{"routes.create", http.MethodPost, "/api/routes", auth.DataEntryRoles, (*Handler).CreateRouteHandler},
	{"routes.get", http.MethodGet, "/api/routes/{id}", auth.AnyRole, (*Handler).GetRouteHandler},
	{"routes.update", http.MethodPut, "/api/routes/{id}", auth.DataEntryRoles, (*Handler).UpdateRouteHandler},
	{"routes.delete", http.MethodDelete, "/api/routes/{id}", auth.DataEntryRoles, (*Handler).DeleteRouteHandler},

	{"tickets.list", http.MethodGet, "/api/tickets", auth.AnyRole, (*Handler).ListTicketsHandler},
	{"tickets.create", http.MethodPost, "/api/tickets", auth.TicketIssuers, (*Handler).CreateTicketHandler},
	{"tickets.get", http.MethodGet, "/api/tickets/{id}", auth.AnyRole, (*Handler).GetTicketHandler},

	{"dashboard.stats", http.MethodGet, "/api/dashboard/stats", auth.AnyRole, (*Handler).DashboardStatsHandler},
	{"reports.analytics", http.MethodGet, "/api/reports/analytics", auth.AdminOnly, (*Handler).AnalyticsHandler},
	{"reports.tickets", http.MethodGet, "/api/reports/tickets/{format}", auth.AdminOnly, (*Handler).TicketReportHandler},
}

// Router builds the HTTP handler with middleware applied.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	for _, rt := range routes {
		rt := rt
		fn := func(w http.ResponseWriter, req *http.Request) { rt.handler(h, w, req) }
		switch {
		case rt.name == "login":
			fn = h.throttleLogin(fn)
		case rt.roles != nil:
			fn = h.protect(rt.roles, fn)
		}
		r.HandleFunc(rt.path, fn).Methods(rt.method).Name(rt.name)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	return withRequestID(h.logRequests(h.recoverPanics(r)))
}
