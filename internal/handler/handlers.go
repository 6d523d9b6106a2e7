package handler

import (
	"database/sql"
	"log/slog"
	"time"

	"vwds/config"
	"vwds/internal/auth"
	"vwds/internal/report"
	"vwds/internal/repository"
	"vwds/internal/service"
)

// Handler holds the services behind every endpoint.
type Handler struct {
	DB       *sql.DB
	Tokens   *auth.TokenManager
	Auth     *service.AuthService
	Users    *service.UserService
	Vehicles *service.VehicleService
	Routes   *service.RouteService
	Tickets  *service.TicketService
	Reports  *report.Service
	Session  config.SessionConfig
	Logger   *slog.Logger

	loginLimiter *ipLimiter
	now          func() time.Time
}

// NewHandler wires services over db. cache may be nil.
func NewHandler(cfg *config.Config, db *sql.DB, tokens *auth.TokenManager, cache report.StatsCache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	users := repository.NewUserRepository(db)
	return &Handler{
		DB:           db,
		Tokens:       tokens,
		Auth:         service.NewAuthService(users, tokens),
		Users:        service.NewUserService(users),
		Vehicles:     service.NewVehicleService(repository.NewVehicleRepository(db)),
		Routes:       service.NewRouteService(repository.NewRouteRepository(db)),
		Tickets:      service.NewTicketService(db),
		Reports:      report.NewService(repository.NewReportRepository(db), repository.NewTicketRepository(db), cache, logger),
		Session:      cfg.Session,
		Logger:       logger,
		loginLimiter: newIPLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
		now:          time.Now,
	}
}
