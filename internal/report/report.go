// Package report builds the dashboard, analytics and ticket exports.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"vwds/internal/domain"
	"vwds/internal/models"
	"vwds/internal/repository"
)

const dateLayout = "2006-01-02"

// StatsCache stores dashboard counters between requests. Implementations
// may fail freely; the store is the source of truth.
type StatsCache interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
	SetStats(ctx context.Context, s *models.DashboardStats) error
}

type Service struct {
	reports *repository.ReportRepository
	tickets *repository.TicketRepository
	cache   StatsCache
	logger  *slog.Logger
}

// NewService wires the report service. cache may be nil.
func NewService(reports *repository.ReportRepository, tickets *repository.TicketRepository, cache StatsCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reports: reports, tickets: tickets, cache: cache, logger: logger}
}

func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		st, err := s.cache.GetStats(ctx)
		if err == nil && st != nil {
			return st, nil
		}
		if err != nil {
			s.logger.Debug("stats cache miss", "err", err)
		}
	}
	st, err := s.reports.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetStats(ctx, st); err != nil {
			s.logger.Warn("stats cache write failed", "err", err)
		}
	}
	return st, nil
}

func (s *Service) Analytics(ctx context.Context) (*models.Analytics, error) {
	byType, err := s.reports.TicketsByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("tickets by type: %w", err)
	}
	times, err := s.tickets.IssuedTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticket times: %w", err)
	}
	routes, err := s.reports.TopRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("top routes: %w", err)
	}
	officers, err := s.reports.TopOfficers(ctx)
	if err != nil {
		return nil, fmt.Errorf("top officers: %w", err)
	}
	return &models.Analytics{
		TicketsByType:  byType,
		TicketsByMonth: byMonth(times),
		TopRoutes:      routes,
		TopOfficers:    officers,
	}, nil
}

// byMonth buckets times into "YYYY-MM" counts, oldest month first.
func byMonth(times []time.Time) []models.MonthCount {
	counts := make(map[string]int64)
	for _, t := range times {
		counts[t.UTC().Format("2006-01")]++
	}
	out := make([]models.MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, models.MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Tickets returns the rows for an export.
func (s *Service) Tickets(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error) {
	return s.tickets.List(ctx, f)
}

// ParseFilter reads startDate, endDate (both YYYY-MM-DD, endDate
// inclusive) and ticketType. Empty values leave that bound open.
func ParseFilter(startDate, endDate, ticketType string) (models.TicketFilter, error) {
	var f models.TicketFilter
	if startDate != "" {
		d, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return f, invalidDate("startDate")
		}
		f.From = &d
	}
	if endDate != "" {
		d, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return f, invalidDate("endDate")
		}
		next := d.AddDate(0, 0, 1)
		f.To = &next
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, invalidRange()
	}
	if ticketType != "" {
		tt, err := models.ParseTicketType(ticketType)
		if err != nil {
			return f, err
		}
		f.Type = tt
	}
	return f, nil
}

func invalidDate(field string) error {
	return domain.Invalid("%s must be a date in YYYY-MM-DD format", field)
}

func invalidRange() error {
	return domain.Invalid("startDate must not be after endDate")
}
