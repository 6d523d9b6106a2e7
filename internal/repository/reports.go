package repository

import (
	"context"
	"fmt"

	"vwds/internal/models"
)

const topN = 5

// ReportRepository runs read-only aggregations. Results are advisory and
// read at the store's default isolation.
type ReportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	counts := []struct {
		table string
		dst   *int64
	}{
		{"tickets", &s.TotalTickets},
		{"vehicles", &s.TotalVehicles},
		{"routes", &s.TotalRoutes},
		{"users", &s.TotalUsers},
	}
	for _, c := range counts {
		n, err := count(ctx, r.db, c.table)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
		*c.dst = n
	}
	return &s, nil
}

func (r *ReportRepository) TicketsByType(ctx context.Context) ([]models.TypeCount, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT ticket_type, COUNT(*) AS n FROM tickets GROUP BY ticket_type ORDER BY n DESC, ticket_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.TypeCount{}
	for rows.Next() {
		var tc models.TypeCount
		var tt string
		if err := rows.Scan(&tt, &tc.Count); err != nil {
			return nil, err
		}
		tc.TicketType = models.TicketType(tt)
		out = append(out, tc)
	}
	return out, rows.Err()
}

// TopRoutes ranks routes by ticket count.
func (r *ReportRepository) TopRoutes(ctx context.Context) ([]models.RouteViolations, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT r.name, COUNT(t.id) AS violations
		 FROM tickets t
		 JOIN routes r ON r.id = t.route_id
		 GROUP BY r.id, r.name
		 ORDER BY violations DESC, r.name
		 LIMIT $1`, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.RouteViolations{}
	for rows.Next() {
		var rv models.RouteViolations
		if err := rows.Scan(&rv.Name, &rv.Violations); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// TopOfficers ranks users by tickets issued.
func (r *ReportRepository) TopOfficers(ctx context.Context) ([]models.OfficerTickets, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT u.username, COUNT(t.id) AS tickets_issued
		 FROM tickets t
		 JOIN users u ON u.id = t.officer_id
		 GROUP BY u.id, u.username
		 ORDER BY tickets_issued DESC, u.username
		 LIMIT $1`, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.OfficerTickets{}
	for rows.Next() {
		var ot models.OfficerTickets
		if err := rows.Scan(&ot.Username, &ot.TicketsIssued); err != nil {
			return nil, err
		}
		out = append(out, ot)
	}
	return out, rows.Err()
}
