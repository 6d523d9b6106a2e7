package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vwds/internal/models"
)

const ticketSelect = `
	SELECT t.id, t.vehicle_id, t.route_id, t.officer_id, t.violation_details,
	       t.fine_amount, t.ticket_type, t.status, t.date_time,
	       COALESCE(v.license_plate, ''), COALESCE(v.type, ''),
	       COALESCE(r.name, ''), COALESCE(u.username, '')
	FROM tickets t
	LEFT JOIN vehicles v ON t.vehicle_id = v.id
	LEFT JOIN routes r ON t.route_id = r.id
	LEFT JOIN users u ON t.officer_id = u.id`

type TicketRepository struct {
	db DBTX
}

func NewTicketRepository(db DBTX) *TicketRepository {
	return &TicketRepository{db: db}
}

// WithTx binds the repository to tx.
func (r *TicketRepository) WithTx(tx *sql.Tx) *TicketRepository {
	return &TicketRepository{db: tx}
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	var t models.Ticket
	var vehicleID, routeID, officerID sql.NullInt64
	var ticketType, status string
	err := row.Scan(&t.ID, &vehicleID, &routeID, &officerID, &t.ViolationDetails,
		&t.FineAmount, &ticketType, &status, &t.DateTime,
		&t.LicensePlate, &t.VehicleType, &t.RouteName, &t.OfficerName)
	if err != nil {
		return nil, err
	}
	t.VehicleID = nullableID(vehicleID)
	t.RouteID = nullableID(routeID)
	t.OfficerID = nullableID(officerID)
	t.TicketType = models.TicketType(ticketType)
	t.Status = models.TicketStatus(status)
	t.DateTime = t.DateTime.UTC()
	return &t, nil
}

// Create inserts a resolved ticket and returns its id. Missing
// vehicle/route/officer rows surface as a not-found error from the
// foreign keys.
func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tickets (vehicle_id, route_id, officer_id, violation_details, fine_amount, ticket_type, status, date_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		t.VehicleID, t.RouteID, t.OfficerID, t.ViolationDetails, t.FineAmount,
		string(t.TicketType), string(t.Status), t.DateTime.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, translate(err, "Ticket already exists")
	}
	return id, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t, err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "Ticket")
	}
	return t, nil
}

// List returns tickets matching f, newest first.
func (r *TicketRepository) List(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if f.From != nil {
		args = append(args, f.From.UTC())
		where = append(where, fmt.Sprintf("t.date_time >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, f.To.UTC())
		where = append(where, fmt.Sprintf("t.date_time < $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("t.ticket_type = $%d", len(args)))
	}

	query := ticketSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.date_time DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TicketRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "tickets")
}

// IssuedTimes returns the creation time of every ticket, for bucketing
// outside SQL where date functions differ per dialect.
func (r *TicketRepository) IssuedTimes(ctx context.Context) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT date_time FROM tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts.UTC())
	}
	return out, rows.Err()
}
