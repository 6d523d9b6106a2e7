package service

import (
	"context"
	"database/sql"
	"time"

	"vwds/internal/domain"
	"vwds/internal/models"
	"vwds/internal/repository"
)

// TicketService issues tickets, resolving a license plate or route name
// to its row when the id is not given.
type TicketService struct {
	db       *sql.DB
	vehicles *repository.VehicleRepository
	routes   *repository.RouteRepository
	tickets  *repository.TicketRepository
	now      func() time.Time
}

func NewTicketService(db *sql.DB) *TicketService {
	return &TicketService{
		db:       db,
		vehicles: repository.NewVehicleRepository(db),
		routes:   repository.NewRouteRepository(db),
		tickets:  repository.NewTicketRepository(db),
		now:      time.Now,
	}
}

// Create resolves references and inserts the ticket in one transaction.
// officerID always comes from the caller's session. On any error no
// ticket row is written.
func (s *TicketService) Create(ctx context.Context, officerID int64, in models.TicketInput) (*models.Ticket, error) {
	ticketType, err := in.Validate()
	if err != nil {
		return nil, err
	}

	var created *models.Ticket
	err = repository.InTx(ctx, s.db, func(tx *sql.Tx) error {
		vehicleID := in.DirectVehicleID()
		if vehicleID == 0 {
			v, err := s.vehicles.WithTx(tx).GetByPlate(ctx, in.LicensePlate)
			if err != nil {
				return err
			}
			vehicleID = v.ID
		}
		routeID := in.DirectRouteID()
		if routeID == 0 {
			r, err := s.routes.WithTx(tx).GetByName(ctx, in.RouteName)
			if err != nil {
				return err
			}
			routeID = r.ID
		}
		if vehicleID == 0 || routeID == 0 {
			return domain.Invalid("Vehicle and route are required")
		}

		tickets := s.tickets.WithTx(tx)
		id, err := tickets.Create(ctx, &models.Ticket{
			VehicleID:        &vehicleID,
			RouteID:          &routeID,
			OfficerID:        &officerID,
			ViolationDetails: in.ViolationDetails,
			FineAmount:       in.Fine(),
			TicketType:       ticketType,
			Status:           models.TicketStatusPending,
			DateTime:         s.now().UTC(),
		})
		if err != nil {
			return err
		}
		created, err = tickets.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TicketService) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) List(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error) {
	return s.tickets.List(ctx, f)
}
