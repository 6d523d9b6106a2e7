package repository

import (
	"context"
	"database/sql"

	"vwds/internal/models"
)

const (
	vehicleColumns = `id, license_plate, type, weight, created_at`
	vehicleDup     = "License plate already exists"
	searchLimit    = 10
)

type VehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// WithTx binds the repository to tx.
func (r *VehicleRepository) WithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{db: tx}
}

func scanVehicle(row interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := row.Scan(&v.ID, &v.LicensePlate, &v.Type, &v.Weight, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) Create(ctx context.Context, in models.VehicleInput) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v, err := scanVehicle(r.db.QueryRowContext(ctx,
		`INSERT INTO vehicles (license_plate, type, weight) VALUES ($1, $2, $3) RETURNING `+vehicleColumns,
		in.LicensePlate, in.Type, in.Weight))
	if err != nil {
		return nil, translate(err, vehicleDup)
	}
	return v, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "Vehicle")
	}
	return v, nil
}

// GetByPlate matches the license plate exactly.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = $1`, plate))
	if err != nil {
		return nil, notFoundOr(err, "Vehicle")
	}
	return v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *VehicleRepository) Update(ctx context.Context, id int64, in models.VehicleInput) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v, err := scanVehicle(r.db.QueryRowContext(ctx,
		`UPDATE vehicles SET license_plate = $1, type = $2, weight = $3 WHERE id = $4 RETURNING `+vehicleColumns,
		in.LicensePlate, in.Type, in.Weight, id))
	if err != nil {
		return nil, notFoundOr(translate(err, vehicleDup), "Vehicle")
	}
	return v, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res, "Vehicle")
}

// Search does a case-insensitive substring match on plate or type.
func (r *VehicleRepository) Search(ctx context.Context, query string) ([]models.VehicleMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT license_plate, type, weight FROM vehicles
		 WHERE LOWER(license_plate) LIKE $1 ESCAPE '\' OR LOWER(type) LIKE $1 ESCAPE '\'
		 ORDER BY license_plate
		 LIMIT $2`,
		likePattern(query), searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.VehicleMatch{}
	for rows.Next() {
		var m models.VehicleMatch
		if err := rows.Scan(&m.LicensePlate, &m.Type, &m.Weight); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "vehicles")
}
