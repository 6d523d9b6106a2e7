package repository

import (
	"context"
	"database/sql"

	"vwds/internal/models"
)

const (
	routeColumns = `id, name, length, weight_restriction, created_at`
	routeDup     = "Route already exists"
)

type RouteRepository struct {
	db DBTX
}

func NewRouteRepository(db DBTX) *RouteRepository {
	return &RouteRepository{db: db}
}

// WithTx binds the repository to tx.
func (r *RouteRepository) WithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{db: tx}
}

func scanRoute(row interface{ Scan(...any) error }) (*models.Route, error) {
	var rt models.Route
	if err := row.Scan(&rt.ID, &rt.Name, &rt.Length, &rt.WeightRestriction, &rt.CreatedAt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RouteRepository) Create(ctx context.Context, in models.RouteInput) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rt, err := scanRoute(r.db.QueryRowContext(ctx,
		`INSERT INTO routes (name, length, weight_restriction) VALUES ($1, $2, $3) RETURNING `+routeColumns,
		in.Name, in.Length, in.WeightRestriction))
	if err != nil {
		return nil, translate(err, routeDup)
	}
	return rt, nil
}

func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rt, err := scanRoute(r.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "Route")
	}
	return rt, nil
}

// GetByName matches the name exactly. Names are not unique; the oldest
// route wins.
func (r *RouteRepository) GetByName(ctx context.Context, name string) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rt, err := scanRoute(r.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE name = $1 ORDER BY id LIMIT 1`, name))
	if err != nil {
		return nil, notFoundOr(err, "Route")
	}
	return rt, nil
}

func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}

func (r *RouteRepository) Update(ctx context.Context, id int64, in models.RouteInput) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rt, err := scanRoute(r.db.QueryRowContext(ctx,
		`UPDATE routes SET name = $1, length = $2, weight_restriction = $3 WHERE id = $4 RETURNING `+routeColumns,
		in.Name, in.Length, in.WeightRestriction, id))
	if err != nil {
		return nil, notFoundOr(translate(err, routeDup), "Route")
	}
	return rt, nil
}

func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res, "Route")
}

// Search does a case-insensitive substring match on the route name.
func (r *RouteRepository) Search(ctx context.Context, query string) ([]models.RouteMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, weight_restriction FROM routes
		 WHERE LOWER(name) LIKE $1 ESCAPE '\'
		 ORDER BY name
		 LIMIT $2`,
		likePattern(query), searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.RouteMatch{}
	for rows.Next() {
		var m models.RouteMatch
		if err := rows.Scan(&m.Name, &m.WeightRestriction); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *RouteRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "routes")
}
