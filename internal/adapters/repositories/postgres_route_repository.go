// Package repositories holds the Postgres adapters behind the route ports.
// No planning or comparison logic lives here, only SQL and type mapping.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/platform/obs"
)

// db is satisfied by *pgxpool.Pool and pgx.Tx, so integration tests can run
// every query inside a transaction that is rolled back afterwards.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres-backed implementation of the RouteRepository port.
type PostgresRouteRepository struct{ db db }

func NewPostgresRouteRepository(db db) *PostgresRouteRepository {
	return &PostgresRouteRepository{db: db}
}

const routeColumns = `
	r.route_id,
	r.station_code,
	r.date_yyyy_mm_dd,
	COALESCE(r.departure_time_utc::text, ''),
	COALESCE(r.executor_capacity_cm3, 0)::float8,
	COALESCE(r.route_score, '')`

func (r *PostgresRouteRepository) ListRoutes(ctx context.Context, offset, limit int) (_ []domain.Route, err error) {
	defer obs.Time(ctx, "route.repo.ListRoutes")(&err)
	q := `
	SELECT` + routeColumns + `,
		COUNT(s.stop_id)
	FROM routes r
	LEFT JOIN stops s ON s.route_id = r.route_id
	GROUP BY r.route_id
	ORDER BY r.route_id
	OFFSET @offset
	LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"offset": offset, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list routes: query: %w", err)
	}
	return collectRoutes(rows)
}

func (r *PostgresRouteRepository) ListAllRoutes(ctx context.Context) (_ []domain.Route, err error) {
	defer obs.Time(ctx, "route.repo.ListAllRoutes")(&err)
	q := `
	SELECT` + routeColumns + `,
		COUNT(s.stop_id)
	FROM routes r
	LEFT JOIN stops s ON s.route_id = r.route_id
	GROUP BY r.route_id
	ORDER BY r.route_id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list all routes: query: %w", err)
	}
	return collectRoutes(rows)
}

func (r *PostgresRouteRepository) Totals(ctx context.Context) (_ domain.Totals, err error) {
	defer obs.Time(ctx, "route.repo.Totals")(&err)
	const q = `
	SELECT
		(SELECT COUNT(*) FROM routes),
		(SELECT COUNT(*) FROM stops)`

	var t domain.Totals
	if err := r.db.QueryRow(ctx, q).Scan(&t.RouteCount, &t.StopCount); err != nil {
		return domain.Totals{}, fmt.Errorf("route totals: %w", err)
	}
	return t, nil
}

func (r *PostgresRouteRepository) GetRoute(ctx context.Context, routeID string) (_ domain.Route, err error) {
	defer obs.Time(ctx, "route.repo.GetRoute")(&err)
	q := `
	SELECT` + routeColumns + `,
		(SELECT COUNT(*) FROM stops s WHERE s.route_id = r.route_id)
	FROM routes r
	WHERE r.route_id = @route_id`

	route, err := scanRoute(r.db.QueryRow(ctx, q, pgx.NamedArgs{"route_id": routeID}))
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route: %w", err)
	}
	return route, nil
}

func (r *PostgresRouteRepository) ListStops(ctx context.Context, routeID string) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "route.repo.ListStops")(&err)
	const q = `
	SELECT
		stop_code,
		lat::float8,
		lng::float8,
		type,
		zone_id
	FROM stops
	WHERE route_id = @route_id
	ORDER BY stop_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("list stops: query: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	for rows.Next() {
		var s domain.Stop
		if err := rows.Scan(&s.Code, &s.Lat, &s.Lng, &s.Type, &s.ZoneID); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}
	return stops, nil
}

func (r *PostgresRouteRepository) ListActualSequence(ctx context.Context, routeID string) (_ []domain.SequenceEntry, err error) {
	defer obs.Time(ctx, "route.repo.ListActualSequence")(&err)
	const q = `
	SELECT
		stop_code,
		actual_sequence
	FROM actual_route_sequence
	WHERE route_id = @route_id
	ORDER BY actual_sequence, stop_code`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("list actual sequence: query: %w", err)
	}
	defer rows.Close()

	seq := make([]domain.SequenceEntry, 0, 64)
	for rows.Next() {
		var e domain.SequenceEntry
		if err := rows.Scan(&e.StopCode, &e.Sequence); err != nil {
			return nil, fmt.Errorf("list actual sequence: scan row: %w", err)
		}
		seq = append(seq, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list actual sequence: row iteration: %w", err)
	}
	return seq, nil
}

// SavePlannedRoute writes the whole ordering in one statement. Rows that already
// exist for (route_id, stop_code) keep their original position.
func (r *PostgresRouteRepository) SavePlannedRoute(ctx context.Context, routeID string, planned []domain.RouteStop) (err error) {
	defer obs.Time(ctx, "route.repo.SavePlannedRoute")(&err)
	if len(planned) == 0 {
		return nil
	}

	codes := make([]string, 0, len(planned))
	seqs := make([]int32, 0, len(planned))
	for _, p := range planned {
		codes = append(codes, p.StopCode)
		seqs = append(seqs, int32(p.Sequence))
	}

	const q = `
	INSERT INTO planned_route_sequence (
		route_id,
		stop_code,
		planned_sequence
	)
	SELECT @route_id, t.stop_code, t.planned_sequence
	FROM unnest(@codes::text[], @seqs::int[]) AS t(stop_code, planned_sequence)
	ON CONFLICT (route_id, stop_code) DO NOTHING`

	args := pgx.NamedArgs{"route_id": routeID, "codes": codes, "seqs": seqs}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("save planned route: insert: %w", err)
	}
	return nil
}

func (r *PostgresRouteRepository) GetPlannedRoute(ctx context.Context, routeID string) (_ []domain.RouteStop, err error) {
	defer obs.Time(ctx, "route.repo.GetPlannedRoute")(&err)
	const q = `
	SELECT
		p.stop_code,
		p.planned_sequence,
		s.lat::float8,
		s.lng::float8,
		s.zone_id,
		s.type
	FROM planned_route_sequence p
	JOIN stops s ON s.route_id = p.route_id AND s.stop_code = p.stop_code
	WHERE p.route_id = @route_id
	ORDER BY p.planned_sequence`

	stops, err := r.queryOrdering(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("get planned route: %w", err)
	}
	return stops, nil
}

func (r *PostgresRouteRepository) GetActualRoute(ctx context.Context, routeID string) (_ []domain.RouteStop, err error) {
	defer obs.Time(ctx, "route.repo.GetActualRoute")(&err)
	const q = `
	SELECT
		a.stop_code,
		a.actual_sequence,
		s.lat::float8,
		s.lng::float8,
		s.zone_id,
		s.type
	FROM actual_route_sequence a
	JOIN stops s ON s.route_id = a.route_id AND s.stop_code = a.stop_code
	WHERE a.route_id = @route_id
	ORDER BY a.actual_sequence, a.stop_code`

	stops, err := r.queryOrdering(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("get actual route: %w", err)
	}
	return stops, nil
}

func (r *PostgresRouteRepository) queryOrdering(ctx context.Context, q, routeID string) ([]domain.RouteStop, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RouteStop, 0, 64)
	for rows.Next() {
		var s domain.RouteStop
		if err := rows.Scan(&s.StopCode, &s.Sequence, &s.Lat, &s.Lng, &s.ZoneID, &s.Type); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

func (r *PostgresRouteRepository) SaveRouteMetric(ctx context.Context, m domain.RouteMetric) (_ domain.RouteMetric, err error) {
	defer obs.Time(ctx, "route.repo.SaveRouteMetric")(&err)
	const q = `
	INSERT INTO route_metrics (
		route_id,
		total_planned_distance_km,
		total_actual_distance_km,
		distance_delta_km,
		distance_delta_percent,
		order_matched_stops,
		order_match_percentage,
		prefix_match_count,
		total_stops
	)
	VALUES (@route_id, @planned_km, @actual_km, @delta_km, @delta_percent,
		@matched, @match_percent, @prefix, @total_stops)
	ON CONFLICT (route_id) DO UPDATE SET
		total_planned_distance_km = EXCLUDED.total_planned_distance_km,
		total_actual_distance_km  = EXCLUDED.total_actual_distance_km,
		distance_delta_km         = EXCLUDED.distance_delta_km,
		distance_delta_percent    = EXCLUDED.distance_delta_percent,
		order_matched_stops       = EXCLUDED.order_matched_stops,
		order_match_percentage    = EXCLUDED.order_match_percentage,
		prefix_match_count        = EXCLUDED.prefix_match_count,
		total_stops               = EXCLUDED.total_stops,
		generated_at              = now()
	RETURNING generated_at`

	args := pgx.NamedArgs{
		"route_id":      m.RouteID,
		"planned_km":    m.TotalPlannedKM,
		"actual_km":     m.TotalActualKM,
		"delta_km":      m.DeltaKM,
		"delta_percent": m.DeltaPercent,
		"matched":       m.OrderMatchedStops,
		"match_percent": m.OrderMatchPercent,
		"prefix":        m.PrefixMatchCount,
		"total_stops":   m.TotalStops,
	}

	if err := r.db.QueryRow(ctx, q, args).Scan(&m.GeneratedAt); err != nil {
		return domain.RouteMetric{}, fmt.Errorf("save route metric: %w", err)
	}
	return m, nil
}

func (r *PostgresRouteRepository) GetRouteMetric(ctx context.Context, routeID string) (_ domain.RouteMetric, err error) {
	defer obs.Time(ctx, "route.repo.GetRouteMetric")(&err)
	const q = `
	SELECT
		route_id,
		total_planned_distance_km,
		total_actual_distance_km,
		distance_delta_km,
		distance_delta_percent,
		order_matched_stops,
		order_match_percentage,
		prefix_match_count,
		total_stops,
		generated_at
	FROM route_metrics
	WHERE route_id = @route_id`

	var m domain.RouteMetric
	err = r.db.QueryRow(ctx, q, pgx.NamedArgs{"route_id": routeID}).Scan(
		&m.RouteID,
		&m.TotalPlannedKM,
		&m.TotalActualKM,
		&m.DeltaKM,
		&m.DeltaPercent,
		&m.OrderMatchedStops,
		&m.OrderMatchPercent,
		&m.PrefixMatchCount,
		&m.TotalStops,
		&m.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RouteMetric{}, fmt.Errorf("get route metric: %w", domain.ErrNotFound)
		}
		return domain.RouteMetric{}, fmt.Errorf("get route metric: %w", err)
	}
	return m, nil
}

func collectRoutes(rows pgx.Rows) ([]domain.Route, error) {
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return routes, nil
}

// scanRoute maps routeColumns followed by a stop count.
func scanRoute(s scanner) (domain.Route, error) {
	var (
		route domain.Route
		date  pgtype.Date
	)

	err := s.Scan(
		&route.RouteID,
		&route.StationCode,
		&date,
		&route.DepartureTimeUTC,
		&route.ExecutorCapacityCM3,
		&route.RouteScore,
		&route.StopCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrNotFound
		}
		return domain.Route{}, err
	}

	if date.Valid {
		route.Date = date.Time
	}
	return route, nil
}
