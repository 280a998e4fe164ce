package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/sharooque7/logistic/internal/geo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		s := sl.Current().Interface().(StopSeed)
		if !geo.ValidCoordinate(s.Lat, s.Lng) {
			sl.ReportError(s.Lat, "Lat", "lat", "coordinate", "")
		}
	}, StopSeed{})
	return v
}

// txStarter is satisfied by *pgxpool.Pool and pgx.Tx.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type StopSeed struct {
	Code   string  `json:"-" validate:"required,max=10"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Type   string  `json:"type" validate:"required,max=32"`
	ZoneID *string `json:"zone_id" validate:"omitempty,max=32"`
}

type RouteSeed struct {
	RouteID             string     `json:"-" validate:"required,max=64"`
	StationCode         string     `json:"station_code" validate:"required,max=16"`
	Date                string     `json:"date_YYYY_MM_DD" validate:"omitempty,datetime=2006-01-02"`
	DepartureTimeUTC    string     `json:"departure_time_utc" validate:"omitempty,datetime=15:04:05"`
	ExecutorCapacityCM3 *float64   `json:"executor_capacity_cm3" validate:"omitempty,gte=0"`
	RouteScore          string     `json:"route_score" validate:"max=16"`
	Stops               []StopSeed `json:"-" validate:"dive"`
}

// rawRoute mirrors one route record on disk where stops are keyed by code.
type rawRoute struct {
	StationCode         string              `json:"station_code"`
	Date                string              `json:"date_YYYY_MM_DD"`
	DepartureTimeUTC    string              `json:"departure_time_utc"`
	ExecutorCapacityCM3 *float64            `json:"executor_capacity_cm3"`
	RouteScore          string              `json:"route_score"`
	Stops               map[string]StopSeed `json:"stops"`
}

// SeedReport summarises one seeding run.
type SeedReport struct {
	Routes  int
	Stops   int
	Skipped []string
}

// ParseRouteSeeds decodes route metadata keyed by route id. The document may be
// a single object or an array of objects. Routes and their stops come back sorted
// by id and code so repeated ingestion yields the same stop order.
func ParseRouteSeeds(data []byte) ([]RouteSeed, error) {
	var docs []map[string]rawRoute

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("parse route seeds: empty document")
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("parse route seeds: %w", err)
		}
	default:
		var doc map[string]rawRoute
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parse route seeds: %w", err)
		}
		docs = append(docs, doc)
	}

	byID := make(map[string]RouteSeed)
	for _, doc := range docs {
		for id, raw := range doc {
			seed := RouteSeed{
				RouteID:             strings.TrimSpace(id),
				StationCode:         strings.TrimSpace(raw.StationCode),
				Date:                strings.TrimSpace(raw.Date),
				DepartureTimeUTC:    strings.TrimSpace(raw.DepartureTimeUTC),
				ExecutorCapacityCM3: raw.ExecutorCapacityCM3,
				RouteScore:          strings.TrimSpace(raw.RouteScore),
				Stops:               make([]StopSeed, 0, len(raw.Stops)),
			}
			for code, st := range raw.Stops {
				st.Code = strings.TrimSpace(code)
				st.Type = strings.TrimSpace(st.Type)
				seed.Stops = append(seed.Stops, st)
			}
			sort.Slice(seed.Stops, func(i, j int) bool { return seed.Stops[i].Code < seed.Stops[j].Code })

			if err := validate.Struct(seed); err != nil {
				return nil, fmt.Errorf("parse route seeds: route %q: %w", id, err)
			}
			byID[seed.RouteID] = seed
		}
	}

	seeds := make([]RouteSeed, 0, len(byID))
	for _, s := range byID {
		seeds = append(seeds, s)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].RouteID < seeds[j].RouteID })
	return seeds, nil
}

// ActualSeed is the driver's recorded visiting order for one route.
type ActualSeed struct {
	RouteID  string
	Sequence map[string]int
}

// ParseActualSeeds decodes {"<route_id>": {"actual": {"<code>": <seq>}}}.
func ParseActualSeeds(data []byte) ([]ActualSeed, error) {
	var doc map[string]struct {
		Actual map[string]int `json:"actual"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse actual seeds: %w", err)
	}

	seeds := make([]ActualSeed, 0, len(doc))
	for id, rec := range doc {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("parse actual seeds: empty route id")
		}
		for code, seq := range rec.Actual {
			if seq < 0 {
				return nil, fmt.Errorf("parse actual seeds: route %q stop %q: negative sequence %d", id, code, seq)
			}
		}
		seeds = append(seeds, ActualSeed{RouteID: id, Sequence: rec.Actual})
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].RouteID < seeds[j].RouteID })
	return seeds, nil
}

// SeedRoutesFromJSON upserts every route and stop in the file inside one transaction.
func SeedRoutesFromJSON(ctx context.Context, conn txStarter, jsonPath string) (SeedReport, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	seeds, err := ParseRouteSeeds(data)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed routes: %w", err)
	}

	const routeQuery = `
	INSERT INTO routes (
		route_id,
		station_code,
		date_yyyy_mm_dd,
		departure_time_utc,
		executor_capacity_cm3,
		route_score
	)
	VALUES (@route_id, @station_code, NULLIF(@date, '')::date, NULLIF(@departure, '')::time,
		@capacity, NULLIF(@score, ''))
	ON CONFLICT (route_id) DO UPDATE SET
		station_code          = EXCLUDED.station_code,
		date_yyyy_mm_dd       = EXCLUDED.date_yyyy_mm_dd,
		departure_time_utc    = EXCLUDED.departure_time_utc,
		executor_capacity_cm3 = EXCLUDED.executor_capacity_cm3,
		route_score           = EXCLUDED.route_score`

	const stopQuery = `
	INSERT INTO stops (
		route_id,
		stop_code,
		lat,
		lng,
		type,
		zone_id
	)
	VALUES (@route_id, @stop_code, @lat, @lng, @type, @zone_id)
	ON CONFLICT (route_id, stop_code) DO UPDATE SET
		lat     = EXCLUDED.lat,
		lng     = EXCLUDED.lng,
		type    = EXCLUDED.type,
		zone_id = EXCLUDED.zone_id`

	var report SeedReport
	batch := &pgx.Batch{}
	for _, s := range seeds {
		batch.Queue(routeQuery, pgx.NamedArgs{
			"route_id":     s.RouteID,
			"station_code": s.StationCode,
			"date":         s.Date,
			"departure":    s.DepartureTimeUTC,
			"capacity":     s.ExecutorCapacityCM3,
			"score":        s.RouteScore,
		})
		for _, st := range s.Stops {
			batch.Queue(stopQuery, pgx.NamedArgs{
				"route_id":  s.RouteID,
				"stop_code": st.Code,
				"lat":       st.Lat,
				"lng":       st.Lng,
				"type":      st.Type,
				"zone_id":   st.ZoneID,
			})
		}
		report.Routes++
		report.Stops += len(s.Stops)
	}

	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed routes: %w", err)
	}
	return report, nil
}

// SeedActualFromJSON upserts recorded sequences. Routes missing from the database
// are skipped and listed in the report.
func SeedActualFromJSON(ctx context.Context, conn txStarter, jsonPath string) (SeedReport, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed actual sequences: read %q: %w", jsonPath, err)
	}

	seeds, err := ParseActualSeeds(data)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed actual sequences: %w", err)
	}

	ids := make([]string, 0, len(seeds))
	for _, s := range seeds {
		ids = append(ids, s.RouteID)
	}

	const insertQuery = `
	INSERT INTO actual_route_sequence (
		route_id,
		stop_code,
		actual_sequence
	)
	VALUES (@route_id, @stop_code, @seq)
	ON CONFLICT (route_id, stop_code) DO UPDATE SET
		actual_sequence = EXCLUDED.actual_sequence,
		recorded_at     = now()`

	var report SeedReport
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT route_id FROM routes WHERE route_id = ANY(@ids)`, pgx.NamedArgs{"ids": ids})
		if err != nil {
			return fmt.Errorf("lookup routes: %w", err)
		}
		known, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("lookup routes: %w", err)
		}
		exists := make(map[string]bool, len(known))
		for _, id := range known {
			exists[id] = true
		}

		batch := &pgx.Batch{}
		for _, s := range seeds {
			if !exists[s.RouteID] {
				report.Skipped = append(report.Skipped, s.RouteID)
				continue
			}
			codes := make([]string, 0, len(s.Sequence))
			for code := range s.Sequence {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				batch.Queue(insertQuery, pgx.NamedArgs{
					"route_id":  s.RouteID,
					"stop_code": code,
					"seq":       s.Sequence[code],
				})
			}
			report.Routes++
			report.Stops += len(codes)
		}

		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed actual sequences: %w", err)
	}
	return report, nil
}
