package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdata/internal/catalog"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/metrics"
)

var ErrColumnMismatch = errors.New("unexpected result columns")

type FlightRepository interface {
	GetByID(ctx context.Context, id int64) ([]domain.Flight, error)
	ListByDate(ctx context.Context, day, month, year int) ([]domain.Flight, error)
	ListDelayedByAirline(ctx context.Context, airline string, threshold int) ([]domain.Flight, error)
	ListDelayedByAirport(ctx context.Context, airport string, threshold int) ([]domain.Flight, error)
	DelayPercentageByAirline(ctx context.Context, threshold int) ([]domain.DelayPercentage, error)
	DelayPercentageByHour(ctx context.Context, threshold int) ([]domain.DelayPercentage, error)
	DelayPercentageByAirports(ctx context.Context, threshold int) ([]domain.DelayPercentage, error)
	FrequentRoutes(ctx context.Context, threshold int) ([]domain.Route, error)
	Ping(ctx context.Context) error
}

type SQLFlightRepository struct {
	store *Store
}

func NewFlightRepository(store *Store) FlightRepository {
	return &SQLFlightRepository{store: store}
}

func (r *SQLFlightRepository) GetByID(ctx context.Context, id int64) ([]domain.Flight, error) {
	return run(ctx, r.store, catalog.FlightByID, map[string]any{"id": id}, scanFlight)
}

func (r *SQLFlightRepository) ListByDate(ctx context.Context, day, month, year int) ([]domain.Flight, error) {
	return run(ctx, r.store, catalog.FlightsByDate, map[string]any{"day": day, "month": month, "year": year}, scanFlight)
}

func (r *SQLFlightRepository) ListDelayedByAirline(ctx context.Context, airline string, threshold int) ([]domain.Flight, error) {
	return run(ctx, r.store, catalog.DelayedFlightsByAirline, map[string]any{"airline": airline, "threshold": threshold}, scanFlight)
}

func (r *SQLFlightRepository) ListDelayedByAirport(ctx context.Context, airport string, threshold int) ([]domain.Flight, error) {
	return run(ctx, r.store, catalog.DelayedFlightsByAirport, map[string]any{"airport": airport, "threshold": threshold}, scanFlight)
}

func (r *SQLFlightRepository) DelayPercentageByAirline(ctx context.Context, threshold int) ([]domain.DelayPercentage, error) {
	return run(ctx, r.store, catalog.DelayPercentageByAirline, map[string]any{"threshold": threshold}, scanAirlineDelay)
}

func (r *SQLFlightRepository) DelayPercentageByHour(ctx context.Context, threshold int) ([]domain.DelayPercentage, error) {
	return run(ctx, r.store, catalog.DelayPercentageByHour, map[string]any{"threshold": threshold}, scanHourDelay)
}

func (r *SQLFlightRepository) DelayPercentageByAirports(ctx context.Context, threshold int) ([]domain.DelayPercentage, error) {
	return run(ctx, r.store, catalog.DelayPercentageByAirports, map[string]any{"threshold": threshold}, scanAirportsDelay)
}

func (r *SQLFlightRepository) FrequentRoutes(ctx context.Context, threshold int) ([]domain.Route, error) {
	return run(ctx, r.store, catalog.FrequentRoutes, map[string]any{"threshold": threshold}, scanRoute)
}

func (r *SQLFlightRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// run executes one catalog query on a connection held only for the duration of the call.
// Every failure comes back as a *domain.QueryExecutionError.
func run[T any](ctx context.Context, s *Store, name string, params map[string]any, decode func(*sql.Rows) (T, error)) ([]T, error) {
	start := time.Now()
	out, err := execute(ctx, s, name, params, decode)
	elapsed := time.Since(start)

	metrics.RecordQuery(name, elapsed, len(out), err)
	if err != nil {
		logging.Ctx(ctx).Debug().Str("query", name).Err(err).Dur("elapsed", elapsed).Msg("query failed")
		return nil, &domain.QueryExecutionError{Query: name, Err: err}
	}
	logging.Ctx(ctx).Debug().Str("query", name).Int("rows", len(out)).Dur("elapsed", elapsed).Msg("query executed")
	return out, nil
}

func execute[T any](ctx context.Context, s *Store, name string, params map[string]any, decode func(*sql.Rows) (T, error)) ([]T, error) {
	q, err := catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	stmt, args, err := catalog.Bind(q, s.dialect, params)
	if err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if err := checkColumns(q.Columns, cols); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for rows.Next() {
		v, err := decode(rows)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkColumns compares case-insensitively: postgres folds unquoted aliases to lower case.
func checkColumns(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: want %v, got %v", ErrColumnMismatch, want, got)
	}
	for i := range want {
		if !strings.EqualFold(want[i], got[i]) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrColumnMismatch, i, got[i], want[i])
		}
	}
	return nil
}
