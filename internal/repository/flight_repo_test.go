package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/repository"
	"github.com/Domenick1991/flightdata/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threshold = 20

func seed() repotest.Seed {
	return repotest.Seed{
		Airlines: []repotest.Airline{{ID: 1, Name: "Delta"}, {ID: 2, Name: "United"}},
		Airports: []repotest.Airport{
			{IATA: "JFK", City: "New York", Latitude: 40.6398, Longitude: -73.7789},
			{IATA: "LAX", City: "Los Angeles", Latitude: 33.9425, Longitude: -118.4081},
			{IATA: "ORD", City: "Chicago", Latitude: 41.9786, Longitude: -87.9048},
			{IATA: "SFO", City: "San Francisco", Latitude: 37.619, Longitude: -122.3749},
		},
		Flights: []repotest.Flight{
			{ID: 1, Day: 5, Month: 6, Year: 2020, AirlineID: 1, Origin: "JFK", Destination: "LAX", DepartureTime: "0835", Delay: 25},
			{ID: 2, Day: 5, Month: 6, Year: 2020, AirlineID: 1, Origin: "JFK", Destination: "LAX", DepartureTime: "0910", Delay: 5},
			{ID: 3, Day: 5, Month: 6, Year: 2020, AirlineID: 2, Origin: "ORD", Destination: "SFO", DepartureTime: "0815", Delay: 45},
			{ID: 4, Day: 6, Month: 6, Year: 2020, AirlineID: 2, Origin: "ORD", Destination: "SFO", DepartureTime: "1420", Delay: -3},
			{ID: 5, Day: 6, Month: 6, Year: 2020, AirlineID: 1, Origin: "JFK", Destination: "LAX", NoDelay: true},
			{ID: 6, Day: 6, Month: 6, Year: 2020, AirlineID: 2, Origin: "JFK", Destination: "SFO", DepartureTime: "1430", Delay: 20},
		},
	}
}

func newRepo(t *testing.T) repository.FlightRepository {
	t.Helper()
	return repository.NewFlightRepository(repotest.NewStore(t, seed()))
}

func ids(flights []domain.Flight) []int64 {
	out := make([]int64, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.ID)
	}
	return out
}

func TestGetByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	flights, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, int64(1), f.FlightID)
	assert.Equal(t, int64(1), f.ID)
	assert.Equal(t, "Delta", f.Airline)
	assert.Equal(t, "JFK", f.OriginAirport)
	assert.Equal(t, "LAX", f.DestinationAirport)
	assert.Equal(t, 2020, f.Year)
	require.NotNil(t, f.Delay)
	assert.Equal(t, 25.0, *f.Delay)
	require.NotNil(t, f.DepartureTime)
	assert.Equal(t, "0835", *f.DepartureTime)
	assert.Nil(t, f.TailNumber)

	flights, err = repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestGetByID_NullDelay(t *testing.T) {
	flights, err := newRepo(t).GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Nil(t, flights[0].Delay)
	assert.Nil(t, flights[0].DepartureTime)
	assert.Equal(t, 0.0, flights[0].DelayMinutes())
}

func TestListByDate(t *testing.T) {
	flights, err := newRepo(t).ListByDate(context.Background(), 5, 6, 2020)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(flights))
}

func TestListDelayed(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() ([]domain.Flight, error)
		want []int64
	}{
		{
			name: "delta",
			call: func() ([]domain.Flight, error) { return repo.ListDelayedByAirline(ctx, "Delta", threshold) },
			want: []int64{1},
		},
		{
			name: "united includes delay equal to threshold",
			call: func() ([]domain.Flight, error) { return repo.ListDelayedByAirline(ctx, "United", threshold) },
			want: []int64{3, 6},
		},
		{
			name: "unknown airline",
			call: func() ([]domain.Flight, error) { return repo.ListDelayedByAirline(ctx, "Aeroflot", threshold) },
			want: []int64{},
		},
		{
			name: "origin airport",
			call: func() ([]domain.Flight, error) { return repo.ListDelayedByAirport(ctx, "JFK", threshold) },
			want: []int64{1, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flights, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(flights))
			for _, f := range flights {
				assert.GreaterOrEqual(t, f.DelayMinutes(), float64(threshold))
			}
		})
	}
}

func TestDelayPercentageByAirline(t *testing.T) {
	rows, err := newRepo(t).DelayPercentageByAirline(context.Background(), threshold)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "United", rows[0].Airline)
	assert.InDelta(t, 66.666, rows[0].DelayPercentage, 0.01)
	assert.Equal(t, "Delta", rows[1].Airline)
	assert.InDelta(t, 33.333, rows[1].DelayPercentage, 0.01)
}

func TestDelayPercentageByHour(t *testing.T) {
	rows, err := newRepo(t).DelayPercentageByHour(context.Background(), threshold)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	hours := []int{*rows[0].Hour, *rows[1].Hour, *rows[2].Hour}
	assert.Equal(t, []int{8, 9, 14}, hours)
	assert.InDelta(t, 100, rows[0].DelayPercentage, 0.001)
	assert.InDelta(t, 0, rows[1].DelayPercentage, 0.001)
	assert.InDelta(t, 50, rows[2].DelayPercentage, 0.001)
}

func TestDelayPercentageByAirports(t *testing.T) {
	rows, err := newRepo(t).DelayPercentageByAirports(context.Background(), threshold)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "JFK -> SFO", rows[0].Label())
	assert.InDelta(t, 100, rows[0].DelayPercentage, 0.001)
	assert.Equal(t, "ORD -> SFO", rows[1].Label())
	assert.InDelta(t, 50, rows[1].DelayPercentage, 0.001)
	assert.Equal(t, "JFK -> LAX", rows[2].Label())
}

func TestFrequentRoutes(t *testing.T) {
	routes, err := newRepo(t).FrequentRoutes(context.Background(), threshold)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	top := routes[0]
	assert.Equal(t, "JFK", top.OriginAirport)
	assert.Equal(t, "LAX", top.DestinationAirport)
	assert.Equal(t, "New York", top.OriginCity)
	assert.Equal(t, "Los Angeles", top.DestinationCity)
	assert.InDelta(t, 40.6398, top.OriginLat, 1e-9)
	assert.InDelta(t, -118.4081, top.DestinationLon, 1e-9)
	assert.Equal(t, int64(3), top.Frequency)
	assert.InDelta(t, 33.333, top.DelayPercentage, 0.01)

	assert.Equal(t, int64(2), routes[1].Frequency)
	assert.Equal(t, int64(1), routes[2].Frequency)
}

func TestQueryExecutionError_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.sqlite3")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE flights (ID INTEGER PRIMARY KEY, ORIGIN_AIRPORT TEXT, DESTINATION_AIRPORT TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := repository.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer store.Close()

	_, err = repository.NewFlightRepository(store).FrequentRoutes(context.Background(), threshold)
	require.Error(t, err)

	var qerr *domain.QueryExecutionError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "frequent_routes", qerr.Query)
}

func TestQueryExecutionError_ClosedStore(t *testing.T) {
	path := repotest.NewDB(t, seed())
	store, err := repository.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = repository.NewFlightRepository(store).GetByID(context.Background(), 1)
	assert.True(t, domain.IsQueryExecution(err))
}

func TestOpen_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{name: "missing sqlite file", cfg: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nope.sqlite3")}},
		{name: "unknown driver", cfg: config.DatabaseConfig{Driver: "oracle"}},
		{name: "bad postgres url", cfg: config.DatabaseConfig{Driver: "postgres", URL: "postgres://%zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repository.Open(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrServiceUnavailable))
		})
	}
}

func TestStore_PingAndDialect(t *testing.T) {
	store := repotest.NewStore(t, seed())
	require.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "sqlite", string(store.Dialect()))
}
