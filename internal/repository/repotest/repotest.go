// Package repotest builds throwaway sqlite flight databases for tests.
package repotest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/repository"
	_ "modernc.org/sqlite"
)

// Schema mirrors the externally owned flights dataset.
const Schema = `
CREATE TABLE airlines (
	ID      INTEGER PRIMARY KEY,
	IATA    TEXT,
	AIRLINE TEXT NOT NULL
);
CREATE TABLE airports (
	IATA_CODE TEXT PRIMARY KEY,
	AIRPORT   TEXT,
	CITY      TEXT,
	STATE     TEXT,
	COUNTRY   TEXT,
	LATITUDE  REAL,
	LONGITUDE REAL
);
CREATE TABLE flights (
	ID                  INTEGER PRIMARY KEY,
	YEAR                INTEGER NOT NULL,
	MONTH               INTEGER NOT NULL,
	DAY                 INTEGER NOT NULL,
	DAY_OF_WEEK         INTEGER,
	AIRLINE             INTEGER REFERENCES airlines(ID),
	FLIGHT_NUMBER       INTEGER,
	TAIL_NUMBER         TEXT,
	ORIGIN_AIRPORT      TEXT,
	DESTINATION_AIRPORT TEXT,
	SCHEDULED_DEPARTURE TEXT,
	DEPARTURE_TIME      TEXT,
	DEPARTURE_DELAY     REAL
);
`

// Flight is a seed row. NoDelay stores a NULL departure delay.
type Flight struct {
	ID            int64
	Day           int
	Month         int
	Year          int
	AirlineID     int64
	Origin        string
	Destination   string
	DepartureTime string
	Delay         float64
	NoDelay       bool
}

type Airline struct {
	ID   int64
	Name string
}

type Airport struct {
	IATA      string
	City      string
	Latitude  float64
	Longitude float64
}

type Seed struct {
	Airlines []Airline
	Airports []Airport
	Flights  []Flight
}

// Delta is the single-flight fixture used across end-to-end tests.
func Delta() Seed {
	return Seed{
		Airlines: []Airline{{ID: 1, Name: "Delta"}},
		Airports: []Airport{
			{IATA: "JFK", City: "New York", Latitude: 40.6398, Longitude: -73.7789},
			{IATA: "LAX", City: "Los Angeles", Latitude: 33.9425, Longitude: -118.4081},
		},
		Flights: []Flight{
			{ID: 1, Day: 5, Month: 6, Year: 2020, AirlineID: 1, Origin: "JFK", Destination: "LAX", DepartureTime: "0835", Delay: 25},
		},
	}
}

// NewDB writes schema and seed into a new sqlite file and returns its path.
func NewDB(t testing.TB, seed Seed) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flights.sqlite3")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	mustExec(t, db, Schema)
	for _, a := range seed.Airlines {
		mustExec(t, db, `INSERT INTO airlines (ID, AIRLINE) VALUES (?, ?)`, a.ID, a.Name)
	}
	for _, a := range seed.Airports {
		mustExec(t, db, `INSERT INTO airports (IATA_CODE, CITY, LATITUDE, LONGITUDE) VALUES (?, ?, ?, ?)`,
			a.IATA, a.City, a.Latitude, a.Longitude)
	}
	for _, f := range seed.Flights {
		var delay any = f.Delay
		if f.NoDelay {
			delay = nil
		}
		var departure any = f.DepartureTime
		if f.DepartureTime == "" {
			departure = nil
		}
		mustExec(t, db, `INSERT INTO flights
			(ID, YEAR, MONTH, DAY, AIRLINE, ORIGIN_AIRPORT, DESTINATION_AIRPORT, DEPARTURE_TIME, DEPARTURE_DELAY)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Year, f.Month, f.Day, f.AirlineID, f.Origin, f.Destination, departure, delay)
	}
	return path
}

// NewStore seeds a database and opens it the way the service does.
func NewStore(t testing.TB, seed Seed) *repository.Store {
	t.Helper()
	path := NewDB(t, seed)
	store, err := repository.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustExec(t testing.TB, db *sql.DB, stmt string, args ...any) {
	t.Helper()
	if _, err := db.Exec(stmt, args...); err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}
