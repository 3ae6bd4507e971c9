package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore has an airlines and flights table but no airports, and a flight row whose
// YEAR cannot be decoded.
func brokenStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broken.sqlite3")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE airlines (ID INTEGER PRIMARY KEY, AIRLINE TEXT)`,
		`CREATE TABLE flights (
			ID INTEGER PRIMARY KEY, YEAR, MONTH INTEGER, DAY INTEGER, DAY_OF_WEEK INTEGER,
			AIRLINE INTEGER, FLIGHT_NUMBER INTEGER, TAIL_NUMBER TEXT, ORIGIN_AIRPORT TEXT,
			DESTINATION_AIRPORT TEXT, SCHEDULED_DEPARTURE TEXT, DEPARTURE_TIME TEXT, DEPARTURE_DELAY REAL)`,
		`INSERT INTO airlines (ID, AIRLINE) VALUES (1, 'Delta')`,
		`INSERT INTO flights (ID, YEAR, MONTH, DAY, AIRLINE, ORIGIN_AIRPORT, DESTINATION_AIRPORT)
			VALUES (1, 'unknown', 6, 5, 1, 'JFK', 'LAX')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	s, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestExecute_ReleasesConnectionOnFailure(t *testing.T) {
	s := brokenStore(t)
	s.db.SetMaxOpenConns(1)
	repo := NewFlightRepository(s)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.GetByID(ctx, 1)
		require.True(t, domain.IsQueryExecution(err), "decode failure")

		_, err = repo.FrequentRoutes(ctx, 20)
		require.True(t, domain.IsQueryExecution(err), "missing table")
	}

	assert.Equal(t, 0, s.db.Stats().InUse)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Ping(pingCtx))

	flights, err := repo.ListByDate(ctx, 1, 1, 2021)
	require.NoError(t, err)
	assert.Empty(t, flights)
}
