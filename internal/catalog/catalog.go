// Package catalog holds the fixed set of read-only SQL statements the service can run.
//
// Templates use named placeholders (:name). Bind rewrites them into the positional
// form of the target dialect so user input always travels as a driver argument.
package catalog

import (
	"fmt"
	"sort"
)

const (
	FlightByID                = "flight_by_id"
	FlightsByDate             = "flights_by_date"
	DelayedFlightsByAirline   = "delayed_flights_by_airline"
	DelayedFlightsByAirport   = "delayed_flights_by_airport"
	DelayPercentageByAirline  = "delay_percentage_by_airline"
	DelayPercentageByHour     = "delay_percentage_by_hour"
	DelayPercentageByAirports = "delay_percentage_by_airports"
	FrequentRoutes            = "frequent_routes"
)

// Query is one catalog entry.
type Query struct {
	Name    string
	SQL     string
	Params  []string
	Columns []string
}

// FlightColumns is the result shape shared by every flight listing.
var FlightColumns = []string{
	"ID", "FLIGHT_ID", "YEAR", "MONTH", "DAY", "DAY_OF_WEEK", "AIRLINE", "FLIGHT_NUMBER",
	"TAIL_NUMBER", "ORIGIN_AIRPORT", "DESTINATION_AIRPORT", "SCHEDULED_DEPARTURE",
	"DEPARTURE_TIME", "DEPARTURE_DELAY", "DELAY",
}

const selectFlight = `SELECT flights.ID AS ID,
       flights.ID AS FLIGHT_ID,
       flights.YEAR AS YEAR,
       flights.MONTH AS MONTH,
       flights.DAY AS DAY,
       flights.DAY_OF_WEEK AS DAY_OF_WEEK,
       airlines.AIRLINE AS AIRLINE,
       flights.FLIGHT_NUMBER AS FLIGHT_NUMBER,
       flights.TAIL_NUMBER AS TAIL_NUMBER,
       flights.ORIGIN_AIRPORT AS ORIGIN_AIRPORT,
       flights.DESTINATION_AIRPORT AS DESTINATION_AIRPORT,
       flights.SCHEDULED_DEPARTURE AS SCHEDULED_DEPARTURE,
       flights.DEPARTURE_TIME AS DEPARTURE_TIME,
       flights.DEPARTURE_DELAY AS DEPARTURE_DELAY,
       flights.DEPARTURE_DELAY AS DELAY
FROM flights
JOIN airlines ON flights.AIRLINE = airlines.ID`

// delayedShare is the percentage of rows whose departure delay reaches the threshold.
// Reaching counts: the same >= predicate selects the delayed flight listings.
const delayedShare = `CAST(SUM(CASE WHEN %s.DEPARTURE_DELAY >= :threshold THEN 1 ELSE 0 END) AS FLOAT) / COUNT(*) * 100`

var queries = map[string]Query{
	FlightByID: {
		Name:    FlightByID,
		SQL:     selectFlight + "\nWHERE flights.ID = :id",
		Params:  []string{"id"},
		Columns: FlightColumns,
	},
	FlightsByDate: {
		Name: FlightsByDate,
		SQL: selectFlight + `
WHERE flights.DAY = :day
  AND flights.MONTH = :month
  AND flights.YEAR = :year
ORDER BY flights.ID`,
		Params:  []string{"day", "month", "year"},
		Columns: FlightColumns,
	},
	DelayedFlightsByAirline: {
		Name: DelayedFlightsByAirline,
		SQL: selectFlight + `
WHERE airlines.AIRLINE = :airline
  AND flights.DEPARTURE_DELAY >= :threshold
ORDER BY flights.ID`,
		Params:  []string{"airline", "threshold"},
		Columns: FlightColumns,
	},
	DelayedFlightsByAirport: {
		Name: DelayedFlightsByAirport,
		SQL: selectFlight + `
WHERE flights.ORIGIN_AIRPORT = :airport
  AND flights.DEPARTURE_DELAY >= :threshold
ORDER BY flights.ID`,
		Params:  []string{"airport", "threshold"},
		Columns: FlightColumns,
	},
	DelayPercentageByAirline: {
		Name: DelayPercentageByAirline,
		SQL: `SELECT airlines.AIRLINE AS AIRLINE,
       ` + fmt.Sprintf(delayedShare, "flights") + ` AS DELAY_PERCENTAGE
FROM flights
JOIN airlines ON flights.AIRLINE = airlines.ID
GROUP BY airlines.AIRLINE
ORDER BY DELAY_PERCENTAGE DESC, AIRLINE`,
		Params:  []string{"threshold"},
		Columns: []string{"AIRLINE", "DELAY_PERCENTAGE"},
	},
	DelayPercentageByHour: {
		Name: DelayPercentageByHour,
		SQL: `SELECT CAST(SUBSTR(flights.DEPARTURE_TIME, 1, 2) AS INTEGER) AS HOUR,
       ` + fmt.Sprintf(delayedShare, "flights") + ` AS DELAY_PERCENTAGE
FROM flights
WHERE flights.DEPARTURE_TIME IS NOT NULL
GROUP BY HOUR
ORDER BY HOUR`,
		Params:  []string{"threshold"},
		Columns: []string{"HOUR", "DELAY_PERCENTAGE"},
	},
	DelayPercentageByAirports: {
		Name: DelayPercentageByAirports,
		SQL: `SELECT flights.ORIGIN_AIRPORT AS ORIGIN_AIRPORT,
       flights.DESTINATION_AIRPORT AS DESTINATION_AIRPORT,
       ` + fmt.Sprintf(delayedShare, "flights") + ` AS DELAY_PERCENTAGE
FROM flights
GROUP BY flights.ORIGIN_AIRPORT, flights.DESTINATION_AIRPORT
ORDER BY DELAY_PERCENTAGE DESC, ORIGIN_AIRPORT, DESTINATION_AIRPORT`,
		Params:  []string{"threshold"},
		Columns: []string{"ORIGIN_AIRPORT", "DESTINATION_AIRPORT", "DELAY_PERCENTAGE"},
	},
	FrequentRoutes: {
		Name: FrequentRoutes,
		SQL: `WITH route_frequency AS (
    SELECT ORIGIN_AIRPORT, DESTINATION_AIRPORT, COUNT(*) AS FREQUENCY
    FROM flights
    GROUP BY ORIGIN_AIRPORT, DESTINATION_AIRPORT
)
SELECT f.ORIGIN_AIRPORT AS ORIGIN_AIRPORT,
       f.DESTINATION_AIRPORT AS DESTINATION_AIRPORT,
       o.CITY AS ORIGIN_CITY,
       d.CITY AS DESTINATION_CITY,
       o.LATITUDE AS ORIGIN_LAT,
       o.LONGITUDE AS ORIGIN_LON,
       d.LATITUDE AS DESTINATION_LAT,
       d.LONGITUDE AS DESTINATION_LON,
       rf.FREQUENCY AS FREQUENCY,
       ` + fmt.Sprintf(delayedShare, "f") + ` AS DELAY_PERCENTAGE
FROM flights AS f
JOIN airports AS o ON f.ORIGIN_AIRPORT = o.IATA_CODE
JOIN airports AS d ON f.DESTINATION_AIRPORT = d.IATA_CODE
JOIN route_frequency AS rf
  ON f.ORIGIN_AIRPORT = rf.ORIGIN_AIRPORT
 AND f.DESTINATION_AIRPORT = rf.DESTINATION_AIRPORT
GROUP BY f.ORIGIN_AIRPORT, f.DESTINATION_AIRPORT, o.CITY, d.CITY,
         o.LATITUDE, o.LONGITUDE, d.LATITUDE, d.LONGITUDE, rf.FREQUENCY
ORDER BY FREQUENCY DESC, DELAY_PERCENTAGE DESC, ORIGIN_AIRPORT, DESTINATION_AIRPORT`,
		Params: []string{"threshold"},
		Columns: []string{
			"ORIGIN_AIRPORT", "DESTINATION_AIRPORT", "ORIGIN_CITY", "DESTINATION_CITY",
			"ORIGIN_LAT", "ORIGIN_LON", "DESTINATION_LAT", "DESTINATION_LON",
			"FREQUENCY", "DELAY_PERCENTAGE",
		},
	},
}

// Lookup returns the named query.
func Lookup(name string) (Query, error) {
	q, ok := queries[name]
	if !ok {
		return Query{}, fmt.Errorf("unknown query %q", name)
	}
	return q, nil
}

// MustLookup is Lookup for names defined in this package.
func MustLookup(name string) Query {
	q, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return q
}

// All returns every catalog entry sorted by name.
func All() []Query {
	out := make([]Query, 0, len(queries))
	for _, q := range queries {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
