package repository

import (
	"database/sql"

	"github.com/Domenick1991/flightdata/internal/domain"
)

// Decoders follow the column order declared in the catalog.

func scanFlight(rows *sql.Rows) (domain.Flight, error) {
	var (
		f                            domain.Flight
		dayOfWeek, flightNumber      sql.NullInt64
		airline, origin, destination sql.NullString
		tail, scheduled, departure   sql.NullString
		departureDelay, delay        sql.NullFloat64
	)
	if err := rows.Scan(
		&f.ID, &f.FlightID, &f.Year, &f.Month, &f.Day, &dayOfWeek, &airline, &flightNumber,
		&tail, &origin, &destination, &scheduled, &departure, &departureDelay, &delay,
	); err != nil {
		return domain.Flight{}, err
	}

	if dayOfWeek.Valid {
		v := int(dayOfWeek.Int64)
		f.DayOfWeek = &v
	}
	f.Airline = airline.String
	f.FlightNumber = nullInt(flightNumber)
	f.TailNumber = nullString(tail)
	f.OriginAirport = origin.String
	f.DestinationAirport = destination.String
	f.ScheduledDeparture = nullString(scheduled)
	f.DepartureTime = nullString(departure)
	f.DepartureDelay = nullFloat(departureDelay)
	f.Delay = nullFloat(delay)
	return f, nil
}

func scanAirlineDelay(rows *sql.Rows) (domain.DelayPercentage, error) {
	var (
		d       domain.DelayPercentage
		airline sql.NullString
	)
	if err := rows.Scan(&airline, &d.DelayPercentage); err != nil {
		return domain.DelayPercentage{}, err
	}
	d.Airline = airline.String
	return d, nil
}

func scanHourDelay(rows *sql.Rows) (domain.DelayPercentage, error) {
	var (
		d    domain.DelayPercentage
		hour sql.NullInt64
	)
	if err := rows.Scan(&hour, &d.DelayPercentage); err != nil {
		return domain.DelayPercentage{}, err
	}
	h := int(hour.Int64)
	d.Hour = &h
	return d, nil
}

func scanAirportsDelay(rows *sql.Rows) (domain.DelayPercentage, error) {
	var (
		d                   domain.DelayPercentage
		origin, destination sql.NullString
	)
	if err := rows.Scan(&origin, &destination, &d.DelayPercentage); err != nil {
		return domain.DelayPercentage{}, err
	}
	d.OriginAirport = origin.String
	d.DestinationAirport = destination.String
	return d, nil
}

func scanRoute(rows *sql.Rows) (domain.Route, error) {
	var (
		r                                      domain.Route
		originCity, destinationCity            sql.NullString
		originLat, originLon, destLat, destLon sql.NullFloat64
	)
	if err := rows.Scan(
		&r.OriginAirport, &r.DestinationAirport, &originCity, &destinationCity,
		&originLat, &originLon, &destLat, &destLon, &r.Frequency, &r.DelayPercentage,
	); err != nil {
		return domain.Route{}, err
	}
	r.OriginCity = originCity.String
	r.DestinationCity = destinationCity.String
	r.OriginLat = originLat.Float64
	r.OriginLon = originLon.Float64
	r.DestinationLat = destLat.Float64
	r.DestinationLon = destLon.Float64
	return r, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
