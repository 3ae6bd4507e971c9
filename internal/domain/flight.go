package domain

// Flight is one row of the flights table joined with its airline name.
// FlightID and Delay repeat ID and DepartureDelay under the names API clients expect.
type Flight struct {
	ID                 int64    `json:"ID"`
	FlightID           int64    `json:"FLIGHT_ID"`
	Year               int      `json:"YEAR"`
	Month              int      `json:"MONTH"`
	Day                int      `json:"DAY"`
	DayOfWeek          *int     `json:"DAY_OF_WEEK"`
	Airline            string   `json:"AIRLINE"`
	FlightNumber       *int64   `json:"FLIGHT_NUMBER"`
	TailNumber         *string  `json:"TAIL_NUMBER"`
	OriginAirport      string   `json:"ORIGIN_AIRPORT"`
	DestinationAirport string   `json:"DESTINATION_AIRPORT"`
	ScheduledDeparture *string  `json:"SCHEDULED_DEPARTURE"`
	DepartureTime      *string  `json:"DEPARTURE_TIME"`
	DepartureDelay     *float64 `json:"DEPARTURE_DELAY"`
	Delay              *float64 `json:"DELAY"`
}

// DelayMinutes returns the departure delay, treating a missing value as zero.
func (f Flight) DelayMinutes() float64 {
	if f.Delay != nil {
		return *f.Delay
	}
	if f.DepartureDelay != nil {
		return *f.DepartureDelay
	}
	return 0
}

// Route is a frequently flown origin/destination pair with both airports' geography.
type Route struct {
	OriginAirport      string  `json:"ORIGIN_AIRPORT"`
	DestinationAirport string  `json:"DESTINATION_AIRPORT"`
	OriginCity         string  `json:"ORIGIN_CITY"`
	DestinationCity    string  `json:"DESTINATION_CITY"`
	OriginLat          float64 `json:"ORIGIN_LAT"`
	OriginLon          float64 `json:"ORIGIN_LON"`
	DestinationLat     float64 `json:"DESTINATION_LAT"`
	DestinationLon     float64 `json:"DESTINATION_LON"`
	Frequency          int64   `json:"FREQUENCY"`
	DelayPercentage    float64 `json:"DELAY_PERCENTAGE"`
}
