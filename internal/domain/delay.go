package domain

import "fmt"

// DelayCategory selects how delay percentages are grouped.
type DelayCategory string

const (
	DelayByAirline  DelayCategory = "airline"
	DelayByHour     DelayCategory = "hour"
	DelayByAirports DelayCategory = "airports"
)

// DelayCategories lists the valid categories in the order they are reported to clients.
var DelayCategories = []DelayCategory{DelayByAirline, DelayByHour, DelayByAirports}

// DelayPercentage is one aggregate row. Which grouping fields are set depends on the
// category that produced it; the others are omitted from JSON.
type DelayPercentage struct {
	Airline            string  `json:"AIRLINE,omitempty"`
	Hour               *int    `json:"HOUR,omitempty"`
	OriginAirport      string  `json:"ORIGIN_AIRPORT,omitempty"`
	DestinationAirport string  `json:"DESTINATION_AIRPORT,omitempty"`
	DelayPercentage    float64 `json:"DELAY_PERCENTAGE"`
}

// Label is a short human readable name of the grouping.
func (d DelayPercentage) Label() string {
	switch {
	case d.Airline != "":
		return d.Airline
	case d.Hour != nil:
		return fmt.Sprintf("%02d:00", *d.Hour)
	default:
		return d.OriginAirport + " -> " + d.DestinationAirport
	}
}

