// Package report renders query results for people: console listings, PDF charts and a
// GeoJSON route map.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// PrintFlights writes one line per flight. The delay is shown only for late departures.
func PrintFlights(w io.Writer, flights []domain.Flight) {
	fmt.Fprintf(w, "Got %d results.\n", len(flights))
	for _, f := range flights {
		delay := int(f.DelayMinutes())
		if delay > 0 {
			fmt.Fprintf(w, "%d. %s -> %s by %s, Delay: %d Minutes\n", f.ID, f.OriginAirport, f.DestinationAirport, f.Airline, delay)
			continue
		}
		fmt.Fprintf(w, "%d. %s -> %s by %s\n", f.ID, f.OriginAirport, f.DestinationAirport, f.Airline)
	}
}

// PrintPercentages renders aggregate rows as a bordered table.
func PrintPercentages(w io.Writer, rows []domain.DelayPercentage) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(groupHeader(rows), "DELAYED %").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Label(), strconv.FormatFloat(r.DelayPercentage, 'f', 2, 64))
	}
	fmt.Fprintln(w, t.Render())
}

func groupHeader(rows []domain.DelayPercentage) string {
	if len(rows) == 0 {
		return "GROUP"
	}
	switch r := rows[0]; {
	case r.Airline != "":
		return "AIRLINE"
	case r.Hour != nil:
		return "HOUR"
	default:
		return "ROUTE"
	}
}
