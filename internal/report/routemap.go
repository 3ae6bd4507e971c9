package report

import (
	"fmt"
	"sort"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type airportDelay struct {
	total float64
	count int
	point orb.Point
}

// RouteMap builds a FeatureCollection of the first n routes (all when n <= 0) and their
// airports. Routes arrive most frequent first. Each airport carries the mean delay
// percentage of the routes it appears on.
func RouteMap(routes []domain.Route, n int) *geojson.FeatureCollection {
	if n <= 0 || n > len(routes) {
		n = len(routes)
	}

	fc := geojson.NewFeatureCollection()
	airports := map[string]*airportDelay{}
	add := func(code string, p orb.Point, pct float64) {
		a, ok := airports[code]
		if !ok {
			a = &airportDelay{}
			airports[code] = a
		}
		a.total += pct
		a.count++
		a.point = p
	}

	for _, r := range routes[:n] {
		origin := orb.Point{r.OriginLon, r.OriginLat}
		dest := orb.Point{r.DestinationLon, r.DestinationLat}
		add(r.OriginAirport, origin, r.DelayPercentage)
		add(r.DestinationAirport, dest, r.DelayPercentage)

		color := DelayColor(r.DelayPercentage)
		f := geojson.NewFeature(orb.LineString{origin, dest})
		f.Properties["kind"] = "route"
		f.Properties["origin"] = r.OriginAirport
		f.Properties["destination"] = r.DestinationAirport
		f.Properties["origin_city"] = r.OriginCity
		f.Properties["destination_city"] = r.DestinationCity
		f.Properties["frequency"] = r.Frequency
		f.Properties["delay_percentage"] = r.DelayPercentage
		f.Properties["color"] = color
		f.Properties["stroke"] = colorHex[color]
		f.Properties["stroke-width"] = 4.5
		f.Properties["stroke-opacity"] = 0.7
		fc.Append(f)
	}

	codes := make([]string, 0, len(airports))
	for code := range airports {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		a := airports[code]
		avg := a.total / float64(a.count)
		color := DelayColor(avg)
		f := geojson.NewFeature(a.point)
		f.Properties["kind"] = "airport"
		f.Properties["airport"] = code
		f.Properties["avg_delay_percentage"] = avg
		f.Properties["description"] = fmt.Sprintf("Airport: %s, Avg Delay: %.2f%%", code, avg)
		f.Properties["color"] = color
		f.Properties["marker-color"] = colorHex[color]
		f.Properties["marker-symbol"] = "airport"
		fc.Append(f)
	}
	return fc
}
