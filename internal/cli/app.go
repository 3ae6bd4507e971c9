// Package cli is the terminal front end: a numbered menu over the flight queries plus
// the actions the flightctl subcommands call directly.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/report"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/paulmach/orb/geojson"
)

// DateLayout accepts DD/MM/YYYY with or without leading zeros.
const DateLayout = "2/1/2006"

const tryAgain = "Try again..."

// ErrExit is returned by a menu action that ends the session.
var ErrExit = errors.New("exit")

type menuItem struct {
	title  string
	action func(ctx context.Context) error
}

type App struct {
	service   flights.FlightUseCase
	in        *bufio.Scanner
	out       io.Writer
	outputDir string
	menu      []menuItem
}

type AppOption func(*App)

// WithOutputDir sets where charts and maps are written.
func WithOutputDir(dir string) AppOption {
	return func(a *App) {
		a.outputDir = dir
	}
}

func NewApp(service flights.FlightUseCase, in io.Reader, out io.Writer, opts ...AppOption) *App {
	a := &App{
		service:   service,
		in:        bufio.NewScanner(in),
		out:       out,
		outputDir: ".",
	}
	for _, opt := range opts {
		opt(a)
	}
	a.menu = []menuItem{
		{"Show flight by ID", a.flightByID},
		{"Show flights by date", a.flightsByDate},
		{"Delayed flights by airline", a.delayedByAirline},
		{"Delayed flights by origin airport", a.delayedByAirport},
		{"Visualize airline delay percentages", a.chart(domain.DelayByAirline)},
		{"Visualize delay percentages by hour", a.chart(domain.DelayByHour)},
		{"Visualize delay percentages by origin and destination airports", a.chart(domain.DelayByAirports)},
		{"Visualize flight routes and delay percentages on map", a.routeMap},
		{"Exit", func(context.Context) error { return ErrExit }},
	}
	return a
}

// Run shows the menu until Exit is chosen, input ends or ctx is cancelled.
// Failed queries are reported and the menu is shown again.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, ok := a.choose()
		if !ok {
			return nil
		}
		err := item.action(ctx)
		switch {
		case errors.Is(err, ErrExit), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (a *App) choose() (menuItem, bool) {
	fmt.Fprintln(a.out, "Menu:")
	for i, item := range a.menu {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, item.title)
	}
	for {
		line, err := a.readLine("")
		if err != nil {
			return menuItem{}, false
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(a.menu) {
			return a.menu[n-1], true
		}
		fmt.Fprintln(a.out, tryAgain)
	}
}

// readLine prints prompt and returns the next trimmed line, or io.EOF once input is exhausted.
func (a *App) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(a.out, prompt)
	}
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) flightByID(ctx context.Context) error {
	for {
		line, err := a.readLine("Enter flight ID: ")
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintln(a.out, tryAgain)
			continue
		}
		return a.ShowFlight(ctx, id)
	}
}

func (a *App) flightsByDate(ctx context.Context) error {
	for {
		line, err := a.readLine("Enter date in DD/MM/YYYY format: ")
		if err != nil {
			return err
		}
		date, err := ParseDate(line)
		if err != nil {
			fmt.Fprintln(a.out, tryAgain, err)
			continue
		}
		return a.ShowFlightsByDate(ctx, date)
	}
}

func (a *App) delayedByAirline(ctx context.Context) error {
	airline, err := a.readLine("Enter airline name: ")
	if err != nil {
		return err
	}
	return a.ShowDelayedByAirline(ctx, airline)
}

func (a *App) delayedByAirport(ctx context.Context) error {
	for {
		line, err := a.readLine("Enter origin airport IATA code: ")
		if err != nil {
			return err
		}
		if _, err := flights.NormalizeIATA(line); err != nil {
			continue
		}
		return a.ShowDelayedByAirport(ctx, line)
	}
}

func (a *App) chart(category domain.DelayCategory) func(context.Context) error {
	return func(ctx context.Context) error {
		path, err := a.Chart(ctx, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Chart saved to %s\n", path)
		return nil
	}
}

func (a *App) routeMap(ctx context.Context) error {
	fmt.Fprintln(a.out, "The map will show the flight paths with the most flights.")
	var n int
	for {
		line, err := a.readLine("Please enter how many routes you want to see (or leave empty for all routes): ")
		if err != nil {
			return err
		}
		if line == "" {
			break
		}
		v, err := strconv.Atoi(line)
		if err == nil && v >= 0 {
			n = v
			break
		}
		fmt.Fprintln(a.out, "Error. Input must be a positive, whole number or blank.")
	}
	path, err := a.RouteMap(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Map saved to %s\n", path)
	return nil
}

// ParseDate reads a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func (a *App) ShowFlight(ctx context.Context, id int64) error {
	res, err := a.service.GetByID(ctx, id)
	if err != nil {
		return err
	}
	report.PrintFlights(a.out, res)
	return nil
}

func (a *App) ShowFlightsByDate(ctx context.Context, date time.Time) error {
	res, err := a.service.ListByDate(ctx, date.Day(), int(date.Month()), date.Year())
	if err != nil {
		return err
	}
	report.PrintFlights(a.out, res)
	return nil
}

func (a *App) ShowDelayedByAirline(ctx context.Context, airline string) error {
	res, err := a.service.ListDelayedByAirline(ctx, airline)
	if err != nil {
		return err
	}
	report.PrintFlights(a.out, res)
	return nil
}

func (a *App) ShowDelayedByAirport(ctx context.Context, airport string) error {
	res, err := a.service.ListDelayedByAirport(ctx, airport)
	if err != nil {
		return err
	}
	report.PrintFlights(a.out, res)
	return nil
}

// Chart prints the percentages for category as a table and writes the matching PDF.
// It returns the written file path.
func (a *App) Chart(ctx context.Context, category domain.DelayCategory) (string, error) {
	rows, err := a.service.DelayPercentage(ctx, category)
	if err != nil {
		return "", err
	}
	report.PrintPercentages(a.out, rows)

	name, write := chartWriter(category)
	if write == nil {
		return "", flights.InvalidCategoryError()
	}
	return report.Save(a.outputDir, name, func(w io.Writer) error {
		return write(w, rows)
	})
}

func chartWriter(category domain.DelayCategory) (string, func(io.Writer, []domain.DelayPercentage) error) {
	switch category {
	case domain.DelayByAirline:
		return report.AirlineChartFile, report.WriteAirlineChart
	case domain.DelayByHour:
		return report.HourChartFile, report.WriteHourChart
	case domain.DelayByAirports:
		return report.AirportsHeatmapFile, report.WriteAirportsHeatmap
	default:
		return "", nil
	}
}

// RouteMap writes the top n routes as GeoJSON. n <= 0 means every route.
func (a *App) RouteMap(ctx context.Context, n int) (string, error) {
	routes, err := a.service.FrequentRoutes(ctx)
	if err != nil {
		return "", err
	}
	fc := report.RouteMap(routes, n)
	return report.Save(a.outputDir, report.RouteMapFile, func(w io.Writer) error {
		return writeGeoJSON(w, fc)
	})
}

func writeGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}
