package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Domenick1991/flightdata/internal/cli"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/spf13/cobra"
)

var flightCmd = &cobra.Command{
	Use:   "flight <id>",
	Short: "Show a flight by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlight,
}

var dateCmd = &cobra.Command{
	Use:   "date <DD/MM/YYYY>",
	Short: "Show flights departing on a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runDate,
}

var (
	delayedAirline string
	delayedAirport string
)

var delayedCmd = &cobra.Command{
	Use:   "delayed",
	Short: "Show delayed flights for an airline or origin airport",
	Long: `Lists flights whose departure delay reached the configured threshold.
Exactly one of --airline or --airport must be given.`,
	Args: cobra.NoArgs,
	RunE: runDelayed,
}

var chartCmd = &cobra.Command{
	Use:       "chart <airline|hour|airports>",
	Short:     "Print delay percentages and write them as a PDF chart",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(domain.DelayByAirline), string(domain.DelayByHour), string(domain.DelayByAirports)},
	RunE:      runChart,
}

var mapRoutes int

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write the most frequent routes as a GeoJSON map",
	Args:  cobra.NoArgs,
	RunE:  runMap,
}

func init() {
	delayedCmd.Flags().StringVar(&delayedAirline, "airline", "", "airline name")
	delayedCmd.Flags().StringVar(&delayedAirport, "airport", "", "origin airport IATA code")
	delayedCmd.MarkFlagsMutuallyExclusive("airline", "airport")
	delayedCmd.MarkFlagsOneRequired("airline", "airport")

	mapCmd.Flags().IntVar(&mapRoutes, "routes", 0, "number of routes to draw, 0 for all")
}

func runFlight(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flight id %q", args[0])
	}
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		return app.ShowFlight(ctx, id)
	})
}

func runDate(cmd *cobra.Command, args []string) error {
	date, err := cli.ParseDate(args[0])
	if err != nil {
		return fmt.Errorf("invalid date %q: expected DD/MM/YYYY", args[0])
	}
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		return app.ShowFlightsByDate(ctx, date)
	})
}

func runDelayed(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		switch {
		case delayedAirline != "":
			return app.ShowDelayedByAirline(ctx, delayedAirline)
		case delayedAirport != "":
			return app.ShowDelayedByAirport(ctx, delayedAirport)
		default:
			return errors.New("one of --airline or --airport is required")
		}
	})
}

func runChart(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		path, err := app.Chart(ctx, domain.DelayCategory(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", path)
		return nil
	})
}

func runMap(cmd *cobra.Command, args []string) error {
	if mapRoutes < 0 {
		return errors.New("--routes must be zero or positive")
	}
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		path, err := app.RouteMap(ctx, mapRoutes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Map saved to %s\n", path)
		return nil
	})
}
