// Command flightctl queries the flight database from a terminal. Without a subcommand it
// starts the interactive menu.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/cli"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/repository"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:   "flightctl",
	Short: "Query flight records and delay statistics",
	Long: `flightctl reads the flights database configured in config.yaml.

Run it without arguments for the interactive menu, or use a subcommand
for a single query. Charts are written as PDF and route maps as GeoJSON.`,
	SilenceUsage: true,
	RunE:         runMenu,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		return app.Run(ctx)
	})
}

func init() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config file")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "", "directory for charts and maps (default from config)")

	rootCmd.AddCommand(menuCmd, flightCmd, dateCmd, delayedCmd, chartCmd, mapCmd)
}

// withApp opens the store and hands fn a ready App. Unlike the API server, flightctl
// fails fast when the database is unavailable.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}
	defer store.Close()

	dir := outputDir
	if dir == "" {
		dir = cfg.Report.OutputDir
	}
	service := flights.NewFlightService(repository.NewFlightRepository(store), cfg.Query.DelayThresholdMinutes)
	app := cli.NewApp(service, cmd.InOrStdin(), cmd.OutOrStdout(), cli.WithOutputDir(dir))
	return fn(ctx, app)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
