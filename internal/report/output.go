package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Default file names under the output directory.
const (
	AirlineChartFile    = "delay_by_airline.pdf"
	HourChartFile       = "delay_by_hour.pdf"
	AirportsHeatmapFile = "delay_by_airports.pdf"
	RouteMapFile        = "flight_map.geojson"
)

// Save creates dir if needed and writes name through write. It returns the file path.
func Save(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
