package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"busmap.org/internal/app"
	"busmap.org/internal/models"
	"busmap.org/internal/tui"
	"busmap.org/internal/utils"
)

var nearCmd = &cobra.Command{
	Use:   "near [lat,lon]",
	Short: "Print departures near a location",
	Long: `Prints the stop groups around lat,lon, soonest first. Without
coordinates the last stored location or the configured default is used.
The point is a single argument so western longitudes aren't read as flags:

  busmap near 40.76,-73.99`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNear,
}

func init() {
	nearCmd.Flags().Int("zoom", 0, "Map zoom to search at (default from config)")
	nearCmd.Flags().Int("select", 0, "Show the route of the Nth group (1-based)")
}

func runNear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") && os.Getenv("BUSMAP_LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	cfg.LogFormat = "text"
	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	s, err := newSession(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer s.Close(logger)

	vp := s.app.InitialViewport(ctx)
	if len(args) == 1 {
		center, err := parseCenterArg(args[0])
		if err != nil {
			return err
		}
		vp = app.ViewportAround(center, vp.Zoom)
	}
	if zoom, _ := cmd.Flags().GetInt("zoom"); zoom > 0 {
		if err := utils.ValidateZoom(zoom); err != nil {
			return err
		}
		vp = app.ViewportAround(vp.Center, zoom)
	}

	s.app.OnViewportChanged(vp)
	s.app.Wait()

	report := s.app.Status()
	if report.Status == app.StatusFailed {
		return fmt.Errorf("fetching stops: %s", report.Error)
	}

	printer := tui.NewPrinter(cmd.OutOrStdout())
	views := s.app.GroupViews(time.Now(), true)
	if err := printer.Groups(views); err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("select")
	if n <= 0 {
		return nil
	}
	if n > len(views) {
		return fmt.Errorf("--select %d: only %d groups", n, len(views))
	}

	sel, err := s.app.OnGroupSelected(ctx, views[n-1].Key)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return printer.Selection(sel)
}

// parseCenterArg parses "lat,lon".
func parseCenterArg(arg string) (models.CoordinatePoint, error) {
	latArg, lonArg, ok := strings.Cut(arg, ",")
	if !ok {
		return models.CoordinatePoint{}, fmt.Errorf("invalid location %q: want lat,lon", arg)
	}
	return parseCenter(strings.TrimSpace(latArg), strings.TrimSpace(lonArg))
}

func parseCenter(latArg, lonArg string) (models.CoordinatePoint, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return models.CoordinatePoint{}, fmt.Errorf("invalid latitude %q", latArg)
	}
	lon, err := strconv.ParseFloat(lonArg, 64)
	if err != nil {
		return models.CoordinatePoint{}, fmt.Errorf("invalid longitude %q", lonArg)
	}
	if err := utils.ValidateLatitude(lat); err != nil {
		return models.CoordinatePoint{}, err
	}
	if err := utils.ValidateLongitude(lon); err != nil {
		return models.CoordinatePoint{}, err
	}
	return models.CoordinatePoint{Lat: lat, Lon: lon}, nil
}
