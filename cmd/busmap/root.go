package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"busmap.org/internal/app"
	"busmap.org/internal/appconf"
	"busmap.org/internal/busapi"
	"busmap.org/internal/locstore"
	"busmap.org/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "busmap",
	Short: "Departures and route maps for the stops around you",
	Long: `busmap groups nearby transit stops by direction of travel, lists their
next departures and draws the route of a selected stop. It serves a JSON API
for a browser map or prints departures to the terminal.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("env", "", "Environment (development|test|production)")
	flags.String("source", "", "Base URL of the transit data source")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("location-db", "", "SQLite file remembering the last map location")
	flags.String("policy", "", "What a viewport change does while a fetch is running (abort|reject)")

	rootCmd.AddCommand(serveCmd, nearCmd)
}

// loadConfig reads the config file and environment, then applies any flags
// the user set.
func loadConfig(cmd *cobra.Command) (appconf.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := appconf.Load(path)
	if err != nil {
		return appconf.Config{}, err
	}

	overrides := map[string]*string{
		"env":         &cfg.EnvName,
		"source":      &cfg.DataSource.BaseURL,
		"log-level":   &cfg.LogLevel,
		"location-db": &cfg.LocationDB,
		"policy":      &cfg.Map.ViewportPolicy,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("api-keys") {
		keys, _ := cmd.Flags().GetString("api-keys")
		cfg.ApiKeys = appconf.SplitList(keys)
	}
	cfg.Env = appconf.EnvFlagToEnvironment(cfg.EnvName)

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg appconf.Config, w io.Writer) *slog.Logger {
	return logging.NewLogger(w, cfg.SlogLevel(), cfg.LogFormat)
}

// session is an Application with the resources it was built from.
type session struct {
	app       *app.Application
	client    *busapi.Client
	locations *locstore.Store
}

func newSession(ctx context.Context, cfg appconf.Config, logger *slog.Logger, observer interface {
	app.Observer
	busapi.Observer
}) (*session, error) {
	clientOpts := []busapi.Option{}
	appOpts := []app.Option{}
	if observer != nil {
		clientOpts = append(clientOpts, busapi.WithObserver(observer))
		appOpts = append(appOpts, app.WithObserver(observer))
	}

	client, err := busapi.NewClient(busapi.Config{
		BaseURL:           cfg.DataSource.BaseURL,
		AuthHeaderKey:     cfg.DataSource.AuthHeaderKey,
		AuthHeaderValue:   cfg.DataSource.AuthHeaderValue,
		Timeout:           cfg.DataSource.Timeout,
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
	}, logger, clientOpts...)
	if err != nil {
		return nil, logging.StartupError(logger, "invalid data source", err)
	}

	s := &session{client: client}

	if cfg.LocationDB != "" {
		store, err := locstore.Open(ctx, cfg.LocationDB, cfg.Env, logger)
		if err != nil {
			return nil, logging.StartupError(logger, "unable to open location store", err)
		}
		s.locations = store
		appOpts = append(appOpts, app.WithLocationStore(store))
	}

	s.app, err = app.New(cfg, client, logger, appOpts...)
	if err != nil {
		s.Close(logger)
		return nil, fmt.Errorf("creating application: %w", err)
	}

	return s, nil
}

func (s *session) Close(logger *slog.Logger) {
	if s.app != nil {
		s.app.Close()
	}
	if s.locations != nil {
		logging.SafeCloseWithLogging(s.locations, logger, "location_store")
	}
}
