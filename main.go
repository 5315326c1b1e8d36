// Tube Twin forecasts monthly passenger taps at London Underground stations.
//
// Usage:
//
//	tube-twin serve [--port 8080]
//	tube-twin forecast --station "Green Park" --at 2022-06
//	tube-twin forecast --station Bank --station "Green Park" --from 2022-03 --to 2022-08 --format json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"tube-twin/config"
	"tube-twin/di"
	"tube-twin/forecast"
	"tube-twin/models/station_forecast"
	"tube-twin/timeseries"
)

var version = "dev"

func main() {
	defaults := config.Load()

	app := &cli.App{
		Name:    "tube-twin",
		Usage:   "Forecast monthly station taps on the London Underground",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: defaults.Env, Usage: "Environment (prod, development)"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level (debug, info, warn, error)", EnvVars: []string{"LOG_LEVEL"}},
			&cli.StringFlag{Name: "counts", Value: defaults.CountsPath, Usage: "Station counts CSV: path, http(s) URL, gs:// object or postgres:// DSN"},
			&cli.StringFlag{Name: "counts-table", Value: defaults.CountsTable, Usage: "Table read when --counts is a postgres DSN"},
			&cli.StringFlag{Name: "codes", Value: defaults.CodesPath, Usage: "Station name to NLC CSV"},
			&cli.StringFlag{Name: "stations", Value: defaults.StationsPath, Usage: "Station coordinates CSV, empty to skip"},
			&cli.StringFlag{Name: "connections", Value: defaults.ConnectionsPath, Usage: "Station connections CSV, empty to skip"},
			&cli.StringFlag{Name: "offset-mode", Value: defaults.OffsetMode, Usage: "Month offset arithmetic (calendar, legacy)"},
			&cli.IntFlag{Name: "workers", Value: defaults.SearchWorkers, Usage: "Candidate orders fitted in parallel"},
			&cli.IntFlag{Name: "max-horizon", Value: defaults.MaxHorizon, Usage: "Furthest forecast month, counted from the last observation"},
		},
		Before: setupLogging,

		Commands: []*cli.Command{
			serveCommand(defaults),
			forecastCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.String("env") == config.ENV_DEVELOPMENT {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// configFrom overlays the global flags onto the environment configuration.
func configFrom(c *cli.Context) config.Config {
	cfg := config.Load()
	cfg.Env = c.String("env")
	cfg.CountsPath = c.String("counts")
	cfg.CountsTable = c.String("counts-table")
	cfg.CodesPath = c.String("codes")
	cfg.StationsPath = c.String("stations")
	cfg.ConnectionsPath = c.String("connections")
	cfg.OffsetMode = c.String("offset-mode")
	cfg.SearchWorkers = c.Int("workers")
	cfg.MaxHorizon = c.Int("max-horizon")
	return cfg
}

func serveCommand(defaults config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: defaults.Port, Usage: "Listen port"},
			&cli.StringFlag{Name: "redis", Value: defaults.RedisAddress, Usage: "Redis address for the station geo index"},
			&cli.DurationFlag{Name: "timeout", Value: defaults.ForecastTimeout, Usage: "Per-request forecast deadline"},
			&cli.DurationFlag{Name: "index-refresh", Value: defaults.IndexRefresh, Usage: "Station index refresh interval, 0 to disable"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			cfg.Port = c.String("port")
			cfg.RedisAddress = c.String("redis")
			cfg.ForecastTimeout = c.Duration("timeout")
			cfg.IndexRefresh = c.Duration("index-refresh")

			ctx := c.Context
			container, err := di.NewContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.StationIndexService.IndexStations(); err != nil {
				log.Error().Err(err).Msg("[Main] Initial station index failed")
			}
			if cfg.IndexRefresh > 0 {
				container.StationIndexService.StartPeriodicJob(ctx, cfg.IndexRefresh)
			}

			return container.TubeTwinHttpServer.Start(ctx)
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast one or more stations and print the result",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "station", Aliases: []string{"s"}, Usage: "Station name or NLC, repeatable", Required: true},
			&cli.StringFlag{Name: "at", Usage: "Single target month (YYYY-MM)"},
			&cli.StringFlag{Name: "from", Usage: "First month of a range (YYYY-MM)"},
			&cli.StringFlag{Name: "to", Usage: "Last month of a range (YYYY-MM)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format (text, json)"},
			&cli.DurationFlag{Name: "timeout", Value: config.DEFAULT_FORECAST_TIMEOUT, Usage: "Deadline for the whole run"},
		},
		Action: func(c *cli.Context) error {
			req, err := requestFromFlags(c.String("at"), c.String("from"), c.String("to"))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			core, err := di.NewCore(ctx, configFrom(c))
			if err != nil {
				return err
			}
			results, err := core.ForecastService.ForecastMany(ctx, c.StringSlice("station"), req)
			if err != nil {
				return err
			}

			switch c.String("format") {
			case "json":
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			case "text":
				return printForecasts(c.App.Writer, results)
			}
			return fmt.Errorf("unknown format %q", c.String("format"))
		},
	}
}

func requestFromFlags(at, from, to string) (forecast.Request, error) {
	var req forecast.Request
	var err error
	switch {
	case at != "" && from == "" && to == "":
		req.From, err = timeseries.ParseMonth(at)
	case at == "" && from != "":
		if req.From, err = timeseries.ParseMonth(from); err == nil && to != "" {
			req.To, err = timeseries.ParseMonth(to)
		}
	default:
		err = fmt.Errorf("pass either --at or --from [--to]")
	}
	return req, err
}

func printForecasts(w io.Writer, results []*station_forecast.StationForecastResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s (NLC %d)\tSARIMA%s\tAIC %.2f\tlast observed %s\n",
			r.Station, r.NLC, r.Model.Order, r.Model.AIC, r.LastObserved)
		for _, p := range r.Forecast {
			fmt.Fprintf(tw, "\t%s\t%.0f\t\n", p.Month, p.CountOfTaps)
		}
	}
	return tw.Flush()
}
