package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"tube-twin/config"
	"tube-twin/dao/redis"
	"tube-twin/dataset"
	"tube-twin/db"
	"tube-twin/forecast"
	"tube-twin/server"
	"tube-twin/server/handlers"
	services "tube-twin/service"
)

// Core holds what the forecast command and the server both need.
type Core struct {
	Config          config.Config
	Dataset         *dataset.Dataset
	Forecaster      *forecast.Forecaster
	ForecastService *services.ForecastService
}

// Container holds all application dependencies.
type Container struct {
	*Core
	RedisClient         db.RedisClient
	RedisStationDao     *redis.RedisStationDAO
	StationIndexService *services.StationIndexService
	NetworkService      *services.NetworkService
	StationHandler      *handlers.StationHandler
	ForecastHandler     *handlers.ForecastHandler
	NetworkHandler      *handlers.NetworkHandler
	MuxRouter           *mux.Router
	Router              *server.Router
	TubeTwinHttpServer  *server.TubeTwinHttpServer

	closers []func() error
}

// ForecastOptions turns the configuration into forecaster options.
func ForecastOptions(cfg config.Config) (forecast.Options, error) {
	mode, err := forecast.ParseOffsetMode(cfg.OffsetMode)
	if err != nil {
		return forecast.Options{}, err
	}
	opts := forecast.DefaultOptions()
	opts.OffsetMode = mode
	opts.MaxHorizon = cfg.MaxHorizon
	if cfg.SearchWorkers > 0 {
		opts.Search.Workers = cfg.SearchWorkers
	}
	return opts, nil
}

// NewCore loads the dataset once and wires the forecasting stack on top of it.
func NewCore(ctx context.Context, cfg config.Config) (*Core, error) {
	opts, err := ForecastOptions(cfg)
	if err != nil {
		return nil, err
	}

	opener := dataset.NewOpener()
	if gcs, ok := opener.Objects.(*dataset.GCSStore); ok {
		defer gcs.Close()
	}
	loader := dataset.NewLoader(opener, dataset.Locations{
		Counts:       cfg.CountsPath,
		CountsTable:  cfg.CountsTable,
		StationCodes: cfg.CodesPath,
		Stations:     cfg.StationsPath,
		Connections:  cfg.ConnectionsPath,
	})
	d, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	forecaster := forecast.NewForecaster(d, opts)
	log.Info().
		Str("offset_mode", string(opts.OffsetMode)).
		Int("workers", opts.Search.Workers).
		Int("max_horizon", opts.MaxHorizon).
		Msg("[Container] Forecaster ready")

	return &Core{
		Config:          cfg,
		Dataset:         d,
		Forecaster:      forecaster,
		ForecastService: services.NewForecastService(d, forecaster),
	}, nil
}

// NewContainer initializes and wires up all dependencies. Outside prod an
// in-memory Redis stands in for the real one.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	log.Info().Str("env", cfg.Env).Msg("[Container] initializing container")

	core, err := NewCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := &Container{Core: core}

	if cfg.Env != config.ENV_PROD {
		log.Info().Msg("[Container] Using mock redis")
		c.RedisClient = db.NewMockRedisClient(ctx)
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
		if err != nil {
			redisInternalClient.Close()
			return nil, err
		}
		c.RedisClient = redisClient
		c.closers = append(c.closers, redisClient.Close)
	}

	c.RedisStationDao = redis.NewRedisStationDAO(c.RedisClient)
	c.StationIndexService = services.NewStationIndexService(c.RedisStationDao, core.Dataset.Stations)
	c.NetworkService, err = services.NewNetworkService(core.Dataset)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.StationHandler = handlers.NewStationHandler(core.ForecastService, c.StationIndexService)
	c.ForecastHandler = handlers.NewForecastHandler(core.ForecastService, cfg.ForecastTimeout)
	c.NetworkHandler = handlers.NewNetworkHandler(c.NetworkService)

	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.StationHandler, c.ForecastHandler, c.NetworkHandler, c.MuxRouter, log.Logger)
	c.TubeTwinHttpServer = server.NewTubeTwinHttpServer(c.Router, c.MuxRouter, ":"+cfg.Port)
	return c, nil
}

// Close releases external connections.
func (c *Container) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
