package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/navikt/gds-console/pkg/cache"
	"github.com/navikt/gds-console/pkg/config/v2"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/requestlogger"
	"github.com/navikt/gds-console/pkg/service/core"
	apiclients "github.com/navikt/gds-console/pkg/service/core/api"
	"github.com/navikt/gds-console/pkg/service/core/handlers"
	"github.com/navikt/gds-console/pkg/service/core/routes"
	"github.com/navikt/gds-console/pkg/service/core/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

var (
	configFilePath = flag.String("config", "config.yaml", "path to config file")
	printRoutes    = flag.Bool("print-routes", false, "print the route table and exit")
)

var promErrs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gds_console",
	Name:      "errors",
}, []string{"location"})

func main() {
	flag.Parse()

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, "GDS", config.NewDefaultEnvBinder())
	if err != nil {
		zlog.Fatal().Err(err).Msg("loading config")
	}

	err = cfg.Validate()
	if err != nil {
		zlog.Fatal().Err(err).Msg("validating config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		zlog.Fatal().Err(err).Msg("parsing log level")
	}

	zlog = zlog.Level(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	httpClient := &http.Client{
		Timeout: cfg.Ranger.Timeout(),
	}

	gdsClient := gds.New(cfg.Ranger.APIURL, cfg.Ranger.Username, cfg.Ranger.Password, httpClient)

	cacher, err := cache.New(cfg.Cache.ServiceDefTTL(), cfg.Cache.MaxEntries, zlog.With().Str("component", "cache").Logger())
	if err != nil {
		zlog.Fatal().Err(err).Msg("setting up cache")
	}
	defer cacher.Close()

	stores := storage.NewStores(cfg, zlog)
	apiClients := apiclients.NewClients(cacher, gdsClient, cfg, zlog)

	viewService := core.NewDataShareViewService(
		apiClients.DataShareAPI,
		apiClients.DataShareAnnouncer,
		stores.ViewStorage,
		cfg.Console.ItemsPerPage,
		cfg.Console.BaseURL,
		zlog.With().Str("component", "datashare_views").Logger(),
	)

	go stores.ViewJanitor.Run(ctx, cfg.Console.ViewJanitorInterval())

	h := handlers.NewHandlers(core.NewServices(viewService), zlog)

	cols := append(apiClients.Metrics(), stores.ViewJanitor.Metrics()...)
	cols = append(cols, viewService.Metrics()...)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestlogger.Middleware(zlog, "/internal/metrics", "/internal/isalive"))

	routes.Add(router, cfg.Console.AllowedOrigins,
		routes.NewDataShareViewRoutes(routes.NewDataShareViewEndpoints(zlog, h.DataShareViewHandler)),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(prom(cols...))),
		routes.NewHealthRoutes(),
	)

	if *printRoutes {
		err = routes.Print(router, os.Stdout)
		if err != nil {
			zlog.Fatal().Err(err).Msg("printing routes")
		}

		return
	}

	server := http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Address, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zlog.Info().Msgf("Listening on %s", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			promErrs.WithLabelValues("server").Inc()
			zlog.Fatal().Err(err).Msg("serving")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn().Err(err).Msg("Shutdown error")
	}
}

func prom(cols ...prometheus.Collector) *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(promErrs)
	r.MustRegister(collectors.NewGoCollector())
	r.MustRegister(cols...)

	return r
}
