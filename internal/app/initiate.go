package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkglog"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgvalidator"
)

func (a *App) initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}
	pkglog.Init(pkglog.Options{Writer: os.Stdout, Level: level})

	a.config = cfg
	a.addCloser("Config", func(context.Context) error { return cfg.Close() })
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
	a.validator = pkgvalidator.New()
	a.registry = pkgmetrics.NewRegistry()

	datasetID, err := pkguid.NewBase58()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.datasetID = datasetID
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)
	a.router.Handle(http.MethodGet, "/metrics", pkgmetrics.Handler(a.registry))

	origins := a.config.GetStrings("cors.allowed_origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !slices.Contains(origins, "*"),
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
