package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkglog"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgvalidator"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	datasetID pkguid.StringID
	goroutine *pkgroutine.Manager
	validator *pkgvalidator.Validator
	registry  *prometheus.Registry

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}
